package orders

import (
	"fmt"
	"strings"
	"time"
)

// ParseDate reads a YYYY-MM-DD date at midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, ErrInvalidArgument)
	}
	return t, nil
}

// Preset names offered by the date range picker.
const (
	PresetToday      = "Today"
	PresetLast3Days  = "Last 3 Days"
	PresetLast7Days  = "Last 7 Days"
	PresetLast14Days = "Last 14 Days"
	PresetLast30Days = "Last 30 Days"
)

var presetDays = []struct {
	name string
	days int
}{
	{PresetToday, 1},
	{PresetLast3Days, 3},
	{PresetLast7Days, 7},
	{PresetLast14Days, 14},
	{PresetLast30Days, 30},
}

// PresetNames lists presets in picker order.
func PresetNames() []string {
	out := make([]string, len(presetDays))
	for i, p := range presetDays {
		out[i] = p.name
	}
	return out
}

// PresetRange resolves a preset to a date-only range ending on now's day.
func PresetRange(name string, now time.Time) (start, end time.Time, err error) {
	for _, p := range presetDays {
		if p.name != name {
			continue
		}
		end = startOfDay(now, now.Location())
		return end.AddDate(0, 0, -(p.days - 1)), end, nil
	}
	return time.Time{}, time.Time{}, fmt.Errorf("unknown preset %q: %w", name, ErrInvalidArgument)
}

// MaxRangeDays caps the inclusive span of a dashboard query.
const MaxRangeDays = 366

// CheckSpan rejects ranges covering more than maxDays calendar days, counted
// in start's location. Inverted ranges pass; they generate nothing.
func CheckSpan(start, end time.Time, maxDays int) error {
	loc := start.Location()
	first := startOfDay(start, loc)
	last := startOfDay(end.In(loc), loc)
	if last.Before(first) {
		return nil
	}
	if days := int(last.Sub(first).Hours()/24+0.5) + 1; days > maxDays {
		return fmt.Errorf("range of %d days exceeds %d: %w", days, maxDays, ErrInvalidArgument)
	}
	return nil
}
