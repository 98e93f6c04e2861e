package httpapi

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"orderdash/internal/model"
	"orderdash/internal/orders"
)

// ordersQuery is the parsed form of /orders query parameters.
type ordersQuery struct {
	start, end time.Time
	filters    *model.Filters
	sort       orders.SortField
	desc       bool
}

// parseOrdersQuery reads start/end, or a preset, falling back to the
// dashboard default of the last seven days.
func parseOrdersQuery(q url.Values, now time.Time, loc *time.Location) (ordersQuery, error) {
	var out ordersQuery
	var err error

	startStr, endStr, preset := q.Get("start"), q.Get("end"), q.Get("preset")
	switch {
	case startStr != "" || endStr != "":
		if startStr == "" || endStr == "" {
			return out, fmt.Errorf("start and end must be given together: %w", orders.ErrInvalidArgument)
		}
		if out.start, err = orders.ParseDate(startStr, loc); err != nil {
			return out, err
		}
		if out.end, err = orders.ParseDate(endStr, loc); err != nil {
			return out, err
		}
	case preset != "":
		if out.start, out.end, err = orders.PresetRange(preset, now.In(loc)); err != nil {
			return out, err
		}
	default:
		out.start, out.end, _ = orders.PresetRange(orders.PresetLast7Days, now.In(loc))
	}
	if err := orders.CheckSpan(out.start, out.end, orders.MaxRangeDays); err != nil {
		return out, err
	}

	f := &model.Filters{
		StoreNames:    listParam(q, "store"),
		SupplierNames: listParam(q, "supplier"),
		ItemNumbers:   listParam(q, "item"),
	}
	if !f.Empty() {
		out.filters = f
	}

	if out.sort, err = orders.ParseSortField(q.Get("sort")); err != nil {
		return out, err
	}
	if d := q.Get("desc"); d != "" {
		if out.desc, err = strconv.ParseBool(d); err != nil {
			return out, fmt.Errorf("desc %q: %w", d, orders.ErrInvalidArgument)
		}
	}
	return out, nil
}

// listParam accepts repeated and comma-separated values; nil when absent.
func listParam(q url.Values, key string) []string {
	var out []string
	for _, raw := range q[key] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func parseWindow(q url.Values) (int, error) {
	w := q.Get("window")
	if w == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(w)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("window %q: %w", w, orders.ErrInvalidArgument)
	}
	return n, nil
}
