package httpapi

import (
	"net/http"
	"time"

	"orderdash/internal/metrics"
	"orderdash/internal/model"
	"orderdash/internal/orders"
	"orderdash/internal/query"
	"orderdash/internal/rollup"
)

type App struct {
	Service  *query.Service
	Metrics  *metrics.Registry
	Location *time.Location
	// Now is split out so tests can pin "today".
	Now     func() time.Time
	started time.Time
}

func NewApp(svc *query.Service, m *metrics.Registry, loc *time.Location) *App {
	if loc == nil {
		loc = time.Local
	}
	return &App{Service: svc, Metrics: m, Location: loc, Now: time.Now, started: time.Now()}
}

type lineItemView struct {
	model.OrderLineItem
	TotalPrice float64 `json:"totalPrice"`
}

type orderView struct {
	OrderNumber    string         `json:"orderNumber"`
	StoreName      string         `json:"storeName"`
	OrderDate      string         `json:"orderDate"`
	SubtotalAmount float64        `json:"subtotalAmount"`
	TotalAmount    float64        `json:"totalAmount"`
	LineItems      []lineItemView `json:"lineItems"`
}

type ordersResponse struct {
	StartDate string        `json:"startDate"`
	EndDate   string        `json:"endDate"`
	Summary   model.Summary `json:"summary"`
	Orders    []orderView   `json:"orders"`
}

func toView(o model.Order) orderView {
	v := orderView{
		OrderNumber:    o.OrderNumber,
		StoreName:      o.StoreName,
		OrderDate:      o.OrderDate.Format(orders.DateLayout),
		SubtotalAmount: o.SubtotalAmount,
		TotalAmount:    o.TotalAmount,
		LineItems:      make([]lineItemView, len(o.LineItems)),
	}
	for i, li := range o.LineItems {
		v.LineItems[i] = lineItemView{OrderLineItem: li, TotalPrice: li.TotalPrice()}
	}
	return v
}

func (a *App) load(r *http.Request) (ordersQuery, []model.Order, error) {
	q, err := parseOrdersQuery(r.URL.Query(), a.Now(), a.Location)
	if err != nil {
		a.Metrics.InvalidRequests.Inc()
		return q, nil, err
	}
	list, err := a.Service.Orders(r.Context(), q.start, q.end, q.filters)
	return q, list, err
}

func (a *App) ordersHandler(w http.ResponseWriter, r *http.Request) {
	q, list, err := a.load(r)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	orders.Sort(list, q.sort, q.desc)
	resp := ordersResponse{
		StartDate: q.start.Format(orders.DateLayout),
		EndDate:   q.end.Format(orders.DateLayout),
		Summary:   orders.Summarize(list),
		Orders:    make([]orderView, len(list)),
	}
	for i, o := range list {
		resp.Orders[i] = toView(o)
	}
	writeJSON(w, resp)
}

func (a *App) summaryHandler(w http.ResponseWriter, r *http.Request) {
	_, list, err := a.load(r)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writeJSON(w, orders.Summarize(list))
}

func (a *App) rollupHandler(w http.ResponseWriter, r *http.Request) {
	window, err := parseWindow(r.URL.Query())
	if err != nil {
		a.Metrics.InvalidRequests.Inc()
		writeQueryError(w, err)
		return
	}
	q, list, err := a.load(r)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writeJSON(w, map[string]any{
		"startDate":  q.start.Format(orders.DateLayout),
		"endDate":    q.end.Format(orders.DateLayout),
		"windowDays": window,
		"buckets":    rollup.Aggregate(list, q.start, window),
	})
}

func (a *App) storesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, orders.StoreNames())
}

func (a *App) suppliersHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, orders.SupplierNames())
}

func (a *App) itemsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, orders.ItemNumbers())
}

func (a *App) presetsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, orders.PresetNames())
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":        "ok",
		"uptime_sec":    time.Since(a.started).Seconds(),
		"cache_entries": a.Service.Store().Len(),
	})
}
