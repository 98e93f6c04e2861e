package httpapi

import "net/http"

// NewRouter registers HTTP routes and returns the handler with middleware.
func NewRouter(app *App) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/orders", GetOnly(app.ordersHandler))
	mux.HandleFunc("/orders/summary", GetOnly(app.summaryHandler))
	mux.HandleFunc("/orders/rollup", GetOnly(app.rollupHandler))
	mux.HandleFunc("/catalog/stores", GetOnly(app.storesHandler))
	mux.HandleFunc("/catalog/suppliers", GetOnly(app.suppliersHandler))
	mux.HandleFunc("/catalog/items", GetOnly(app.itemsHandler))
	mux.HandleFunc("/presets", GetOnly(app.presetsHandler))
	mux.HandleFunc("/healthz", app.healthHandler)
	mux.Handle("/metrics", app.Metrics.Handler())
	return WithRequestID(WithLogging(mux))
}
