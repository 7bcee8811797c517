package router

import (
	"net/http"

	"estoque/internal/api/location"
	"estoque/internal/api/movement"
	"estoque/internal/api/product"
	"estoque/internal/api/report"
	"estoque/internal/api/web"
)

// Handlers reúne os Handlers já inicializados por injeção de dependências.
type Handlers struct {
	Products  *product.Handler
	Locations *location.Handler
	Movements *movement.Handler
	Report    *report.Handler
	Web       *web.Renderer
}

// NewRouter configura e retorna o roteador HTTP principal.
// Os middlewares são aplicados na ordem recebida: o primeiro é o mais externo.
func NewRouter(h Handlers, middlewares ...func(http.Handler) http.Handler) http.Handler {
	mux := http.NewServeMux()

	// --- 1. Health Check ---
	mux.HandleFunc("GET /ping", PingHandler)

	// --- 2. Páginas HTML ---
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/products", http.StatusSeeOther)
	})

	mux.HandleFunc("GET /products", h.Products.ListHandler)
	mux.HandleFunc("GET /products/add", h.Products.AddFormHandler)
	mux.HandleFunc("POST /products/add", h.Products.AddHandler)
	mux.HandleFunc("GET /products/edit/{id}", h.Products.EditFormHandler)
	mux.HandleFunc("POST /products/edit/{id}", h.Products.EditHandler)

	mux.HandleFunc("GET /locations", h.Locations.ListHandler)
	mux.HandleFunc("GET /locations/add", h.Locations.AddFormHandler)
	mux.HandleFunc("POST /locations/add", h.Locations.AddHandler)
	mux.HandleFunc("GET /locations/edit/{id}", h.Locations.EditFormHandler)
	mux.HandleFunc("POST /locations/edit/{id}", h.Locations.EditHandler)

	mux.HandleFunc("GET /movements", h.Movements.ListHandler)
	mux.HandleFunc("GET /movements/add", h.Movements.AddFormHandler)
	mux.HandleFunc("POST /movements/add", h.Movements.AddHandler)

	mux.HandleFunc("GET /report", h.Report.ReportHandler)

	// --- 3. API JSON (v1, somente leitura) ---
	mux.HandleFunc("GET /api/v1/products", h.Products.ListJSONHandler)
	mux.HandleFunc("GET /api/v1/locations", h.Locations.ListJSONHandler)
	mux.HandleFunc("GET /api/v1/movements", h.Movements.ListJSONHandler)
	mux.HandleFunc("GET /api/v1/report", h.Report.ReportJSONHandler)

	// Qualquer outra rota recebe a página 404 do layout.
	mux.HandleFunc("/", h.Web.NotFound)

	var handler http.Handler = mux
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
