package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"chatpdf/internal/handlers"
	"chatpdf/internal/service"
	"chatpdf/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Controller  service.Controller
	VectorStore vectorstore.VectorStore
	Collection  string
	Title       string
	DocsDir     string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	page := handlers.NewPageHandler(deps.Controller, deps.Title, deps.DocsDir)
	askHandler := handlers.NewAskHandler(deps.Controller)
	indexHandler := handlers.NewIndexHandler(deps.Controller)
	healthHandler := handlers.NewHealthHandler(deps.VectorStore, deps.Controller, deps.Collection)

	r.Get("/", page.Index)
	r.Post("/login", page.Login)
	r.Post("/logout", page.Logout)
	r.Post("/ask", page.Ask)

	r.Route("/api", func(r chi.Router) {
		r.Use(CORS)
		r.Method(http.MethodGet, "/health", healthHandler)
		r.Route("/v1", func(r chi.Router) {
			r.Method(http.MethodPost, "/ask", askHandler)
			r.Get("/index", indexHandler.Status)
			r.Post("/index", indexHandler.Prepare)
		})
	})

	return r
}
