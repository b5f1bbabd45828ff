package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/caixa/internal/http/auth"
	"github.com/MrJamesThe3rd/caixa/internal/http/category"
	"github.com/MrJamesThe3rd/caixa/internal/http/export"
	"github.com/MrJamesThe3rd/caixa/internal/http/importer"
	"github.com/MrJamesThe3rd/caixa/internal/http/matching"
	"github.com/MrJamesThe3rd/caixa/internal/http/report"
	"github.com/MrJamesThe3rd/caixa/internal/http/transaction"
)

type Handlers struct {
	Auth         *auth.Handler
	Transactions *transaction.Handler
	Categories   *category.Handler
	Reports      *report.Handler
	Import       *importer.Handler
	Rules        *matching.Handler
	Export       *export.Handler
}

func New(h Handlers, allowedOrigins []string) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Exported-Rows"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", h.Auth.Routes)

		r.Group(func(r chi.Router) {
			r.Use(h.Auth.Middleware)

			r.Route("/transactions", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Transactions.Routes(r)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Categories.Routes(r)
			})

			r.Route("/reports", h.Reports.Routes)
			r.Route("/import", h.Import.Routes)
			r.Route("/rules", h.Rules.Routes)
			r.Route("/export", h.Export.Routes)
		})
	})

	return router
}
