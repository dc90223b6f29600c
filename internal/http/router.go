package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/previsao/internal/http/ledger"
	"github.com/MrJamesThe3rd/previsao/internal/http/projection"
)

type Options struct {
	AllowedOrigins []string
	// JWTSecret enables bearer authentication on the API when set.
	JWTSecret string
}

func New(
	opts Options,
	projectionV1 *projection.Handler,
	ledgerV1 *ledger.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Route("/api/v1", func(r chi.Router) {
		if opts.JWTSecret != "" {
			r.Use(RequireBearer([]byte(opts.JWTSecret)))
		}

		projectionV1.Routes(r)
		ledgerV1.Routes(r)
	})

	return router
}
