// Package server wires the HTTP surface: routing, middleware, CORS,
// metrics and the swagger UI.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/petrunov/gs-peachtree-bank/internal/apperrors"
	"github.com/petrunov/gs-peachtree-bank/internal/config"
	"github.com/petrunov/gs-peachtree-bank/internal/ledger"
	"github.com/petrunov/gs-peachtree-bank/internal/storage"
)

// New builds the full HTTP handler stack around the ledger engine.
func New(cfg *config.Config, l *ledger.Ledger, store storage.Store, logger *slog.Logger) http.Handler {
	h := NewHandler(l, store, logger)

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	api.HandleFunc("/accounts", h.ListAccounts).Methods(http.MethodGet)
	api.HandleFunc("/accounts/{id}", h.GetAccount).Methods(http.MethodGet)
	api.HandleFunc("/transactions", h.ListTransactions).Methods(http.MethodGet)
	api.HandleFunc("/transactions", h.CreateTransaction).Methods(http.MethodPost)
	api.HandleFunc("/transactions/{id}", h.GetTransaction).Methods(http.MethodGet)
	api.HandleFunc("/transactions/{id}", h.UpdateTransaction).Methods(http.MethodPatch)
	api.HandleFunc("/search", h.Search).Methods(http.MethodGet)

	api.Use(requestID)
	api.Use(requestLogging(logger))
	api.Use(metricsMiddleware)
	if cfg.RateLimit.RequestsPerSecond > 0 {
		api.Use(rateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	}

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.Server.CORSOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", requestIDHeader}),
	)
	return cors(r)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, apperrors.ResourceNotFound(
		apperrors.WithMessage("The requested resource doesn't exist"),
	))
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(w, apperrors.MethodNotAllowed())
}
