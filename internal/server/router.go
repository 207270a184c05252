package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arya-labs/aryamail/internal/api"
	"github.com/arya-labs/aryamail/internal/api/handlers"
	"github.com/arya-labs/aryamail/internal/api/middleware"
)

type RouterConfig struct {
	TriggerHandler *handlers.TriggerHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/trigger-email-check", cfg.TriggerHandler.CheckEmail)

	return r
}
