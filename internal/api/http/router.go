package httpapi

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	platformhealth "github.com/shestoi/magazyn/platform/health/http"
	platformobservability "github.com/shestoi/magazyn/platform/observability"
)

// NewRouter создаёт и настраивает HTTP роутер magazyn.
// readiness проверяет хранилище; при ошибке /health вернёт 503.
func NewRouter(handler *Handler, readiness platformhealth.ReadinessFunc, serviceName string, logger *zap.Logger) chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	// Observability: trace context + span на каждый запрос, logger с trace_id в контексте
	if logger != nil {
		router.Use(platformobservability.HTTPMiddleware(serviceName, logger))
	}

	router.Route("/items", func(r chi.Router) {
		r.Get("/", handler.ListItems)
		r.Post("/", handler.AddItem)
		r.Post("/{id}/deplete", handler.DepleteItem)
		r.Delete("/{id}", handler.RemoveItem)
	})
	router.Get("/summary", handler.Summary)

	router.Get("/health", platformhealth.Handler(readiness))

	return router
}
