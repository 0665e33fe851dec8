package httpx

import (
	"log/slog"
	"net/http"
)

// RouterServices holds the dependencies of the HTTP router.
type RouterServices struct {
	Jobs         JobSubmitter
	MaxBodyBytes int64
	Logger       *slog.Logger
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	if services.Jobs != nil {
		registerJobRoutes(mux, &JobHandlers{
			Jobs:         services.Jobs,
			MaxBodyBytes: services.MaxBodyBytes,
			Logger:       services.Logger,
		})
	}

	return mux
}

func registerJobRoutes(mux *http.ServeMux, h *JobHandlers) {
	mux.HandleFunc("GET /api/queue/status", h.QueueStatus)
	mux.HandleFunc("POST /api/photos/{id}/process", h.ProcessPhoto)
	mux.HandleFunc("POST /api/assessments/{id}/run", h.RunAssessment)
}
