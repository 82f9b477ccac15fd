package health

import (
	"context"
	"net/http"
	"time"

	"invest/internal/platform/core"
)

type Dependencies interface {
	PingDB(ctx context.Context) error
}

type Handler struct {
	deps    Dependencies
	started time.Time
}

// NewHandler builds a health handler.
func NewHandler(deps Dependencies) Handler {
	return Handler{deps: deps, started: time.Now()}
}

// Health reports liveness and whether the database answers.
func (h Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]interface{}{
		"status": "ok",
		"db":     "ok",
		"uptime": time.Since(h.started).Round(time.Second).String(),
	}
	code := http.StatusOK
	if err := h.deps.PingDB(ctx); err != nil {
		status["status"] = "degraded"
		status["db"] = err.Error()
		code = http.StatusServiceUnavailable
	}
	core.WriteJSON(w, code, status)
}
