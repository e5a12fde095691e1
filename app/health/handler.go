package health

import (
	"context"
	"net/http"

	"github.com/mytheresa/item-processing-api/app/web"
	"github.com/sirupsen/logrus"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a plain function to Pinger.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type HealthHandler struct {
	db  Pinger
	log logrus.FieldLogger
}

func NewHealthHandler(db Pinger, log logrus.FieldLogger) *HealthHandler {
	return &HealthHandler{db: db, log: log}
}

func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		h.log.WithError(err).Warn("health check failed")
		web.JSON(w, http.StatusServiceUnavailable, Response{Status: "unhealthy", Error: "database unreachable"})
		return
	}
	web.JSON(w, http.StatusOK, Response{Status: "healthy"})
}
