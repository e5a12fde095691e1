package admin

import (
	"context"
	"net/http"

	"github.com/mytheresa/item-processing-api/app/web"
	"github.com/sirupsen/logrus"
)

const resetMessage = "Database has been successfully reset and reseeded."

type Resetter interface {
	Reset(ctx context.Context) error
}

type AdminHandler struct {
	store      Resetter
	log        logrus.FieldLogger
	production bool
}

func NewAdminHandler(s Resetter, log logrus.FieldLogger, production bool) *AdminHandler {
	return &AdminHandler{store: s, log: log, production: production}
}

// HandleReset drops every item and reloads the sample data.
// Disabled when running in production.
func (h *AdminHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	if h.production {
		h.log.WithField("remote_addr", r.RemoteAddr).Warn("refused database reset in production")
		web.Error(w, http.StatusForbidden, "Database reset is disabled in production")
		return
	}

	if err := h.store.Reset(r.Context()); err != nil {
		h.log.WithError(err).Error("database reset failed")
		web.Error(w, http.StatusInternalServerError, "Failed to reset database")
		return
	}

	web.JSON(w, http.StatusOK, map[string]string{"message": resetMessage})
}
