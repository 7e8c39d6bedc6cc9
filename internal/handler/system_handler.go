package handler

import (
	"net/http"
	"runtime"
	"time"

	"go-web-gallery/internal/database"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

type SystemHandler struct {
	db        *database.DB
	appEnv    string
	startedAt time.Time
}

func NewSystemHandler(db *database.DB, appEnv string) *SystemHandler {
	return &SystemHandler{db: db, appEnv: appEnv, startedAt: time.Now()}
}

func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Health(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (h *SystemHandler) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":           "go-web-gallery",
		"version":        Version,
		"environment":    h.appEnv,
		"go_version":     runtime.Version(),
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
	})
}
