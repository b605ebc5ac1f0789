package report

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pharmacare/pharmacy-web/internal/platform/httpx"
)

// Handler exposes the renderer health probe.
type Handler struct {
	client *Client
	logger *slog.Logger
}

func NewHandler(client *Client, logger *slog.Logger) *Handler {
	return &Handler{client: client, logger: logger}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/ping", h.ping)
}

func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	if err := h.client.Ping(r.Context()); err != nil {
		if h.logger != nil {
			h.logger.Warn("gotenberg unreachable", slog.Any("error", err))
		}
		httpx.Problem(w, http.StatusServiceUnavailable, "Renderer Unavailable", "PDF rendering is unavailable right now.")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Send writes data as an attachment named after doc.
func Send(w http.ResponseWriter, format string, doc Document, data []byte) {
	w.Header().Set("Content-Type", ContentType(format))
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Filename(format)+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
