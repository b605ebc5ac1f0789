package payments

import (
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/export.{format}", h.Export)
	r.Get("/new", h.New)
	r.Post("/", h.Create)
	r.Get("/{id}/edit", h.Edit)
	r.Post("/{id}/edit", h.Update)
	r.Get("/{id}/delete", h.ConfirmDelete)
	r.Post("/{id}/delete", h.Delete)
}

func editPath(id int64) string {
	return basePath + "/" + strconv.FormatInt(id, 10) + "/edit"
}
