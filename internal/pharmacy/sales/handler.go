package sales

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pharmacare/pharmacy-web/internal/pharmacy/shared"
	internalShared "github.com/pharmacare/pharmacy-web/internal/shared"
	"github.com/pharmacare/pharmacy-web/report"
)

const (
	basePath     = "/sales"
	resource     = "sales"
	listTemplate = "pages/sales/list.html"
	formTemplate = "pages/sales/form.html"
)

// Handler serves the sale screens.
type Handler struct {
	screen  *shared.Screen
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(screen *shared.Screen, service *Service) *Handler {
	return &Handler{screen: screen, service: service}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters := shared.ParseListFilters(r)
	token := internalShared.Token(r)
	items, state, err := shared.Load(r.Context(), h.screen, r, resource, func(ctx context.Context) ([]Sale, error) {
		return h.service.List(ctx, token)
	})
	if internalShared.HandleBackendError(w, r, err, "/dashboard") {
		return
	}

	filtered := h.service.Query(items, filters)
	rows, pagination := internalShared.Paginate(filtered, filters.Page, filters.Limit)
	shared.RenderList(w, r, h.screen, listTemplate, "Sales", shared.ListPage[Sale]{
		Rows:       rows,
		Total:      len(items),
		Filtered:   len(filtered),
		Stats:      h.service.Stats(items),
		Filters:    filters,
		Pagination: pagination,
		State:      state,
		BasePath:   basePath,
	})
}

func (h *Handler) New(w http.ResponseWriter, r *http.Request) {
	h.screen.Render(w, r, formTemplate, "Add New Sale", h.formPage(Form{}, 0), http.StatusOK)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	form := FormFromRequest(r)
	if _, err := h.service.Create(r.Context(), internalShared.Token(r), form); err != nil {
		h.screen.SubmitFailed(w, r, err, basePath, formTemplate, "Add New Sale", h.formPage(form, 0))
		return
	}
	internalShared.RedirectWithFlash(w, r, basePath, internalShared.FlashSuccess, "Sale Added", "Sale added successfully")
}

func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid sale ID", http.StatusBadRequest)
		return
	}
	sale, err := h.service.Get(r.Context(), internalShared.Token(r), id)
	if err != nil {
		h.screen.LoadFailed(w, r, err, basePath, "Sale")
		return
	}
	h.screen.Render(w, r, formTemplate, "Edit Sale", h.formPage(FormFromSale(sale), id), http.StatusOK)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid sale ID", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	form := FormFromRequest(r)
	if _, err := h.service.Update(r.Context(), internalShared.Token(r), id, form); err != nil {
		h.screen.SubmitFailed(w, r, err, basePath, formTemplate, "Edit Sale", h.formPage(form, id))
		return
	}
	internalShared.RedirectWithFlash(w, r, basePath, internalShared.FlashUpdate, "Sale Updated", "Sale updated successfully")
}

func (h *Handler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid sale ID", http.StatusBadRequest)
		return
	}
	sale, err := h.service.Get(r.Context(), internalShared.Token(r), id)
	if err != nil {
		h.screen.LoadFailed(w, r, err, basePath, "Sale")
		return
	}
	h.screen.Confirm(w, r, internalShared.DeleteDialog(sale.Label(), r.URL.Path, basePath))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid sale ID", http.StatusBadRequest)
		return
	}
	if err := h.service.Delete(r.Context(), internalShared.Token(r), id); err != nil {
		if internalShared.HandleBackendError(w, r, err, basePath) {
			return
		}
		internalShared.RedirectWithFlash(w, r, basePath, internalShared.FlashError, "Delete Failed", "Failed to delete sale: "+shared.UserMessage(err))
		return
	}
	internalShared.RedirectWithFlash(w, r, basePath, internalShared.FlashDelete, "Sale Deleted", "Sale deleted successfully")
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	filters := shared.ParseListFilters(r)
	token := internalShared.Token(r)
	h.screen.Export(w, r, basePath, chi.URLParam(r, "format"), func(ctx context.Context) (report.Document, error) {
		return h.service.Document(ctx, token, filters)
	})
}

func (h *Handler) formPage(form Form, id int64) shared.FormPage {
	page := shared.FormPage{
		Form:      form,
		Action:    basePath,
		CancelURL: basePath,
		Options:   map[string][]string{"status": Statuses, "saleType": SaleTypes},
	}
	if id > 0 {
		page.Editing = true
		page.Action = editPath(id)
	}
	return page
}
