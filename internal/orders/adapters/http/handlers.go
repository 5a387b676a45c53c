package http

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/dejobratic/storefront/internal/httpapi"
	"github.com/dejobratic/storefront/internal/orders/app"
	"github.com/dejobratic/storefront/internal/orders/app/queries"
	"github.com/dejobratic/storefront/internal/orders/ports"
	"github.com/dejobratic/storefront/internal/orders/render"
	"github.com/go-chi/chi/v5"
)

// Handler exposes HTTP endpoints for placed orders.
type Handler struct {
	service       *app.Service
	sharePhone    string
	pageSize      int
	adminPageSize int
}

// NewHandler constructs a Handler. sharePhone receives WhatsApp shares,
// pageSize is the default invoice rows per printed page.
func NewHandler(service *app.Service, sharePhone string, pageSize, adminPageSize int) *Handler {
	return &Handler{
		service:       service,
		sharePhone:    sharePhone,
		pageSize:      pageSize,
		adminPageSize: adminPageSize,
	}
}

// Register binds the order handlers to the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/v1/orders/{invoice}", h.getOrder)
	r.Get("/v1/orders/{invoice}/share", h.share)
	r.Get("/v1/orders/{invoice}/document", h.document)
	r.Get("/v1/admin/orders", h.listOrders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.GetOrder(r.Context(), chi.URLParam(r, "invoice"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"order": order})
}

func (h *Handler) share(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.GetOrder(r.Context(), chi.URLParam(r, "invoice"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	message := render.ShareMessage(*order)
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"message": message,
		"url":     render.ShareURL(h.sharePhone, message),
	})
}

func (h *Handler) document(w http.ResponseWriter, r *http.Request) {
	pageSize := h.pageSize
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			httpapi.WriteError(w, http.StatusBadRequest, httpapi.CodeValidationFailed, "page_size must be a positive integer", "page_size")
			return
		}
		pageSize = size
	}

	order, err := h.service.GetOrder(r.Context(), chi.URLParam(r, "invoice"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := render.Document(&buf, *order, pageSize); err != nil {
		httpapi.WriteError(w, http.StatusInternalServerError, httpapi.CodeInternal, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	page, pageSize := 1, h.adminPageSize

	if pageParam := r.URL.Query().Get("page"); pageParam != "" {
		if p, err := strconv.Atoi(pageParam); err == nil {
			page = p
		}
	}
	if pageSizeParam := r.URL.Query().Get("page_size"); pageSizeParam != "" {
		if size, err := strconv.Atoi(pageSizeParam); err == nil {
			pageSize = size
		}
	}

	orders, err := h.service.ListOrders(r.Context(), page, pageSize)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"orders":    orders,
		"page":      page,
		"page_size": pageSize,
	})
}

func writeServiceError(w http.ResponseWriter, err error) {
	var verr *queries.ValidationError
	switch {
	case errors.Is(err, ports.ErrNotFound):
		httpapi.WriteError(w, http.StatusNotFound, httpapi.CodeNotFound, "order not found")
	case errors.As(err, &verr):
		httpapi.WriteError(w, http.StatusBadRequest, httpapi.CodeValidationFailed, err.Error())
	default:
		httpapi.WriteError(w, http.StatusInternalServerError, httpapi.CodeInternal, err.Error())
	}
}
