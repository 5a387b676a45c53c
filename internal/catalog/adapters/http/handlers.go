package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dejobratic/storefront/internal/catalog/app"
	"github.com/dejobratic/storefront/internal/catalog/domain"
	"github.com/dejobratic/storefront/internal/catalog/ports"
	"github.com/dejobratic/storefront/internal/httpapi"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// Handler exposes the catalog browse endpoints and the admin surface.
type Handler struct {
	service *app.Service
}

func NewHandler(service *app.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/v1/catalog", h.listCatalog)
	r.Get("/v1/catalog/reference", h.reference)

	r.Route("/v1/admin", func(r chi.Router) {
		r.Get("/offerings", h.adminOfferings)
		r.Post("/offerings", h.createOffering)
		r.Patch("/offerings/{id}/price", h.updatePrice)
		r.Post("/catalog/seed", h.seedCatalog)
	})
}

// DurationOption is one selectable period of a duration-priced offering.
type DurationOption struct {
	Duration     domain.Duration `json:"duration"`
	Label        string          `json:"label"`
	Price        decimal.Decimal `json:"price"`
	ComparePrice decimal.Decimal `json:"compare_price"`
}

// OfferingView is an offering priced for the currently selected duration.
type OfferingView struct {
	domain.Offering
	CategoryLabel    string           `json:"category_label"`
	SelectedDuration domain.Duration  `json:"selected_duration,omitempty"`
	Price            decimal.Decimal  `json:"price"`
	ComparePrice     decimal.Decimal  `json:"compare_price"`
	Savings          decimal.Decimal  `json:"savings"`
	DurationOptions  []DurationOption `json:"duration_options,omitempty"`
}

func (h *Handler) listCatalog(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	listing, err := h.service.Search(r.Context(), query.Get("q"), query.Get("category"))
	if err != nil {
		if errors.Is(err, app.ErrUnknownCategory) {
			httpapi.WriteError(w, http.StatusBadRequest, httpapi.CodeValidationFailed, err.Error(), "category")
			return
		}
		httpapi.WriteError(w, http.StatusInternalServerError, httpapi.CodeInternal, err.Error())
		return
	}

	selected := selectedDurations(r)
	views := make([]OfferingView, 0, len(listing.Offerings))
	for _, o := range listing.Offerings {
		views = append(views, newOfferingView(o, selected[o.ID]))
	}

	httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"offerings": views,
		"notice":    listing.Notice,
	})
}

func (h *Handler) reference(w http.ResponseWriter, r *http.Request) {
	httpapi.WriteJSON(w, http.StatusOK, h.service.Reference())
}

func (h *Handler) adminOfferings(w http.ResponseWriter, r *http.Request) {
	listing := h.service.ListOfferings(r.Context())
	httpapi.WriteJSON(w, http.StatusOK, listing)
}

type priceUpdateRequest struct {
	OriginalPrice *decimal.Decimal `json:"original_price"`
	DiscountPrice *decimal.Decimal `json:"discount_price"`
}

func (h *Handler) updatePrice(w http.ResponseWriter, r *http.Request) {
	var payload priceUpdateRequest
	if err := httpapi.DecodeJSON(w, r, &payload); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, httpapi.CodeBadRequest, err.Error())
		return
	}

	var missing []string
	if payload.OriginalPrice == nil {
		missing = append(missing, "original_price")
	}
	if payload.DiscountPrice == nil {
		missing = append(missing, "discount_price")
	}
	if len(missing) > 0 {
		httpapi.WriteError(w, http.StatusUnprocessableEntity, httpapi.CodeValidationFailed, "missing required fields", missing...)
		return
	}

	offering, err := h.service.UpdateOfferingPrice(r.Context(), chi.URLParam(r, "id"), *payload.OriginalPrice, *payload.DiscountPrice)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"offering": offering})
}

func (h *Handler) createOffering(w http.ResponseWriter, r *http.Request) {
	var draft domain.OfferingDraft
	if err := httpapi.DecodeJSON(w, r, &draft); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, httpapi.CodeBadRequest, err.Error())
		return
	}

	offering, err := h.service.CreateOffering(r.Context(), draft)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpapi.WriteJSON(w, http.StatusCreated, map[string]any{"offering": offering})
}

func (h *Handler) seedCatalog(w http.ResponseWriter, r *http.Request) {
	listing, err := h.service.SeedCatalog(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, listing)
}

func writeServiceError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		httpapi.WriteError(w, http.StatusUnprocessableEntity, httpapi.CodeValidationFailed, err.Error(), verr.Fields...)
	case errors.Is(err, domain.ErrInvalidPrice):
		httpapi.WriteError(w, http.StatusUnprocessableEntity, httpapi.CodeValidationFailed, err.Error(), "original_price", "discount_price")
	case errors.Is(err, ports.ErrNotFound):
		httpapi.WriteError(w, http.StatusNotFound, httpapi.CodeNotFound, "offering not found")
	case errors.Is(err, ports.ErrDuplicateID):
		httpapi.WriteError(w, http.StatusConflict, httpapi.CodeValidationFailed, err.Error(), "id")
	default:
		httpapi.WriteError(w, http.StatusBadGateway, httpapi.CodePersistenceFailed, err.Error())
	}
}

// selectedDurations reads duration[<offering id>]=<duration> query params.
func selectedDurations(r *http.Request) map[string]domain.Duration {
	selected := make(map[string]domain.Duration)
	for key, values := range r.URL.Query() {
		if !strings.HasPrefix(key, "duration[") || !strings.HasSuffix(key, "]") || len(values) == 0 {
			continue
		}
		id := strings.TrimSuffix(strings.TrimPrefix(key, "duration["), "]")
		selected[id] = domain.Duration(values[0])
	}
	return selected
}

// newOfferingView prices o for the selected period. A selection the
// offering does not price falls back to its default period.
func newOfferingView(o domain.Offering, duration domain.Duration) OfferingView {
	resolved, err := o.ResolveDuration(duration)
	if err != nil {
		resolved, _ = o.ResolveDuration("")
	}
	price, _ := o.PriceFor(resolved)
	compare, _ := o.ComparePriceFor(resolved)

	view := OfferingView{
		Offering:         o,
		CategoryLabel:    o.Category.Label(),
		SelectedDuration: resolved,
		Price:            price,
		ComparePrice:     compare,
		Savings:          compare.Sub(price),
	}
	for _, d := range o.SortedDurations() {
		p, _ := o.PriceFor(d)
		c, _ := o.ComparePriceFor(d)
		view.DurationOptions = append(view.DurationOptions, DurationOption{Duration: d, Label: d.Label(), Price: p, ComparePrice: c})
	}
	return view
}
