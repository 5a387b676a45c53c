package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	catalog "github.com/dejobratic/storefront/internal/catalog/domain"
	"github.com/dejobratic/storefront/internal/httpapi"
	orders "github.com/dejobratic/storefront/internal/orders/domain"
	orderports "github.com/dejobratic/storefront/internal/orders/ports"
	"github.com/dejobratic/storefront/internal/storefront/app"
	"github.com/dejobratic/storefront/internal/storefront/domain"
	"github.com/dejobratic/storefront/internal/storefront/ports"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// ResponseStore replays order submissions retried with the same
// Idempotency-Key.
type ResponseStore interface {
	GetIdempotentResponse(ctx context.Context, key string) (*orderports.StoredResponse, error)
	SaveIdempotentResponse(ctx context.Context, key string, response orderports.StoredResponse) error
}

// Handler exposes the shopper session endpoints.
type Handler struct {
	service         *app.Service
	responses       ResponseStore
	transitionDelay time.Duration
}

func NewHandler(service *app.Service, responses ResponseStore, transitionDelay time.Duration) *Handler {
	return &Handler{service: service, responses: responses, transitionDelay: transitionDelay}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/sessions", h.createSession)

	r.Route("/v1/sessions/{id}", func(r chi.Router) {
		r.Get("/", h.getSession)
		r.Post("/cart/items", h.addItem)
		r.Patch("/cart/items/{lineID}", h.updateQuantity)
		r.Delete("/cart/items/{lineID}", h.removeItem)
		r.Post("/cart/addons", h.addAddons)
		r.Delete("/cart/addons/prompt", h.dismissAddons)
		r.Put("/coupon", h.applyCoupon)
		r.Delete("/coupon", h.removeCoupon)
		r.Put("/checkout", h.updateCheckout)
		r.Post("/view", h.navigate)
		r.Post("/orders", h.submitOrder)
		r.Post("/reset", h.reset)
	})
}

// LineView is a cart line with its computed total.
type LineView struct {
	domain.CartLine
	LineTotal          decimal.Decimal `json:"line_total"`
	LineTotalFormatted string          `json:"line_total_formatted"`
}

// TotalsView carries both raw and display amounts.
type TotalsView struct {
	domain.Totals
	SubtotalFormatted       string `json:"subtotal_formatted"`
	DiscountAmountFormatted string `json:"discount_amount_formatted"`
	TotalFormatted          string `json:"total_formatted"`
}

// SessionView is the JSON shape of a session.
type SessionView struct {
	ID          string                 `json:"id"`
	View        domain.View            `json:"view"`
	Lines       []LineView             `json:"lines"`
	ItemCount   int                    `json:"item_count"`
	Coupon      *domain.Coupon         `json:"coupon"`
	Totals      TotalsView             `json:"totals"`
	Checkout    domain.CheckoutDetails `json:"checkout"`
	AddonPrompt string                 `json:"addon_prompt,omitempty"`
	Invoice     *orders.Order          `json:"invoice,omitempty"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

func newSessionView(s *domain.Session) SessionView {
	totals := s.Totals()
	view := SessionView{
		ID:        s.ID,
		View:      s.View,
		Lines:     make([]LineView, 0, len(s.Cart.Lines)),
		ItemCount: s.Cart.ItemCount(),
		Coupon:    s.Coupon,
		Totals: TotalsView{
			Totals:                  totals,
			SubtotalFormatted:       domain.FormatAmount(totals.Subtotal),
			DiscountAmountFormatted: domain.FormatAmount(totals.DiscountAmount),
			TotalFormatted:          domain.FormatAmount(totals.Total),
		},
		Checkout:    s.Checkout,
		AddonPrompt: s.AddonPrompt,
		Invoice:     s.Invoice,
		UpdatedAt:   s.UpdatedAt,
	}
	for _, line := range s.Cart.Lines {
		total := line.LineTotal()
		view.Lines = append(view.Lines, LineView{
			CartLine:           line,
			LineTotal:          total,
			LineTotalFormatted: domain.FormatAmount(total),
		})
	}
	return view
}

func writeSession(w http.ResponseWriter, status int, s *domain.Session) {
	httpapi.WriteJSON(w, status, map[string]any{"session": newSessionView(s)})
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.CreateSession(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSession(w, http.StatusCreated, session)
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSession(w, http.StatusOK, session)
}

type addItemRequest struct {
	OfferingID string           `json:"offering_id"`
	Duration   catalog.Duration `json:"duration"`
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var payload addItemRequest
	if err := httpapi.DecodeJSON(w, r, &payload); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, httpapi.CodeBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(payload.OfferingID) == "" {
		httpapi.WriteError(w, http.StatusUnprocessableEntity, httpapi.CodeValidationFailed, "offering_id is required", "offering_id")
		return
	}

	session, result, err := h.service.AddToCart(r.Context(), chi.URLParam(r, "id"), payload.OfferingID, payload.Duration)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"session":      newSessionView(session),
		"line":         result.Line,
		"addon_prompt": result.AddonPrompt,
	})
}

type quantityRequest struct {
	Delta int `json:"delta"`
}

func (h *Handler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	var payload quantityRequest
	if err := httpapi.DecodeJSON(w, r, &payload); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, httpapi.CodeBadRequest, err.Error())
		return
	}

	session, err := h.service.UpdateQuantity(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "lineID"), payload.Delta)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSession(w, http.StatusOK, session)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.RemoveLine(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "lineID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSession(w, http.StatusOK, session)
}

func (h *Handler) addAddons(w http.ResponseWriter, r *http.Request) {
	var payload domain.AddonSelection
	if err := httpapi.DecodeJSON(w, r, &payload); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, httpapi.CodeBadRequest, err.Error())
		return
	}

	session, err := h.service.AddAddons(r.Context(), chi.URLParam(r, "id"), payload)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSession(w, http.StatusOK, session)
}

func (h *Handler) dismissAddons(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.DismissAddonPrompt(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSession(w, http.StatusOK, session)
}

type couponRequest struct {
	Code string `json:"code"`
}

func (h *Handler) applyCoupon(w http.ResponseWriter, r *http.Request) {
	var payload couponRequest
	if err := httpapi.DecodeJSON(w, r, &payload); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, httpapi.CodeBadRequest, err.Error())
		return
	}

	session, err := h.service.ApplyCoupon(r.Context(), chi.URLParam(r, "id"), payload.Code)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSession(w, http.StatusOK, session)
}

func (h *Handler) removeCoupon(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.RemoveCoupon(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSession(w, http.StatusOK, session)
}

func (h *Handler) updateCheckout(w http.ResponseWriter, r *http.Request) {
	details := domain.NewCheckoutDetails()
	if err := httpapi.DecodeJSON(w, r, &details); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, httpapi.CodeBadRequest, err.Error())
		return
	}

	session, err := h.service.UpdateCheckout(r.Context(), chi.URLParam(r, "id"), details)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSession(w, http.StatusOK, session)
}

type navigateRequest struct {
	View string `json:"view"`
}

func (h *Handler) navigate(w http.ResponseWriter, r *http.Request) {
	var payload navigateRequest
	if err := httpapi.DecodeJSON(w, r, &payload); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, httpapi.CodeBadRequest, err.Error())
		return
	}
	to, err := domain.ParseView(payload.View)
	if err != nil {
		httpapi.WriteError(w, http.StatusUnprocessableEntity, httpapi.CodeValidationFailed, err.Error(), "view")
		return
	}

	session, err := h.service.Navigate(r.Context(), chi.URLParam(r, "id"), to)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSession(w, http.StatusOK, session)
}

// submitOrder places the order. A repeated Idempotency-Key replays the
// first successful response instead of placing a second order.
func (h *Handler) submitOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "id")

	var idemKey string
	if key := strings.TrimSpace(r.Header.Get("Idempotency-Key")); key != "" {
		idemKey = sessionID + ":" + key
	}

	if idemKey != "" {
		stored, err := h.responses.GetIdempotentResponse(ctx, idemKey)
		if err != nil {
			httpapi.WriteError(w, http.StatusInternalServerError, httpapi.CodeInternal, err.Error())
			return
		}
		if stored != nil {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Idempotent-Replayed", "true")
			w.WriteHeader(stored.StatusCode)
			_, _ = w.Write(stored.Body)
			return
		}
	}

	session, err := h.service.SubmitOrder(ctx, sessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	body, err := json.Marshal(map[string]any{
		"session":             newSessionView(session),
		"invoice_number":      session.Invoice.InvoiceNumber,
		"transition_delay_ms": h.transitionDelay.Milliseconds(),
	})
	if err != nil {
		httpapi.WriteError(w, http.StatusInternalServerError, httpapi.CodeInternal, err.Error())
		return
	}

	if idemKey != "" {
		stored := orderports.StoredResponse{
			StatusCode:    http.StatusCreated,
			Body:          body,
			InvoiceNumber: session.Invoice.InvoiceNumber,
		}
		if err := h.responses.SaveIdempotentResponse(ctx, idemKey, stored); err != nil {
			httpapi.WriteError(w, http.StatusInternalServerError, httpapi.CodeInternal, err.Error())
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(body)
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.StartNewOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSession(w, http.StatusOK, session)
}

func writeServiceError(w http.ResponseWriter, err error) {
	var (
		verr *domain.ValidationError
		perr *app.PersistenceError
	)
	switch {
	case errors.As(err, &verr):
		httpapi.WriteError(w, http.StatusUnprocessableEntity, httpapi.CodeValidationFailed, err.Error(), verr.Fields...)
	case errors.As(err, &perr):
		httpapi.WriteError(w, http.StatusBadGateway, httpapi.CodePersistenceFailed, err.Error())
	case errors.Is(err, domain.ErrInvalidCouponCode):
		httpapi.WriteError(w, http.StatusUnprocessableEntity, httpapi.CodeInvalidCoupon, err.Error(), "code")
	case errors.Is(err, domain.ErrIllegalTransition), errors.Is(err, domain.ErrViewMismatch):
		httpapi.WriteError(w, http.StatusConflict, httpapi.CodeIllegalTransition, err.Error())
	case errors.Is(err, domain.ErrEmptyCart):
		httpapi.WriteError(w, http.StatusConflict, httpapi.CodeEmptyCart, err.Error())
	case errors.Is(err, ports.ErrSessionNotFound),
		errors.Is(err, domain.ErrLineNotFound),
		errors.Is(err, app.ErrUnknownOffering):
		httpapi.WriteError(w, http.StatusNotFound, httpapi.CodeNotFound, err.Error())
	case errors.Is(err, domain.ErrUnknownAddon),
		errors.Is(err, domain.ErrInvalidOption),
		errors.Is(err, catalog.ErrUnknownDuration):
		httpapi.WriteError(w, http.StatusUnprocessableEntity, httpapi.CodeValidationFailed, err.Error())
	default:
		httpapi.WriteError(w, http.StatusInternalServerError, httpapi.CodeInternal, err.Error())
	}
}
