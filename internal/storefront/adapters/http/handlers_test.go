package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	catalogmemory "github.com/dejobratic/storefront/internal/catalog/adapters/memory"
	catalogapp "github.com/dejobratic/storefront/internal/catalog/app"
	"github.com/dejobratic/storefront/internal/httpapi"
	idemmemory "github.com/dejobratic/storefront/internal/idempotency/memory"
	orders "github.com/dejobratic/storefront/internal/orders/domain"
	orderports "github.com/dejobratic/storefront/internal/orders/ports"
	"github.com/dejobratic/storefront/internal/storefront/adapters/memory"
	"github.com/dejobratic/storefront/internal/storefront/app"
	"github.com/dejobratic/storefront/internal/storefront/metrics"
	"github.com/go-chi/chi/v5"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

type countingPlacer struct {
	calls int
	err   error
}

func (p *countingPlacer) PlaceOrder(ctx context.Context, draft orders.Draft) (*orders.Order, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &orders.Order{
		ID:            "order-1",
		InvoiceNumber: "BSE-2026-1001",
		Items:         draft.Items,
		Subtotal:      draft.Subtotal,
		TotalAmount:   draft.TotalAmount,
		Customer:      draft.Customer,
		Status:        orders.StatusPending,
	}, nil
}

// responses adapts the idempotency store to the handler's ResponseStore.
type responses struct {
	store *idemmemory.Store
}

func (r responses) GetIdempotentResponse(ctx context.Context, key string) (*orderports.StoredResponse, error) {
	return r.store.Get(ctx, key)
}

func (r responses) SaveIdempotentResponse(ctx context.Context, key string, response orderports.StoredResponse) error {
	return r.store.Save(ctx, key, response)
}

func newTestRouter(t *testing.T, placer *countingPlacer) *chi.Mux {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	catalog := catalogapp.NewService(catalogmemory.NewRepository(), catalogmemory.NewCache(time.Hour), logger)

	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewManualReader()))
	m, err := metrics.NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() failed: %v", err)
	}

	service := app.NewService(memory.NewSessionStore(), catalog, placer, logger, m)
	r := chi.NewRouter()
	NewHandler(service, responses{store: idemmemory.NewStore(time.Hour)}, 1500*time.Millisecond).Register(r)
	return r
}

func do(r http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

type sessionResponse struct {
	Session           SessionView `json:"session"`
	AddonPrompt       bool        `json:"addon_prompt"`
	InvoiceNumber     string      `json:"invoice_number"`
	TransitionDelayMS int64       `json:"transition_delay_ms"`
}

func decodeSession(t *testing.T, rec *httptest.ResponseRecorder) sessionResponse {
	t.Helper()
	var body sessionResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return body
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httpapi.ErrorBody {
	t.Helper()
	var body httpapi.ErrorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return body
}

func newSession(t *testing.T, r http.Handler) string {
	t.Helper()
	rec := do(r, http.MethodPost, "/v1/sessions", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	return decodeSession(t, rec).Session.ID
}

const checkoutForm = `{"full_name":"Rahim Uddin","mobile":"01712345678","business_name":"Rahim Traders","district":"Dhaka","start_date":"2026-11-01"}`

func TestCartEndpoints(t *testing.T) {
	r := newTestRouter(t, &countingPlacer{})
	id := newSession(t, r)
	base := "/v1/sessions/" + id

	rec := do(r, http.MethodPost, base+"/cart/items", `{"offering_id":"logo-design"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeSession(t, rec)
	if body.Session.ItemCount != 1 || body.Session.Totals.TotalFormatted != "৳1,500" {
		t.Errorf("unexpected cart %+v", body.Session)
	}
	lineID := body.Session.Lines[0].ID

	rec = do(r, http.MethodPatch, base+"/cart/items/"+lineID, `{"delta":2}`)
	body = decodeSession(t, rec)
	if body.Session.Lines[0].Quantity != 3 || body.Session.Lines[0].LineTotalFormatted != "৳4,500" {
		t.Errorf("expected quantity 3 totalling ৳4,500, got %+v", body.Session.Lines[0])
	}

	rec = do(r, http.MethodPut, base+"/coupon", `{"code":"save10"}`)
	body = decodeSession(t, rec)
	if body.Session.Totals.DiscountAmountFormatted != "৳450" || body.Session.Totals.TotalFormatted != "৳4,050" {
		t.Errorf("unexpected totals %+v", body.Session.Totals)
	}

	rec = do(r, http.MethodPut, base+"/coupon", `{"code":"bogus"}`)
	if rec.Code != http.StatusUnprocessableEntity || decodeError(t, rec).Code != httpapi.CodeInvalidCoupon {
		t.Errorf("expected invalid_coupon, got %d", rec.Code)
	}

	rec = do(r, http.MethodGet, base, "")
	if decodeSession(t, rec).Session.Coupon.Code != "SAVE10" {
		t.Error("expected previous coupon to remain")
	}

	rec = do(r, http.MethodDelete, base+"/cart/items/"+lineID, "")
	if len(decodeSession(t, rec).Session.Lines) != 0 {
		t.Error("expected empty cart")
	}

	rec = do(r, http.MethodDelete, base+"/cart/items/"+lineID, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for removed line, got %d", rec.Code)
	}
}

func TestAddonPrompt(t *testing.T) {
	r := newTestRouter(t, &countingPlacer{})
	base := "/v1/sessions/" + newSession(t, r)

	rec := do(r, http.MethodPost, base+"/cart/items", `{"offering_id":"business-website"}`)
	if !decodeSession(t, rec).AddonPrompt {
		t.Fatal("expected add-on prompt")
	}

	rec = do(r, http.MethodPost, base+"/cart/addons", `{"domain":".com","hosting":"skip"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	session := decodeSession(t, rec).Session
	if len(session.Lines) != 2 || session.AddonPrompt != "" {
		t.Errorf("expected domain line and cleared prompt, got %+v", session)
	}

	rec = do(r, http.MethodPost, base+"/cart/addons", `{"domain":".invalid"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for unknown add-on, got %d", rec.Code)
	}
}

func TestViewTransitions(t *testing.T) {
	r := newTestRouter(t, &countingPlacer{})
	base := "/v1/sessions/" + newSession(t, r)

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantErr  string
	}{
		{"empty cart blocks checkout", `{"view":"checkout"}`, http.StatusConflict, httpapi.CodeEmptyCart},
		{"invoice is not directly reachable", `{"view":"invoice"}`, http.StatusConflict, httpapi.CodeIllegalTransition},
		{"unknown view", `{"view":"cart"}`, http.StatusUnprocessableEntity, httpapi.CodeValidationFailed},
		{"admin is reachable from browse", `{"view":"admin"}`, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(r, http.MethodPost, base+"/view", tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
			if tt.wantErr != "" && decodeError(t, rec).Code != tt.wantErr {
				t.Errorf("expected code %s", tt.wantErr)
			}
		})
	}

	t.Run("cart edits are rejected outside shopping views", func(t *testing.T) {
		rec := do(r, http.MethodPost, base+"/cart/items", `{"offering_id":"logo-design"}`)
		if rec.Code != http.StatusConflict {
			t.Errorf("expected 409 from admin view, got %d", rec.Code)
		}
	})
}

func TestSubmitOrder(t *testing.T) {
	prepare := func(t *testing.T, r http.Handler) string {
		t.Helper()
		base := "/v1/sessions/" + newSession(t, r)
		do(r, http.MethodPost, base+"/cart/items", `{"offering_id":"seo-starter"}`)
		if rec := do(r, http.MethodPost, base+"/view", `{"view":"checkout"}`); rec.Code != http.StatusOK {
			t.Fatalf("navigate: %d %s", rec.Code, rec.Body.String())
		}
		return base
	}

	t.Run("reports missing fields", func(t *testing.T) {
		placer := &countingPlacer{}
		r := newTestRouter(t, placer)
		base := prepare(t, r)

		rec := do(r, http.MethodPost, base+"/orders", "")

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
		if fields := decodeError(t, rec).Fields; len(fields) != 5 {
			t.Errorf("expected five missing fields, got %v", fields)
		}
		if placer.calls != 0 {
			t.Error("expected no order placed")
		}
	})

	t.Run("replays retried submissions", func(t *testing.T) {
		placer := &countingPlacer{}
		r := newTestRouter(t, placer)
		base := prepare(t, r)
		do(r, http.MethodPut, base+"/checkout", checkoutForm)

		first := do(r, http.MethodPost, base+"/orders", "", "Idempotency-Key", "abc")
		if first.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", first.Code, first.Body.String())
		}
		firstBody := first.Body.String()
		body := decodeSession(t, first)
		if body.InvoiceNumber != "BSE-2026-1001" || body.TransitionDelayMS != 1500 {
			t.Errorf("unexpected submit body %+v", body)
		}
		if body.Session.View != "invoice" {
			t.Errorf("expected invoice view, got %s", body.Session.View)
		}

		second := do(r, http.MethodPost, base+"/orders", "", "Idempotency-Key", "abc")
		if second.Code != http.StatusCreated || second.Body.String() != firstBody {
			t.Errorf("expected identical replay, got %d", second.Code)
		}
		if second.Header().Get("Idempotent-Replayed") != "true" {
			t.Error("expected replay header")
		}
		if placer.calls != 1 {
			t.Errorf("expected one placement, got %d", placer.calls)
		}

		rec := do(r, http.MethodPost, base+"/reset", "")
		if rec.Code != http.StatusOK || decodeSession(t, rec).Session.View != "browse" {
			t.Errorf("expected reset to browse, got %d", rec.Code)
		}
	})

	t.Run("persistence failure", func(t *testing.T) {
		r := newTestRouter(t, &countingPlacer{err: errors.New("connection refused")})
		base := prepare(t, r)
		do(r, http.MethodPut, base+"/checkout", checkoutForm)

		rec := do(r, http.MethodPost, base+"/orders", "")

		if rec.Code != http.StatusBadGateway || decodeError(t, rec).Code != httpapi.CodePersistenceFailed {
			t.Fatalf("expected 502 persistence_failed, got %d", rec.Code)
		}
		rec = do(r, http.MethodGet, base, "")
		if session := decodeSession(t, rec).Session; session.View != "checkout" || session.Checkout.FullName == "" {
			t.Errorf("expected checkout state kept, got %+v", session)
		}
	})
}

func TestUnknownSession(t *testing.T) {
	r := newTestRouter(t, &countingPlacer{})

	rec := do(r, http.MethodGet, "/v1/sessions/missing", "")

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
