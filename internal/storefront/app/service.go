package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	catalog "github.com/dejobratic/storefront/internal/catalog/domain"
	"github.com/dejobratic/storefront/internal/storefront/domain"
	"github.com/dejobratic/storefront/internal/storefront/metrics"
	"github.com/dejobratic/storefront/internal/storefront/ports"
	"github.com/google/uuid"
)

// ErrUnknownOffering is returned when a cart add names no catalog entry.
var ErrUnknownOffering = errors.New("unknown offering")

// PersistenceError reports that a submitted order could not be stored. The
// session is left exactly as it was so the shopper can retry.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("order could not be saved: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Service runs every shopper-facing session operation.
type Service struct {
	sessions  ports.SessionStore
	offerings ports.OfferingLookup
	orders    ports.OrderPlacer
	logger    *slog.Logger
	metrics   *metrics.Metrics
	newID     func() string
	now       func() time.Time
}

func NewService(
	sessions ports.SessionStore,
	offerings ports.OfferingLookup,
	orders ports.OrderPlacer,
	logger *slog.Logger,
	metrics *metrics.Metrics,
) *Service {
	return &Service{
		sessions:  sessions,
		offerings: offerings,
		orders:    orders,
		logger:    logger,
		metrics:   metrics,
		newID:     uuid.NewString,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) CreateSession(ctx context.Context) (*domain.Session, error) {
	session := domain.NewSession(s.newID(), s.now())
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	s.logger.DebugContext(ctx, "session created", "session_id", session.ID)
	return session, nil
}

func (s *Service) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	return s.sessions.Get(ctx, id)
}

// AddToCart adds an offering for the chosen duration. The returned result
// says whether the add-on prompt was raised.
func (s *Service) AddToCart(ctx context.Context, sessionID, offeringID string, duration catalog.Duration) (*domain.Session, domain.AddResult, error) {
	offering, err := s.offerings.GetOffering(ctx, offeringID)
	if err != nil {
		s.metrics.RecordMutation(ctx, "add_item", false)
		return nil, domain.AddResult{}, fmt.Errorf("%w: %s", ErrUnknownOffering, offeringID)
	}

	var result domain.AddResult
	session, err := s.mutate(ctx, sessionID, "add_item", func(session *domain.Session) error {
		var err error
		result, err = session.AddToCart(*offering, duration)
		return err
	})
	if err != nil {
		return nil, domain.AddResult{}, err
	}
	return session, result, nil
}

func (s *Service) UpdateQuantity(ctx context.Context, sessionID, lineRef string, delta int) (*domain.Session, error) {
	return s.mutate(ctx, sessionID, "update_quantity", func(session *domain.Session) error {
		_, err := session.UpdateQuantity(lineRef, delta)
		return err
	})
}

func (s *Service) RemoveLine(ctx context.Context, sessionID, lineRef string) (*domain.Session, error) {
	return s.mutate(ctx, sessionID, "remove_item", func(session *domain.Session) error {
		return session.RemoveLine(lineRef)
	})
}

func (s *Service) AddAddons(ctx context.Context, sessionID string, sel domain.AddonSelection) (*domain.Session, error) {
	return s.mutate(ctx, sessionID, "add_addons", func(session *domain.Session) error {
		_, err := session.AddAddons(sel)
		return err
	})
}

func (s *Service) DismissAddonPrompt(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.mutate(ctx, sessionID, "dismiss_addons", func(session *domain.Session) error {
		session.DismissAddonPrompt()
		return nil
	})
}

// ApplyCoupon activates a coupon. An unknown code keeps the previous coupon.
func (s *Service) ApplyCoupon(ctx context.Context, sessionID, code string) (*domain.Session, error) {
	var applied domain.Coupon
	session, err := s.mutate(ctx, sessionID, "apply_coupon", func(session *domain.Session) error {
		var err error
		applied, err = session.ApplyCoupon(code)
		return err
	})
	switch {
	case err == nil:
		s.metrics.RecordCouponApplication(ctx, applied.Code, true)
	case errors.Is(err, domain.ErrInvalidCouponCode):
		s.metrics.RecordCouponApplication(ctx, "", false)
	}
	return session, err
}

func (s *Service) RemoveCoupon(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.mutate(ctx, sessionID, "remove_coupon", func(session *domain.Session) error {
		return session.RemoveCoupon()
	})
}

func (s *Service) UpdateCheckout(ctx context.Context, sessionID string, details domain.CheckoutDetails) (*domain.Session, error) {
	return s.mutate(ctx, sessionID, "update_checkout", func(session *domain.Session) error {
		return session.UpdateCheckout(details)
	})
}

func (s *Service) Navigate(ctx context.Context, sessionID string, to domain.View) (*domain.Session, error) {
	return s.mutate(ctx, sessionID, "navigate", func(session *domain.Session) error {
		return session.Navigate(to)
	})
}

// SubmitOrder validates the checkout, places the order and moves the
// session to the invoice view. Failures leave the session untouched.
func (s *Service) SubmitOrder(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.ReadyToSubmit(); err != nil {
		s.metrics.RecordMutation(ctx, "submit_order", false)
		return nil, err
	}

	order, err := s.orders.PlaceOrder(ctx, session.OrderDraft())
	if err != nil {
		s.metrics.RecordMutation(ctx, "submit_order", false)
		return nil, &PersistenceError{Err: err}
	}

	updated, err := s.mutate(ctx, sessionID, "submit_order", func(session *domain.Session) error {
		session.CompleteOrder(*order)
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "order placed but session not updated",
			"error", err,
			"session_id", sessionID,
			"invoice_number", order.InvoiceNumber,
		)
		return nil, err
	}
	return updated, nil
}

// StartNewOrder resets an invoice session for the next order.
func (s *Service) StartNewOrder(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.mutate(ctx, sessionID, "new_order", func(session *domain.Session) error {
		return session.StartNewOrder()
	})
}

func (s *Service) mutate(ctx context.Context, sessionID, operation string, fn func(*domain.Session) error) (*domain.Session, error) {
	session, err := s.sessions.Update(ctx, sessionID, func(session *domain.Session) error {
		if err := fn(session); err != nil {
			return err
		}
		session.UpdatedAt = s.now()
		return nil
	})
	s.metrics.RecordMutation(ctx, operation, err == nil)
	if err != nil {
		return nil, err
	}
	return session, nil
}
