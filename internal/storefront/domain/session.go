package domain

import (
	"fmt"
	"time"

	catalog "github.com/dejobratic/storefront/internal/catalog/domain"
	orders "github.com/dejobratic/storefront/internal/orders/domain"
)

// Session is one shopper's checkout state: active view, cart, coupon,
// checkout form, the pending add-on prompt and the last placed order.
type Session struct {
	ID          string          `json:"id"`
	View        View            `json:"view"`
	Cart        Cart            `json:"cart"`
	Coupon      *Coupon         `json:"coupon,omitempty"`
	Checkout    CheckoutDetails `json:"checkout"`
	AddonPrompt string          `json:"addon_prompt,omitempty"`
	Invoice     *orders.Order   `json:"invoice,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewSession starts a session in the browse view.
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		View:      ViewBrowse,
		Checkout:  NewCheckoutDetails(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Totals prices the current cart with the active coupon.
func (s *Session) Totals() Totals {
	return ComputeTotals(s.Cart.Lines, s.Coupon)
}

func (s *Session) requireShopping() error {
	if !s.View.Shopping() {
		return fmt.Errorf("%w: %s", ErrViewMismatch, s.View)
	}
	return nil
}

// AddToCart adds a catalog selection. A website design offering raises
// the one-shot add-on prompt.
func (s *Session) AddToCart(offering catalog.Offering, duration catalog.Duration) (AddResult, error) {
	if err := s.requireShopping(); err != nil {
		return AddResult{}, err
	}
	result, err := s.Cart.Add(offering, duration)
	if err != nil {
		return AddResult{}, err
	}
	if result.AddonPrompt {
		s.AddonPrompt = offering.ID
	}
	return result, nil
}

func (s *Session) RemoveLine(ref string) error {
	if err := s.requireShopping(); err != nil {
		return err
	}
	return s.Cart.Remove(ref)
}

func (s *Session) UpdateQuantity(ref string, delta int) (CartLine, error) {
	if err := s.requireShopping(); err != nil {
		return CartLine{}, err
	}
	return s.Cart.UpdateQuantity(ref, delta)
}

// AddAddons answers the add-on prompt and clears it.
func (s *Session) AddAddons(sel AddonSelection) ([]CartLine, error) {
	if err := s.requireShopping(); err != nil {
		return nil, err
	}
	added, err := s.Cart.AddAddons(sel)
	if err != nil {
		return nil, err
	}
	s.AddonPrompt = ""
	return added, nil
}

// DismissAddonPrompt clears the prompt without adding anything.
func (s *Session) DismissAddonPrompt() {
	s.AddonPrompt = ""
}

// ApplyCoupon replaces the active coupon. An unknown code leaves the
// current coupon in place.
func (s *Session) ApplyCoupon(code string) (Coupon, error) {
	if err := s.requireShopping(); err != nil {
		return Coupon{}, err
	}
	c, err := ResolveCoupon(code)
	if err != nil {
		return Coupon{}, err
	}
	s.Coupon = &c
	return c, nil
}

func (s *Session) RemoveCoupon() error {
	if err := s.requireShopping(); err != nil {
		return err
	}
	s.Coupon = nil
	return nil
}

// UpdateCheckout replaces the checkout form.
func (s *Session) UpdateCheckout(details CheckoutDetails) error {
	if err := s.requireShopping(); err != nil {
		return err
	}
	s.Checkout = details
	return nil
}

// Navigate performs a direct view transition. Requesting the current view
// is a no-op.
func (s *Session) Navigate(to View) error {
	if to == s.View {
		return nil
	}
	if !s.View.CanNavigate(to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s.View, to)
	}
	if to == ViewCheckout && s.Cart.IsEmpty() {
		return ErrEmptyCart
	}
	s.View = to
	return nil
}

// ReadyToSubmit checks the preconditions of order submission.
func (s *Session) ReadyToSubmit() error {
	if s.View != ViewCheckout {
		return fmt.Errorf("%w: submit from %s", ErrIllegalTransition, s.View)
	}
	if err := s.Checkout.Validate(); err != nil {
		return err
	}
	if s.Cart.IsEmpty() {
		return ErrEmptyCart
	}
	return nil
}

// OrderDraft snapshots the cart, totals and form into an order draft.
func (s *Session) OrderDraft() orders.Draft {
	totals := s.Totals()
	draft := orders.Draft{
		Items:          make([]orders.LineItem, 0, len(s.Cart.Lines)),
		Subtotal:       totals.Subtotal,
		DiscountAmount: totals.DiscountAmount,
		TotalAmount:    totals.Total,
		Customer: orders.Customer{
			FullName:     s.Checkout.FullName,
			Mobile:       s.Checkout.Mobile,
			Email:        s.Checkout.Email,
			WhatsApp:     s.Checkout.WhatsAppNumber(),
			BusinessName: s.Checkout.BusinessName,
			BusinessType: s.Checkout.BusinessType,
			BusinessLink: s.Checkout.BusinessLink,
			District:     s.Checkout.District,
			Upazila:      s.Checkout.Upazila,
			Address:      s.Checkout.Address,
			StartDate:    s.Checkout.StartDate,
			Instructions: s.Checkout.Instructions,
			Source:       s.Checkout.Source,
		},
	}
	if s.Coupon != nil {
		draft.CouponCode = s.Coupon.Code
		draft.CouponPercent = s.Coupon.DiscountPercent
	}
	for _, l := range s.Cart.Lines {
		draft.Items = append(draft.Items, orders.LineItem{
			ID:            l.ID,
			Key:           l.Key,
			Type:          string(l.Type),
			OfferingID:    l.OfferingID,
			Duration:      string(l.Duration),
			DurationLabel: l.DurationLabel,
			Name:          l.Name,
			Category:      string(l.Category),
			Icon:          l.Icon,
			UnitPrice:     l.UnitPrice,
			OriginalPrice: l.OriginalPrice,
			Quantity:      l.Quantity,
		})
	}
	return draft
}

// CompleteOrder records the placed order and moves to the invoice view.
func (s *Session) CompleteOrder(order orders.Order) {
	snapshot := order.Clone()
	s.Invoice = &snapshot
	s.View = ViewInvoice
}

// StartNewOrder resets the session from the invoice view back to browse.
func (s *Session) StartNewOrder() error {
	if s.View != ViewInvoice {
		return fmt.Errorf("%w: new order from %s", ErrIllegalTransition, s.View)
	}
	s.Cart.Clear()
	s.Coupon = nil
	s.Checkout = NewCheckoutDetails()
	s.AddonPrompt = ""
	s.Invoice = nil
	s.View = ViewBrowse
	return nil
}

// Clone returns a deep copy so stores never share state with callers.
func (s *Session) Clone() *Session {
	clone := *s
	clone.Cart.Lines = append([]CartLine(nil), s.Cart.Lines...)
	if s.Coupon != nil {
		c := *s.Coupon
		clone.Coupon = &c
	}
	if s.Invoice != nil {
		inv := s.Invoice.Clone()
		clone.Invoice = &inv
	}
	return &clone
}
