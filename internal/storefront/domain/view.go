package domain

import (
	"errors"
	"fmt"
)

// View is the active top-level screen of a session.
type View string

const (
	ViewBrowse   View = "browse"
	ViewCheckout View = "checkout"
	ViewInvoice  View = "invoice"
	ViewAdmin    View = "admin"
)

var (
	ErrIllegalTransition = errors.New("illegal view transition")
	ErrViewMismatch      = errors.New("operation not available in current view")
)

// navigable lists transitions a shopper may request directly. Admin is
// reachable from every shopping view. Checkout to Invoice happens only
// through a placed order, and Invoice is left only through a new order reset.
var navigable = map[View][]View{
	ViewBrowse:   {ViewCheckout, ViewAdmin},
	ViewCheckout: {ViewBrowse, ViewAdmin},
	ViewAdmin:    {ViewBrowse, ViewCheckout},
}

// ParseView validates a view name.
func ParseView(s string) (View, error) {
	switch v := View(s); v {
	case ViewBrowse, ViewCheckout, ViewInvoice, ViewAdmin:
		return v, nil
	default:
		return "", fmt.Errorf("%w: unknown view %q", ErrIllegalTransition, s)
	}
}

// CanNavigate reports whether v -> to is a direct transition.
func (v View) CanNavigate(to View) bool {
	for _, allowed := range navigable[v] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Shopping reports whether cart, coupon and checkout edits are allowed.
func (v View) Shopping() bool {
	return v == ViewBrowse || v == ViewCheckout
}
