// Package services defines the business logic for the marketplace: the ad
// inventory ledger, the cart store, the checkout coordinator, and the
// notification sink. This file centralizes common service-level error values
// so that they can be consistently returned by service methods and checked
// by callers.
//
// These errors are intended for internal use by the service layer; handlers
// translate them into HTTP statuses. Every predictable failure has a tagged
// type or sentinel here — callers must never classify errors by matching
// message text.
package services

import (
	"errors"
	"fmt"
)

var (
	// ErrAdNotFound indicates that the referenced ad does not exist (or has
	// been removed from the catalog).
	ErrAdNotFound = errors.New("ad not found")

	// ErrCartItemNotFound indicates that the cart has no line for the
	// referenced ad.
	ErrCartItemNotFound = errors.New("item not found in cart")

	// ErrInvalidQuantity is returned when a client explicitly supplies a
	// non-positive quantity when adding to the cart.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	// ErrEmptyCart is returned when checkout is attempted with no cart or an
	// empty one. A retry after a successful checkout lands here too, since
	// the committed transaction empties the cart.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrItemsUnavailable is returned when a cart line references an ad that
	// was deleted after the line was added. The stale line is left in the
	// cart for the user to remove.
	ErrItemsUnavailable = errors.New("some items are no longer available")

	// ErrInvalidPaymentID is returned when the supplied UPI identifier does
	// not match the expected local@domain syntax. No state is touched.
	ErrInvalidPaymentID = errors.New("enter a valid UPI ID (example: user@paytm)")

	// ErrNotificationNotFound indicates the notification does not exist or
	// is not addressed to the caller.
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrInvalidAd is returned (wrapped with detail) when an administrative
	// ad create request fails validation.
	ErrInvalidAd = errors.New("invalid ad")
)

// CapacityError reports that a requested quantity exceeds an ad's current
// available slots, either at cart-mutation time or during the checkout
// transaction. It carries the offending title and the live count so the
// caller can adjust, instead of burying them in a string to be sniffed.
type CapacityError struct {
	Title     string
	Available int
}

// Error formats the user-facing capacity message.
func (e *CapacityError) Error() string {
	return fmt.Sprintf("only %d slot(s) left for %s", e.Available, e.Title)
}

// AsCapacityError unwraps err into a *CapacityError if it is one.
func AsCapacityError(err error) (*CapacityError, bool) {
	var ce *CapacityError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
