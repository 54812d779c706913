// Cart HTTP handlers.
//
// This file exposes the REST endpoints for the per-user cart:
//   - GET    /cart                 (get-or-create, live slot enrichment)
//   - POST   /cart/items           (add a line item)
//   - PUT    /cart/items/{adId}    (set a line's quantity)
//   - DELETE /cart/items/{adId}    (remove a line, idempotent)
//   - DELETE /cart                 (clear all lines)
//
// Handlers are transport-thin: they validate input, delegate to the cart
// service, and translate service errors into HTTP results. Capacity
// conflicts map to 409 and always name the offending item and its live
// availability.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Rishabht13/TripPlanner/internal/domain"
	"github.com/Rishabht13/TripPlanner/internal/http/middleware"
	"github.com/Rishabht13/TripPlanner/internal/services"
)

//
// Service contracts (context-aware)
//

// CartService defines cart operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type CartService interface {
	// Get returns the user's cart, creating an empty one on first access.
	Get(ctx context.Context, userID string) (*services.CartView, error)
	// AddItem adds quantity slots of adID, incrementing an existing line.
	AddItem(ctx context.Context, userID, adID string, quantity int) (*services.CartView, error)
	// UpdateItem sets a line's quantity to an absolute value (floored to 1).
	UpdateItem(ctx context.Context, userID, adID string, quantity int) (*services.CartView, error)
	// RemoveItem deletes a line; absent lines are a no-op.
	RemoveItem(ctx context.Context, userID, adID string) (*services.CartView, error)
	// Clear removes every line from the cart.
	Clear(ctx context.Context, userID string) (*services.CartView, error)
}

// CheckoutService defines the atomic cart-to-order transition.
type CheckoutService interface {
	// Checkout validates the payment identifier and commits the purchase.
	Checkout(ctx context.Context, userID, userName, upiID string) (*domain.Order, error)
}

// AdService defines catalog reads and administrative mutations.
type AdService interface {
	Create(ctx context.Context, createdBy string, in services.NewAdInput) (*domain.Ad, error)
	Get(ctx context.Context, id string) (*domain.Ad, error)
	List(ctx context.Context, category string) ([]domain.Ad, error)
	Delete(ctx context.Context, id string) error
}

// OrderService pages through the caller's order archive.
type OrderService interface {
	ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Order, int64, error)
	Get(ctx context.Context, userID, id string) (*domain.Order, error)
}

// NotificationService exposes recipient-scoped notification reads.
type NotificationService interface {
	ListRecent(ctx context.Context, recipientID string) ([]services.NotificationView, error)
	MarkRead(ctx context.Context, recipientID, id string) (*domain.Notification, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for carts, checkout, ads, orders, and
// notifications. It depends on abstract service interfaces to keep transport
// concerns separate from business logic.
type Handlers struct {
	cartSvc     CartService
	checkoutSvc CheckoutService
	adSvc       AdService
	orderSvc    OrderService
	notifSvc    NotificationService

	// replayOrder resolves a previously committed checkout for idempotent
	// replays; wired by the router, optional.
	replayOrder func(ctx context.Context, userID, key string) (*domain.Order, bool)
	// recordIdem persists the (key -> order) association after a committed
	// checkout; wired by the router, optional.
	recordIdem func(ctx context.Context, userID, key, orderID string, status int)
}

// New constructs a Handlers instance bound to the given services.
func New(cartSvc CartService, checkoutSvc CheckoutService, adSvc AdService, orderSvc OrderService, notifSvc NotificationService) *Handlers {
	return &Handlers{
		cartSvc:     cartSvc,
		checkoutSvc: checkoutSvc,
		adSvc:       adSvc,
		orderSvc:    orderSvc,
		notifSvc:    notifSvc,
	}
}

// WithIdempotency wires the optional checkout replay hooks.
func (h *Handlers) WithIdempotency(
	replay func(ctx context.Context, userID, key string) (*domain.Order, bool),
	record func(ctx context.Context, userID, key, orderID string, status int),
) *Handlers {
	h.replayOrder = replay
	h.recordIdem = record
	return h
}

//
// DTOs
//

// AddCartItemRequest is the JSON payload for adding a line to the cart.
// Quantity defaults to 1 when omitted; an explicit non-positive value is
// rejected.
type AddCartItemRequest struct {
	AdID     string `json:"adId" binding:"required" example:"fa4dfbe0-c3bf-47bd-b32f-d7de221cf43b"`
	Quantity *int   `json:"quantity,omitempty" example:"2"`
}

// UpdateCartItemRequest is the JSON payload for setting a line's quantity.
// Values below 1 are floored to 1.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" example:"3"`
}

//
// Helpers
//

// addItemBindMessage tells a malformed payload apart from a missing adId, so
// a client sending {"adId": "...", "quantity": "two"} is not told the adId is
// missing.
func addItemBindMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return "invalid value for " + typeErr.Field
	}
	var synErr *json.SyntaxError
	if errors.As(err, &synErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return "invalid JSON body"
	}
	return "adId is required"
}

// cartFail maps cart-service errors onto the HTTP error taxonomy.
func cartFail(c *gin.Context, err error) {
	if ce, isCapacity := services.AsCapacityError(err); isCapacity {
		fail(c, http.StatusConflict, ErrCodeCapacityExceeded, ce.Error())
		return
	}
	switch err {
	case services.ErrAdNotFound:
		fail(c, http.StatusNotFound, ErrCodeNotFound, "ad not found")
	case services.ErrCartItemNotFound:
		fail(c, http.StatusNotFound, ErrCodeNotFound, "item not found in cart")
	case services.ErrInvalidQuantity:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "quantity must be at least 1")
	default:
		failServer(c, err)
	}
}

//
// Handlers
//

// GetCart godoc
// @ID          getCart
// @Summary     Get the current user's cart
// @Description Returns the cart (creating an empty one on first access) with each line's live availableSlots.
// @Tags        Cart
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID (gateway header)"  example(user123)
//
// @Success     200  {object} services.CartView
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /cart [get]
func (h *Handlers) GetCart(c *gin.Context) {
	view, err := h.cartSvc.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		failServer(c, err)
		return
	}
	ok(c, http.StatusOK, view)
}

// AddCartItem godoc
// @ID          addCartItem
// @Summary     Add an item to the cart
// @Description Adds quantity slots of an ad; an existing line for the same ad is incremented.
// @Tags        Cart
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID (gateway header)"  example(user123)
// @Param       body       body    handlers.AddCartItemRequest  true  "Line item"
//
// @Success     201  {object} services.CartView
// @Failure     400  {object} handlers.ErrorResponse "Invalid payload or quantity"
// @Failure     404  {object} handlers.ErrorResponse "Ad not found"
// @Failure     409  {object} handlers.ErrorResponse "Capacity exceeded"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /cart/items [post]
func (h *Handlers) AddCartItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, addItemBindMessage(err))
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	view, err := h.cartSvc.AddItem(c.Request.Context(), middleware.UserID(c), req.AdID, qty)
	if err != nil {
		cartFail(c, err)
		return
	}
	ok(c, http.StatusCreated, view)
}

// UpdateCartItem godoc
// @ID          updateCartItem
// @Summary     Set a cart line's quantity
// @Description Replaces the quantity of an existing line (absolute set, floored to 1).
// @Tags        Cart
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID (gateway header)"  example(user123)
// @Param       adId       path    string  true  "Ad ID (UUID)"              format(uuid)
// @Param       body       body    handlers.UpdateCartItemRequest  true  "New quantity"
//
// @Success     200  {object} services.CartView
// @Failure     400  {object} handlers.ErrorResponse "Invalid payload"
// @Failure     404  {object} handlers.ErrorResponse "Ad or cart line not found"
// @Failure     409  {object} handlers.ErrorResponse "Capacity exceeded"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /cart/items/{adId} [put]
func (h *Handlers) UpdateCartItem(c *gin.Context) {
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	view, err := h.cartSvc.UpdateItem(c.Request.Context(), middleware.UserID(c), c.Param("adId"), req.Quantity)
	if err != nil {
		cartFail(c, err)
		return
	}
	ok(c, http.StatusOK, view)
}

// RemoveCartItem godoc
// @ID          removeCartItem
// @Summary     Remove a cart line
// @Description Removes the line for the given ad; removing an absent line succeeds.
// @Tags        Cart
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID (gateway header)"  example(user123)
// @Param       adId       path    string  true  "Ad ID (UUID)"              format(uuid)
//
// @Success     200  {object} services.CartView
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /cart/items/{adId} [delete]
func (h *Handlers) RemoveCartItem(c *gin.Context) {
	view, err := h.cartSvc.RemoveItem(c.Request.Context(), middleware.UserID(c), c.Param("adId"))
	if err != nil {
		failServer(c, err)
		return
	}
	ok(c, http.StatusOK, view)
}

// ClearCart godoc
// @ID          clearCart
// @Summary     Clear the cart
// @Description Empties all lines from the cart; the cart itself survives.
// @Tags        Cart
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID (gateway header)"  example(user123)
//
// @Success     200  {object} services.CartView
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /cart [delete]
func (h *Handlers) ClearCart(c *gin.Context) {
	view, err := h.cartSvc.Clear(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		failServer(c, err)
		return
	}
	ok(c, http.StatusOK, view)
}
