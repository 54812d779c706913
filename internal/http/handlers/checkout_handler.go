// Checkout HTTP handler.
//
// This file exposes the endpoint that turns a cart into a paid order:
//   - POST /checkout
//
// The handler is transport-thin; the atomic work (inventory decrement, order
// snapshot, notifications, cart emptying) happens in the checkout service.
// When the client supplies an Idempotency-Key, a replayed request returns
// the originally committed order instead of re-running the transaction.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Rishabht13/TripPlanner/internal/domain"
	"github.com/Rishabht13/TripPlanner/internal/http/middleware"
	"github.com/Rishabht13/TripPlanner/internal/services"
)

// CheckoutRequest is the JSON payload for submitting a checkout.
type CheckoutRequest struct {
	// UpiID is the payer-supplied payment identifier (local@provider).
	UpiID string `json:"upiId" binding:"required" example:"alice@upi"`
}

// CheckoutResponse wraps the created order with a human-readable status.
type CheckoutResponse struct {
	Message string        `json:"message" example:"Payment successful"`
	Order   *domain.Order `json:"order"`
}

// Checkout godoc
// @ID          checkout
// @Summary     Submit checkout
// @Description Atomically validates the cart against live inventory, decrements slots, creates a paid order, notifies sellers, and empties the cart. Either every effect is applied or none are.
// @Tags        Checkout
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  true   "User ID (gateway header)"      example(user123)
// @Param       X-User-Name      header  string  false  "Display name for notifications" example(Alice)
// @Param       Idempotency-Key  header  string  false  "Safe-retry key"
// @Param       body             body    handlers.CheckoutRequest  true  "Payment identifier"
//
// @Success     201  {object} handlers.CheckoutResponse
// @Success     200  {object} handlers.CheckoutResponse "Idempotent replay"
// @Failure     400  {object} handlers.ErrorResponse "Invalid payment id or empty cart"
// @Failure     404  {object} handlers.ErrorResponse "Items no longer available"
// @Failure     409  {object} handlers.ErrorResponse "Capacity exceeded"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /checkout [post]
func (h *Handlers) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeInvalidPaymentID, "enter a valid UPI ID (example: user@paytm)")
		return
	}

	ctx := c.Request.Context()
	uid := middleware.UserID(c)

	// Serve a detected replay from the archive instead of re-running the
	// transaction (which would consume inventory twice or trip over the
	// already-emptied cart).
	if key, hasKey := middleware.GetIdempotencyKey(c); hasKey && middleware.IsReplay(c) && h.replayOrder != nil {
		if order, found := h.replayOrder(ctx, uid, key); found {
			ok(c, http.StatusOK, CheckoutResponse{Message: "Payment successful", Order: order})
			return
		}
	}

	order, err := h.checkoutSvc.Checkout(ctx, uid, middleware.UserName(c), req.UpiID)
	if err != nil {
		if ce, isCapacity := services.AsCapacityError(err); isCapacity {
			fail(c, http.StatusConflict, ErrCodeCapacityExceeded, ce.Error())
			return
		}
		switch err {
		case services.ErrInvalidPaymentID:
			fail(c, http.StatusBadRequest, ErrCodeInvalidPaymentID, err.Error())
		case services.ErrEmptyCart:
			fail(c, http.StatusBadRequest, ErrCodeEmptyCart, "cart is empty")
		case services.ErrItemsUnavailable:
			fail(c, http.StatusNotFound, ErrCodeItemsUnavailable, "some items are no longer available")
		default:
			failServer(c, err)
		}
		return
	}

	if key, hasKey := middleware.GetIdempotencyKey(c); hasKey && h.recordIdem != nil {
		h.recordIdem(ctx, uid, key, order.ID, http.StatusCreated)
	}

	ok(c, http.StatusCreated, CheckoutResponse{Message: "Payment successful", Order: order})
}
