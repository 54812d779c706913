// Order archive HTTP handlers.
//
//   - GET /orders        (paginated history for the caller)
//   - GET /orders/{id}   (single order, owner-scoped)
//
// Orders are immutable; there are no mutation endpoints.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Rishabht13/TripPlanner/internal/domain"
	"github.com/Rishabht13/TripPlanner/internal/http/middleware"
	"github.com/Rishabht13/TripPlanner/internal/services"
	"github.com/Rishabht13/TripPlanner/internal/utils"
)

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListOrdersResponse wraps a page of orders and pagination information.
type ListOrdersResponse struct {
	Orders     []domain.Order `json:"orders"`
	Pagination Pagination     `json:"pagination"`
}

// ListOrders godoc
// @ID          listOrders
// @Summary     List the caller's orders (paginated)
// @Tags        Orders
// @Produce     json
//
// @Param       X-User-ID  header  string  true   "User ID (gateway header)"  example(user123)
// @Param       page       query   int     false  "Page number"               minimum(1) default(1)
// @Param       page_size  query   int     false  "Items per page"            minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListOrdersResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /orders [get]
func (h *Handlers) ListOrders(c *gin.Context) {
	page, pageSize := utils.PageBounds(c.Query("page"), c.Query("page_size"))

	items, total, err := h.orderSvc.ListPage(c.Request.Context(), middleware.UserID(c), page, pageSize)
	if err != nil {
		failServer(c, err)
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListOrdersResponse{
		Orders: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// GetOrder godoc
// @ID          getOrder
// @Summary     Get one of the caller's orders
// @Tags        Orders
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID (gateway header)"  example(user123)
// @Param       id         path    string  true  "Order ID (UUID)"           format(uuid)
//
// @Success     200  {object} domain.Order
// @Failure     404  {object} handlers.ErrorResponse "Order not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /orders/{id} [get]
func (h *Handlers) GetOrder(c *gin.Context) {
	o, err := h.orderSvc.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "order not found")
			return
		}
		failServer(c, err)
		return
	}
	ok(c, http.StatusOK, o)
}
