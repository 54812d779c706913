package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Rishabht13/TripPlanner/internal/domain"
	"github.com/Rishabht13/TripPlanner/internal/http/middleware"
	"github.com/Rishabht13/TripPlanner/internal/services"
)

func newOrderRouter(h *Handlers) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/", middleware.Identity())
	api.GET("/orders", h.ListOrders)
	api.GET("/orders/:id", h.GetOrder)
	return r
}

func TestListOrders_PaginationMetadata(t *testing.T) {
	var sawPage, sawSize int
	orders := stubOrderSvc{listPage: func(_ context.Context, _ string, page, pageSize int) ([]domain.Order, int64, error) {
		sawPage, sawSize = page, pageSize
		return []domain.Order{{ID: "o3"}, {ID: "o2"}}, 5, nil
	}}
	h := New(stubCartSvc{}, stubCheckoutSvc{}, stubAdSvc{}, orders, stubNotifSvc{})
	r := newOrderRouter(h)

	w := doJSON(t, r, http.MethodGet, "/orders?page=1&page_size=2", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if sawPage != 1 || sawSize != 2 {
		t.Fatalf("service saw page=%d size=%d", sawPage, sawSize)
	}

	var resp ListOrdersResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	p := resp.Pagination
	if p.Page != 1 || p.PageSize != 2 || p.Total != 5 || p.TotalPages != 3 || !p.HasNext {
		t.Fatalf("pagination = %+v", p)
	}
	if len(resp.Orders) != 2 || resp.Orders[0].ID != "o3" {
		t.Fatalf("orders = %+v", resp.Orders)
	}
}

func TestListOrders_ClampsBadQueryValues(t *testing.T) {
	var sawPage, sawSize int
	orders := stubOrderSvc{listPage: func(_ context.Context, _ string, page, pageSize int) ([]domain.Order, int64, error) {
		sawPage, sawSize = page, pageSize
		return nil, 0, nil
	}}
	h := New(stubCartSvc{}, stubCheckoutSvc{}, stubAdSvc{}, orders, stubNotifSvc{})
	r := newOrderRouter(h)

	w := doJSON(t, r, http.MethodGet, "/orders?page=-1&page_size=9999", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if sawPage != 1 || sawSize != 100 {
		t.Fatalf("service saw page=%d size=%d, want clamped 1/100", sawPage, sawSize)
	}

	var resp ListOrdersResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Pagination.TotalPages != 0 || resp.Pagination.HasNext {
		t.Fatalf("empty archive pagination = %+v", resp.Pagination)
	}
}

func TestGetOrder(t *testing.T) {
	orders := stubOrderSvc{get: func(_ context.Context, u, id string) (*domain.Order, error) {
		if id == "ghost" {
			return nil, services.ErrOrderNotFound
		}
		return &domain.Order{ID: id, UserID: u, TotalAmount: 440}, nil
	}}
	h := New(stubCartSvc{}, stubCheckoutSvc{}, stubAdSvc{}, orders, stubNotifSvc{})
	r := newOrderRouter(h)

	w := doJSON(t, r, http.MethodGet, "/orders/o1", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var o domain.Order
	if err := json.Unmarshal(w.Body.Bytes(), &o); err != nil || o.ID != "o1" || o.TotalAmount != 440 {
		t.Fatalf("body = %s (err=%v)", w.Body.String(), err)
	}

	w = doJSON(t, r, http.MethodGet, "/orders/ghost", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("ghost: status = %d, want 404", w.Code)
	}
}
