package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Rishabht13/TripPlanner/internal/domain"
	"github.com/Rishabht13/TripPlanner/internal/http/middleware"
	"github.com/Rishabht13/TripPlanner/internal/services"
)

// ---- stubs to satisfy handlers.New() dependencies ----

type stubCartSvc struct {
	get    func(ctx context.Context, userID string) (*services.CartView, error)
	add    func(ctx context.Context, userID, adID string, quantity int) (*services.CartView, error)
	update func(ctx context.Context, userID, adID string, quantity int) (*services.CartView, error)
	remove func(ctx context.Context, userID, adID string) (*services.CartView, error)
	clear  func(ctx context.Context, userID string) (*services.CartView, error)
}

func (s stubCartSvc) Get(ctx context.Context, u string) (*services.CartView, error) {
	if s.get != nil {
		return s.get(ctx, u)
	}
	return &services.CartView{ID: "cart1", UserID: u}, nil
}

func (s stubCartSvc) AddItem(ctx context.Context, u, ad string, q int) (*services.CartView, error) {
	if s.add != nil {
		return s.add(ctx, u, ad, q)
	}
	return &services.CartView{ID: "cart1", UserID: u}, nil
}

func (s stubCartSvc) UpdateItem(ctx context.Context, u, ad string, q int) (*services.CartView, error) {
	if s.update != nil {
		return s.update(ctx, u, ad, q)
	}
	return &services.CartView{ID: "cart1", UserID: u}, nil
}

func (s stubCartSvc) RemoveItem(ctx context.Context, u, ad string) (*services.CartView, error) {
	if s.remove != nil {
		return s.remove(ctx, u, ad)
	}
	return &services.CartView{ID: "cart1", UserID: u}, nil
}

func (s stubCartSvc) Clear(ctx context.Context, u string) (*services.CartView, error) {
	if s.clear != nil {
		return s.clear(ctx, u)
	}
	return &services.CartView{ID: "cart1", UserID: u}, nil
}

type stubCheckoutSvc struct {
	fn func(ctx context.Context, userID, userName, upiID string) (*domain.Order, error)
}

func (s stubCheckoutSvc) Checkout(ctx context.Context, userID, userName, upiID string) (*domain.Order, error) {
	if s.fn != nil {
		return s.fn(ctx, userID, userName, upiID)
	}
	return &domain.Order{ID: "o1", UserID: userID}, nil
}

type stubAdSvc struct {
	create func(ctx context.Context, createdBy string, in services.NewAdInput) (*domain.Ad, error)
	get    func(ctx context.Context, id string) (*domain.Ad, error)
	list   func(ctx context.Context, category string) ([]domain.Ad, error)
	del    func(ctx context.Context, id string) error
}

func (s stubAdSvc) Create(ctx context.Context, by string, in services.NewAdInput) (*domain.Ad, error) {
	if s.create != nil {
		return s.create(ctx, by, in)
	}
	return &domain.Ad{ID: "ad1", CreatedBy: by}, nil
}

func (s stubAdSvc) Get(ctx context.Context, id string) (*domain.Ad, error) {
	if s.get != nil {
		return s.get(ctx, id)
	}
	return &domain.Ad{ID: id}, nil
}

func (s stubAdSvc) List(ctx context.Context, category string) ([]domain.Ad, error) {
	if s.list != nil {
		return s.list(ctx, category)
	}
	return nil, nil
}

func (s stubAdSvc) Delete(ctx context.Context, id string) error {
	if s.del != nil {
		return s.del(ctx, id)
	}
	return nil
}

type stubOrderSvc struct {
	listPage func(ctx context.Context, userID string, page, pageSize int) ([]domain.Order, int64, error)
	get      func(ctx context.Context, userID, id string) (*domain.Order, error)
}

func (s stubOrderSvc) ListPage(ctx context.Context, u string, p, ps int) ([]domain.Order, int64, error) {
	if s.listPage != nil {
		return s.listPage(ctx, u, p, ps)
	}
	return nil, 0, nil
}

func (s stubOrderSvc) Get(ctx context.Context, u, id string) (*domain.Order, error) {
	if s.get != nil {
		return s.get(ctx, u, id)
	}
	return &domain.Order{ID: id, UserID: u}, nil
}

type stubNotifSvc struct {
	list func(ctx context.Context, recipientID string) ([]services.NotificationView, error)
	mark func(ctx context.Context, recipientID, id string) (*domain.Notification, error)
}

func (s stubNotifSvc) ListRecent(ctx context.Context, r string) ([]services.NotificationView, error) {
	if s.list != nil {
		return s.list(ctx, r)
	}
	return nil, nil
}

func (s stubNotifSvc) MarkRead(ctx context.Context, r, id string) (*domain.Notification, error) {
	if s.mark != nil {
		return s.mark(ctx, r, id)
	}
	return &domain.Notification{ID: id, RecipientID: r, IsRead: true}, nil
}

// newHandlerRouter registers every route behind the identity middleware, the
// same way the production router does.
func newHandlerRouter(h *Handlers) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/", middleware.Identity())
	api.GET("/cart", h.GetCart)
	api.POST("/cart/items", h.AddCartItem)
	api.PUT("/cart/items/:adId", h.UpdateCartItem)
	api.DELETE("/cart/items/:adId", h.RemoveCartItem)
	api.DELETE("/cart", h.ClearCart)
	api.POST("/checkout", h.Checkout)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Buffer
	if body != "" {
		rd = bytes.NewBufferString(body)
	} else {
		rd = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.HeaderUserID, "u1")
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ---- tests ----

func TestGetCart_OK(t *testing.T) {
	var sawUser string
	cart := stubCartSvc{get: func(_ context.Context, u string) (*services.CartView, error) {
		sawUser = u
		return &services.CartView{ID: "cart1", UserID: u}, nil
	}}
	h := New(cart, stubCheckoutSvc{}, stubAdSvc{}, stubOrderSvc{}, stubNotifSvc{})
	r := newHandlerRouter(h)

	w := doJSON(t, r, http.MethodGet, "/cart", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if sawUser != "u1" {
		t.Fatalf("service saw user %q, want u1", sawUser)
	}
	var view services.CartView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil || view.ID != "cart1" {
		t.Fatalf("body = %s (err=%v)", w.Body.String(), err)
	}
}

func TestGetCart_ServiceError(t *testing.T) {
	cart := stubCartSvc{get: func(context.Context, string) (*services.CartView, error) {
		return nil, errors.New("boom")
	}}
	h := New(cart, stubCheckoutSvc{}, stubAdSvc{}, stubOrderSvc{}, stubNotifSvc{})
	r := newHandlerRouter(h)

	w := doJSON(t, r, http.MethodGet, "/cart", "", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Code != ErrCodeInternal {
		t.Fatalf("body = %s (err=%v)", w.Body.String(), err)
	}
	if resp.Message != "internal server error" {
		t.Fatalf("internal detail leaked: %q", resp.Message)
	}
}

func TestAddCartItem_DefaultsQuantityToOne(t *testing.T) {
	var sawQty int
	cart := stubCartSvc{add: func(_ context.Context, u, ad string, q int) (*services.CartView, error) {
		sawQty = q
		return &services.CartView{ID: "cart1", UserID: u}, nil
	}}
	h := New(cart, stubCheckoutSvc{}, stubAdSvc{}, stubOrderSvc{}, stubNotifSvc{})
	r := newHandlerRouter(h)

	w := doJSON(t, r, http.MethodPost, "/cart/items", `{"adId":"ad1"}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	if sawQty != 1 {
		t.Fatalf("quantity = %d, want default 1", sawQty)
	}
}

func TestAddCartItem_BindingError(t *testing.T) {
	cart := stubCartSvc{add: func(context.Context, string, string, int) (*services.CartView, error) {
		t.Fatal("service should not be called on binding error")
		return nil, nil
	}}
	h := New(cart, stubCheckoutSvc{}, stubAdSvc{}, stubOrderSvc{}, stubNotifSvc{})
	r := newHandlerRouter(h)

	// adId missing
	w := doJSON(t, r, http.MethodPost, "/cart/items", `{"quantity":2}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "adId is required") {
		t.Fatalf("missing adId: body = %s", w.Body.String())
	}

	// adId present but quantity has the wrong type: the message must name the
	// bad field instead of claiming adId is missing.
	w = doJSON(t, r, http.MethodPost, "/cart/items", `{"adId":"a1","quantity":"two"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad quantity: status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "invalid value for quantity") {
		t.Fatalf("bad quantity: body = %s", w.Body.String())
	}

	// Truncated JSON.
	w = doJSON(t, r, http.MethodPost, "/cart/items", `{"adId":`, nil)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "invalid JSON body") {
		t.Fatalf("truncated: code = %d body = %s", w.Code, w.Body.String())
	}
}

func TestAddCartItem_ErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"ad not found", services.ErrAdNotFound, http.StatusNotFound, ErrCodeNotFound},
		{"invalid quantity", services.ErrInvalidQuantity, http.StatusBadRequest, ErrCodeBadRequest},
		{"capacity", &services.CapacityError{Title: "Suite", Available: 2}, http.StatusConflict, ErrCodeCapacityExceeded},
		{"internal", errors.New("boom"), http.StatusInternalServerError, ErrCodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cart := stubCartSvc{add: func(context.Context, string, string, int) (*services.CartView, error) {
				return nil, tc.err
			}}
			h := New(cart, stubCheckoutSvc{}, stubAdSvc{}, stubOrderSvc{}, stubNotifSvc{})
			r := newHandlerRouter(h)

			w := doJSON(t, r, http.MethodPost, "/cart/items", `{"adId":"ad1","quantity":3}`, nil)
			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tc.wantStatus)
			}
			var resp ErrorResponse
			_ = json.Unmarshal(w.Body.Bytes(), &resp)
			if resp.Code != tc.wantCode {
				t.Fatalf("code = %q, want %q", resp.Code, tc.wantCode)
			}
		})
	}
}

func TestAddCartItem_CapacityMessageNamesItem(t *testing.T) {
	cart := stubCartSvc{add: func(context.Context, string, string, int) (*services.CartView, error) {
		return nil, &services.CapacityError{Title: "Sea View Suite", Available: 2}
	}}
	h := New(cart, stubCheckoutSvc{}, stubAdSvc{}, stubOrderSvc{}, stubNotifSvc{})
	r := newHandlerRouter(h)

	w := doJSON(t, r, http.MethodPost, "/cart/items", `{"adId":"ad1","quantity":5}`, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
	var resp ErrorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Message != "only 2 slot(s) left for Sea View Suite" {
		t.Fatalf("message = %q", resp.Message)
	}
}

func TestUpdateCartItem(t *testing.T) {
	var sawAd string
	var sawQty int
	cart := stubCartSvc{update: func(_ context.Context, u, ad string, q int) (*services.CartView, error) {
		sawAd, sawQty = ad, q
		return &services.CartView{ID: "cart1", UserID: u}, nil
	}}
	h := New(cart, stubCheckoutSvc{}, stubAdSvc{}, stubOrderSvc{}, stubNotifSvc{})
	r := newHandlerRouter(h)

	w := doJSON(t, r, http.MethodPut, "/cart/items/ad42", `{"quantity":4}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if sawAd != "ad42" || sawQty != 4 {
		t.Fatalf("service saw (%q, %d)", sawAd, sawQty)
	}

	// Bad JSON is a 400, service untouched.
	cart.update = func(context.Context, string, string, int) (*services.CartView, error) {
		t.Fatal("service should not be called")
		return nil, nil
	}
	h = New(cart, stubCheckoutSvc{}, stubAdSvc{}, stubOrderSvc{}, stubNotifSvc{})
	r = newHandlerRouter(h)
	w = doJSON(t, r, http.MethodPut, "/cart/items/ad42", `{bad`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad json: status = %d, want 400", w.Code)
	}
}

func TestUpdateCartItem_MissingLine(t *testing.T) {
	cart := stubCartSvc{update: func(context.Context, string, string, int) (*services.CartView, error) {
		return nil, services.ErrCartItemNotFound
	}}
	h := New(cart, stubCheckoutSvc{}, stubAdSvc{}, stubOrderSvc{}, stubNotifSvc{})
	r := newHandlerRouter(h)

	w := doJSON(t, r, http.MethodPut, "/cart/items/ad42", `{"quantity":1}`, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestRemoveCartItem_And_ClearCart(t *testing.T) {
	var removed, cleared bool
	cart := stubCartSvc{
		remove: func(_ context.Context, u, _ string) (*services.CartView, error) {
			removed = true
			return &services.CartView{ID: "cart1", UserID: u}, nil
		},
		clear: func(_ context.Context, u string) (*services.CartView, error) {
			cleared = true
			return &services.CartView{ID: "cart1", UserID: u}, nil
		},
	}
	h := New(cart, stubCheckoutSvc{}, stubAdSvc{}, stubOrderSvc{}, stubNotifSvc{})
	r := newHandlerRouter(h)

	if w := doJSON(t, r, http.MethodDelete, "/cart/items/ad1", "", nil); w.Code != http.StatusOK || !removed {
		t.Fatalf("remove: status = %d removed=%v", w.Code, removed)
	}
	if w := doJSON(t, r, http.MethodDelete, "/cart", "", nil); w.Code != http.StatusOK || !cleared {
		t.Fatalf("clear: status = %d cleared=%v", w.Code, cleared)
	}
}

func TestCartEndpoints_RequireIdentity(t *testing.T) {
	h := New(stubCartSvc{}, stubCheckoutSvc{}, stubAdSvc{}, stubOrderSvc{}, stubNotifSvc{})
	r := newHandlerRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
