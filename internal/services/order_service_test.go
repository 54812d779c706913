package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Rishabht13/TripPlanner/internal/domain"
	"github.com/Rishabht13/TripPlanner/internal/repo"
)

func TestOrderListPage(t *testing.T) {
	db := newServiceDB(t)
	svc := &OrderService{DB: db}
	ctx := context.Background()

	for i, amount := range []float64{100, 200, 300} {
		o := &domain.Order{
			UserID:           "u1",
			TotalAmount:      amount,
			PaymentStatus:    domain.PaymentStatusPaid,
			PaymentMethod:    domain.PaymentMethodUPI,
			PaymentReference: "alice@upi",
		}
		if err := repo.CreateOrder(ctx, db, o); err != nil {
			t.Fatalf("CreateOrder: %v", err)
		}
		db.Model(o).UpdateColumn("created_at", time.Date(2025, 6, 1, 9+i, 0, 0, 0, time.UTC))
	}

	items, total, err := svc.ListPage(ctx, "u1", 1, 2)
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if total != 3 || len(items) != 2 {
		t.Fatalf("total=%d len=%d, want 3/2", total, len(items))
	}
	if items[0].TotalAmount != 300 || items[1].TotalAmount != 200 {
		t.Fatalf("unexpected order: %+v", items)
	}

	items, total, err = svc.ListPage(ctx, "u1", 2, 2)
	if err != nil || total != 3 || len(items) != 1 || items[0].TotalAmount != 100 {
		t.Fatalf("page 2: %+v total=%d err=%v", items, total, err)
	}

	// Bad paging values fall back to defaults instead of erroring.
	items, total, err = svc.ListPage(ctx, "u1", 0, -5)
	if err != nil || total != 3 || len(items) != 3 {
		t.Fatalf("defaults: %+v total=%d err=%v", items, total, err)
	}

	// Unknown user: empty page, zero total.
	items, total, err = svc.ListPage(ctx, "nobody", 1, 10)
	if err != nil || total != 0 || len(items) != 0 {
		t.Fatalf("unknown user: %+v total=%d err=%v", items, total, err)
	}
}

func TestOrderGet_Scoping(t *testing.T) {
	db := newServiceDB(t)
	svc := &OrderService{DB: db}
	ctx := context.Background()

	o := &domain.Order{
		UserID:           "u1",
		TotalAmount:      100,
		PaymentStatus:    domain.PaymentStatusPaid,
		PaymentMethod:    domain.PaymentMethodUPI,
		PaymentReference: "alice@upi",
	}
	if err := repo.CreateOrder(ctx, db, o); err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	got, err := svc.Get(ctx, "u1", o.ID)
	if err != nil || got.TotalAmount != 100 {
		t.Fatalf("Get: %+v (err=%v)", got, err)
	}
	if _, err := svc.Get(ctx, "u2", o.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("other user: err = %v, want ErrOrderNotFound", err)
	}
	if _, err := svc.Get(ctx, "u1", "ghost"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("unknown id: err = %v, want ErrOrderNotFound", err)
	}
}
