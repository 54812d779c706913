package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Rishabht13/TripPlanner/internal/domain"
	"github.com/Rishabht13/TripPlanner/internal/repo"
)

func TestNotificationListRecent_LimitAndOrder(t *testing.T) {
	db := newServiceDB(t)
	svc := &NotificationService{DB: db, Limit: 2}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		batch := []domain.Notification{{RecipientID: "seller1", AdID: "ad1", OrderID: "o1", Message: fmt.Sprintf("m%d", i)}}
		if err := repo.CreateNotifications(ctx, db, batch); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		db.Model(&domain.Notification{}).
			Where("id = ?", batch[0].ID).
			UpdateColumn("created_at", time.Date(2025, 5, 1, 10+i, 0, 0, 0, time.UTC))
	}

	got, err := svc.ListRecent(ctx, "seller1")
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(got) != 2 || got[0].Message != "m2" || got[1].Message != "m1" {
		t.Fatalf("unexpected page: %+v", got)
	}

	// Another recipient sees nothing.
	other, err := svc.ListRecent(ctx, "seller2")
	if err != nil || len(other) != 0 {
		t.Fatalf("other recipient: %+v (err=%v)", other, err)
	}
}

func TestNotificationListRecent_EnrichesAdAndOrder(t *testing.T) {
	db := newServiceDB(t)
	svc := &NotificationService{DB: db}
	ctx := context.Background()

	ad := seedTestAd(t, db, "Sea View Suite", 200, 15, 5)
	order := &domain.Order{
		UserID:           "u1",
		TotalAmount:      340,
		PaymentStatus:    domain.PaymentStatusPaid,
		PaymentMethod:    domain.PaymentMethodUPI,
		PaymentReference: "alice@upi",
	}
	if err := repo.CreateOrder(ctx, db, order); err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	batch := []domain.Notification{
		{RecipientID: "seller1", AdID: ad.ID, OrderID: order.ID, Message: "Alice purchased 2 slot(s) of Sea View Suite"},
		{RecipientID: "seller1", AdID: "gone-ad", OrderID: "gone-order", Message: "stale"},
	}
	if err := repo.CreateNotifications(ctx, db, batch); err != nil {
		t.Fatalf("CreateNotifications: %v", err)
	}

	got, err := svc.ListRecent(ctx, "seller1")
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	byAd := map[string]NotificationView{}
	for _, v := range got {
		byAd[v.AdID] = v
	}

	live := byAd[ad.ID]
	if live.AdTitle != "Sea View Suite" || live.AdCategory != domain.CategoryHotels {
		t.Fatalf("ad fields = %q/%q", live.AdTitle, live.AdCategory)
	}
	if live.OrderTotal != 340 || live.PaymentReference != "alice@upi" {
		t.Fatalf("order fields = %v/%q", live.OrderTotal, live.PaymentReference)
	}

	// Referents that no longer exist leave the display fields zero; the
	// notification itself still lists.
	stale := byAd["gone-ad"]
	if stale.Message != "stale" {
		t.Fatalf("stale notification missing: %+v", got)
	}
	if stale.AdTitle != "" || stale.AdCategory != "" || stale.OrderTotal != 0 || stale.PaymentReference != "" {
		t.Fatalf("stale notification enriched unexpectedly: %+v", stale)
	}
}

func TestNotificationMarkRead(t *testing.T) {
	db := newServiceDB(t)
	svc := &NotificationService{DB: db}
	ctx := context.Background()

	batch := []domain.Notification{{RecipientID: "seller1", AdID: "ad1", OrderID: "o1", Message: "m"}}
	if err := repo.CreateNotifications(ctx, db, batch); err != nil {
		t.Fatalf("create: %v", err)
	}

	n, err := svc.MarkRead(ctx, "seller1", batch[0].ID)
	if err != nil || !n.IsRead {
		t.Fatalf("MarkRead: %+v (err=%v)", n, err)
	}

	if _, err := svc.MarkRead(ctx, "intruder", batch[0].ID); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("wrong recipient: err = %v, want ErrNotificationNotFound", err)
	}
	if _, err := svc.MarkRead(ctx, "seller1", "ghost"); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("unknown id: err = %v, want ErrNotificationNotFound", err)
	}
}
