// Package services – NotificationService
//
// This file implements the NotificationService, the read side of the
// append-only notification sink. Writes happen exclusively inside the
// checkout transaction; recipients can list their recent notifications and
// mark individual ones as read. Nothing is ever updated or deleted beyond
// the IsRead flag.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Rishabht13/TripPlanner/internal/domain"
	"github.com/Rishabht13/TripPlanner/internal/repo"
)

// NotificationView is a notification enriched with display fields from the
// referenced ad and order, so sellers see what was bought and for how much
// without extra round trips. Fields stay zero when the referent no longer
// exists (e.g., the ad was deleted after the sale).
type NotificationView struct {
	domain.Notification
	AdTitle          string  `json:"adTitle,omitempty"`
	AdCategory       string  `json:"adCategory,omitempty"`
	OrderTotal       float64 `json:"orderTotal,omitempty"`
	PaymentReference string  `json:"paymentReference,omitempty"`
}

// NotificationService exposes recipient-scoped reads over the sink.
type NotificationService struct {
	// DB is the GORM handle used for all notification operations.
	DB *gorm.DB

	// Limit bounds ListRecent. Values <= 0 default to 50.
	Limit int
}

// ListRecent returns the newest notifications addressed to recipientID,
// bounded by the configured limit and enriched with ad and order fields.
func (s *NotificationService) ListRecent(ctx context.Context, recipientID string) ([]NotificationView, error) {
	limit := s.Limit
	if limit <= 0 {
		limit = 50
	}
	notifs, err := repo.ListNotifications(ctx, s.DB, recipientID, limit)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, notifs)
}

// enrich resolves the referenced ads and orders in two batch reads and joins
// their display fields onto each notification.
func (s *NotificationService) enrich(ctx context.Context, notifs []domain.Notification) ([]NotificationView, error) {
	adIDs := make([]string, 0, len(notifs))
	orderIDs := make([]string, 0, len(notifs))
	seenAd := make(map[string]bool, len(notifs))
	seenOrder := make(map[string]bool, len(notifs))
	for _, n := range notifs {
		if n.AdID != "" && !seenAd[n.AdID] {
			seenAd[n.AdID] = true
			adIDs = append(adIDs, n.AdID)
		}
		if n.OrderID != "" && !seenOrder[n.OrderID] {
			seenOrder[n.OrderID] = true
			orderIDs = append(orderIDs, n.OrderID)
		}
	}

	ads, err := repo.GetAdsByIDs(ctx, s.DB, adIDs)
	if err != nil {
		return nil, err
	}
	orders, err := repo.GetOrdersByIDs(ctx, s.DB, orderIDs)
	if err != nil {
		return nil, err
	}
	adByID := make(map[string]*domain.Ad, len(ads))
	for i := range ads {
		adByID[ads[i].ID] = &ads[i]
	}
	orderByID := make(map[string]*domain.Order, len(orders))
	for i := range orders {
		orderByID[orders[i].ID] = &orders[i]
	}

	views := make([]NotificationView, 0, len(notifs))
	for _, n := range notifs {
		v := NotificationView{Notification: n}
		if ad := adByID[n.AdID]; ad != nil {
			v.AdTitle = ad.Title
			v.AdCategory = ad.Category
		}
		if o := orderByID[n.OrderID]; o != nil {
			v.OrderTotal = o.TotalAmount
			v.PaymentReference = o.PaymentReference
		}
		views = append(views, v)
	}
	return views, nil
}

// MarkRead flips the read flag on one notification owned by recipientID and
// returns the updated record. A notification belonging to another recipient
// is reported as ErrNotificationNotFound, never as forbidden, so existence
// of other users' notifications does not leak.
func (s *NotificationService) MarkRead(ctx context.Context, recipientID, id string) (*domain.Notification, error) {
	n, err := repo.MarkNotificationRead(ctx, s.DB, id, recipientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return n, nil
}
