// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Order
// archive: append on checkout, read-only afterwards.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Rishabht13/TripPlanner/internal/domain"
)

// CreateOrder persists an order together with its item snapshots. IDs are
// assigned here; the association insert rides on the same handle, so inside
// a transaction the order and its items commit or roll back together.
func CreateOrder(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	order.CreatedAt = time.Now().UTC()
	for i := range order.Items {
		order.Items[i].ID = uuid.NewString()
		order.Items[i].OrderID = order.ID
	}
	return db.WithContext(ctx).Create(order).Error
}

// GetOrder fetches a single order by ID scoped to its owner, with items
// loaded. Returns ErrNotFound when the order does not exist or belongs to a
// different user; callers cannot probe other users' purchases.
func GetOrder(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Order, error) {
	var o domain.Order
	err := db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND user_id = ?", id, userID).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetOrdersByIDs fetches orders by id without owner scoping. The notification
// read side uses it to join seller-facing notifications to buyer orders; item
// snapshots are not loaded.
func GetOrdersByIDs(ctx context.Context, db *gorm.DB, ids []string) ([]domain.Order, error) {
	var out []domain.Order
	if len(ids) == 0 {
		return out, nil
	}
	err := db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error
	return out, err
}

// CountOrders returns the total number of orders owned by userID.
func CountOrders(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// ListOrdersPage returns a page of the user's orders, newest first, with
// item snapshots loaded. Use CountOrders for pagination metadata.
func ListOrdersPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Order, error) {
	var out []domain.Order
	err := db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
