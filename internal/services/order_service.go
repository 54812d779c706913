// Package services – OrderService
//
// Read-only access to the order archive. Orders are created exclusively by
// the checkout coordinator; this service only pages through a user's own
// history.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Rishabht13/TripPlanner/internal/domain"
	"github.com/Rishabht13/TripPlanner/internal/repo"
)

// ErrOrderNotFound indicates the order does not exist or belongs to another
// user.
var ErrOrderNotFound = errors.New("order not found")

// OrderService pages through the immutable order archive.
type OrderService struct {
	// DB is the GORM handle used for all order reads.
	DB *gorm.DB
}

// ListPage returns a page of the user's orders (newest first) and the total
// count. Defaults are applied for invalid page/pageSize.
func (s *OrderService) ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Order, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountOrders(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Order{}, 0, nil
	}

	items, err := repo.ListOrdersPage(ctx, s.DB, userID, offset, pageSize)
	return items, total, err
}

// Get returns one of the caller's orders with its item snapshots.
func (s *OrderService) Get(ctx context.Context, userID, id string) (*domain.Order, error) {
	o, err := repo.GetOrder(ctx, s.DB, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}
