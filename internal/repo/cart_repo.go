// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Cart
// aggregate (cart row plus ordered line items).
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Rishabht13/TripPlanner/internal/domain"
)

// GetOrCreateCart returns the user's cart with its items loaded in insertion
// order, creating an empty cart if none exists yet. Creation is idempotent:
// a concurrent insert losing the unique-index race falls back to reading the
// winner's row.
func GetOrCreateCart(ctx context.Context, db *gorm.DB, userID string) (*domain.Cart, error) {
	cart, err := GetCart(ctx, db, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	c := &domain.Cart{
		ID:        uuid.NewString(),
		UserID:    userID,
		Items:     []domain.CartItem{},
		CreatedAt: time.Now().UTC(),
	}
	if cerr := db.WithContext(ctx).Create(c).Error; cerr != nil {
		// Unique index on user_id: someone else created it first.
		if existing, gerr := GetCart(ctx, db, userID); gerr == nil {
			return existing, nil
		}
		return nil, cerr
	}
	return c, nil
}

// GetCart fetches the user's cart with items in insertion order, or
// ErrNotFound when the user has no cart yet.
func GetCart(ctx context.Context, db *gorm.DB, userID string) (*domain.Cart, error) {
	var cart domain.Cart
	err := db.WithContext(ctx).
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("position asc") }).
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddCartItem appends a new line item to the cart, assigning the next
// position so insertion order survives later updates and removals.
func AddCartItem(ctx context.Context, db *gorm.DB, cartID string, item *domain.CartItem) error {
	var maxPos *int
	if err := db.WithContext(ctx).
		Model(&domain.CartItem{}).
		Where("cart_id = ?", cartID).
		Select("MAX(position)").
		Scan(&maxPos).Error; err != nil {
		return err
	}
	item.ID = uuid.NewString()
	item.CartID = cartID
	item.Position = 0
	if maxPos != nil {
		item.Position = *maxPos + 1
	}
	item.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(item).Error
}

// SetCartItemQuantity replaces the quantity of the line matching (cartID,
// adID). Returns ErrNotFound when no such line exists.
func SetCartItemQuantity(ctx context.Context, db *gorm.DB, cartID, adID string, quantity int) error {
	res := db.WithContext(ctx).
		Model(&domain.CartItem{}).
		Where("cart_id = ? AND ad_id = ?", cartID, adID).
		Update("quantity", quantity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RemoveCartItem deletes the line matching (cartID, adID). Removing an
// absent line is a no-op, matching the idempotent-delete contract.
func RemoveCartItem(ctx context.Context, db *gorm.DB, cartID, adID string) error {
	return db.WithContext(ctx).
		Where("cart_id = ? AND ad_id = ?", cartID, adID).
		Delete(&domain.CartItem{}).Error
}

// ClearCartItems removes every line from the cart. The cart row itself is
// kept; an emptied cart and a fresh cart are indistinguishable.
func ClearCartItems(ctx context.Context, db *gorm.DB, cartID string) error {
	return db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&domain.CartItem{}).Error
}
