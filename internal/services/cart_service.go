// Package services – CartService
//
// This file implements the CartService, which owns the per-user cart: lazy
// creation, capacity-guarded add and update, idempotent remove, and clear.
// Line items store a denormalized snapshot of the ad's title, category,
// price, discounted price, and image URL taken at add-time (price stability
// for the buyer); availableSlots is deliberately NOT part of the snapshot
// and is resolved live from the inventory ledger on every read.
//
// The capacity guard here is advisory only: it is enforced at the moment of
// mutation and re-checked by the checkout transaction, because other users'
// purchases can invalidate it in between.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Rishabht13/TripPlanner/internal/domain"
	"github.com/Rishabht13/TripPlanner/internal/repo"
)

// CartItemView is a cart line enriched with the ad's live available slots.
type CartItemView struct {
	domain.CartItem
	AvailableSlots int `json:"availableSlots"`
}

// CartView is the client-facing shape of a cart: the persisted snapshot
// lines plus live capacity per line.
type CartView struct {
	ID     string         `json:"id"`
	UserID string         `json:"user_id"`
	Items  []CartItemView `json:"items"`
}

// CartService implements the use-cases around the per-user cart.
type CartService struct {
	// DB is the database handle used for all cart operations.
	DB *gorm.DB
}

// Get returns the user's cart, creating an empty one on first access.
func (s *CartService) Get(ctx context.Context, userID string) (*CartView, error) {
	cart, err := repo.GetOrCreateCart(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, cart)
}

// AddItem adds quantity slots of adID to the user's cart. If a line for the
// ad already exists its quantity is increased, otherwise a new line is
// appended with a snapshot of the ad's current fields.
//
// Errors: ErrAdNotFound when the ad does not exist, ErrInvalidQuantity for a
// non-positive quantity, and *CapacityError when the ad is sold out or the
// combined quantity would exceed its available slots. On error the cart is
// left untouched.
func (s *CartService) AddItem(ctx context.Context, userID, adID string, quantity int) (*CartView, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	ad, err := repo.GetAd(ctx, s.DB, adID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdNotFound
		}
		return nil, err
	}
	if ad.AvailableSlots <= 0 {
		return nil, &CapacityError{Title: ad.Title, Available: 0}
	}

	cart, err := repo.GetOrCreateCart(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}

	if existing := findItem(cart, adID); existing != nil {
		newQty := existing.Quantity + quantity
		if newQty > ad.AvailableSlots {
			return nil, &CapacityError{Title: ad.Title, Available: ad.AvailableSlots}
		}
		if err := repo.SetCartItemQuantity(ctx, s.DB, cart.ID, adID, newQty); err != nil {
			return nil, err
		}
	} else {
		if quantity > ad.AvailableSlots {
			return nil, &CapacityError{Title: ad.Title, Available: ad.AvailableSlots}
		}
		item := &domain.CartItem{
			AdID:            ad.ID,
			Title:           ad.Title,
			Category:        ad.Category,
			Quantity:        quantity,
			Price:           ad.Price,
			DiscountedPrice: ad.DiscountedPrice,
			ImageURL:        ad.ImageURL,
		}
		if err := repo.AddCartItem(ctx, s.DB, cart.ID, item); err != nil {
			return nil, err
		}
	}

	return s.reload(ctx, userID)
}

// UpdateItem sets the quantity of an existing line to an absolute value,
// floored to 1. Errors: ErrAdNotFound, ErrCartItemNotFound, *CapacityError.
func (s *CartService) UpdateItem(ctx context.Context, userID, adID string, quantity int) (*CartView, error) {
	if quantity < 1 {
		quantity = 1
	}

	ad, err := repo.GetAd(ctx, s.DB, adID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdNotFound
		}
		return nil, err
	}

	cart, err := repo.GetOrCreateCart(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	if findItem(cart, adID) == nil {
		return nil, ErrCartItemNotFound
	}
	if quantity > ad.AvailableSlots {
		return nil, &CapacityError{Title: ad.Title, Available: ad.AvailableSlots}
	}

	if err := repo.SetCartItemQuantity(ctx, s.DB, cart.ID, adID, quantity); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}
	return s.reload(ctx, userID)
}

// RemoveItem deletes the line for adID if present. Removing an absent line
// is not an error.
func (s *CartService) RemoveItem(ctx context.Context, userID, adID string) (*CartView, error) {
	cart, err := repo.GetOrCreateCart(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	if err := repo.RemoveCartItem(ctx, s.DB, cart.ID, adID); err != nil {
		return nil, err
	}
	return s.reload(ctx, userID)
}

// Clear empties the cart. The cart row survives; only lines are removed.
func (s *CartService) Clear(ctx context.Context, userID string) (*CartView, error) {
	cart, err := repo.GetOrCreateCart(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	if err := repo.ClearCartItems(ctx, s.DB, cart.ID); err != nil {
		return nil, err
	}
	return s.reload(ctx, userID)
}

// reload re-reads the cart and enriches it; used after every mutation so the
// caller always sees the persisted state.
func (s *CartService) reload(ctx context.Context, userID string) (*CartView, error) {
	cart, err := repo.GetCart(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, cart)
}

// enrich resolves each line's current available slots from the ledger. Lines
// whose ad has been deleted report zero availability; the line itself stays
// so the user can see and remove it.
func (s *CartService) enrich(ctx context.Context, cart *domain.Cart) (*CartView, error) {
	view := &CartView{
		ID:     cart.ID,
		UserID: cart.UserID,
		Items:  make([]CartItemView, 0, len(cart.Items)),
	}
	if len(cart.Items) == 0 {
		return view, nil
	}

	ids := make([]string, 0, len(cart.Items))
	for _, it := range cart.Items {
		ids = append(ids, it.AdID)
	}
	ads, err := repo.GetAdsByIDs(ctx, s.DB, ids)
	if err != nil {
		return nil, err
	}
	slots := make(map[string]int, len(ads))
	for _, ad := range ads {
		slots[ad.ID] = ad.AvailableSlots
	}

	for _, it := range cart.Items {
		view.Items = append(view.Items, CartItemView{
			CartItem:       it,
			AvailableSlots: slots[it.AdID], // 0 when the ad is gone
		})
	}
	return view, nil
}

// findItem returns the cart line matching adID, or nil.
func findItem(cart *domain.Cart, adID string) *domain.CartItem {
	for i := range cart.Items {
		if cart.Items[i].AdID == adID {
			return &cart.Items[i]
		}
	}
	return nil
}
