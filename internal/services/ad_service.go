// Package services – AdService
//
// This file implements the AdService, the administrative face of the slot
// inventory ledger. It validates and normalizes new listings (category,
// price, discount bounds, slot counts) before persisting them, and exposes
// catalog reads. Slot decrements are not exposed here; only the checkout
// coordinator performs the bounded decrement, inside its transaction.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Rishabht13/TripPlanner/internal/domain"
	"github.com/Rishabht13/TripPlanner/internal/repo"
)

// DefaultTotalSlots is applied when an ad is created without any slot count.
const DefaultTotalSlots = 5

// NewAdInput carries the client-supplied fields for an administrative
// ad-create request. TotalSlots/AvailableSlots are pointers so "absent" can
// be told apart from an explicit zero.
type NewAdInput struct {
	Category        string
	Title           string
	Location        string
	Price           float64
	DiscountPercent int
	Rating          float64
	ImageURL        string
	Description     string
	TotalSlots      *int
	AvailableSlots  *int
}

// AdService implements catalog reads and administrative mutations of ads.
type AdService struct {
	// DB is the GORM handle used for all ad operations.
	DB *gorm.DB
}

// Create validates input, fills defaults, and persists a new ad owned by
// createdBy.
//
// Normalization (one explicit step, not scattered per call site):
//   - missing TotalSlots falls back to AvailableSlots, then to
//     DefaultTotalSlots;
//   - missing AvailableSlots falls back to TotalSlots;
//   - negative slot counts are rejected; AvailableSlots > TotalSlots is
//     clamped down by the model's save hook;
//   - DiscountedPrice is derived by the save hook, never accepted as input.
func (s *AdService) Create(ctx context.Context, createdBy string, in NewAdInput) (*domain.Ad, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Location = strings.TrimSpace(in.Location)

	if !domain.ValidCategory(in.Category) {
		return nil, fmt.Errorf("%w: category must be one of hotels, trips, transport", ErrInvalidAd)
	}
	if in.Title == "" || in.Location == "" {
		return nil, fmt.Errorf("%w: title and location are required", ErrInvalidAd)
	}
	if in.Price < 0 {
		return nil, fmt.Errorf("%w: price must be zero or greater", ErrInvalidAd)
	}
	if in.DiscountPercent < 0 || in.DiscountPercent > 100 {
		return nil, fmt.Errorf("%w: discountPercent must be between 0 and 100", ErrInvalidAd)
	}

	total := DefaultTotalSlots
	switch {
	case in.TotalSlots != nil:
		total = *in.TotalSlots
	case in.AvailableSlots != nil:
		total = *in.AvailableSlots
	}
	available := total
	if in.AvailableSlots != nil {
		available = *in.AvailableSlots
	}
	if total < 0 || available < 0 {
		return nil, fmt.Errorf("%w: slots must be zero or greater", ErrInvalidAd)
	}

	rating := in.Rating
	if rating == 0 {
		rating = 4.0
	}

	ad := &domain.Ad{
		Category:        in.Category,
		Title:           in.Title,
		Location:        in.Location,
		Price:           in.Price,
		DiscountPercent: in.DiscountPercent,
		Rating:          rating,
		ImageURL:        in.ImageURL,
		Description:     in.Description,
		TotalSlots:      total,
		AvailableSlots:  available,
		CreatedBy:       createdBy,
	}
	if err := repo.CreateAd(ctx, s.DB, ad); err != nil {
		return nil, err
	}
	return ad, nil
}

// Get returns a single ad or ErrAdNotFound.
func (s *AdService) Get(ctx context.Context, id string) (*domain.Ad, error) {
	ad, err := repo.GetAd(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdNotFound
		}
		return nil, err
	}
	return ad, nil
}

// List returns ads newest first, optionally filtered by category. An unknown
// category is rejected rather than silently returning everything.
func (s *AdService) List(ctx context.Context, category string) ([]domain.Ad, error) {
	if category != "" && !domain.ValidCategory(category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidAd, category)
	}
	return repo.ListAds(ctx, s.DB, category)
}

// Delete removes an ad from the catalog. Idempotent: deleting a missing ad
// succeeds.
func (s *AdService) Delete(ctx context.Context, id string) error {
	return repo.DeleteAd(ctx, s.DB, id)
}
