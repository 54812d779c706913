// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Ad model,
// the authoritative slot-inventory ledger.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When an ad is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Rishabht13/TripPlanner/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateAd inserts a new ad. The ID is a randomly generated UUID and
// CreatedAt is set to UTC. Derived fields (discounted price, slot clamp)
// are normalized by the model's BeforeSave hook.
func CreateAd(ctx context.Context, db *gorm.DB, ad *domain.Ad) error {
	if ad.ID == "" {
		ad.ID = uuid.NewString()
	}
	ad.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(ad).Error
}

// GetAd fetches a single ad by ID, or ErrNotFound if missing.
func GetAd(ctx context.Context, db *gorm.DB, id string) (*domain.Ad, error) {
	var ad domain.Ad
	if err := db.WithContext(ctx).Where("id = ?", id).First(&ad).Error; err != nil {
		return nil, err
	}
	return &ad, nil
}

// GetAdsByIDs returns all ads matching ids. Missing ids are simply absent
// from the result; callers decide whether that is an error. The checkout
// coordinator calls this inside its transaction to re-resolve every cart
// line against live inventory.
func GetAdsByIDs(ctx context.Context, db *gorm.DB, ids []string) ([]domain.Ad, error) {
	var out []domain.Ad
	if len(ids) == 0 {
		return out, nil
	}
	err := db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error
	return out, err
}

// ListAds returns ads ordered by creation time descending, optionally
// filtered by category (empty means all).
func ListAds(ctx context.Context, db *gorm.DB, category string) ([]domain.Ad, error) {
	var out []domain.Ad
	q := db.WithContext(ctx)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	err := q.Order("created_at desc").Find(&out).Error
	return out, err
}

// DecrementSlots atomically subtracts n from an ad's available slots,
// rejecting the write when it would go negative. It returns ErrNotFound when
// no row was updated, which covers both a missing ad and insufficient
// capacity; the caller re-reads the ad to tell the two apart.
//
// The conditional WHERE clause is the ledger's oversell guard: two writers
// racing for the last slots cannot both pass it.
func DecrementSlots(ctx context.Context, db *gorm.DB, id string, n int) error {
	res := db.WithContext(ctx).
		Model(&domain.Ad{}).
		Where("id = ? AND available_slots >= ?", id, n).
		UpdateColumn("available_slots", gorm.Expr("available_slots - ?", n))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteAd soft-deletes an ad by ID. Deleting an ad that is already gone is
// not an error. Cart lines referencing it stay in place; checkout surfaces
// them as no longer available.
func DeleteAd(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Ad{}).Error
}
