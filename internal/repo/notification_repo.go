// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// append-only Notification sink.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Rishabht13/TripPlanner/internal/domain"
)

// CreateNotifications inserts a batch of notifications in one statement.
// The checkout coordinator calls this inside its transaction, one entry per
// purchased line. A nil or empty batch is a no-op.
func CreateNotifications(ctx context.Context, db *gorm.DB, notifs []domain.Notification) error {
	if len(notifs) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i := range notifs {
		if notifs[i].ID == "" {
			notifs[i].ID = uuid.NewString()
		}
		notifs[i].CreatedAt = now
	}
	return db.WithContext(ctx).Create(&notifs).Error
}

// ListNotifications returns up to limit notifications addressed to
// recipientID, newest first. A limit <= 0 is coerced to 50.
func ListNotifications(ctx context.Context, db *gorm.DB, recipientID string, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []domain.Notification
	err := db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at desc").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// MarkNotificationRead flips IsRead on a notification owned by recipientID.
// Returns ErrNotFound when the id does not exist or belongs to someone else,
// so recipients cannot learn about other users' notifications.
func MarkNotificationRead(ctx context.Context, db *gorm.DB, id, recipientID string) (*domain.Notification, error) {
	res := db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("is_read", true)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var n domain.Notification
	if err := db.WithContext(ctx).Where("id = ?", id).First(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}
