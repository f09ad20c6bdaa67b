package repository

import (
	"context"
	"time"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OutboxRepository interface {
	Create(ctx context.Context, tx *gorm.DB, event *models.OutboxEvent) error
	FindPending(ctx context.Context, limit, maxAttempts int) ([]models.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, at time.Time) error
	MarkFailed(ctx context.Context, id string, reason string) error
}

type outboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) Create(ctx context.Context, tx *gorm.DB, event *models.OutboxEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	return pick(r.db, tx).WithContext(ctx).Create(event).Error
}

// FindPending returns unpublished events that have failed fewer than
// maxAttempts times. Rows with fewer failures come first, then oldest first,
// so a few poisoned rows cannot starve the batch.
func (r *outboxRepository) FindPending(ctx context.Context, limit, maxAttempts int) ([]models.OutboxEvent, error) {
	var events []models.OutboxEvent
	if err := r.db.WithContext(ctx).
		Where("published_at IS NULL AND attempts < ?", maxAttempts).
		Order("attempts ASC, created_at ASC").
		Limit(limit).
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *outboxRepository) MarkPublished(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{"published_at": at, "last_error": ""}).Error
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return r.db.WithContext(ctx).
		Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"attempts":   gorm.Expr("attempts + ?", 1),
			"last_error": reason,
		}).Error
}
