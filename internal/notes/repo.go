package notes

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"phonestore-backend/pkg/db/models"
)

// Repository manages persistence for staff notes.
type Repository interface {
	Create(ctx context.Context, note *models.StaffNote) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.StaffNote, error)
	OrderExists(ctx context.Context, orderID uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a notes repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, note *models.StaffNote) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *repository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.StaffNote, error) {
	var notes []models.StaffNote
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *repository) OrderExists(ctx context.Context, orderID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
