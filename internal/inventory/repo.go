package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"phonestore-backend/pkg/db/models"
)

// HistoryFilter narrows the ledger listing.
type HistoryFilter struct {
	VariantID *uuid.UUID
	From      *time.Time
	To        *time.Time
}

// Repository manages persistence for variants and their ledger entries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindVariant(ctx context.Context, id uuid.UUID) (*models.Variant, error)
	FindVariantTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Variant, error)
	FindVariantForUpdate(ctx context.Context, id uuid.UUID) (*models.Variant, error)
	ApplyStockDelta(ctx context.Context, variantID uuid.UUID, delta int) (int64, error)
	CreateEntry(ctx context.Context, entry *models.InventoryTx) error
	ListEntries(ctx context.Context, filter HistoryFilter, limit int) ([]models.InventoryTx, error)
	ListVariantsByStock(ctx context.Context) ([]models.Variant, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an inventory repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindVariant(ctx context.Context, id uuid.UUID) (*models.Variant, error) {
	var variant models.Variant
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Where("id = ?", id).
		First(&variant).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

// FindVariantTx reads a variant through the caller's transaction. Cross-package
// callers that already run inside a transaction use this instead of WithTx.
func (r *repository) FindVariantTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Variant, error) {
	return r.WithTx(tx).FindVariant(ctx, id)
}

func (r *repository) FindVariantForUpdate(ctx context.Context, id uuid.UUID) (*models.Variant, error) {
	var variant models.Variant
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&variant).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

// ApplyStockDelta performs the guarded stock update. The predicate keeps the
// row untouched when the delta would drive the stock negative, so the caller
// can tell a refused decrement apart from a missing variant by the affected
// row count.
func (r *repository) ApplyStockDelta(ctx context.Context, variantID uuid.UUID, delta int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Variant{}).
		Where("id = ? AND stock_quantity + ? >= 0", variantID, delta).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", delta))
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *repository) CreateEntry(ctx context.Context, entry *models.InventoryTx) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ListEntries(ctx context.Context, filter HistoryFilter, limit int) ([]models.InventoryTx, error) {
	query := r.db.WithContext(ctx).
		Preload("Variant").
		Preload("Variant.Product").
		Order("created_at DESC")
	if filter.VariantID != nil {
		query = query.Where("variant_id = ?", *filter.VariantID)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var entries []models.InventoryTx
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) ListVariantsByStock(ctx context.Context) ([]models.Variant, error) {
	var variants []models.Variant
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Order("stock_quantity ASC").
		Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}
