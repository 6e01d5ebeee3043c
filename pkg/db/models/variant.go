package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"phonestore-backend/pkg/enums"
)

// Variant is a purchasable configuration (color + capacity) of a product.
// StockQuantity is mutated only through the inventory ledger.
type Variant struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	ProductID     uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Product       *Product        `gorm:"foreignKey:ProductID"`
	Name          string          `gorm:"column:name;not null"`
	Color         *string         `gorm:"column:color"`
	Capacity      *string         `gorm:"column:capacity"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	StockQuantity int             `gorm:"column:stock_quantity;not null;default:0"`
	ImageURL      *string         `gorm:"column:image_url"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// Status derives the in-stock flag from the current stock quantity.
func (v Variant) Status() enums.VariantStatus {
	return enums.VariantStatusForStock(v.StockQuantity)
}
