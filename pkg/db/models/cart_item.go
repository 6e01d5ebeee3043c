package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is one line of a cart. UnitPrice is refreshed from the variant's
// current price whenever the line is touched.
type CartItem struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	CartID     uuid.UUID       `gorm:"column:cart_id;type:uuid;not null;index"`
	VariantID  uuid.UUID       `gorm:"column:variant_id;type:uuid;not null"`
	Variant    *Variant        `gorm:"foreignKey:VariantID"`
	Qty        int             `gorm:"column:qty;not null"`
	UnitPrice  decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	LineAmount decimal.Decimal `gorm:"column:line_amount;type:numeric(12,2);not null"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
