package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem snapshots one cart line at order time. Name and price copies are
// frozen here so later catalog edits never rewrite order history.
type OrderItem struct {
	ID                  uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID             uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	VariantID           uuid.UUID       `gorm:"column:variant_id;type:uuid;not null"`
	ProductNameSnapshot string          `gorm:"column:product_name_snapshot;not null"`
	VariantNameSnapshot string          `gorm:"column:variant_name_snapshot;not null"`
	UnitPrice           decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Quantity            int             `gorm:"column:quantity;not null"`
	LineTotal           decimal.Decimal `gorm:"column:line_total;type:numeric(12,2);not null"`
	CreatedAt           time.Time       `gorm:"column:created_at;autoCreateTime"`
}
