package models

import (
	"time"

	"github.com/google/uuid"

	"phonestore-backend/pkg/enums"
)

// InventoryTx records an immutable stock mutation for a variant. Rows are
// created alongside the stock update and never edited or removed; the running
// sum of Quantity per variant reproduces the variant's current stock.
type InventoryTx struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	VariantID uuid.UUID             `gorm:"column:variant_id;type:uuid;not null"`
	Variant   *Variant              `gorm:"foreignKey:VariantID"`
	Quantity  int                   `gorm:"column:quantity;not null"`
	Type      enums.InventoryTxType `gorm:"column:type;type:inventory_tx_type;not null"`
	Reason    string                `gorm:"column:reason;not null"`
	CreatedBy string                `gorm:"column:created_by;not null"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
}
