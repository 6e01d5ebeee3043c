package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"phonestore-backend/pkg/db/models"
	"phonestore-backend/pkg/enums"
)

// TxView is the ledger projection returned to the HTTP layer.
type TxView struct {
	ID           uuid.UUID             `json:"id"`
	VariantID    uuid.UUID             `json:"variant_id"`
	ProductName  string                `json:"product_name"`
	VariantName  string                `json:"variant_name"`
	QtyChange    int                   `json:"qty_change"`
	Type         enums.InventoryTxType `json:"type"`
	Reason       string                `json:"reason"`
	CreatedBy    string                `json:"created_by"`
	CreatedAt    time.Time             `json:"created_at"`
	CurrentStock int                   `json:"current_stock"`
}

// StockSummary is the per-variant stock projection.
type StockSummary struct {
	VariantID     uuid.UUID           `json:"variant_id"`
	ProductName   string              `json:"product_name"`
	VariantName   string              `json:"variant_name"`
	StockQuantity int                 `json:"stock_quantity"`
	Status        enums.VariantStatus `json:"status"`
	Price         decimal.Decimal     `json:"price"`
	LowStock      bool                `json:"low_stock"`
}

func newTxView(entry models.InventoryTx) TxView {
	view := TxView{
		ID:        entry.ID,
		VariantID: entry.VariantID,
		QtyChange: entry.Quantity,
		Type:      entry.Type,
		Reason:    entry.Reason,
		CreatedBy: entry.CreatedBy,
		CreatedAt: entry.CreatedAt,
	}
	if entry.Variant != nil {
		view.VariantName = entry.Variant.Name
		view.CurrentStock = entry.Variant.StockQuantity
		if entry.Variant.Product != nil {
			view.ProductName = entry.Variant.Product.Name
		}
	}
	return view
}

func newStockSummary(variant models.Variant, lowStockThreshold int) StockSummary {
	summary := StockSummary{
		VariantID:     variant.ID,
		VariantName:   variant.Name,
		StockQuantity: variant.StockQuantity,
		Status:        variant.Status(),
		Price:         variant.Price,
		LowStock:      variant.StockQuantity < lowStockThreshold,
	}
	if variant.Product != nil {
		summary.ProductName = variant.Product.Name
	}
	return summary
}
