package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"phonestore-backend/pkg/db/models"
)

// CartLineView is one cart line as returned to the HTTP layer.
type CartLineView struct {
	ID          uuid.UUID       `json:"id"`
	VariantID   uuid.UUID       `json:"variant_id"`
	ProductName string          `json:"product_name"`
	VariantName string          `json:"variant_name"`
	Qty         int             `json:"qty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineAmount  decimal.Decimal `json:"line_amount"`
}

// CartView is the full cart projection.
type CartView struct {
	ID          uuid.UUID       `json:"id"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	TotalItems  int             `json:"total_items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Items       []CartLineView  `json:"items"`
}

func newCartView(cart *models.Cart) CartView {
	view := CartView{
		ID:          cart.ID,
		CustomerID:  cart.CustomerID,
		TotalItems:  cart.TotalItems,
		TotalAmount: cart.TotalAmount,
		Items:       make([]CartLineView, 0, len(cart.Items)),
	}
	for _, item := range cart.Items {
		line := CartLineView{
			ID:         item.ID,
			VariantID:  item.VariantID,
			Qty:        item.Qty,
			UnitPrice:  item.UnitPrice,
			LineAmount: item.LineAmount,
		}
		if item.Variant != nil {
			line.VariantName = item.Variant.Name
			if item.Variant.Product != nil {
				line.ProductName = item.Variant.Product.Name
			}
		}
		view.Items = append(view.Items, line)
	}
	return view
}

func emptyCartView(customerID uuid.UUID) *CartView {
	return &CartView{
		CustomerID:  customerID,
		TotalAmount: decimal.Zero,
		Items:       []CartLineView{},
	}
}
