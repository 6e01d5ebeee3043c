package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"phonestore-backend/pkg/db/models"
	"phonestore-backend/pkg/enums"
)

// OrderLineView is one snapshot line as returned to the HTTP layer.
type OrderLineView struct {
	ID          uuid.UUID       `json:"id"`
	VariantID   uuid.UUID       `json:"variant_id"`
	ProductName string          `json:"product_name"`
	VariantName string          `json:"variant_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// NoteView is a staff note projection attached to an order.
type NoteView struct {
	ID         uuid.UUID `json:"id"`
	AuthorID   uuid.UUID `json:"author_id"`
	AuthorName string    `json:"author_name,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// OrderView is the full order projection.
type OrderView struct {
	ID              uuid.UUID           `json:"id"`
	CustomerID      uuid.UUID           `json:"customer_id"`
	CustomerName    string              `json:"customer_name,omitempty"`
	Status          enums.OrderStatus   `json:"status"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	PaymentMethod   enums.PaymentMethod `json:"payment_method"`
	ShippingAddress string              `json:"shipping_address"`
	Items           []OrderLineView     `json:"items"`
	Notes           []NoteView          `json:"notes,omitempty"`
	ConfirmedAt     *time.Time          `json:"confirmed_at,omitempty"`
	ConfirmedBy     *string             `json:"confirmed_by,omitempty"`
	CompletedAt     *time.Time          `json:"completed_at,omitempty"`
	CompletedBy     *string             `json:"completed_by,omitempty"`
	CancelledAt     *time.Time          `json:"cancelled_at,omitempty"`
	CancelledBy     *string             `json:"cancelled_by,omitempty"`
	CancelReason    *string             `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

func newOrderView(order *models.Order) OrderView {
	view := OrderView{
		ID:              order.ID,
		CustomerID:      order.CustomerID,
		Status:          order.Status,
		TotalAmount:     order.TotalAmount,
		PaymentMethod:   order.PaymentMethod,
		ShippingAddress: order.ShippingAddress,
		Items:           make([]OrderLineView, 0, len(order.Items)),
		ConfirmedAt:     order.ConfirmedAt,
		ConfirmedBy:     order.ConfirmedBy,
		CompletedAt:     order.CompletedAt,
		CompletedBy:     order.CompletedBy,
		CancelledAt:     order.CancelledAt,
		CancelledBy:     order.CancelledBy,
		CancelReason:    order.CancelReason,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
	if order.Customer != nil {
		view.CustomerName = order.Customer.FullName
	}
	for _, item := range order.Items {
		view.Items = append(view.Items, OrderLineView{
			ID:          item.ID,
			VariantID:   item.VariantID,
			ProductName: item.ProductNameSnapshot,
			VariantName: item.VariantNameSnapshot,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal,
		})
	}
	for _, note := range order.Notes {
		view.Notes = append(view.Notes, newNoteView(note))
	}
	return view
}

func newNoteView(note models.StaffNote) NoteView {
	view := NoteView{
		ID:        note.ID,
		AuthorID:  note.AuthorID,
		Content:   note.Content,
		CreatedAt: note.CreatedAt,
	}
	if note.Author != nil {
		view.AuthorName = note.Author.FullName
	}
	return view
}
