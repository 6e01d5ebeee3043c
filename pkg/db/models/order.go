package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"phonestore-backend/pkg/enums"
)

// Order is the immutable result of converting a cart. Line items never change
// after creation; only the status and its audit fields do.
type Order struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID      uuid.UUID           `gorm:"column:customer_id;type:uuid;not null;index"`
	Customer        *User               `gorm:"foreignKey:CustomerID"`
	Status          enums.OrderStatus   `gorm:"column:status;type:order_status;not null;default:'pending'"`
	TotalAmount     decimal.Decimal     `gorm:"column:total_amount;type:numeric(12,2);not null"`
	PaymentMethod   enums.PaymentMethod `gorm:"column:payment_method;not null;default:'COD'"`
	ShippingAddress string              `gorm:"column:shipping_address;not null"`
	ConfirmedAt     *time.Time          `gorm:"column:confirmed_at"`
	ConfirmedBy     *string             `gorm:"column:confirmed_by"`
	CompletedAt     *time.Time          `gorm:"column:completed_at"`
	CompletedBy     *string             `gorm:"column:completed_by"`
	CancelledAt     *time.Time          `gorm:"column:cancelled_at"`
	CancelledBy     *string             `gorm:"column:cancelled_by"`
	CancelReason    *string             `gorm:"column:cancel_reason"`
	Items           []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Notes           []StaffNote         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
