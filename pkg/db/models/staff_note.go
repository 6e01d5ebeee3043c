package models

import (
	"time"

	"github.com/google/uuid"
)

// StaffNote is back-office commentary attached to an order. The note workflow
// lives outside the core; orders only read (and accept) these rows.
type StaffNote struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	AuthorID  uuid.UUID `gorm:"column:author_id;type:uuid;not null"`
	Author    *User     `gorm:"foreignKey:AuthorID"`
	Content   string    `gorm:"column:content;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
