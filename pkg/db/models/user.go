package models

import (
	"time"

	"github.com/google/uuid"
)

// User rows are owned by the (external) account subsystem; the core only reads
// names for order and note projections.
type User struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	FullName  string    `gorm:"column:full_name;not null"`
	Email     string    `gorm:"column:email;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
