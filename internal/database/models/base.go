package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lifecycle values for the status column on users, characters and jobs.
const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// Base model with UUID primary key and timestamps.
// created_date is write-once; updated_date is refreshed by gorm on every save.
type Base struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time `gorm:"column:created_date;not null;<-:create" json:"created_date"`
	UpdatedAt time.Time `gorm:"column:updated_date" json:"updated_date"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// IsValidStatus reports whether s is a known lifecycle status.
func IsValidStatus(s string) bool {
	return s == StatusActive || s == StatusInactive
}
