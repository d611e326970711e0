package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the identifier and timestamps shared by every stored entity.
type Base struct {
	ID        uuid.UUID `json:"_id" gorm:"primaryKey;type:uuid"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns a fresh identifier when the caller did not provide one.
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
