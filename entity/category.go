package entity

import (
	"time"

	"github.com/google/uuid"
)

// Category is owned by the catalog service; the asset pipeline only resolves
// ids and slugs against it and never writes to it.
type Category struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Slug      string    `json:"slug" gorm:"type:varchar(255);uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;autoCreateTime"`

	Books []Book `json:"books,omitempty" gorm:"foreignKey:CategoryID"`
}
