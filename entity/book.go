package entity

import (
	"time"

	"github.com/google/uuid"
)

// Book references its two binary assets by object-store key only. A row
// exists only if every key it holds was written to the store successfully;
// CoverKey is nil when the book was created without a cover.
type Book struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Title          string    `json:"title" gorm:"type:varchar(512);not null"`
	Author         string    `json:"author" gorm:"type:varchar(255);not null"`
	Description    *string   `json:"description,omitempty" gorm:"type:text"`
	CategoryID     uuid.UUID `json:"category_id" gorm:"type:uuid;not null;index"`
	IsDownloadable bool      `json:"is_downloadable" gorm:"not null;default:false"`
	FileKey        string    `json:"file_key" gorm:"type:varchar(1024);not null"`
	CoverKey       *string   `json:"cover_key,omitempty" gorm:"type:varchar(1024)"`
	CreatedAt      time.Time `json:"created_at" gorm:"not null;autoCreateTime"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}
