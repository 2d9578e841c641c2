package dto

import (
	"time"

	"github.com/biblioteca-dev/book-asset-service/entity"
	"github.com/biblioteca-dev/book-asset-service/provider"
	"github.com/biblioteca-dev/book-asset-service/utils"
)

type CreateBookRequestDTO struct {
	Title          string `form:"title" binding:"required"`
	Author         string `form:"author" binding:"required"`
	Description    string `form:"description"`
	CategoryID     string `form:"categoryId" binding:"required,uuid"`
	IsDownloadable bool   `form:"isDownloadable"`
}

type CategoryResponseDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type BookResponseDTO struct {
	ID             string               `json:"id"`
	Title          string               `json:"title"`
	Author         string               `json:"author"`
	Description    *string              `json:"description,omitempty"`
	CategoryID     string               `json:"categoryId"`
	Category       *CategoryResponseDTO `json:"category,omitempty"`
	IsDownloadable bool                 `json:"isDownloadable"`
	FileKey        string               `json:"fileKey"`
	CoverURL       *string              `json:"coverUrl"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
}

type BookListResponseDTO struct {
	Data []BookResponseDTO    `json:"data"`
	Meta utils.PaginationMeta `json:"meta"`
}

type ReadAccessResponseDTO struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func NewBookResponse(result provider.BookResult) BookResponseDTO {
	book := result.Book
	resp := BookResponseDTO{
		ID:             book.ID.String(),
		Title:          book.Title,
		Author:         book.Author,
		Description:    book.Description,
		CategoryID:     book.CategoryID.String(),
		IsDownloadable: book.IsDownloadable,
		FileKey:        book.FileKey,
		CreatedAt:      book.CreatedAt,
		UpdatedAt:      book.UpdatedAt,
	}
	if result.CoverURL != nil {
		url := result.CoverURL.URL
		resp.CoverURL = &url
	}
	if book.Category != nil {
		resp.Category = newCategoryResponse(book.Category)
	}
	return resp
}

func newCategoryResponse(category *entity.Category) *CategoryResponseDTO {
	return &CategoryResponseDTO{
		ID:   category.ID.String(),
		Name: category.Name,
		Slug: category.Slug,
	}
}
