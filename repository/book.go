package repository

import (
	"context"

	"github.com/biblioteca-dev/book-asset-service/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) *BookRepository {
	return &BookRepository{db: db}
}

// Create inserts the row inside a single transaction. The caller has already
// written both objects to the store; this commit is what makes them live.
func (r *BookRepository) Create(ctx context.Context, book *entity.Book) error {
	if book.ID == uuid.Nil {
		book.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(book).Error
	})
}

func (r *BookRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Book, error) {
	var book entity.Book
	err := r.db.WithContext(ctx).Preload("Category").Where("id = ?", id).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// FindMany lists books newest first with free-text matching over title and
// author, optional category filtering, and offset/limit pagination. It also
// returns the unpaginated total.
func (r *BookRepository) FindMany(ctx context.Context, search string, categoryID *uuid.UUID, offset, limit int) ([]entity.Book, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Book{})

	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("title ILIKE ? OR author ILIKE ?", pattern, pattern)
	}
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var books []entity.Book
	err := query.Preload("Category").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&books).Error
	if err != nil {
		return nil, 0, err
	}

	return books, total, nil
}

// Delete removes the row inside a single transaction. Object deletion is the
// caller's concern and happens only after this commits.
func (r *BookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Delete(&entity.Book{}, "id = ?", id).Error
	})
}
