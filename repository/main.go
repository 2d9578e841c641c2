package repository

import (
	"github.com/biblioteca-dev/book-asset-service/infra"
	"gorm.io/gorm"
)

type Repository struct {
	BookRepo     *BookRepository
	CategoryRepo *CategoryRepository
}

func InitRepository(infra *infra.Infra) *Repository {
	return &Repository{
		BookRepo:     NewBookRepository(infra.Postgres.DB),
		CategoryRepo: NewCategoryRepository(infra.Postgres.DB),
	}
}

func (r *Repository) WithTransaction(tx *gorm.DB) *Repository {
	return &Repository{
		BookRepo:     NewBookRepository(tx),
		CategoryRepo: NewCategoryRepository(tx),
	}
}
