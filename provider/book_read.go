package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/biblioteca-dev/book-asset-service/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 5

	categorySlugCacheTTL = 5 * time.Minute
)

// ListQuery filters and paginates the book listing.
type ListQuery struct {
	Page         int
	Limit        int
	Search       string
	CategorySlug string
}

// BookPage is one listing page plus its pagination envelope.
type BookPage struct {
	Data []BookResult
	Meta utils.PaginationMeta
}

func (s *BookAssetService) GetBook(ctx context.Context, id uuid.UUID) (*BookResult, error) {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: book %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("finding book %s: %w", id, err)
	}

	result := &BookResult{Book: book}
	if book.CoverKey != nil {
		signed, err := s.presigner.Issue(ctx, *book.CoverKey, CoverAsset)
		if err != nil {
			return nil, err
		}
		result.CoverURL = signed
	}
	return result, nil
}

func (s *BookAssetService) ListBooks(ctx context.Context, q ListQuery) (*BookPage, error) {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}

	var categoryID *uuid.UUID
	if q.CategorySlug != "" {
		id, err := s.resolveCategorySlug(ctx, q.CategorySlug)
		if err != nil {
			return nil, err
		}
		if id == nil {
			// Unknown slug matches nothing.
			return &BookPage{
				Data: []BookResult{},
				Meta: utils.NewPaginationMeta(0, q.Page, q.Limit),
			}, nil
		}
		categoryID = id
	}

	offset := (q.Page - 1) * q.Limit
	books, total, err := s.books.FindMany(ctx, q.Search, categoryID, offset, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}

	page := &BookPage{
		Data: make([]BookResult, 0, len(books)),
		Meta: utils.NewPaginationMeta(total, q.Page, q.Limit),
	}
	for i := range books {
		book := books[i]
		result := BookResult{Book: &book}
		if book.CoverKey != nil {
			signed, err := s.presigner.Issue(ctx, *book.CoverKey, CoverAsset)
			if err != nil {
				return nil, err
			}
			result.CoverURL = signed
		}
		page.Data = append(page.Data, result)
	}

	return page, nil
}

// ReadBook grants short-lived read access to the document behind a book.
func (s *BookAssetService) ReadBook(ctx context.Context, id uuid.UUID) (*SignedURL, error) {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: book %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("finding book %s: %w", id, err)
	}

	return s.presigner.Issue(ctx, book.FileKey, DocumentAsset)
}

// resolveCategorySlug maps a slug to its category id, consulting the cache
// first. Only the listing filter uses this; creation-time category checks
// always hit the database. Returns (nil, nil) for an unknown slug.
func (s *BookAssetService) resolveCategorySlug(ctx context.Context, slug string) (*uuid.UUID, error) {
	cacheKey := "category:slug:" + slug

	if s.cache != nil {
		var cached string
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			if id, err := uuid.Parse(cached); err == nil {
				return &id, nil
			}
		}
	}

	category, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolving category slug %q: %w", slug, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, category.ID.String(), categorySlugCacheTTL); err != nil {
			s.logger.WarningWithContextf(ctx, "[Books] Failed to cache category slug %q: %v", slug, err)
		}
	}

	id := category.ID
	return &id, nil
}
