package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/biblioteca-dev/book-asset-service/entity"
	"github.com/biblioteca-dev/book-asset-service/infra/produce"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateBookInput carries the metadata fields of an ingestion request.
type CreateBookInput struct {
	Title          string
	Author         string
	Description    *string
	CategoryID     uuid.UUID
	IsDownloadable bool
}

// AssetUpload is one in-memory binary part of the request.
type AssetUpload struct {
	Data        []byte
	ContentType string
}

// BookResult is a book row plus its freshly derived cover URL; CoverURL is
// nil for coverless books.
type BookResult struct {
	Book     *entity.Book
	CoverURL *SignedURL
}

// CreateBook runs the ingestion saga: category check, optional cover
// validate+upload, document validate+upload, transactional insert. Every
// completed upload registers an inverse delete; any later failure unwinds
// them in reverse order and the triggering error is what propagates, never a
// compensation outcome.
func (s *BookAssetService) CreateBook(ctx context.Context, in CreateBookInput, cover *AssetUpload, document *AssetUpload) (*BookResult, error) {
	if document == nil {
		return nil, fmt.Errorf("%w: document file is required", ErrValidation)
	}

	// Step 1: fail fast on a dangling category, before any side effect.
	if _, err := s.categories.FindByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category %s", ErrNotFound, in.CategoryID)
		}
		return nil, fmt.Errorf("checking category %s: %w", in.CategoryID, err)
	}

	var comp compensationStack

	// Step 2: cover, when supplied. Nothing to compensate on failure here.
	var coverKey *string
	if cover != nil {
		if err := ValidateAsset(int64(len(cover.Data)), cover.ContentType, CoverAsset); err != nil {
			return nil, err
		}
		key, err := s.storage.UploadObject(ctx, CoverAsset.Folder, cover.Data, cover.ContentType)
		if err != nil {
			return nil, fmt.Errorf("%w: uploading cover: %v", ErrStorage, err)
		}
		coverKey = &key
		comp.push(compensation{
			Label: "delete uploaded cover",
			Key:   key,
			Undo:  func(c context.Context) error { return s.storage.RemoveObject(c, key) },
		})
	}

	// Step 3: the document. A failure from here on unwinds completed uploads.
	if err := ValidateAsset(int64(len(document.Data)), document.ContentType, DocumentAsset); err != nil {
		s.compensate(ctx, &comp)
		return nil, err
	}
	fileKey, err := s.storage.UploadObject(ctx, DocumentAsset.Folder, document.Data, document.ContentType)
	if err != nil {
		s.compensate(ctx, &comp)
		return nil, fmt.Errorf("%w: uploading document: %v", ErrStorage, err)
	}
	comp.push(compensation{
		Label: "delete uploaded document",
		Key:   fileKey,
		Undo:  func(c context.Context) error { return s.storage.RemoveObject(c, fileKey) },
	})

	// Step 4: the commit makes the uploaded objects live.
	book := &entity.Book{
		Title:          in.Title,
		Author:         in.Author,
		Description:    in.Description,
		CategoryID:     in.CategoryID,
		IsDownloadable: in.IsDownloadable,
		FileKey:        fileKey,
		CoverKey:       coverKey,
	}
	if err := s.books.Create(ctx, book); err != nil {
		s.compensate(ctx, &comp)
		return nil, fmt.Errorf("creating book record: %w", err)
	}

	s.logger.InfoWithContextf(ctx, "[Books] Created book %s - %s", book.ID, book.Title)

	// Step 5: the response URL is derived fresh, never stored.
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

// RemoveBook deletes the row first; a row-delete failure aborts with nothing
// changed. Object deletions after a successful row delete are best-effort:
// failures are logged and queued for deferred cleanup, never surfaced,
// because the catalog item is already authoritatively gone.
func (s *BookAssetService) RemoveBook(ctx context.Context, id uuid.UUID) error {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: book %s", ErrNotFound, id)
		}
		return fmt.Errorf("finding book %s: %w", id, err)
	}

	if err := s.books.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting book record %s: %w", id, err)
	}

	s.logger.InfoWithContextf(ctx, "[Books] Deleted book %s - %s", book.ID, book.Title)

	keys := []string{book.FileKey}
	if book.CoverKey != nil {
		keys = append(keys, *book.CoverKey)
	}
	for _, key := range keys {
		if err := s.storage.RemoveObject(ctx, key); err != nil {
			s.logger.ErrorWithContextf(ctx, err, "[Books] Best-effort delete of %s failed after removing book %s", key, id)
			s.queueCleanup(ctx, key, id.String(), "post-removal delete failed")
		}
	}

	return nil
}

// compensate unwinds the stack and queues every failed undo for deferred
// deletion. The caller's original error stays the one that propagates.
func (s *BookAssetService) compensate(ctx context.Context, comp *compensationStack) {
	for _, action := range comp.unwind(ctx, s.logger) {
		s.queueCleanup(ctx, action.Key, "", "compensation delete failed")
	}
}

func (s *BookAssetService) queueCleanup(ctx context.Context, key, bookID, reason string) {
	if s.cleanup == nil {
		return
	}
	err := s.cleanup.PublishCleanup(ctx, produce.StorageCleanupMessage{
		Key:    key,
		BookID: bookID,
		Reason: reason,
	})
	if err != nil {
		s.logger.ErrorWithContextf(ctx, err, "[Books] Failed to queue cleanup for %s", key)
	}
}
