package provider

import (
	"context"
	"time"

	"github.com/biblioteca-dev/book-asset-service/entity"
	"github.com/biblioteca-dev/book-asset-service/infra/produce"
	"github.com/google/uuid"
)

// ObjectStorage is the slice of the store client the pipeline needs.
type ObjectStorage interface {
	UploadObject(ctx context.Context, folder string, data []byte, contentType string) (string, error)
	RemoveObject(ctx context.Context, key string) error
	ObjectExists(ctx context.Context, key string) (bool, error)
	PresignedGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// BookStore is the transactional book repository.
type BookStore interface {
	Create(ctx context.Context, book *entity.Book) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Book, error)
	FindMany(ctx context.Context, search string, categoryID *uuid.UUID, offset, limit int) ([]entity.Book, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryStore resolves externally-owned categories.
type CategoryStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Category, error)
}

// CleanupQueue takes keys the service failed to delete best-effort.
type CleanupQueue interface {
	PublishCleanup(ctx context.Context, msg produce.StorageCleanupMessage) error
}

// Cache is the optional slug-resolution cache used on the listing path.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

type Logger interface {
	InfoWithContextf(ctx context.Context, format string, args ...interface{})
	WarningWithContextf(ctx context.Context, format string, args ...interface{})
	ErrorWithContextf(ctx context.Context, err error, format string, args ...interface{})
}

// BookAssetService sequences validation, uploads and persistence for book
// ingestion and owns the removal path. Uploads always happen before the
// relational commit; compensation deletes completed uploads in reverse order
// on a later failure. The two stores never share a transaction.
type BookAssetService struct {
	storage    ObjectStorage
	books      BookStore
	categories CategoryStore
	presigner  *Presigner
	logger     Logger
	cleanup    CleanupQueue
	cache      Cache
}

// NewBookAssetService wires the pipeline explicitly. cleanup and cache may
// be nil; deferred deletion and slug caching are then skipped.
func NewBookAssetService(
	storage ObjectStorage,
	books BookStore,
	categories CategoryStore,
	logger Logger,
	cleanup CleanupQueue,
	cache Cache,
) *BookAssetService {
	return &BookAssetService{
		storage:    storage,
		books:      books,
		categories: categories,
		presigner:  NewPresigner(storage),
		logger:     logger,
		cleanup:    cleanup,
		cache:      cache,
	}
}
