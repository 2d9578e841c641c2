package provider

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/biblioteca-dev/book-asset-service/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testHarness struct {
	service    *BookAssetService
	storage    *fakeStorage
	books      *fakeBooks
	categories *fakeCategories
	queue      *fakeQueue
	cache      *fakeCache
	categoryID uuid.UUID
}

func newTestHarness() *testHarness {
	categoryID := uuid.New()
	storage := newFakeStorage()
	books := &fakeBooks{}
	categories := newFakeCategories(&entity.Category{
		ID:   categoryID,
		Name: "Programming",
		Slug: "programming",
	})
	queue := &fakeQueue{}
	cache := newFakeCache()

	return &testHarness{
		service:    NewBookAssetService(storage, books, categories, nopLogger{}, queue, cache),
		storage:    storage,
		books:      books,
		categories: categories,
		queue:      queue,
		cache:      cache,
		categoryID: categoryID,
	}
}

func (h *testHarness) input() CreateBookInput {
	return CreateBookInput{
		Title:          "The Go Programming Language",
		Author:         "Donovan",
		CategoryID:     h.categoryID,
		IsDownloadable: true,
	}
}

func pngCover() *AssetUpload {
	return &AssetUpload{Data: make([]byte, 2*1024*1024), ContentType: "image/png"}
}

func pdfDocument() *AssetUpload {
	return &AssetUpload{Data: make([]byte, 10*1024*1024), ContentType: "application/pdf"}
}

func TestCreateBookSuccess(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	result, err := h.service.CreateBook(ctx, h.input(), pngCover(), pdfDocument())
	require.NoError(t, err)

	book := result.Book
	assert.NotEqual(t, uuid.Nil, book.ID)
	require.NotNil(t, book.CoverKey)
	assert.True(t, strings.HasPrefix(*book.CoverKey, "covers/"))
	assert.True(t, strings.HasPrefix(book.FileKey, "books/"))

	// Every key the row references names an object in the store.
	exists, err := h.storage.ObjectExists(ctx, book.FileKey)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = h.storage.ObjectExists(ctx, *book.CoverKey)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NotNil(t, result.CoverURL)
	assert.Contains(t, result.CoverURL.URL, *book.CoverKey)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), result.CoverURL.ExpiresAt, 5*time.Second)

	require.Len(t, h.books.rows, 1)
}

func TestCreateBookWithoutCover(t *testing.T) {
	h := newTestHarness()

	result, err := h.service.CreateBook(context.Background(), h.input(), nil, pdfDocument())
	require.NoError(t, err)

	assert.Nil(t, result.Book.CoverKey)
	assert.Nil(t, result.CoverURL)
	assert.Len(t, h.storage.objects, 1)
}

func TestCreateBookCategoryNotFound(t *testing.T) {
	h := newTestHarness()

	in := h.input()
	in.CategoryID = uuid.New()

	_, err := h.service.CreateBook(context.Background(), in, pngCover(), pdfDocument())
	assert.ErrorIs(t, err, ErrNotFound)

	// The check runs before any side effect: the store was never touched.
	assert.Equal(t, 0, h.storage.calls)
	assert.Empty(t, h.books.rows)
}

func TestCreateBookMissingDocument(t *testing.T) {
	h := newTestHarness()

	_, err := h.service.CreateBook(context.Background(), h.input(), pngCover(), nil)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 0, h.storage.calls)
}

func TestCreateBookInvalidCoverUploadsNothing(t *testing.T) {
	h := newTestHarness()

	cover := &AssetUpload{Data: make([]byte, 1024), ContentType: "image/gif"}
	_, err := h.service.CreateBook(context.Background(), h.input(), cover, pdfDocument())
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, h.storage.objects)
	assert.Empty(t, h.books.rows)
}

func TestCreateBookDocumentUploadFailureDeletesCover(t *testing.T) {
	h := newTestHarness()
	h.storage.uploadErr["books"] = errors.New("connection reset")

	_, err := h.service.CreateBook(context.Background(), h.input(), pngCover(), pdfDocument())
	assert.ErrorIs(t, err, ErrStorage)

	// The cover was compensated away and no row was created.
	assert.Empty(t, h.storage.objects)
	assert.Len(t, h.storage.removed, 1)
	assert.True(t, strings.HasPrefix(h.storage.removed[0], "covers/"))
	assert.Empty(t, h.books.rows)
}

func TestCreateBookDocumentValidationFailureDeletesCover(t *testing.T) {
	h := newTestHarness()

	doc := &AssetUpload{Data: make([]byte, 1024), ContentType: "text/plain"}
	_, err := h.service.CreateBook(context.Background(), h.input(), pngCover(), doc)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, h.storage.objects)
	assert.Empty(t, h.books.rows)
}

func TestCreateBookPersistFailureDeletesBothObjects(t *testing.T) {
	h := newTestHarness()
	dbErr := errors.New("deadlock detected")
	h.books.createErr = dbErr

	_, err := h.service.CreateBook(context.Background(), h.input(), pngCover(), pdfDocument())
	require.Error(t, err)
	assert.ErrorIs(t, err, dbErr)

	// Both uploads were compensated, document first.
	assert.Empty(t, h.storage.objects)
	require.Len(t, h.storage.removed, 2)
	assert.True(t, strings.HasPrefix(h.storage.removed[0], "books/"))
	assert.True(t, strings.HasPrefix(h.storage.removed[1], "covers/"))
	assert.Empty(t, h.books.rows)
}

func TestCreateBookCompensationFailureKeepsOriginalError(t *testing.T) {
	h := newTestHarness()
	dbErr := errors.New("deadlock detected")
	h.books.createErr = dbErr
	h.storage.removeErr = errors.New("store unreachable")

	_, err := h.service.CreateBook(context.Background(), h.input(), pngCover(), pdfDocument())
	require.Error(t, err)

	// The triggering error propagates, never the compensation's outcome.
	assert.ErrorIs(t, err, dbErr)
	assert.NotContains(t, err.Error(), "store unreachable")

	// Every failed undo was handed to the cleanup queue.
	require.Len(t, h.queue.messages, 2)
	for _, msg := range h.queue.messages {
		assert.Equal(t, "compensation delete failed", msg.Reason)
	}
}

func TestRemoveBook(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	result, err := h.service.CreateBook(ctx, h.input(), pngCover(), pdfDocument())
	require.NoError(t, err)

	require.NoError(t, h.service.RemoveBook(ctx, result.Book.ID))

	assert.Empty(t, h.books.rows)
	assert.Empty(t, h.storage.objects)

	// A second removal finds nothing.
	err = h.service.RemoveBook(ctx, result.Book.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveBookObjectDeleteFailureIsNotSurfaced(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	result, err := h.service.CreateBook(ctx, h.input(), pngCover(), pdfDocument())
	require.NoError(t, err)

	h.storage.removeErr = errors.New("store unreachable")

	// The row delete succeeded, so the caller still gets success.
	require.NoError(t, h.service.RemoveBook(ctx, result.Book.ID))
	assert.Empty(t, h.books.rows)

	// Both keys were queued for deferred cleanup.
	require.Len(t, h.queue.messages, 2)
	assert.Equal(t, "post-removal delete failed", h.queue.messages[0].Reason)
	assert.Equal(t, result.Book.ID.String(), h.queue.messages[0].BookID)
}

func TestRemoveBookNotFound(t *testing.T) {
	h := newTestHarness()
	err := h.service.RemoveBook(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, h.storage.calls)
}

func TestGetBook(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	created, err := h.service.CreateBook(ctx, h.input(), pngCover(), pdfDocument())
	require.NoError(t, err)

	got, err := h.service.GetBook(ctx, created.Book.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Book.ID, got.Book.ID)
	require.NotNil(t, got.CoverURL)
	assert.Contains(t, got.CoverURL.URL, *got.Book.CoverKey)

	_, err = h.service.GetBook(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReadBook(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	created, err := h.service.CreateBook(ctx, h.input(), nil, pdfDocument())
	require.NoError(t, err)

	access, err := h.service.ReadBook(ctx, created.Book.ID)
	require.NoError(t, err)
	assert.Contains(t, access.URL, created.Book.FileKey)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), access.ExpiresAt, 5*time.Second)

	_, err = h.service.ReadBook(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListBooksPagination(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		_, err := h.service.CreateBook(ctx, h.input(), nil, pdfDocument())
		require.NoError(t, err)
	}

	page, err := h.service.ListBooks(ctx, ListQuery{Page: 1, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, page.Data, 5)
	assert.Equal(t, int64(12), page.Meta.Total)
	assert.Equal(t, 3, page.Meta.LastPage)
	assert.True(t, page.Meta.HasNext)
	require.NotNil(t, page.Meta.NextPage)
	assert.Equal(t, 2, *page.Meta.NextPage)

	page, err = h.service.ListBooks(ctx, ListQuery{Page: 3, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.False(t, page.Meta.HasNext)
	assert.Nil(t, page.Meta.NextPage)
	require.NotNil(t, page.Meta.PrevPage)
	assert.Equal(t, 2, *page.Meta.PrevPage)
}

func TestListBooksDefaults(t *testing.T) {
	h := newTestHarness()

	page, err := h.service.ListBooks(context.Background(), ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, DefaultPage, page.Meta.Page)
	assert.Equal(t, 1, page.Meta.LastPage)
}

func TestListBooksCategoryFilter(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	_, err := h.service.CreateBook(ctx, h.input(), nil, pdfDocument())
	require.NoError(t, err)

	page, err := h.service.ListBooks(ctx, ListQuery{CategorySlug: "programming"})
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)

	// The resolution is cached for subsequent listings.
	assert.Contains(t, h.cache.entries, "category:slug:programming")

	// An unknown slug matches nothing instead of failing.
	page, err = h.service.ListBooks(ctx, ListQuery{CategorySlug: "cooking"})
	require.NoError(t, err)
	assert.Empty(t, page.Data)
	assert.Equal(t, int64(0), page.Meta.Total)
}

func TestListBooksSearch(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	in := h.input()
	in.Title = "Distributed Systems"
	in.Author = "Tanenbaum"
	_, err := h.service.CreateBook(ctx, in, nil, pdfDocument())
	require.NoError(t, err)

	_, err = h.service.CreateBook(ctx, h.input(), nil, pdfDocument())
	require.NoError(t, err)

	page, err := h.service.ListBooks(ctx, ListQuery{Search: "tanenbaum"})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Distributed Systems", page.Data[0].Book.Title)
}
