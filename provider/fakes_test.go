package provider

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/biblioteca-dev/book-asset-service/entity"
	"github.com/biblioteca-dev/book-asset-service/infra/produce"
	"github.com/biblioteca-dev/book-asset-service/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeStorage struct {
	objects    map[string][]byte
	removed    []string
	calls      int
	uploadErr  map[string]error // keyed by folder
	removeErr  error
	presignErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		objects:   make(map[string][]byte),
		uploadErr: make(map[string]error),
	}
}

func (f *fakeStorage) UploadObject(_ context.Context, folder string, data []byte, _ string) (string, error) {
	f.calls++
	if err := f.uploadErr[folder]; err != nil {
		return "", err
	}
	key := utils.NewObjectKey(folder)
	f.objects[key] = data
	return key, nil
}

func (f *fakeStorage) RemoveObject(_ context.Context, key string) error {
	f.calls++
	if f.removeErr != nil {
		return f.removeErr
	}
	delete(f.objects, key)
	f.removed = append(f.removed, key)
	return nil
}

func (f *fakeStorage) ObjectExists(_ context.Context, key string) (bool, error) {
	f.calls++
	_, ok := f.objects[key]
	return ok, nil
}

func (f *fakeStorage) PresignedGet(_ context.Context, key string, _ time.Duration) (string, error) {
	f.calls++
	if f.presignErr != nil {
		return "", f.presignErr
	}
	return "https://store.local/" + key + "?signature=abc", nil
}

type fakeBooks struct {
	rows      []entity.Book
	createErr error
}

func (f *fakeBooks) Create(_ context.Context, book *entity.Book) error {
	if f.createErr != nil {
		return f.createErr
	}
	if book.ID == uuid.Nil {
		book.ID = uuid.New()
	}
	book.CreatedAt = time.Now()
	f.rows = append(f.rows, *book)
	return nil
}

func (f *fakeBooks) FindByID(_ context.Context, id uuid.UUID) (*entity.Book, error) {
	for i := range f.rows {
		if f.rows[i].ID == id {
			book := f.rows[i]
			return &book, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBooks) FindMany(_ context.Context, search string, categoryID *uuid.UUID, offset, limit int) ([]entity.Book, int64, error) {
	var matched []entity.Book
	for _, book := range f.rows {
		if search != "" {
			s := strings.ToLower(search)
			if !strings.Contains(strings.ToLower(book.Title), s) &&
				!strings.Contains(strings.ToLower(book.Author), s) {
				continue
			}
		}
		if categoryID != nil && book.CategoryID != *categoryID {
			continue
		}
		matched = append(matched, book)
	}

	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (f *fakeBooks) Delete(_ context.Context, id uuid.UUID) error {
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeCategories struct {
	byID   map[uuid.UUID]*entity.Category
	bySlug map[string]*entity.Category
}

func newFakeCategories(categories ...*entity.Category) *fakeCategories {
	f := &fakeCategories{
		byID:   make(map[uuid.UUID]*entity.Category),
		bySlug: make(map[string]*entity.Category),
	}
	for _, c := range categories {
		f.byID[c.ID] = c
		f.bySlug[c.Slug] = c
	}
	return f
}

func (f *fakeCategories) FindByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCategories) FindBySlug(_ context.Context, slug string) (*entity.Category, error) {
	if c, ok := f.bySlug[slug]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeQueue struct {
	messages []produce.StorageCleanupMessage
}

func (f *fakeQueue) PublishCleanup(_ context.Context, msg produce.StorageCleanupMessage) error {
	f.messages = append(f.messages, msg)
	return nil
}

type fakeCache struct {
	entries map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (f *fakeCache) Get(_ context.Context, key string, dest interface{}) error {
	data, ok := f.entries[key]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	return json.Unmarshal(data, dest)
}

func (f *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = data
	return nil
}

type nopLogger struct{}

func (nopLogger) InfoWithContextf(context.Context, string, ...interface{})           {}
func (nopLogger) WarningWithContextf(context.Context, string, ...interface{})        {}
func (nopLogger) ErrorWithContextf(context.Context, error, string, ...interface{}) {}
