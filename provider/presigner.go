package provider

import (
	"context"
	"fmt"
	"time"
)

// SignedURL is a time-limited read URL. It is always derived fresh from the
// stored key and never persisted.
type SignedURL struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Presigner issues read URLs with class-specific TTLs.
type Presigner struct {
	storage ObjectStorage
}

func NewPresigner(storage ObjectStorage) *Presigner {
	return &Presigner{storage: storage}
}

func (p *Presigner) Issue(ctx context.Context, key string, class AssetClass) (*SignedURL, error) {
	expiresAt := time.Now().Add(class.PresignTTL)

	url, err := p.storage.PresignedGet(ctx, key, class.PresignTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: presigning %s: %v", ErrStorage, key, err)
	}

	return &SignedURL{
		URL:       url,
		ExpiresAt: expiresAt,
	}, nil
}
