package provider

import (
	"fmt"
	"time"
)

// AssetClass fixes the per-class upload limits, store folder and presign TTL.
type AssetClass struct {
	Name         string
	Folder       string
	MaxSize      int64
	AllowedTypes []string
	PresignTTL   time.Duration
}

var (
	// CoverAsset: low-sensitivity, cacheable images; long-lived URLs.
	CoverAsset = AssetClass{
		Name:         "cover",
		Folder:       "covers",
		MaxSize:      5 * 1024 * 1024,
		AllowedTypes: []string{"image/jpeg", "image/png", "image/webp"},
		PresignTTL:   24 * time.Hour,
	}

	// DocumentAsset: the protected content; URLs expire in minutes.
	DocumentAsset = AssetClass{
		Name:         "document",
		Folder:       "books",
		MaxSize:      100 * 1024 * 1024,
		AllowedTypes: []string{"application/pdf"},
		PresignTTL:   15 * time.Minute,
	}
)

// ValidateAsset checks size and content type against the class limits. Pure,
// no I/O; called before any upload is attempted for the asset.
func ValidateAsset(size int64, contentType string, class AssetClass) error {
	if size <= 0 {
		return fmt.Errorf("%w: %s file is missing or empty", ErrValidation, class.Name)
	}

	if size > class.MaxSize {
		return fmt.Errorf("%w: %s exceeds %dMB limit", ErrValidation, class.Name, class.MaxSize/1024/1024)
	}

	for _, allowed := range class.AllowedTypes {
		if contentType == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: %s type %q not allowed", ErrValidation, class.Name, contentType)
}
