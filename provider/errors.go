package provider

import "errors"

var (
	// ErrValidation covers bad asset type/size and malformed input.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound covers absent categories and books.
	ErrNotFound = errors.New("not found")

	// ErrStorage covers failed object store calls.
	ErrStorage = errors.New("storage failure")
)
