package utils

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewObjectKey builds a store key of the form <folder>/<uuid>-<unixMillis>.
// The random component keeps concurrent uploads from ever colliding, so no
// coordination is needed between simultaneous ingestions.
func NewObjectKey(folder string) string {
	return fmt.Sprintf("%s/%s-%d", folder, uuid.NewString(), time.Now().UnixMilli())
}
