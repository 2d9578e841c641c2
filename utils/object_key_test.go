package utils

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var objectKeyPattern = regexp.MustCompile(`^covers/[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}-\d{13,}$`)

func TestNewObjectKey(t *testing.T) {
	key := NewObjectKey("covers")
	assert.True(t, strings.HasPrefix(key, "covers/"))
	assert.Regexp(t, objectKeyPattern, key)
}

func TestNewObjectKeyIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		key := NewObjectKey("books")
		assert.False(t, seen[key], "key %s generated twice", key)
		seen[key] = true
	}
}
