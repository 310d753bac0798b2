package cache

import (
	"path/filepath"
)

// Cache memoizes decoded file contents for the life of the process
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Delete(key string)
	Clear()
}

// Key normalizes a file path into a cache key, so "./cm.csv" and "cm.csv"
// share one slot
func Key(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return "sharechart:v1:" + filepath.Clean(path)
}

// Nop never stores anything
type Nop struct{}

// Get implements Cache
func (Nop) Get(string) ([]byte, bool) { return nil, false }

// Set implements Cache
func (Nop) Set(string, []byte) {}

// Delete implements Cache
func (Nop) Delete(string) {}

// Clear implements Cache
func (Nop) Clear() {}
