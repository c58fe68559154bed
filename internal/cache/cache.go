// Package cache holds small in-process caches for lookups against remote
// services.
package cache

// Cache defines a generic cache interface
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	Size() int
}

var _ Cache[bool] = (*LRUCache[bool])(nil)
