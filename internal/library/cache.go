package library

import (
	"fmt"

	"github.com/franz/musicdex/internal/store"
)

// CacheKind names a family of derived cache entries
type CacheKind string

const (
	// KindCollection caches the rendered full-collection aggregate
	KindCollection CacheKind = "collection"

	// KindCover caches per-album cover data
	KindCover CacheKind = "cover"
)

// Cache is a typed view over the store's per-user key/value cache. Keys are
// built from (kind, entity id) here and nowhere else, so callers cannot
// collide by concatenating strings.
type Cache struct {
	store *store.Store
}

// NewCache creates a Cache
func NewCache(s *store.Store) *Cache {
	return &Cache{store: s}
}

func cacheKey(kind CacheKind, entityID int64) string {
	if entityID == 0 {
		return string(kind)
	}
	return fmt.Sprintf("%s/%d", kind, entityID)
}

// Get returns the cached bytes for an entity, or store.ErrNotFound
func (c *Cache) Get(userID string, kind CacheKind, entityID int64) ([]byte, error) {
	return c.store.CacheGet(userID, cacheKey(kind, entityID))
}

// Add stores bytes for an entity; store.ErrCacheKeyExists signals a lost
// write race, which callers treat as informational
func (c *Cache) Add(userID string, kind CacheKind, entityID int64, data []byte) error {
	return c.store.CacheAdd(userID, cacheKey(kind, entityID), data)
}

// Remove drops the entry for one entity
func (c *Cache) Remove(userID string, kind CacheKind, entityID int64) error {
	return c.store.CacheRemove(userID, cacheKey(kind, entityID))
}

// RemoveKind drops every entry of one kind
func (c *Cache) RemoveKind(userID string, kind CacheKind) error {
	return c.store.CacheRemovePrefix(userID, string(kind))
}

// InvalidateUser drops all derived data of one user. The cache holds nothing
// that cannot be rebuilt, so writers never coordinate beyond this.
func (c *Cache) InvalidateUser(userID string) error {
	return c.store.CacheRemove(userID, "")
}
