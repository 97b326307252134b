package keychain

import (
	"encoding/json"
	"fmt"
	"time"
)

// cachePrefix namespaces cache entries away from stored keys.
const cachePrefix = "cache/"

type cacheEntry struct {
	Key     []byte    `json:"key"`
	Expires time.Time `json:"expires"`
}

// CacheKey stores an unlocked key under the cache namespace with an
// absolute expiry ttl seconds from now. A ttl of zero or less stores
// nothing.
func (s *Store) CacheKey(label string, key []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	entry := cacheEntry{
		Key:     key,
		Expires: time.Now().Add(ttl),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	return s.Write(cachePrefix+label, data)
}

// CachedKey returns the unlocked key cached under label, or ok=false if no
// entry exists or the entry has expired. Expired entries are removed.
func (s *Store) CachedKey(label string) (key []byte, ok bool) {
	data, err := s.Read(cachePrefix + label)
	if err != nil {
		return nil, false
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		// Unreadable entry: drop it rather than fail the run.
		_ = s.Remove(cachePrefix + label)
		return nil, false
	}

	if time.Now().After(entry.Expires) {
		_ = s.Remove(cachePrefix + label)
		return nil, false
	}
	return entry.Key, true
}

// DropCachedKey removes any cached key under label.
func (s *Store) DropCachedKey(label string) error {
	return s.Remove(cachePrefix + label)
}
