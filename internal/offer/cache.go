package offer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Cache keeps resolved records for recently seen candidate text so a
// resubmitted brief does not cost another model call.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

type cacheEntry struct {
	record CandidateRecord
	stored time.Time
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns a copy of the record cached for text, if it has not expired.
func (c *Cache) Get(text string) (*CandidateRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[cacheKey(text)]
	if !ok || c.now().Sub(entry.stored) > c.ttl {
		return nil, false
	}

	rec := entry.record
	return &rec, true
}

func (c *Cache) Set(text string, rec *CandidateRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[cacheKey(text)] = cacheEntry{record: *rec, stored: c.now()}
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// CleanExpired drops expired entries and reports how many were removed.
func (c *Cache) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, entry := range c.entries {
		if now.Sub(entry.stored) > c.ttl {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Janitor cleans expired entries every interval until ctx is done.
func (c *Cache) Janitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := c.CleanExpired(); n > 0 {
				log.Debug().Int("removed", n).Int("remaining", c.Len()).Msg("extraction cache cleaned")
			}
		}
	}
}

// cacheKey ignores surrounding whitespace, which the model never sees as meaningful.
func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return hex.EncodeToString(sum[:])
}
