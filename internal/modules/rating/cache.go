package rating

import (
	"encoding/json"
	"os"
	"sync"
	"time"
)

// cacheEntry matches the on-disk cache format: unix seconds under "_ts".
type cacheEntry struct {
	Rating *float64 `json:"rating"`
	Count  *int     `json:"count"`
	Link   string   `json:"link"`
	TS     float64  `json:"_ts"`
}

func (e cacheEntry) storedAt() time.Time {
	sec := int64(e.TS)
	return time.Unix(sec, int64((e.TS-float64(sec))*float64(time.Second)))
}

// FileCache keeps the last good rating in memory and mirrors it to a JSON
// file so restarts do not trigger a fresh upstream call. File errors are
// ignored; the cache is best effort.
type FileCache struct {
	path string
	ttl  time.Duration

	mu     sync.Mutex
	entry  *cacheEntry
	loaded bool
}

func NewFileCache(path string, ttl time.Duration) *FileCache {
	return &FileCache{path: path, ttl: ttl}
}

// Get returns the cached rating if it is younger than the TTL.
func (c *FileCache) Get(now time.Time) (*Rating, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		c.entry = c.readFile()
		c.loaded = true
	}
	if c.entry == nil || now.Sub(c.entry.storedAt()) >= c.ttl {
		return nil, false
	}
	return &Rating{Rating: c.entry.Rating, Count: c.entry.Count, Link: c.entry.Link}, true
}

func (c *FileCache) Put(r Rating, now time.Time) {
	e := &cacheEntry{
		Rating: r.Rating,
		Count:  r.Count,
		Link:   r.Link,
		TS:     float64(now.UnixNano()) / float64(time.Second),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = e
	c.loaded = true

	if c.path == "" {
		return
	}
	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	_ = os.WriteFile(c.path, data, 0o644)
}

func (c *FileCache) readFile() *cacheEntry {
	if c.path == "" {
		return nil
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil
	}
	var e cacheEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil
	}
	return &e
}
