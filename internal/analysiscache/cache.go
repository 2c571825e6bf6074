// Package analysiscache memoizes food analyses per image and dietary context.
//
// All entries of one scope live in a single JSON document in the KV store,
// keyed by composite key. A corrupted or unreadable document behaves like an
// empty cache; the cache never makes an analysis fail.
package analysiscache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	json "github.com/goccy/go-json"

	"github.com/vladimiradmaev/fitscan-coach/internal/domain"
	"github.com/vladimiradmaev/fitscan-coach/internal/logger"
	"github.com/vladimiradmaev/fitscan-coach/internal/storage"
)

const (
	BlobKey    = "fitscan_food_cache"
	DefaultTTL = 24 * time.Hour
)

// Entry is one cached analysis. Timestamp is unix milliseconds.
type Entry struct {
	Timestamp int64                `json:"timestamp"`
	Data      *domain.FoodAnalysis `json:"data"`
}

// Recorder observes lookups. The metrics provider implements it.
type Recorder interface {
	CacheHit()
	CacheMiss()
}

type Cache struct {
	kv       storage.KV
	ttl      time.Duration
	purge    bool
	now      func() time.Time
	recorder Recorder
	log      *slog.Logger
}

type Option func(*Cache)

func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithPurge drops expired entries whenever the document is rewritten.
func WithPurge(enabled bool) Option {
	return func(c *Cache) { c.purge = enabled }
}

func WithRecorder(r Recorder) Option {
	return func(c *Cache) { c.recorder = r }
}

func New(kv storage.KV, opts ...Option) *Cache {
	c := &Cache{
		kv:    kv,
		ttl:   DefaultTTL,
		purge: true,
		now:   time.Now,
		log:   logger.With("analysis_cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BlobKeyFor returns the document key of a scope. The empty scope maps to
// the shared document.
func BlobKeyFor(scope string) string {
	if scope == "" {
		return BlobKey
	}
	return BlobKey + ":" + scope
}

// Lookup returns the cached analysis for key when it is younger than the TTL.
func (c *Cache) Lookup(ctx context.Context, scope, key string) (*domain.FoodAnalysis, bool) {
	entries := c.load(ctx, scope)
	entry, ok := entries[key]
	if !ok || entry.Data == nil || !c.fresh(entry) {
		c.miss()
		return nil, false
	}
	c.hit()
	c.log.Debug("Analysis served from cache", "cache_key", key, "scope", scope)
	return entry.Data, true
}

// Store records analysis under key, read-merge-writing the scope document.
func (c *Cache) Store(ctx context.Context, scope, key string, analysis *domain.FoodAnalysis) error {
	entries := c.load(ctx, scope)
	if c.purge {
		for k, e := range entries {
			if !c.fresh(e) {
				delete(entries, k)
			}
		}
	}
	entries[key] = Entry{Timestamp: c.now().UnixMilli(), Data: analysis}

	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.kv.Set(ctx, BlobKeyFor(scope), string(raw))
}

func (c *Cache) fresh(e Entry) bool {
	return c.now().UnixMilli()-e.Timestamp < c.ttl.Milliseconds()
}

// load never fails: unreadable documents come back as an empty map.
func (c *Cache) load(ctx context.Context, scope string) map[string]Entry {
	entries := make(map[string]Entry)
	raw, err := c.kv.Get(ctx, BlobKeyFor(scope))
	if errors.Is(err, storage.ErrNotFound) {
		return entries
	}
	if err != nil {
		c.log.Warn("Failed to read analysis cache", "scope", scope, "error", err)
		return entries
	}
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		c.log.Warn("Discarding corrupt analysis cache", "scope", scope, "error", err)
		return make(map[string]Entry)
	}
	// A stored "null" decodes into a nil map.
	if entries == nil {
		entries = make(map[string]Entry)
	}
	return entries
}

func (c *Cache) hit() {
	if c.recorder != nil {
		c.recorder.CacheHit()
	}
}

func (c *Cache) miss() {
	if c.recorder != nil {
		c.recorder.CacheMiss()
	}
}

