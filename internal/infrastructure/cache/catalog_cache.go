package cache

import (
	"context"
	"sync"
	"time"

	"talentmatch/internal/domain/extraction"
	"talentmatch/internal/repository"
)

const catalogKeyPrefix = "skills:catalog:"

// CachedCatalog serves the skill catalog to the extractor without hitting
// Postgres on every offer. Entries are kept in-process and in Redis, both
// keyed by the repository's version stamp, so a catalog mutation makes the
// next read fall through to the database.
type CachedCatalog struct {
	repo  repository.SkillCatalogRepository
	redis *Redis
	ttl   time.Duration

	mu      sync.RWMutex
	version string
	entries []extraction.CatalogEntry
}

func NewCachedCatalog(repo repository.SkillCatalogRepository, redis *Redis, ttl time.Duration) *CachedCatalog {
	if ttl <= 0 {
		ttl = DefaultTTLFromEnv()
	}
	return &CachedCatalog{repo: repo, redis: redis, ttl: ttl}
}

func (c *CachedCatalog) Entries(ctx context.Context) ([]extraction.CatalogEntry, error) {
	version, err := c.repo.Version(ctx)
	if err != nil {
		// Serve the last known snapshot rather than failing extraction
		// outright when only the version probe is down.
		if cached := c.snapshot(""); cached != nil {
			return cached, nil
		}
		return nil, err
	}

	if cached := c.snapshot(version); cached != nil {
		return cached, nil
	}

	var entries []extraction.CatalogEntry
	hit, _ := c.redis.GetJSON(ctx, catalogKeyPrefix+version, &entries)
	if !hit {
		skills, err := c.repo.ListEntries(ctx)
		if err != nil {
			return nil, err
		}
		entries = make([]extraction.CatalogEntry, 0, len(skills))
		for _, s := range skills {
			entries = append(entries, extraction.CatalogEntry{
				SkillID: s.ID,
				Slug:    s.Slug,
				Name:    s.Name,
				Aliases: s.Aliases,
			})
		}
		_ = c.redis.SetJSON(ctx, catalogKeyPrefix+version, entries, c.ttl)
	}

	c.mu.Lock()
	c.version = version
	c.entries = entries
	c.mu.Unlock()

	return entries, nil
}

// Invalidate drops both cache tiers. Callers invoke it after any catalog
// mutation; the version stamp alone would also expire the entry, but the
// stamp has millisecond resolution so an explicit drop is still needed for
// back-to-back writes.
func (c *CachedCatalog) Invalidate(ctx context.Context) {
	c.mu.Lock()
	c.version = ""
	c.entries = nil
	c.mu.Unlock()

	_ = c.redis.DeleteByPattern(ctx, catalogKeyPrefix+"*")
}

// snapshot returns the in-process entries when they match version, or the
// latest entries regardless of staleness when version is empty.
func (c *CachedCatalog) snapshot(version string) []extraction.CatalogEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.entries == nil {
		return nil
	}
	if version != "" && c.version != version {
		return nil
	}
	out := make([]extraction.CatalogEntry, len(c.entries))
	copy(out, c.entries)
	return out
}
