package services

import (
	"sync"
	"time"

	"prode-app-go/models"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// StandingsCacheConfig sizes the standings cache
type StandingsCacheConfig struct {
	Size int
	TTL  time.Duration
}

// DefaultStandingsCacheConfig returns the cache defaults
func DefaultStandingsCacheConfig() StandingsCacheConfig {
	return StandingsCacheConfig{Size: 256, TTL: time.Minute}
}

// standingsCache keeps ranked standings per competition. Entries are
// copied on the way in and out so callers cannot mutate cached rankings.
//
// Each competition has a generation that Invalidate bumps. A computed table
// is only stored when the generation it was read under is still current, so
// a write that lands while standings are being computed is never masked.
type standingsCache struct {
	lru *expirable.LRU[string, []models.StandingEntry]

	mu          sync.Mutex
	generations map[string]uint64
}

func newStandingsCache(config StandingsCacheConfig) *standingsCache {
	if config.Size <= 0 {
		config = DefaultStandingsCacheConfig()
	}
	return &standingsCache{
		lru:         expirable.NewLRU[string, []models.StandingEntry](config.Size, nil, config.TTL),
		generations: make(map[string]uint64),
	}
}

func (c *standingsCache) Get(competitionID string) ([]models.StandingEntry, bool) {
	entries, ok := c.lru.Get(competitionID)
	if !ok {
		return nil, false
	}
	return append(make([]models.StandingEntry, 0, len(entries)), entries...), true
}

// Generation returns the token to pass to Set for a table computed from now on
func (c *standingsCache) Generation(competitionID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[competitionID]
}

// Set stores entries unless the competition was invalidated after generation
// was taken. It reports whether the entries were stored.
func (c *standingsCache) Set(competitionID string, generation uint64, entries []models.StandingEntry) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[competitionID] != generation {
		return false
	}
	c.lru.Add(competitionID, append(make([]models.StandingEntry, 0, len(entries)), entries...))
	return true
}

func (c *standingsCache) Invalidate(competitionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[competitionID]++
	c.lru.Remove(competitionID)
}
