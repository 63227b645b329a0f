// Package cache holds the confirmation-gated block caches. A block is only
// cached once it is at least MinConfirmations deep; above that depth a
// reorganization is considered practically impossible, so entries are never
// invalidated, only evicted under capacity pressure.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/thanhnp/explorer-apis/internal/models"
	"github.com/thanhnp/explorer-apis/internal/storage"
)

// MinConfirmations is the depth at which a block becomes cacheable.
// Anything shallower must be rebuilt from the node on every access.
const MinConfirmations = 6

// Default capacities. Summaries are two orders of magnitude cheaper to
// retain than full details, so the ratio is deliberately lopsided.
const (
	DefaultDetailCacheSize  = 1000
	DefaultSummaryCacheSize = 1000000
)

// BlockCache bounds two independent LRU maps keyed by block hash: one for
// full block details, one for listing summaries. The summary side can
// optionally read through to a persistent store so a restart does not start
// cold. Both maps are safe for concurrent use across overlapping requests.
type BlockCache struct {
	details   *lru.Cache[string, *models.BlockDetail]
	summaries *lru.Cache[string, *models.BlockSummary]
	store     *storage.SummaryStore
}

// NewBlockCache creates a BlockCache with the given capacities. Sizes at or
// below zero fall back to the defaults. store may be nil for memory-only
// operation.
func NewBlockCache(detailSize, summarySize int, store *storage.SummaryStore) (*BlockCache, error) {
	if detailSize <= 0 {
		detailSize = DefaultDetailCacheSize
	}
	if summarySize <= 0 {
		summarySize = DefaultSummaryCacheSize
	}

	details, err := lru.New[string, *models.BlockDetail](detailSize)
	if err != nil {
		return nil, err
	}
	summaries, err := lru.New[string, *models.BlockSummary](summarySize)
	if err != nil {
		return nil, err
	}

	return &BlockCache{
		details:   details,
		summaries: summaries,
		store:     store,
	}, nil
}

// Detail returns the cached block detail for hash. The caller owns the
// confirmations field: it is stale by definition and must be recomputed
// against the current tip before the record is served.
func (c *BlockCache) Detail(hash string) (*models.BlockDetail, bool) {
	return c.details.Get(hash)
}

// PutDetail stores a block detail if it is confirmed deeply enough.
// Below MinConfirmations this is a no-op.
func (c *BlockCache) PutDetail(hash string, detail *models.BlockDetail, confirmations int64) {
	if confirmations < MinConfirmations {
		return
	}
	c.details.Add(hash, detail)
}

// Summary returns the cached summary for hash, consulting the persistent
// store on an LRU miss and promoting any hit back into memory.
func (c *BlockCache) Summary(hash string) (*models.BlockSummary, bool) {
	if summary, ok := c.summaries.Get(hash); ok {
		return summary, true
	}
	if c.store == nil {
		return nil, false
	}
	summary, err := c.store.Get(hash)
	if err != nil || summary == nil {
		// A broken store read degrades to a cache miss.
		return nil, false
	}
	c.summaries.Add(hash, summary)
	return summary, true
}

// PutSummary stores a summary if it is confirmed deeply enough, writing
// through to the persistent store when one is configured.
func (c *BlockCache) PutSummary(hash string, summary *models.BlockSummary, confirmations int64) error {
	if confirmations < MinConfirmations {
		return nil
	}
	c.summaries.Add(hash, summary)
	if c.store != nil {
		return c.store.Save(summary)
	}
	return nil
}
