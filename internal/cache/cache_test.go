package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thanhnp/explorer-apis/internal/models"
	"github.com/thanhnp/explorer-apis/internal/storage"
)

func newTestCache(t *testing.T) *BlockCache {
	t.Helper()
	c, err := NewBlockCache(10, 10, nil)
	require.NoError(t, err)
	return c
}

func TestPutDetailBelowThresholdIsNoop(t *testing.T) {
	c := newTestCache(t)

	detail := &models.BlockDetail{Hash: "aa", Height: 100}
	c.PutDetail("aa", detail, MinConfirmations-1)

	_, ok := c.Detail("aa")
	assert.False(t, ok, "a block 5 deep can still reorganize and must not be cached")
}

func TestPutDetailAtThreshold(t *testing.T) {
	c := newTestCache(t)

	detail := &models.BlockDetail{Hash: "aa", Height: 100, Confirmations: MinConfirmations}
	c.PutDetail("aa", detail, MinConfirmations)

	got, ok := c.Detail("aa")
	require.True(t, ok)
	assert.Equal(t, detail, got)
}

func TestPutSummaryThreshold(t *testing.T) {
	c := newTestCache(t)

	require.NoError(t, c.PutSummary("aa", &models.BlockSummary{Hash: "aa"}, 5))
	_, ok := c.Summary("aa")
	assert.False(t, ok)

	require.NoError(t, c.PutSummary("bb", &models.BlockSummary{Hash: "bb"}, 6))
	got, ok := c.Summary("bb")
	require.True(t, ok)
	assert.Equal(t, "bb", got.Hash)
}

func TestDetailCacheEvictsLRU(t *testing.T) {
	c, err := NewBlockCache(2, 2, nil)
	require.NoError(t, err)

	c.PutDetail("aa", &models.BlockDetail{Hash: "aa"}, 10)
	c.PutDetail("bb", &models.BlockDetail{Hash: "bb"}, 10)

	// Touch "aa" so "bb" becomes the eviction candidate.
	_, ok := c.Detail("aa")
	require.True(t, ok)

	c.PutDetail("cc", &models.BlockDetail{Hash: "cc"}, 10)

	_, ok = c.Detail("bb")
	assert.False(t, ok)
	_, ok = c.Detail("aa")
	assert.True(t, ok)
	_, ok = c.Detail("cc")
	assert.True(t, ok)
}

func TestSummaryReadsThroughStore(t *testing.T) {
	db, err := storage.NewPebbleDB(t.TempDir())
	require.NoError(t, err)
	defer db.Close()
	store := storage.NewSummaryStore(db)

	warm, err := NewBlockCache(10, 10, store)
	require.NoError(t, err)
	summary := &models.BlockSummary{Hash: "aa", Height: 7, TxLength: 3}
	require.NoError(t, warm.PutSummary("aa", summary, 10))

	// A fresh cache over the same store simulates a restart.
	cold, err := NewBlockCache(10, 10, store)
	require.NoError(t, err)

	got, ok := cold.Summary("aa")
	require.True(t, ok)
	assert.Equal(t, summary.Height, got.Height)
	assert.Equal(t, summary.TxLength, got.TxLength)

	_, ok = cold.Summary("missing")
	assert.False(t, ok)
}
