package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thanhnp/explorer-apis/internal/models"
)

func TestSummaryStore(t *testing.T) {
	db, err := NewPebbleDB(t.TempDir())
	require.NoError(t, err)
	defer db.Close()

	store := NewSummaryStore(db)

	summary := &models.BlockSummary{
		Height:   12345,
		Size:     2000,
		Hash:     "00000000abcd",
		Time:     1704070000,
		TxLength: 12,
		PoolInfo: models.PoolInfo{PoolName: "Generic", URL: "https://generic.example"},
		MinedBy:  "t1abc",
	}
	require.NoError(t, store.Save(summary))

	got, err := store.Get(summary.Hash)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, summary, got)

	missing, err := store.Get("unknown")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPebbleDBSchemaVersion(t *testing.T) {
	dir := t.TempDir()

	db, err := NewPebbleDB(dir)
	require.NoError(t, err)

	// A fresh database is stamped on open.
	stored, err := db.Get(CFMeta, []byte(schemaVersionKey))
	require.NoError(t, err)
	assert.Equal(t, schemaVersion, string(stored))
	require.NoError(t, db.Close())

	// Reopening with a matching version succeeds.
	db, err = NewPebbleDB(dir)
	require.NoError(t, err)

	// A foreign version refuses to open.
	require.NoError(t, db.Put(CFMeta, []byte(schemaVersionKey), []byte("999")))
	require.NoError(t, db.Close())

	_, err = NewPebbleDB(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema version")
}
