package storage

import (
	"encoding/json"
	"fmt"

	"github.com/thanhnp/explorer-apis/internal/models"
)

// SummaryStore persists block summaries for blocks that are buried deeply
// enough to be treated as immutable. It backs the in-memory summary cache
// across restarts; it never holds anything that could still reorganize.
type SummaryStore struct {
	db *PebbleDB
}

// NewSummaryStore creates a new SummaryStore
func NewSummaryStore(db *PebbleDB) *SummaryStore {
	return &SummaryStore{db: db}
}

// Save stores a summary keyed by its block hash
func (s *SummaryStore) Save(summary *models.BlockSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	return s.db.Put(CFSummaries, []byte(summary.Hash), data)
}

// Get retrieves a summary by block hash, nil when absent
func (s *SummaryStore) Get(hash string) (*models.BlockSummary, error) {
	data, err := s.db.Get(CFSummaries, []byte(hash))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var summary models.BlockSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal summary: %w", err)
	}
	return &summary, nil
}
