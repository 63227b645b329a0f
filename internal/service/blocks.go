package service

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/thanhnp/explorer-apis/internal/cache"
	"github.com/thanhnp/explorer-apis/internal/chain"
	"github.com/thanhnp/explorer-apis/internal/logger"
	"github.com/thanhnp/explorer-apis/internal/models"
	"github.com/thanhnp/explorer-apis/internal/rpc"
)

const dateFormat = "2006-01-02"

const secondsPerDay = 86400

// DefaultListLimit bounds a single block listing page.
const DefaultListLimit = 200

// ErrInvalidDate reports a malformed blockDate argument.
var ErrInvalidDate = errors.New("invalid date format, expected yyyy-mm-dd")

// Node is the chain node collaborator contract. All durable chain state
// lives behind it; every method may block on I/O and carries no timeout of
// its own.
type Node interface {
	GetBlockHashByHeight(height int64) (string, error)
	GetBlockVerbose(hash string) (*rpc.BlockVerbose, error)
	GetBlockHeaderVerbose(hash string) (*rpc.BlockHeaderVerbose, error)
	GetRawBlock(hash string) ([]byte, error)
	GetBlockHashesByTimestamp(high, low int64) ([]string, error)
	GetDetailedTransaction(txid string) (*rpc.TxVerbose, error)
}

// BlockService assembles block details and summaries from node data and
// serves date-windowed block listings.
type BlockService struct {
	node      Node
	cache     *cache.BlockCache
	pools     *chain.PoolMatcher
	log       *logger.Logger
	listLimit int
}

// NewBlockService creates a new BlockService. listLimit at or below zero
// falls back to DefaultListLimit.
func NewBlockService(node Node, blockCache *cache.BlockCache, pools *chain.PoolMatcher, log *logger.Logger, listLimit int) *BlockService {
	if listLimit <= 0 {
		listLimit = DefaultListLimit
	}
	return &BlockService{
		node:      node,
		cache:     blockCache,
		pools:     pools,
		log:       log.WithComponent("blocks"),
		listLimit: listLimit,
	}
}

// GetBlockDetail returns the full block record for a hash. Cached records
// are served with confirmations recomputed against the current tip; fresh
// records are cached once they are confirmed deeply enough.
func (s *BlockService) GetBlockDetail(hash string) (*models.BlockDetail, error) {
	if cached, ok := s.cache.Detail(hash); ok {
		header, err := s.node.GetBlockHeaderVerbose(hash)
		if err != nil {
			return nil, err
		}
		detail := *cached
		detail.Confirmations = header.Confirmations
		detail.IsMainChain = header.Confirmations != -1
		return &detail, nil
	}

	block, err := s.node.GetBlockVerbose(hash)
	if err != nil {
		return nil, err
	}
	if len(block.Tx) == 0 {
		return nil, fmt.Errorf("block %s has no transactions", hash)
	}

	coinbase, err := s.node.GetDetailedTransaction(block.Tx[0])
	if err != nil {
		return nil, err
	}

	detail := s.transformBlock(block, coinbase)
	s.cache.PutDetail(hash, detail, block.Confirmations)
	return detail, nil
}

// transformBlock composes the node's native block representation and the
// resolved coinbase transaction into a BlockDetail.
func (s *BlockService) transformBlock(block *rpc.BlockVerbose, coinbase *rpc.TxVerbose) *models.BlockDetail {
	subsidy := chain.BlockSubsidy(block.Height)

	return &models.BlockDetail{
		Hash:              block.Hash,
		Size:              block.Size,
		Height:            block.Height,
		Version:           block.Version,
		MerkleRoot:        block.MerkleRoot,
		Tx:                block.Tx,
		Time:              block.Time,
		Nonce:             block.Nonce,
		Solution:          block.Solution,
		Bits:              block.Bits,
		Difficulty:        block.Difficulty,
		ChainWork:         block.ChainWork,
		Confirmations:     block.Confirmations,
		PreviousBlockHash: normalizeHash(block.PreviousHash),
		NextBlockHash:     normalizeHash(block.NextHash),
		Reward:            float64(subsidy) / 1e8,
		IsMainChain:       block.Confirmations != -1,
		PoolInfo:          s.pools.Match(coinbaseScript(coinbase)),
		MinedBy:           chain.GuessMinerAddress(coinbaseOutputs(coinbase), subsidy),
	}
}

// GetBlockSummary returns the lightweight block record for a hash. On a
// miss it partial-parses the raw block so only the coinbase transaction is
// ever deserialized; size and transaction count come straight from the
// byte stream.
func (s *BlockService) GetBlockSummary(hash string) (*models.BlockSummary, error) {
	if cached, ok := s.cache.Summary(hash); ok {
		return cached, nil
	}

	raw, err := s.node.GetRawBlock(hash)
	if err != nil {
		return nil, err
	}
	prefix, err := chain.ParseBlockPrefix(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse raw block %s: %w", hash, err)
	}

	header, err := s.node.GetBlockHeaderVerbose(hash)
	if err != nil {
		return nil, err
	}

	// The coinbase txid comes from the node's own block representation:
	// deriving it from the raw bytes would tie this service to the exact
	// transaction serialization version.
	block, err := s.node.GetBlockVerbose(hash)
	if err != nil {
		return nil, err
	}
	if len(block.Tx) == 0 {
		return nil, fmt.Errorf("block %s has no transactions", hash)
	}
	coinbase, err := s.node.GetDetailedTransaction(block.Tx[0])
	if err != nil {
		return nil, err
	}

	subsidy := chain.BlockSubsidy(header.Height)
	summary := &models.BlockSummary{
		Height:   header.Height,
		Size:     prefix.Size,
		Hash:     hash,
		Time:     int64(prefix.Time),
		TxLength: int(prefix.TxCount),
		PoolInfo: s.pools.Match(prefix.CoinbaseScript),
		MinedBy:  chain.GuessMinerAddress(coinbaseOutputs(coinbase), subsidy),
	}

	if err := s.cache.PutSummary(hash, summary, header.Confirmations); err != nil {
		s.log.Warn("failed to persist block summary",
			zap.String("hash", hash), zap.Error(err))
	}
	return summary, nil
}

// ListBlocks returns the blocks of one UTC calendar day, newest first.
// blockDate selects the day (today when empty); startTs, when non-zero,
// replaces the upper timestamp bound and is how callers walk to the next
// page via the moreTs cursor.
func (s *BlockService) ListBlocks(blockDate string, startTs int64, limit int) (*models.BlockList, error) {
	if limit <= 0 || limit > s.listLimit {
		limit = s.listLimit
	}

	todayStr := time.Now().UTC().Format(dateFormat)
	dateStr := todayStr
	if blockDate != "" {
		if _, err := time.Parse(dateFormat, blockDate); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDate, blockDate)
		}
		dateStr = blockDate
	}
	day, _ := time.Parse(dateFormat, dateStr)

	gte := day.Unix()
	lte := gte + secondsPerDay
	if startTs > 0 {
		lte = startTs
	}

	hashes, err := s.node.GetBlockHashesByTimestamp(lte, gte)
	if err != nil {
		return nil, err
	}

	// The index returns oldest first; listings walk newest first.
	for i, j := 0, len(hashes)-1; i < j; i, j = i+1, j-1 {
		hashes[i], hashes[j] = hashes[j], hashes[i]
	}

	more := false
	if len(hashes) > limit {
		hashes = hashes[:limit]
		more = true
	}

	// Strictly sequential: the moreTs accumulator and the node's own
	// throughput limits both depend on one summary being built at a time.
	var moreTs int64
	summaries := make([]*models.BlockSummary, 0, len(hashes))
	for _, hash := range hashes {
		summary, err := s.GetBlockSummary(hash)
		if err != nil {
			return nil, err
		}
		if moreTs == 0 || summary.Time < moreTs {
			moreTs = summary.Time
		}
		summaries = append(summaries, summary)
	}

	// Hash order and height order can diverge if the timestamp index is
	// inconsistent, so re-sort before serving.
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Height > summaries[j].Height
	})

	pagination := &models.Pagination{
		Next:      time.Unix(lte, 0).UTC().Format(dateFormat),
		Prev:      time.Unix(gte-secondsPerDay, 0).UTC().Format(dateFormat),
		CurrentTs: lte - 1,
		Current:   dateStr,
		IsToday:   dateStr == todayStr,
		More:      more,
	}
	if more {
		pagination.MoreTs = moreTs
	}

	return &models.BlockList{
		Blocks:     summaries,
		Length:     len(summaries),
		Pagination: pagination,
	}, nil
}

// GetRawBlock returns the hex-encoded raw block for a hash or height.
func (s *BlockService) GetRawBlock(hashOrHeight string) (*models.RawBlock, error) {
	hash := hashOrHeight
	if height, err := strconv.ParseInt(hashOrHeight, 10, 64); err == nil {
		hash, err = s.node.GetBlockHashByHeight(height)
		if err != nil {
			return nil, err
		}
	}

	raw, err := s.node.GetRawBlock(hash)
	if err != nil {
		return nil, err
	}
	return &models.RawBlock{RawBlock: hex.EncodeToString(raw)}, nil
}

// GetBlockIndex resolves a height to its block hash.
func (s *BlockService) GetBlockIndex(height int64) (*models.BlockIndex, error) {
	hash, err := s.node.GetBlockHashByHeight(height)
	if err != nil {
		return nil, err
	}
	return &models.BlockIndex{BlockHash: hash}, nil
}

// normalizeHash returns nil for absent hashes. The node reports the
// genesis block's parent as the all-zero hash; explorers render it null.
func normalizeHash(hash string) *string {
	if hash == "" || strings.Trim(hash, "0") == "" {
		return nil
	}
	return &hash
}

// coinbaseScript decodes the raw coinbase input script from a resolved
// coinbase transaction.
func coinbaseScript(tx *rpc.TxVerbose) []byte {
	if len(tx.Vin) == 0 {
		return nil
	}
	script, err := hex.DecodeString(tx.Vin[0].Coinbase)
	if err != nil {
		return nil
	}
	return script
}

// coinbaseOutputs converts the resolved coinbase outputs to base units and
// first addresses for miner attribution.
func coinbaseOutputs(tx *rpc.TxVerbose) []chain.CoinbaseOutput {
	outputs := make([]chain.CoinbaseOutput, 0, len(tx.Vout))
	for _, vout := range tx.Vout {
		var address string
		if len(vout.ScriptPubKey.Addresses) > 0 {
			address = vout.ScriptPubKey.Addresses[0]
		}
		outputs = append(outputs, chain.CoinbaseOutput{
			ValueSat: int64(math.Round(vout.Value * 1e8)),
			Address:  address,
		})
	}
	return outputs
}
