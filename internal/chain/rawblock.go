package chain

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// Serialization limits for the variable-length fields. The Equihash
// solution for the production parameters is 1344 bytes; coinbase scripts
// are consensus-capped far below these.
const (
	maxSolutionSize = 1 << 16
	maxScriptSize   = 1 << 16
)

const overwinterVersionBit = 0x80000000

// BlockPrefix holds the fields recoverable from the front of a raw block:
// the header, the transaction count, and the coinbase input script. Parsing
// stops right after the coinbase script so listing a block never pays for
// deserializing its full transaction set.
type BlockPrefix struct {
	Version        int32
	PrevBlock      chainhash.Hash
	MerkleRoot     chainhash.Hash
	Time           uint32
	Bits           uint32
	TxCount        uint64
	CoinbaseScript []byte
	Size           int
}

// ParseBlockPrefix partially deserializes a raw block. The header layout is
// the Equihash variant: version, prev hash, merkle root, reserved hash,
// time, bits, a 256-bit nonce, and a variable-length solution.
func ParseBlockPrefix(raw []byte) (*BlockPrefix, error) {
	r := bytes.NewReader(raw)
	p := &BlockPrefix{Size: len(raw)}

	if err := binary.Read(r, binary.LittleEndian, &p.Version); err != nil {
		return nil, fmt.Errorf("failed to read block version: %w", err)
	}
	if _, err := io.ReadFull(r, p.PrevBlock[:]); err != nil {
		return nil, fmt.Errorf("failed to read prev block hash: %w", err)
	}
	if _, err := io.ReadFull(r, p.MerkleRoot[:]); err != nil {
		return nil, fmt.Errorf("failed to read merkle root: %w", err)
	}

	// Reserved hash field (final sapling root on upgraded chains).
	var reserved chainhash.Hash
	if _, err := io.ReadFull(r, reserved[:]); err != nil {
		return nil, fmt.Errorf("failed to read reserved hash: %w", err)
	}

	if err := binary.Read(r, binary.LittleEndian, &p.Time); err != nil {
		return nil, fmt.Errorf("failed to read block time: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &p.Bits); err != nil {
		return nil, fmt.Errorf("failed to read bits: %w", err)
	}

	var nonce [32]byte
	if _, err := io.ReadFull(r, nonce[:]); err != nil {
		return nil, fmt.Errorf("failed to read nonce: %w", err)
	}
	if _, err := wire.ReadVarBytes(r, 0, maxSolutionSize, "solution"); err != nil {
		return nil, fmt.Errorf("failed to read solution: %w", err)
	}

	txCount, err := wire.ReadVarInt(r, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to read tx count: %w", err)
	}
	if txCount == 0 {
		return nil, fmt.Errorf("block has no transactions")
	}
	p.TxCount = txCount

	script, err := readCoinbaseScript(r)
	if err != nil {
		return nil, err
	}
	p.CoinbaseScript = script

	return p, nil
}

// readCoinbaseScript walks the front of the first (coinbase) transaction
// just far enough to pull out the input script bytes.
func readCoinbaseScript(r *bytes.Reader) ([]byte, error) {
	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("failed to read coinbase version: %w", err)
	}
	if version&overwinterVersionBit != 0 {
		// Overwintered transactions carry a version group id next.
		var groupID uint32
		if err := binary.Read(r, binary.LittleEndian, &groupID); err != nil {
			return nil, fmt.Errorf("failed to read version group id: %w", err)
		}
	}

	inCount, err := wire.ReadVarInt(r, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to read coinbase input count: %w", err)
	}
	if inCount == 0 {
		return nil, fmt.Errorf("coinbase transaction has no inputs")
	}

	// Previous outpoint: 32-byte hash plus 4-byte index.
	if _, err := r.Seek(36, io.SeekCurrent); err != nil {
		return nil, fmt.Errorf("failed to skip coinbase outpoint: %w", err)
	}

	script, err := wire.ReadVarBytes(r, 0, maxScriptSize, "coinbase script")
	if err != nil {
		return nil, fmt.Errorf("failed to read coinbase script: %w", err)
	}
	return script, nil
}
