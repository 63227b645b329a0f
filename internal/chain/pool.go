package chain

import (
	"strings"

	"github.com/thanhnp/explorer-apis/internal/models"
)

// PoolSignature binds a known coinbase script marker to a pool identity.
type PoolSignature struct {
	Signature string
	PoolName  string
	URL       string
}

// PoolMatcher matches raw coinbase script bytes against a table of known
// pool signatures. The table is built once at startup and is read-only
// afterwards, so lookups need no synchronization.
type PoolMatcher struct {
	sigs []PoolSignature
}

// NewPoolMatcher builds a matcher from the configured signature table.
// Table order is preserved; the first matching signature wins.
func NewPoolMatcher(sigs []PoolSignature) *PoolMatcher {
	m := &PoolMatcher{sigs: make([]PoolSignature, len(sigs))}
	copy(m.sigs, sigs)
	return m
}

// Match scans the coinbase script for a known pool signature. Attribution
// is best effort: an empty PoolInfo simply means no signature matched.
func (m *PoolMatcher) Match(coinbaseScript []byte) models.PoolInfo {
	script := string(coinbaseScript)
	for _, sig := range m.sigs {
		if strings.Contains(script, sig.Signature) {
			return models.PoolInfo{PoolName: sig.PoolName, URL: sig.URL}
		}
	}
	return models.PoolInfo{}
}

// CoinbaseOutput is one resolved output of a coinbase transaction.
type CoinbaseOutput struct {
	ValueSat int64
	Address  string
}

// GuessMinerAddress picks the most plausible miner payout address from the
// coinbase outputs. Outputs paying exactly half the subsidy are the fixed
// fund payout and are excluded; among the rest the first-seen strictly
// largest output wins. Returns "" when nothing qualifies.
func GuessMinerAddress(outputs []CoinbaseOutput, subsidy int64) string {
	fund := float64(subsidy) * 0.5

	var address string
	best := int64(-1)
	for _, out := range outputs {
		if float64(out.ValueSat) == fund {
			continue
		}
		if out.ValueSat > best {
			best = out.ValueSat
			address = out.Address
		}
	}
	return address
}
