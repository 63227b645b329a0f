package chain

import "math/big"

// Subsidy schedule parameters. The chain launched with a 4000-block "slow
// start" that ramps the subsidy linearly from zero, then halves the full
// subsidy every halvingInterval blocks measured from the ramp midpoint.
const (
	// BaseSubsidy is the full block subsidy in base units (1e8 = 1 coin).
	BaseSubsidy int64 = 20 * 1e8

	slowStartInterval int64 = 4000
	slowStartShift          = slowStartInterval / 2
	halvingInterval   int64 = 2102400
)

// BlockSubsidy returns the subsidy in base units for the block at the given
// height. It is pure and must reproduce the historical schedule exactly.
//
// During the slow start the subsidy grows by BaseSubsidy/4000 per block.
// The upper half of the ramp pays height+1 steps, skipping the midpoint
// payout so the total issued over the ramp equals what a constant subsidy
// would have issued over the same window.
func BlockSubsidy(height int64) int64 {
	if height < 0 {
		return 0
	}

	step := BaseSubsidy / slowStartInterval

	if height < slowStartShift {
		return step * height
	}
	if height < slowStartInterval {
		return step * (height + 1)
	}

	halvings := (height - slowStartShift) / halvingInterval
	if halvings >= 64 {
		// A shift this wide is defined as zero rather than left to the
		// mercy of the integer width.
		return 0
	}

	subsidy := new(big.Int).Rsh(big.NewInt(BaseSubsidy), uint(halvings))
	return subsidy.Int64()
}
