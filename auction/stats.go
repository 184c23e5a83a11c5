// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package auction

import (
	"math"

	"github.com/btcsuite/btcd/btcutil"
)

// FeeRange is a closed range of fee rates in sat/vB.
type FeeRange struct {
	Min float64
	Max float64
}

// Stats houses aggregate statistics over an allocation.
type Stats struct {
	// TotalUnits is the number of transactions over all rounds.
	TotalUnits int

	// TotalRounds is the number of rounds.
	TotalRounds int

	// TotalFees is the sum of all fees in satoshis.
	TotalFees float64

	// NextRoundUnits is the number of transactions in the first round.
	NextRoundUnits int

	// NextRoundFeeRange is the fee rate range of the first round, or the
	// zero range when there are no rounds.
	NextRoundFeeRange FeeRange
}

// TotalAmount returns the total fees rounded to whole satoshis.
func (s *Stats) TotalAmount() btcutil.Amount {
	return btcutil.Amount(math.Round(s.TotalFees))
}

// Summarize calculates statistics over the passed rounds without modifying
// them.
func Summarize(rounds []*Round) *Stats {
	stats := &Stats{TotalRounds: len(rounds)}
	for _, round := range rounds {
		stats.TotalUnits += len(round.Units)
		for _, unit := range round.Units {
			stats.TotalFees += unit.Fee
		}
	}

	if len(rounds) == 0 || len(rounds[0].Units) == 0 {
		return stats
	}

	next := rounds[0].Units
	stats.NextRoundUnits = len(next)
	stats.NextRoundFeeRange = FeeRange{
		Min: next[0].FeeRate,
		Max: next[0].FeeRate,
	}
	for _, unit := range next[1:] {
		if unit.FeeRate < stats.NextRoundFeeRange.Min {
			stats.NextRoundFeeRange.Min = unit.FeeRate
		}
		if unit.FeeRate > stats.NextRoundFeeRange.Max {
			stats.NextRoundFeeRange.Max = unit.FeeRate
		}
	}

	return stats
}
