// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package marketdata

// Indices into ProjectedBlock.FeeRange.  The API documents the layout as
// [min, max, p10, p25, p50, p75, p90].
const (
	feeRangeMin = 0
	feeRangeMax = 1
	feeRangeP25 = 3
	feeRangeP50 = 4
	feeRangeP90 = 6
)

// minFeeRangeLen is the minimum number of fee range entries a projected
// block needs to be translated.
const minFeeRangeLen = 2

// Demand is a representative pending transaction derived from a projected
// block.
type Demand struct {
	// FeeRate is the fee rate in sat/vB.
	FeeRate float64

	// VSize is the virtual size in vbytes.  It is the average transaction
	// size of the block the demand was derived from.
	VSize float64

	// Proportion is the approximate share of the block's transactions the
	// demand stands for.  It is informational only.
	Proportion float64

	// BlockIndex is the index of the projected block the demand was
	// derived from.
	BlockIndex int
}

// feeLevel pairs a fee rate with the share of transactions it represents.
type feeLevel struct {
	feeRate    float64
	proportion float64
}

// blockFeeLevels returns the five representative fee levels of a block from
// the highest to the lowest.
func blockFeeLevels(b *ProjectedBlock) [5]feeLevel {
	fr := b.FeeRange
	min, max := fr[feeRangeMin], fr[feeRangeMax]

	median := b.MedianFee
	if median == 0 {
		median = min
		if len(fr) > feeRangeP50 {
			median = fr[feeRangeP50]
		}
	}
	upper := median
	if len(fr) > feeRangeP90 {
		upper = fr[feeRangeP90]
	}
	lower := min
	if len(fr) > feeRangeP25 {
		lower = fr[feeRangeP25]
	}

	return [5]feeLevel{
		{max, 0.1},
		{upper, 0.2},
		{median, 0.4},
		{lower, 0.2},
		{min, 0.1},
	}
}

// DemandFromBlocks approximates the pending transactions behind the passed
// projected blocks.  The API only publishes aggregates, so every block is
// represented by five transactions of the block's average size at fee
// levels spread over its fee range.
//
// Blocks with fewer than two fee range entries, no transactions, or no size
// are skipped, as are fee levels that are not positive.
func DemandFromBlocks(blocks []ProjectedBlock) []Demand {
	demand := make([]Demand, 0, len(blocks)*5)
	for i := range blocks {
		b := &blocks[i]
		if len(b.FeeRange) < minFeeRangeLen || b.NTx <= 0 ||
			b.BlockVSize <= 0 {

			log.Debugf("Skipping projected block %d: %d fee range "+
				"entries, %d txns, %.0f vB", i, len(b.FeeRange),
				b.NTx, b.BlockVSize)
			continue
		}

		avgSize := b.BlockVSize / float64(b.NTx)
		for _, level := range blockFeeLevels(b) {
			if !(level.feeRate > 0) {
				continue
			}
			demand = append(demand, Demand{
				FeeRate:    level.feeRate,
				VSize:      avgSize,
				Proportion: level.proportion,
				BlockIndex: i,
			})
		}
	}

	log.Debugf("Translated %d projected blocks into %d demand units",
		len(blocks), len(demand))
	return demand
}
