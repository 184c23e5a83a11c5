// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package marketdata

// Summary describes the state of the mempool as seen through its projected
// blocks.
type Summary struct {
	TotalTx         int64
	TotalVSize      float64
	ProjectedBlocks int

	// HighestFeeRate is the maximum fee rate of the next block.
	HighestFeeRate float64

	// LowestFeeRate is the minimum fee rate of the last projected block.
	LowestFeeRate float64

	// NextBlockMedian is the median fee rate of the next block.
	NextBlockMedian float64
}

// Summarize returns a summary of the passed projected blocks.  The zero
// summary is returned when there are none.
func Summarize(blocks []ProjectedBlock) *Summary {
	var s Summary
	if len(blocks) == 0 {
		return &s
	}

	for i := range blocks {
		s.TotalTx += blocks[i].NTx
		s.TotalVSize += blocks[i].BlockVSize
	}
	s.ProjectedBlocks = len(blocks)

	first, last := &blocks[0], &blocks[len(blocks)-1]
	if len(first.FeeRange) > feeRangeMax {
		s.HighestFeeRate = first.FeeRange[feeRangeMax]
	}
	if len(last.FeeRange) > feeRangeMin {
		s.LowestFeeRate = last.FeeRange[feeRangeMin]
	}
	s.NextBlockMedian = first.MedianFee
	return &s
}
