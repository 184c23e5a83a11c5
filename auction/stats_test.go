// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package auction

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSummarize ensures aggregate statistics are computed over all rounds
// while the fee range only covers the next round.
func TestSummarize(t *testing.T) {
	t.Parallel()

	engine := NewEngine(&Policy{MaxWeight: 1000})
	for _, rate := range []float64{12, 3, 7, 20} {
		_, err := engine.AddUnit(rate, 100)
		require.NoError(t, err)
	}
	_, err := engine.AddFocusUnit(5, 100)
	require.NoError(t, err)

	alloc := engine.RunAllocation()
	stats := Summarize(alloc.Rounds)

	// 20 and 12 fill the first round, 7 and 5 the second, 3 the third.
	require.Equal(t, 5, stats.TotalUnits)
	require.Equal(t, 3, stats.TotalRounds)
	require.InDelta(t, 1200+300+700+2000+500, stats.TotalFees, 1e-9)
	require.EqualValues(t, 4700, stats.TotalAmount())
	require.Equal(t, 2, stats.NextRoundUnits)
	require.Equal(t, FeeRange{Min: 12, Max: 20}, stats.NextRoundFeeRange)

	// The rounds must be left untouched.
	require.Equal(t, alloc.Fingerprint, fingerprint(alloc.Rounds))
}

// TestSummarizeEmpty ensures an empty allocation yields zero statistics.
func TestSummarizeEmpty(t *testing.T) {
	t.Parallel()

	stats := Summarize(nil)
	require.Equal(t, &Stats{}, stats)
	require.Equal(t, FeeRange{}, stats.NextRoundFeeRange)
}
