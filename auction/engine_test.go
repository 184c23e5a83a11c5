// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package auction

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// roundRates returns the fee rates of each round for compact assertions.
func roundRates(rounds []*Round) [][]float64 {
	res := make([][]float64, len(rounds))
	for i, round := range rounds {
		for _, unit := range round.Units {
			res[i] = append(res[i], unit.FeeRate)
		}
	}
	return res
}

// TestAddUnitValidation ensures invalid fee rates and sizes are rejected
// before the demand set is modified.
func TestAddUnitValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		feeRate float64
		vsize   float64
		code    ErrorCode
		valid   bool
	}{
		{"valid", 12.5, 141, 0, true},
		{"zero fee rate", 0, 141, ErrInvalidFeeRate, false},
		{"negative fee rate", -1, 141, ErrInvalidFeeRate, false},
		{"NaN fee rate", math.NaN(), 141, ErrInvalidFeeRate, false},
		{"infinite fee rate", math.Inf(1), 141, ErrInvalidFeeRate, false},
		{"zero size", 12.5, 0, ErrInvalidSize, false},
		{"negative size", 12.5, -200, ErrInvalidSize, false},
		{"NaN size", 12.5, math.NaN(), ErrInvalidSize, false},
		{"infinite size", 12.5, math.Inf(1), ErrInvalidSize, false},
		{"unrepresentable weight", 5, 1e300, ErrInvalidSize, false},
		{"weight at int64 limit", 5, math.MaxInt64 / 4, ErrInvalidSize, false},
		{"overflowing fee", 1e308, 10, ErrInvalidFeeRate, false},
	}

	for _, test := range tests {
		for _, focus := range []bool{false, true} {
			engine := NewEngine(nil)
			var (
				unit *DemandUnit
				err  error
			)
			if focus {
				unit, err = engine.AddFocusUnit(test.feeRate, test.vsize)
			} else {
				unit, err = engine.AddUnit(test.feeRate, test.vsize)
			}

			if test.valid {
				require.NoError(t, err, test.name)
				require.NotNil(t, unit, test.name)
				require.Equal(t, focus, unit.IsFocus, test.name)
				require.Equal(t, 1, engine.Len(), test.name)
				continue
			}

			require.Error(t, err, test.name)
			require.Nil(t, unit, test.name)
			require.True(t, IsErrorCode(err, test.code), "%s: got %v",
				test.name, err)
			require.Zero(t, engine.Len(), test.name)
			require.Zero(t, engine.FocusCount(), test.name)
		}
	}
}

// TestDemandUnitDerivedFields ensures the fee and weight are derived from the
// fee rate and size.
func TestDemandUnitDerivedFields(t *testing.T) {
	t.Parallel()

	engine := NewEngine(nil)
	unit, err := engine.AddUnit(15, 140.3)
	require.NoError(t, err)
	require.InDelta(t, 2104.5, unit.Fee, 1e-9)
	require.EqualValues(t, 561, unit.Weight)

	unit, err = engine.AddUnit(15, 140.25)
	require.NoError(t, err)
	require.EqualValues(t, 2104, unit.Amount())

	// A custom weight factor changes the weight but not the fee.
	engine = NewEngine(&Policy{WeightFactor: 1})
	unit, err = engine.AddUnit(15, 140.3)
	require.NoError(t, err)
	require.InDelta(t, 2104.5, unit.Fee, 1e-9)
	require.EqualValues(t, 140, unit.Weight)
}

// TestPolicyDefaults ensures unset policy fields fall back to the consensus
// defaults.
func TestPolicyDefaults(t *testing.T) {
	t.Parallel()

	p := NewEngine(nil).Policy()
	require.EqualValues(t, MaxBlockWeight, p.MaxWeight)
	require.EqualValues(t, WitnessScaleFactor, p.WeightFactor)
	require.Equal(t, DefaultRoundDuration, p.RoundDuration)

	p = NewEngine(&Policy{MaxWeight: 1000}).Policy()
	require.EqualValues(t, 1000, p.MaxWeight)
	require.EqualValues(t, WitnessScaleFactor, p.WeightFactor)

	require.Equal(t, 3*DefaultRoundDuration, p.EstimatedWait(3))
}

// TestRunAllocationTwoUnitsAndFocus exercises the basic scenario of two
// mempool transactions and a focus transaction in between them.
func TestRunAllocationTwoUnitsAndFocus(t *testing.T) {
	t.Parallel()

	engine := NewEngine(nil)
	_, err := engine.AddUnit(50, 200)
	require.NoError(t, err)
	_, err = engine.AddUnit(30, 150)
	require.NoError(t, err)
	focus, err := engine.AddFocusUnit(40, 220)
	require.NoError(t, err)
	require.EqualValues(t, 880, focus.Weight)

	alloc := engine.RunAllocation()
	require.Len(t, alloc.Rounds, 1)
	require.Equal(t, [][]float64{{50, 40, 30}}, roundRates(alloc.Rounds))
	require.EqualValues(t, 800+880+600, alloc.Rounds[0].Weight)

	pos, err := alloc.LocateFocus()
	require.NoError(t, err)
	require.Equal(t, 1, pos.Round)
	require.Equal(t, 2, pos.InRound)
	require.Equal(t, 2, pos.Overall)
	require.Equal(t, 1, pos.Ahead())
	require.Same(t, focus, pos.Unit)
}

// TestRunAllocationEmpty ensures an empty demand set yields no rounds and
// that locating the focus transaction reports it as missing.
func TestRunAllocationEmpty(t *testing.T) {
	t.Parallel()

	alloc := NewEngine(nil).RunAllocation()
	require.Empty(t, alloc.Rounds)

	pos, err := alloc.LocateFocus()
	require.Nil(t, pos)
	require.True(t, IsErrorCode(err, ErrFocusNotFound), "got %v", err)
}

// TestRunAllocationOversized ensures a unit heavier than the block limit is
// placed alone in its own round instead of being rejected.
func TestRunAllocationOversized(t *testing.T) {
	t.Parallel()

	engine := NewEngine(nil)
	_, err := engine.AddUnit(100, 10)
	require.NoError(t, err)
	big, err := engine.AddUnit(20, 1500000)
	require.NoError(t, err)
	require.Greater(t, big.Weight, int64(MaxBlockWeight))
	_, err = engine.AddUnit(5, 10)
	require.NoError(t, err)

	alloc := engine.RunAllocation()
	require.Equal(t, [][]float64{{100}, {20}, {5}}, roundRates(alloc.Rounds))
	require.Equal(t, big.Weight, alloc.Rounds[1].Weight)

	// An oversized unit that sorts first must not produce an empty
	// leading round.
	engine = NewEngine(nil)
	_, err = engine.AddUnit(20, 1500000)
	require.NoError(t, err)
	alloc = engine.RunAllocation()
	require.Len(t, alloc.Rounds, 1)
	require.Equal(t, 1, alloc.Rounds[0].Number)
	require.Len(t, alloc.Rounds[0].Units, 1)

	// A unit close to the largest representable weight still sits alone
	// and never wraps the running round weight.
	engine = NewEngine(nil)
	_, err = engine.AddUnit(10, 100)
	require.NoError(t, err)
	huge, err := engine.AddUnit(5, 1e18)
	require.NoError(t, err)
	require.Greater(t, huge.Weight, int64(MaxBlockWeight))
	_, err = engine.AddFocusUnit(1, 100)
	require.NoError(t, err)

	alloc = engine.RunAllocation()
	require.Equal(t, [][]float64{{10}, {5}, {1}}, roundRates(alloc.Rounds))
	for _, round := range alloc.Rounds {
		require.GreaterOrEqual(t, round.Weight, int64(0))
	}
	require.Equal(t, huge.Weight, alloc.Rounds[1].Weight)
}

// TestRunAllocationGreedy ensures rounds are closed as soon as a unit does
// not fit and that later, smaller units are not used to back fill them.
func TestRunAllocationGreedy(t *testing.T) {
	t.Parallel()

	engine := NewEngine(&Policy{MaxWeight: 1000})
	for _, u := range []struct{ rate, vsize float64 }{
		{10, 200}, // 800 WU
		{9, 100},  // 400 WU
		{8, 50},   // 200 WU
		{7, 100},  // 400 WU
		{6, 100},  // 400 WU
	} {
		_, err := engine.AddUnit(u.rate, u.vsize)
		require.NoError(t, err)
	}

	alloc := engine.RunAllocation()
	require.Equal(t, [][]float64{{10}, {9, 8, 7}, {6}},
		roundRates(alloc.Rounds))
	for i, round := range alloc.Rounds {
		require.Equal(t, i+1, round.Number)
	}
	require.EqualValues(t, 1000, alloc.Rounds[1].Weight)
}

// TestRunAllocationStable ensures equal fee rates keep insertion order and
// that the first focus unit in that order is the one located.
func TestRunAllocationStable(t *testing.T) {
	t.Parallel()

	engine := NewEngine(nil)
	first, err := engine.AddFocusUnit(10, 100)
	require.NoError(t, err)
	_, err = engine.AddUnit(10, 100)
	require.NoError(t, err)
	second, err := engine.AddFocusUnit(10, 100)
	require.NoError(t, err)
	require.Equal(t, 2, engine.FocusCount())

	alloc := engine.RunAllocation()
	require.Len(t, alloc.Rounds, 1)
	for i, unit := range alloc.Rounds[0].Units {
		require.Equal(t, i, unit.Seq)
	}

	pos, err := alloc.LocateFocus()
	require.NoError(t, err)
	require.Same(t, first, pos.Unit)
	require.NotSame(t, second, pos.Unit)
	require.Equal(t, 1, pos.Overall)
}

// TestRunAllocationProperties checks the capacity, completeness, ordering,
// stability, and determinism properties over random demand sets.
func TestRunAllocationProperties(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(0x5eed))
	for iter := 0; iter < 25; iter++ {
		engine := NewEngine(&Policy{MaxWeight: 20000})
		numUnits := rng.Intn(300)
		for i := 0; i < numUnits; i++ {
			// Draw fee rates from a small set to force ties.
			rate := float64(1 + rng.Intn(20))
			vsize := float64(100 + rng.Intn(2000))
			if rng.Intn(50) == 0 {
				// Occasionally oversized.
				vsize = 6000
			}
			_, err := engine.AddUnit(rate, vsize)
			require.NoError(t, err)
		}

		alloc := engine.RunAllocation()

		seen := make(map[*DemandUnit]int)
		var prev *DemandUnit
		for _, round := range alloc.Rounds {
			require.NotEmpty(t, round.Units)

			var weight int64
			for _, unit := range round.Units {
				weight += unit.Weight
				seen[unit]++

				if prev != nil {
					require.LessOrEqual(t, unit.FeeRate, prev.FeeRate)
					if unit.FeeRate == prev.FeeRate {
						require.Greater(t, unit.Seq, prev.Seq)
					}
				}
				prev = unit
			}
			require.Equal(t, weight, round.Weight)
			if len(round.Units) > 1 {
				require.LessOrEqual(t, round.Weight, int64(20000))
			}
		}

		require.Len(t, seen, engine.Len())
		for _, unit := range engine.Units() {
			require.Equal(t, 1, seen[unit])
		}

		again := engine.RunAllocation()
		require.Equal(t, alloc.Fingerprint, again.Fingerprint)
		require.Equal(t, roundRates(alloc.Rounds), roundRates(again.Rounds))
	}
}

// TestFingerprintChanges ensures the fingerprint reflects the round content.
func TestFingerprintChanges(t *testing.T) {
	t.Parallel()

	engine := NewEngine(nil)
	_, err := engine.AddUnit(10, 100)
	require.NoError(t, err)
	before := engine.RunAllocation().Fingerprint

	_, err = engine.AddFocusUnit(10, 100)
	require.NoError(t, err)
	after := engine.RunAllocation().Fingerprint
	require.NotEqual(t, before, after)
}

// TestEngineReset ensures a reset discards all units and focus units.
func TestEngineReset(t *testing.T) {
	t.Parallel()

	engine := NewEngine(nil)
	_, err := engine.AddUnit(10, 100)
	require.NoError(t, err)
	_, err = engine.AddFocusUnit(20, 100)
	require.NoError(t, err)
	alloc := engine.RunAllocation()

	engine.Reset()
	require.Zero(t, engine.Len())
	require.Zero(t, engine.FocusCount())
	require.Empty(t, engine.RunAllocation().Rounds)

	// Previously returned rounds are unaffected.
	require.Len(t, alloc.Rounds[0].Units, 2)
}
