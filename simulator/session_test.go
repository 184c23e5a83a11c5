// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package simulator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/btcsuite/blockspace/auction"
	"github.com/btcsuite/blockspace/marketdata"
	"github.com/btcsuite/blockspace/risk"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// testBlocks translate into five transactions of 100 vB (400 WU) paying
// 50, 20, 10, 4 and 2 sat/vB.  The next block median is 10 sat/vB.
var testBlocks = []marketdata.ProjectedBlock{{
	BlockVSize: 1000,
	NTx:        10,
	MedianFee:  10,
	FeeRange:   []float64{2, 50, 3, 4, 10, 12, 20},
}}

var testFees = &marketdata.RecommendedFees{
	FastestFee:  50,
	HalfHourFee: 20,
	HourFee:     10,
	EconomyFee:  4,
	MinimumFee:  2,
}

// newTestSource returns a source which always serves the test market data.
func newTestSource() *marketdata.MockSource {
	src := &marketdata.MockSource{}
	src.On("FetchProjectedBlocks", mock.Anything).Return(testBlocks, nil)
	src.On("FetchRecommendedFees", mock.Anything).Return(testFees, nil)
	return src
}

// newLoadedSession returns a session with the test market data loaded.
func newLoadedSession(t *testing.T, policy *auction.Policy,
	metrics *Metrics) *Session {

	s := New(&Config{
		Source:  newTestSource(),
		Policy:  policy,
		Metrics: metrics,
	})
	require.NoError(t, s.Load(context.Background()))
	return s
}

func TestSimulateNextBlock(t *testing.T) {
	s := newLoadedSession(t, nil, nil)

	res, err := s.Simulate(15, 140)
	require.NoError(t, err)

	require.Equal(t, s.ID(), res.SessionID)
	require.Equal(t, Focus{
		FeeRate: 15,
		VSize:   140,
		Fee:     2100,
		Weight:  560,
	}, res.Focus)
	require.Equal(t, Position{
		Round:         1,
		InRound:       3,
		Overall:       3,
		EstimatedWait: 10 * time.Minute,
	}, res.Position)
	require.Equal(t, risk.Low, res.Risk.Level)
	require.Contains(t, res.Risk.Explanation, "next block")
	require.Equal(t, MempoolContext{
		PendingRounds:   1,
		PendingUnits:    6,
		NextRoundUnits:  6,
		NextBlockMedian: 10,
		Competing:       2,
	}, res.Context)
	require.Equal(t, Comparison{
		FeeRate:         15,
		NextBlockMedian: 10,
		Difference:      5,
		PercentVsMedian: 50,
	}, res.Comparison)
	require.Equal(t, 1, res.Stats.TotalRounds)
	require.Equal(t, s.Snapshot().FetchedAt, res.SnapshotTime)
}

func TestSimulateRiskLevels(t *testing.T) {
	tests := []struct {
		name      string
		maxWeight int64
		feeRate   float64
		round     int
		inRound   int
		level     risk.Level
	}{{
		name:      "below median in next block",
		maxWeight: auction.MaxBlockWeight,
		feeRate:   5,
		round:     1,
		inRound:   4,
		level:     risk.Medium,
	}, {
		name:      "third block",
		maxWeight: 1000,
		feeRate:   1,
		round:     3,
		inRound:   2,
		level:     risk.Medium,
	}, {
		name:      "sixth block",
		maxWeight: 400,
		feeRate:   1,
		round:     6,
		inRound:   1,
		level:     risk.High,
	}, {
		name:      "ahead of everything",
		maxWeight: 400,
		feeRate:   100,
		round:     1,
		inRound:   1,
		level:     risk.Low,
	}}

	for _, test := range tests {
		policy := &auction.Policy{MaxWeight: test.maxWeight}
		s := newLoadedSession(t, policy, nil)

		res, err := s.Simulate(test.feeRate, 100)
		require.NoError(t, err, test.name)
		require.Equal(t, test.round, res.Position.Round, test.name)
		require.Equal(t, test.inRound, res.Position.InRound, test.name)
		require.Equal(t, test.level, res.Risk.Level, test.name)
		require.Equal(t, time.Duration(test.round)*10*time.Minute,
			res.Position.EstimatedWait, test.name)
	}
}

func TestSimulateVeryHigh(t *testing.T) {
	// Blocks of a single transaction push the lowest fee rate into the
	// seventh block.
	blocks := append(testBlocks, marketdata.ProjectedBlock{
		BlockVSize: 500,
		NTx:        5,
		MedianFee:  3,
		FeeRange:   []float64{2, 3},
	})
	src := &marketdata.MockSource{}
	src.On("FetchProjectedBlocks", mock.Anything).Return(blocks, nil)
	src.On("FetchRecommendedFees", mock.Anything).Return(testFees, nil)

	s := New(&Config{
		Source: src,
		Policy: &auction.Policy{
			MaxWeight:     400,
			RoundDuration: time.Minute,
		},
	})
	require.NoError(t, s.Load(context.Background()))

	res, err := s.Simulate(1, 100)
	require.NoError(t, err)
	require.Equal(t, 11, res.Position.Round)
	require.Equal(t, 10, res.Context.Competing)
	require.Equal(t, risk.VeryHigh, res.Risk.Level)
	require.Equal(t, 11*time.Minute, res.Position.EstimatedWait)
	require.InDelta(t, -90.0, res.Comparison.PercentVsMedian, 1e-9)
}

func TestSimulateRepeatable(t *testing.T) {
	s := newLoadedSession(t, nil, nil)

	first, err := s.Simulate(7, 200)
	require.NoError(t, err)
	second, err := s.Simulate(7, 200)
	require.NoError(t, err)

	// Earlier simulated transactions must not linger.
	require.Equal(t, first.Context, second.Context)
	require.Equal(t, first.Fingerprint, second.Fingerprint)
	require.Equal(t, 6, second.Context.PendingUnits)

	third, err := s.Simulate(8, 200)
	require.NoError(t, err)
	require.NotEqual(t, first.Fingerprint, third.Fingerprint)
}

func TestSimulateErrors(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	s := New(&Config{Source: newTestSource(), Metrics: metrics})
	_, err := s.Simulate(10, 100)
	require.ErrorIs(t, err, ErrNotLoaded)

	require.NoError(t, s.Load(context.Background()))

	_, err = s.Simulate(0, 100)
	require.True(t, auction.IsErrorCode(err, auction.ErrInvalidFeeRate))
	_, err = s.Simulate(10, -1)
	require.True(t, auction.IsErrorCode(err, auction.ErrInvalidSize))

	res, err := s.Simulate(10, 100)
	require.NoError(t, err)
	require.Equal(t, risk.Low, res.Risk.Level)

	require.Equal(t, 1.0, testutil.ToFloat64(
		metrics.Failures.WithLabelValues("ErrNotLoaded")))
	require.Equal(t, 1.0, testutil.ToFloat64(
		metrics.Failures.WithLabelValues("ErrInvalidFeeRate")))
	require.Equal(t, 1.0, testutil.ToFloat64(
		metrics.Failures.WithLabelValues("ErrInvalidSize")))
	require.Equal(t, 1.0, testutil.ToFloat64(
		metrics.Simulations.WithLabelValues("Low")))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.Rounds))
	require.Equal(t, 1, testutil.CollectAndCount(metrics.LoadDuration))
}

func TestLoadFailureKeepsSnapshot(t *testing.T) {
	errDown := errors.New("server down")
	src := &marketdata.MockSource{}
	src.On("FetchProjectedBlocks", mock.Anything).
		Return(testBlocks, nil).Once()
	src.On("FetchProjectedBlocks", mock.Anything).
		Return(nil, errDown)
	src.On("FetchRecommendedFees", mock.Anything).Return(testFees, nil)

	s := New(&Config{Source: src})
	require.False(t, s.Loaded())
	require.Nil(t, s.Snapshot())

	require.NoError(t, s.Load(context.Background()))
	snap := s.Snapshot()
	require.NotNil(t, snap)

	err := s.Load(context.Background())
	require.ErrorIs(t, err, errDown)
	require.Same(t, snap, s.Snapshot())

	// The cached view still serves simulations.
	_, err = s.Simulate(10, 100)
	require.NoError(t, err)
}

// TestLoadTimeout ensures a source that never answers fails the load once
// the fetch timeout expires.
func TestLoadTimeout(t *testing.T) {
	src := &marketdata.MockSource{}
	src.On("FetchProjectedBlocks", mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(nil, context.DeadlineExceeded)
	src.On("FetchRecommendedFees", mock.Anything).Return(testFees, nil)

	s := New(&Config{Source: src, FetchTimeout: 50 * time.Millisecond})

	start := time.Now()
	err := s.Load(context.Background())
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), 5*time.Second)
	require.False(t, s.Loaded())
}

func TestLoadNoDemand(t *testing.T) {
	src := &marketdata.MockSource{}
	src.On("FetchProjectedBlocks", mock.Anything).
		Return([]marketdata.ProjectedBlock{{NTx: 0}}, nil)
	src.On("FetchRecommendedFees", mock.Anything).Return(testFees, nil)

	s := New(&Config{Source: src})
	require.ErrorIs(t, s.Load(context.Background()), ErrNoDemand)
	require.False(t, s.Loaded())
}

func TestRecommendationsAndReset(t *testing.T) {
	s := newLoadedSession(t, nil, nil)

	fees, err := s.Recommendations(context.Background())
	require.NoError(t, err)
	require.Equal(t, testFees, fees)

	s.Reset()
	require.False(t, s.Loaded())
	_, err = s.Simulate(10, 100)
	require.ErrorIs(t, err, ErrNotLoaded)
}

func TestNewSessionPolicy(t *testing.T) {
	s := New(&Config{Source: newTestSource()})
	require.Equal(t, auction.DefaultPolicy(), s.Policy())
	require.NotEqual(t, s.ID(), New(&Config{Source: newTestSource()}).ID())
}

func TestFailureLabel(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{auction.NewRuleError(auction.ErrInvalidRound, ""), "ErrInvalidRound"},
		{ErrNotLoaded, "ErrNotLoaded"},
		{ErrNoDemand, "ErrNoDemand"},
		{marketdata.ErrNoProjectedBlocks, "ErrNoProjectedBlocks"},
		{errors.New("boom"), "ErrMarketData"},
	}

	for i, test := range tests {
		if got := failureLabel(test.err); got != test.want {
			t.Errorf("failureLabel #%d: got %s want %s", i, got,
				test.want)
		}
	}
}
