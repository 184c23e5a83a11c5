// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package simulator

import (
	"context"
	"sync"
	"time"

	"github.com/btcsuite/blockspace/auction"
	"github.com/btcsuite/blockspace/marketdata"
	"github.com/btcsuite/blockspace/risk"
	"github.com/google/uuid"
)

// Config houses the configuration of a session.
type Config struct {
	// Source provides the market data.
	Source marketdata.Source

	// Policy configures the auction model.  DefaultPolicy is used when
	// nil.
	Policy *auction.Policy

	// Metrics, when set, is updated by the session.
	Metrics *Metrics

	// FetchTimeout bounds each load and recommendation fetch.  No bound
	// beyond the caller's context is applied when it is zero.
	FetchTimeout time.Duration
}

// Session simulates transactions against one loaded view of the mempool.
// The view only changes when Load succeeds, so repeated simulations between
// loads are comparable.
//
// Session is safe for concurrent access.
type Session struct {
	id  uuid.UUID
	cfg Config

	mtx      sync.Mutex
	snapshot *marketdata.Snapshot
	demand   []marketdata.Demand
	policy   *auction.Policy
}

// New returns a session with no market data loaded.  The configuration must
// provide a Source.
func New(cfg *Config) *Session {
	s := &Session{id: uuid.New(), cfg: *cfg}
	s.policy = auction.NewEngine(cfg.Policy).Policy()
	return s
}

// ID returns the unique identifier of the session.
func (s *Session) ID() string {
	return s.id.String()
}

// Policy returns the auction policy in effect.
func (s *Session) Policy() *auction.Policy {
	p := *s.policy
	return &p
}

// Load fetches fresh market data and makes it the session's view of the
// mempool.  On failure the previously loaded view is left untouched.
func (s *Session) Load(ctx context.Context) error {
	ctx, cancel := s.fetchContext(ctx)
	defer cancel()

	start := time.Now()
	err := s.load(ctx)
	if m := s.cfg.Metrics; m != nil {
		m.LoadDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			m.Failures.WithLabelValues(failureLabel(err)).Inc()
		}
	}
	return err
}

func (s *Session) load(ctx context.Context) error {
	snap, err := marketdata.FetchSnapshot(ctx, s.cfg.Source)
	if err != nil {
		return err
	}
	demand := snap.Demand()
	if len(demand) == 0 {
		return ErrNoDemand
	}

	// Make sure every unit is accepted before replacing the current view.
	if _, err := s.buildEngine(demand); err != nil {
		return err
	}

	s.mtx.Lock()
	s.snapshot = snap
	s.demand = demand
	s.mtx.Unlock()

	log.Infof("Session %s loaded %d representative transactions from %d "+
		"projected blocks", s.id, len(demand), len(snap.Blocks))
	return nil
}

// buildEngine returns an engine holding the passed demand.
func (s *Session) buildEngine(demand []marketdata.Demand) (*auction.Engine, error) {
	engine := auction.NewEngine(s.policy)
	for _, d := range demand {
		if _, err := engine.AddUnit(d.FeeRate, d.VSize); err != nil {
			return nil, err
		}
	}
	return engine, nil
}

// Loaded returns whether market data has been loaded.
func (s *Session) Loaded() bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.snapshot != nil
}

// Snapshot returns the loaded market data, or nil when nothing was loaded.
func (s *Session) Snapshot() *marketdata.Snapshot {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.snapshot
}

// Reset discards the loaded market data.
func (s *Session) Reset() {
	s.mtx.Lock()
	s.snapshot = nil
	s.demand = nil
	s.mtx.Unlock()

	log.Debugf("Session %s reset", s.id)
}

// Recommendations returns the fee rates currently recommended by the market
// data source.
func (s *Session) Recommendations(ctx context.Context) (*marketdata.RecommendedFees, error) {
	ctx, cancel := s.fetchContext(ctx)
	defer cancel()
	return s.cfg.Source.FetchRecommendedFees(ctx)
}

// fetchContext applies the configured fetch timeout to ctx.
func (s *Session) fetchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.FetchTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.FetchTimeout)
}

// Simulate projects where a transaction paying feeRate sat/vB with a virtual
// size of vsize vbytes would confirm given the loaded market data.  The
// loaded view is not modified, so Simulate may be called repeatedly.
//
// ErrNotLoaded is returned when no market data was loaded.  Invalid input is
// reported as an auction.RuleError.
func (s *Session) Simulate(feeRate, vsize float64) (*Result, error) {
	res, err := s.simulate(feeRate, vsize)
	if m := s.cfg.Metrics; m != nil {
		if err != nil {
			m.Failures.WithLabelValues(failureLabel(err)).Inc()
		} else {
			m.Simulations.WithLabelValues(res.Risk.Level.String()).Inc()
			m.Rounds.Set(float64(res.Context.PendingRounds))
		}
	}
	return res, err
}

func (s *Session) simulate(feeRate, vsize float64) (*Result, error) {
	s.mtx.Lock()
	snap, demand := s.snapshot, s.demand
	s.mtx.Unlock()
	if snap == nil {
		return nil, ErrNotLoaded
	}

	engine, err := s.buildEngine(demand)
	if err != nil {
		return nil, err
	}
	focus, err := engine.AddFocusUnit(feeRate, vsize)
	if err != nil {
		return nil, err
	}

	alloc := engine.RunAllocation()
	pos, err := alloc.LocateFocus()
	if err != nil {
		return nil, err
	}

	median := snap.Summary.NextBlockMedian
	competing := pos.Ahead()
	level, err := risk.Classify(pos.Round, feeRate, median)
	if err != nil {
		return nil, err
	}
	explanation, err := risk.Explain(pos.Round, level, feeRate, median,
		competing, s.policy.RoundDuration)
	if err != nil {
		return nil, err
	}
	stats := auction.Summarize(alloc.Rounds)

	log.Debugf("Session %s: %.2f sat/vB, %.0f vB lands in block %d at "+
		"position %d (%v risk)", s.id, feeRate, vsize, pos.Round,
		pos.InRound, level)

	return &Result{
		SessionID: s.id.String(),
		Focus: Focus{
			FeeRate: focus.FeeRate,
			VSize:   focus.VSize,
			Fee:     focus.Fee,
			Weight:  focus.Weight,
		},
		Position: Position{
			Round:         pos.Round,
			InRound:       pos.InRound,
			Overall:       pos.Overall,
			EstimatedWait: explanation.EstimatedWait,
		},
		Risk: Assessment{
			Level:       level,
			Explanation: explanation.Text,
		},
		Context: MempoolContext{
			PendingRounds:   stats.TotalRounds,
			PendingUnits:    stats.TotalUnits,
			NextRoundUnits:  stats.NextRoundUnits,
			NextBlockMedian: median,
			Competing:       competing,
		},
		Comparison:   compareFeeRate(feeRate, median),
		Stats:        stats,
		Fingerprint:  alloc.Fingerprint,
		SnapshotTime: snap.FetchedAt,
	}, nil
}
