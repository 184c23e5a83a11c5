// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package marketdata

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Snapshot is a consistent view of the market data at one point in time.
type Snapshot struct {
	Blocks    []ProjectedBlock
	Fees      *RecommendedFees
	Summary   *Summary
	FetchedAt time.Time
}

// Demand translates the snapshot's projected blocks.  See DemandFromBlocks.
func (s *Snapshot) Demand() []Demand {
	return DemandFromBlocks(s.Blocks)
}

// FetchSnapshot concurrently fetches the projected blocks and recommended
// fees from src.  Either failure fails the whole snapshot, so a returned
// snapshot is always complete.  ErrNoProjectedBlocks is returned when the
// mempool is reported empty.
func FetchSnapshot(ctx context.Context, src Source) (*Snapshot, error) {
	var (
		blocks []ProjectedBlock
		fees   *RecommendedFees
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		blocks, err = src.FetchProjectedBlocks(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		fees, err = src.FetchRecommendedFees(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		return nil, ErrNoProjectedBlocks
	}

	snap := &Snapshot{
		Blocks:    blocks,
		Fees:      fees,
		Summary:   Summarize(blocks),
		FetchedAt: time.Now(),
	}
	log.Infof("Fetched snapshot: %d projected blocks, %d pending txns, "+
		"next block median %.2f sat/vB", snap.Summary.ProjectedBlocks,
		snap.Summary.TotalTx, snap.Summary.NextBlockMedian)
	return snap, nil
}
