// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package simulator

import (
	"math"
	"time"

	"github.com/btcsuite/blockspace/auction"
	"github.com/btcsuite/blockspace/risk"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Focus describes the simulated transaction.
type Focus struct {
	FeeRate float64
	VSize   float64
	Fee     float64
	Weight  int64
}

// Amount returns the fee rounded to whole satoshis.
func (f *Focus) Amount() btcutil.Amount {
	return btcutil.Amount(math.Round(f.Fee))
}

// Position describes where the simulated transaction landed.  All indices
// are 1-based.
type Position struct {
	Round         int
	InRound       int
	Overall       int
	EstimatedWait time.Duration
}

// Assessment is the confirmation risk of the simulated transaction.
type Assessment struct {
	Level       risk.Level
	Explanation string
}

// MempoolContext describes the competition the simulated transaction faces.
type MempoolContext struct {
	PendingRounds   int
	PendingUnits    int
	NextRoundUnits  int
	NextBlockMedian float64

	// Competing is the number of transactions ahead of the simulated one.
	Competing int
}

// Comparison relates the simulated fee rate to the median fee rate of the
// next block.
type Comparison struct {
	FeeRate         float64
	NextBlockMedian float64
	Difference      float64

	// PercentVsMedian is how much higher, in percent, the fee rate is than
	// the median.  It is zero when the median is unknown.
	PercentVsMedian float64
}

// Result is the outcome of a simulation.
type Result struct {
	SessionID   string
	Focus       Focus
	Position    Position
	Risk        Assessment
	Context     MempoolContext
	Comparison  Comparison
	Stats       *auction.Stats
	Fingerprint chainhash.Hash

	// SnapshotTime is when the market data used was fetched.
	SnapshotTime time.Time
}

// compareFeeRate relates feeRate to the next block median.
func compareFeeRate(feeRate, median float64) Comparison {
	cmp := Comparison{
		FeeRate:         feeRate,
		NextBlockMedian: median,
		Difference:      feeRate - median,
	}
	if median > 0 {
		cmp.PercentVsMedian = (feeRate/median - 1) * 100
	}
	return cmp
}
