// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package auction

import (
	"fmt"
	"math"

	"github.com/btcsuite/btcd/btcutil"
)

// DemandUnit is a pending transaction competing for block space.  Units are
// created by the Engine and are immutable afterwards.
type DemandUnit struct {
	// FeeRate is the fee rate in satoshis per virtual byte.
	FeeRate float64

	// VSize is the virtual size in vbytes.
	VSize float64

	// Fee is the total fee in satoshis.  It is always FeeRate * VSize.
	Fee float64

	// Weight is the amount of the block weight budget consumed by the
	// transaction.
	Weight int64

	// IsFocus marks the transaction whose inclusion is being tracked.
	IsFocus bool

	// Seq is the position at which the unit was added to the demand set.
	Seq int
}

// newDemandUnit validates the passed fee rate and size and returns the
// resulting unit.  NaN and infinite values are rejected along with
// non-positive ones.
func newDemandUnit(feeRate, vsize, weightFactor float64, focus bool) (*DemandUnit, error) {
	if !(feeRate > 0) || math.IsInf(feeRate, 1) {
		str := fmt.Sprintf("fee rate of %v sat/vB is invalid -- must be "+
			"a positive number", feeRate)
		return nil, ruleError(ErrInvalidFeeRate, str)
	}
	if !(vsize > 0) || math.IsInf(vsize, 1) {
		str := fmt.Sprintf("virtual size of %v vbytes is invalid -- must "+
			"be a positive number", vsize)
		return nil, ruleError(ErrInvalidSize, str)
	}

	// The weight must be representable, otherwise the conversion wraps and
	// an oversized unit would appear to fit in any block.
	weight := math.Floor(vsize * weightFactor)
	if weight >= math.MaxInt64 {
		str := fmt.Sprintf("virtual size of %v vbytes is invalid -- "+
			"weight exceeds %d WU", vsize, int64(math.MaxInt64))
		return nil, ruleError(ErrInvalidSize, str)
	}
	fee := feeRate * vsize
	if math.IsInf(fee, 1) {
		str := fmt.Sprintf("fee of %v sat/vB over %v vbytes overflows",
			feeRate, vsize)
		return nil, ruleError(ErrInvalidFeeRate, str)
	}

	return &DemandUnit{
		FeeRate: feeRate,
		VSize:   vsize,
		Fee:     fee,
		Weight:  int64(weight),
		IsFocus: focus,
	}, nil
}

// Amount returns the total fee rounded to whole satoshis.
func (u *DemandUnit) Amount() btcutil.Amount {
	return btcutil.Amount(math.Round(u.Fee))
}

// String returns a short human-readable description of the unit.
func (u *DemandUnit) String() string {
	focus := ""
	if u.IsFocus {
		focus = " (focus)"
	}
	return fmt.Sprintf("%.2f sat/vB, %.0f vB, %d WU%s", u.FeeRate, u.VSize,
		u.Weight, focus)
}
