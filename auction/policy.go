// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package auction

import "time"

const (
	// MaxBlockWeight defines the maximum block weight, where "block
	// weight" is interpreted as defined in BIP0141.
	MaxBlockWeight = 4000000

	// WitnessScaleFactor is the factor used to convert a virtual size in
	// vbytes into weight units.
	WitnessScaleFactor = 4

	// DefaultRoundDuration is the expected interval between two blocks and
	// is used to convert a block number into an estimated wait.
	DefaultRoundDuration = 10 * time.Minute
)

// Policy houses the parameters which control how the demand set is
// partitioned into blocks.  A zero value for any field selects the default
// for that field.
type Policy struct {
	// MaxWeight is the weight budget of a single block.
	MaxWeight int64

	// WeightFactor converts a transaction's virtual size into the weight it
	// consumes from the block budget.
	WeightFactor float64

	// RoundDuration is the expected time between blocks.
	RoundDuration time.Duration
}

// DefaultPolicy returns the policy matching the bitcoin consensus limits.
func DefaultPolicy() *Policy {
	return &Policy{
		MaxWeight:     MaxBlockWeight,
		WeightFactor:  WitnessScaleFactor,
		RoundDuration: DefaultRoundDuration,
	}
}

// normalize returns a copy of the policy with unset fields replaced by their
// defaults.
func (p *Policy) normalize() Policy {
	res := *DefaultPolicy()
	if p == nil {
		return res
	}
	if p.MaxWeight > 0 {
		res.MaxWeight = p.MaxWeight
	}
	if p.WeightFactor > 0 {
		res.WeightFactor = p.WeightFactor
	}
	if p.RoundDuration > 0 {
		res.RoundDuration = p.RoundDuration
	}
	return res
}

// EstimatedWait converts a 1-indexed block number into the expected time
// until that block is found.
func (p *Policy) EstimatedWait(round int) time.Duration {
	return time.Duration(round) * p.normalize().RoundDuration
}
