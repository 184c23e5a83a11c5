// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package auction

import (
	"bytes"
	"encoding/binary"
	"math"
	"sort"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/davecgh/go-spew/spew"
)

// Round is a single simulated block.  The units are ordered by fee rate,
// highest first, and their combined weight does not exceed the policy limit
// unless the round holds a single oversized unit.
type Round struct {
	// Number is the 1-indexed position of the block, where 1 is the next
	// block to be mined.
	Number int

	// Units are the transactions included in the block.
	Units []*DemandUnit

	// Weight is the sum of the weights of all units.
	Weight int64
}

// Allocation is the result of partitioning a demand set into blocks.
type Allocation struct {
	// Rounds holds the blocks in the order they are expected to be mined.
	Rounds []*Round

	// Fingerprint commits to the ordered content of all rounds.  Two runs
	// over the same demand set produce the same fingerprint.
	Fingerprint chainhash.Hash
}

// LocateFocus is a convenience wrapper for LocateFocus over the rounds of the
// allocation.
func (a *Allocation) LocateFocus() (*Position, error) {
	return LocateFocus(a.Rounds)
}

// byFeeRate implements sort.Interface to order demand units by fee rate,
// highest first.  It must be used with sort.Stable so that equal fee rates
// keep their insertion order.
type byFeeRate []*DemandUnit

func (s byFeeRate) Len() int           { return len(s) }
func (s byFeeRate) Less(i, j int) bool { return s[i].FeeRate > s[j].FeeRate }
func (s byFeeRate) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// Engine holds the demand set of a single simulation and partitions it into
// blocks on request.
type Engine struct {
	policy Policy
	units  []*DemandUnit
	focus  int
}

// NewEngine returns an engine with an empty demand set.  A nil policy selects
// DefaultPolicy.
func NewEngine(policy *Policy) *Engine {
	return &Engine{policy: policy.normalize()}
}

// Policy returns the policy the engine was created with.
func (e *Engine) Policy() *Policy {
	p := e.policy
	return &p
}

// AddUnit validates and appends a regular transaction to the demand set.
func (e *Engine) AddUnit(feeRate, vsize float64) (*DemandUnit, error) {
	return e.add(feeRate, vsize, false)
}

// AddFocusUnit validates and appends the focus transaction to the demand set.
//
// Only a single focus transaction is supported.  Adding more than one is
// allowed, but LocateFocus will only report the first one it encounters in
// fee rate order.
func (e *Engine) AddFocusUnit(feeRate, vsize float64) (*DemandUnit, error) {
	return e.add(feeRate, vsize, true)
}

func (e *Engine) add(feeRate, vsize float64, focus bool) (*DemandUnit, error) {
	unit, err := newDemandUnit(feeRate, vsize, e.policy.WeightFactor, focus)
	if err != nil {
		return nil, err
	}

	unit.Seq = len(e.units)
	e.units = append(e.units, unit)
	if focus {
		e.focus++
		if e.focus > 1 {
			log.Warnf("Demand set now has %d focus transactions; only "+
				"the first in fee rate order will be located", e.focus)
		}
	}

	log.Tracef("Added demand unit #%d: %v", unit.Seq, unit)
	return unit, nil
}

// Len returns the number of units in the demand set.
func (e *Engine) Len() int {
	return len(e.units)
}

// FocusCount returns the number of focus units in the demand set.
func (e *Engine) FocusCount() int {
	return e.focus
}

// Units returns the demand set in insertion order.  The returned slice is a
// copy, but the units are shared.
func (e *Engine) Units() []*DemandUnit {
	units := make([]*DemandUnit, len(e.units))
	copy(units, e.units)
	return units
}

// Reset discards the demand set.  Any allocation computed earlier remains
// valid on its own but no longer describes the engine.
func (e *Engine) Reset() {
	e.units = nil
	e.focus = 0
}

// RunAllocation partitions the current demand set into blocks.  The demand
// set itself is left untouched.  An empty demand set results in an allocation
// without any rounds.
func (e *Engine) RunAllocation() *Allocation {
	sorted := make([]*DemandUnit, len(e.units))
	copy(sorted, e.units)
	sort.Stable(byFeeRate(sorted))

	maxWeight := e.policy.MaxWeight
	var rounds []*Round
	current := &Round{Number: 1}
	for _, unit := range sorted {
		if unit.Weight <= maxWeight-current.Weight {
			current.Units = append(current.Units, unit)
			current.Weight += unit.Weight
			continue
		}

		// The unit does not fit.  Close the current round unless it is
		// still empty, which only happens when the very first unit is
		// oversized.
		if len(current.Units) > 0 {
			rounds = append(rounds, current)
		}
		current = &Round{
			Number: len(rounds) + 1,
			Units:  []*DemandUnit{unit},
			Weight: unit.Weight,
		}
		if unit.Weight > maxWeight {
			log.Debugf("Unit #%d with weight %d exceeds the block limit "+
				"of %d and occupies round %d alone", unit.Seq,
				unit.Weight, maxWeight, current.Number)
		}
	}
	if len(current.Units) > 0 {
		rounds = append(rounds, current)
	}

	alloc := &Allocation{
		Rounds:      rounds,
		Fingerprint: fingerprint(rounds),
	}
	log.Debugf("Allocated %d units into %d rounds (fingerprint %v)",
		len(sorted), len(rounds), alloc.Fingerprint)
	log.Tracef("Rounds: %v", newLogClosure(func() string {
		return spew.Sdump(rounds)
	}))

	return alloc
}

// fingerprint returns the double sha256 of the serialized rounds.  Each
// round is written as its number and unit count followed by the fee rate,
// virtual size, and focus flag of each unit.
func fingerprint(rounds []*Round) chainhash.Hash {
	var buf bytes.Buffer
	var scratch [8]byte
	putUint64 := func(v uint64) {
		binary.LittleEndian.PutUint64(scratch[:], v)
		buf.Write(scratch[:])
	}

	for _, round := range rounds {
		putUint64(uint64(round.Number))
		putUint64(uint64(len(round.Units)))
		for _, unit := range round.Units {
			putUint64(math.Float64bits(unit.FeeRate))
			putUint64(math.Float64bits(unit.VSize))
			if unit.IsFocus {
				buf.WriteByte(1)
			} else {
				buf.WriteByte(0)
			}
		}
	}

	return chainhash.DoubleHashH(buf.Bytes())
}
