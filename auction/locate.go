// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package auction

// Position describes where the focus transaction lands in an allocation.  All
// fields are 1-indexed.
type Position struct {
	// Round is the block number, where 1 is the next block.
	Round int

	// InRound is the position within that block.
	InRound int

	// Overall is the position counted across all blocks.
	Overall int

	// Unit is the located focus unit.
	Unit *DemandUnit
}

// Ahead returns the number of transactions that are mined before the focus
// transaction.
func (p *Position) Ahead() int {
	return p.Overall - 1
}

// LocateFocus scans the rounds in order and returns the position of the first
// focus unit.  ErrFocusNotFound is returned when no round holds a focus unit,
// which always indicates the caller never added one to the demand set.
func LocateFocus(rounds []*Round) (*Position, error) {
	overall := 0
	for i, round := range rounds {
		for j, unit := range round.Units {
			overall++
			if !unit.IsFocus {
				continue
			}

			return &Position{
				Round:   i + 1,
				InRound: j + 1,
				Overall: overall,
				Unit:    unit,
			}, nil
		}
	}

	str := "focus transaction not found in any of the allocated rounds"
	if len(rounds) == 0 {
		str = "focus transaction not found -- no rounds were allocated"
	}
	return nil, ruleError(ErrFocusNotFound, str)
}
