// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package risk classifies how likely a transaction is to confirm based on the
// block it is projected to land in, and explains the result.
package risk

import (
	"fmt"
	"time"

	"github.com/btcsuite/blockspace/auction"
)

// Level is the confirmation risk of a transaction.  Levels are ordered by
// severity, so they can be compared with the usual operators.
type Level int

// These constants define the risk levels from least to most severe.
const (
	Low Level = iota
	Medium
	High
	VeryHigh

	// numLevels is the number of defined levels.
	numLevels
)

// Map of Level values back to their display names.
var levelStrings = map[Level]string{
	Low:      "Low",
	Medium:   "Medium",
	High:     "High",
	VeryHigh: "Very High",
}

// String returns the Level as a human-readable name.
func (l Level) String() string {
	if s := levelStrings[l]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown Level (%d)", int(l))
}

// IsValid returns whether the level is one of the defined levels.
func (l Level) IsValid() bool {
	return l >= Low && l < numLevels
}

// Block number thresholds for the risk levels.
const (
	mediumMaxRound = 3
	highMaxRound   = 6
)

// Classify returns the risk level of a transaction projected for the passed
// 1-indexed block number.  A transaction in the next block is low risk only
// when it pays at least the reference median fee rate of that block.
func Classify(round int, feeRate, referenceMedian float64) (Level, error) {
	switch {
	case round < 1:
		str := fmt.Sprintf("block number %d is invalid -- must be at "+
			"least 1", round)
		return 0, auction.NewRuleError(auction.ErrInvalidRound, str)

	case round == 1:
		if feeRate >= referenceMedian {
			return Low, nil
		}
		return Medium, nil

	case round <= mediumMaxRound:
		return Medium, nil

	case round <= highMaxRound:
		return High, nil
	}

	return VeryHigh, nil
}

// Explanation is the human-readable account of a risk classification.
type Explanation struct {
	Level         Level
	Round         int
	EstimatedWait time.Duration
	Text          string
}

// Explain renders the fixed explanation template for the passed level.  The
// block number is converted into an estimated wait using roundDuration, or
// auction.DefaultRoundDuration when it is not positive.  Explain has no
// effect on the classification itself.
func Explain(round int, level Level, feeRate, referenceMedian float64,
	competing int, roundDuration time.Duration) (*Explanation, error) {

	if round < 1 {
		str := fmt.Sprintf("block number %d is invalid -- must be at "+
			"least 1", round)
		return nil, auction.NewRuleError(auction.ErrInvalidRound, str)
	}
	if roundDuration <= 0 {
		roundDuration = auction.DefaultRoundDuration
	}
	wait := time.Duration(round) * roundDuration
	minutes := int64(wait / time.Minute)

	var text string
	switch level {
	case Low:
		text = fmt.Sprintf("Your transaction is projected for the next "+
			"block with a fee rate of %.1f sat/vB, which is above the "+
			"current median of %.1f sat/vB. There are %d transactions "+
			"ahead of yours, but your fee rate is competitive.",
			feeRate, referenceMedian, competing)

	case Medium:
		text = fmt.Sprintf("Your transaction is projected for block %d "+
			"(~%d minutes). Your fee rate of %.1f sat/vB is competitive "+
			"but there are %d higher-paying transactions ahead. "+
			"Confirmation is likely but not guaranteed in the next block.",
			round, minutes, feeRate, competing)

	case High:
		text = fmt.Sprintf("Your transaction is projected for block %d "+
			"(~%d minutes). Your fee rate of %.1f sat/vB is below the "+
			"current competitive range. There are %d higher-paying "+
			"transactions ahead. If mempool congestion increases, your "+
			"transaction may be pushed further back.",
			round, minutes, feeRate, competing)

	case VeryHigh:
		text = fmt.Sprintf("Your transaction is projected for block %d or "+
			"later (~%d+ minutes). Your fee rate of %.1f sat/vB is "+
			"significantly below competitive rates. With %d transactions "+
			"ahead, there's high risk of delayed confirmation or being "+
			"pushed out if new higher-fee transactions enter the mempool. "+
			"Consider using RBF (Replace-By-Fee) to increase your fee if "+
			"time-sensitive.", round, minutes, feeRate, competing)

	default:
		str := fmt.Sprintf("risk level %v is not defined", level)
		return nil, auction.NewRuleError(auction.ErrInvalidRiskLevel, str)
	}

	return &Explanation{
		Level:         level,
		Round:         round,
		EstimatedWait: wait,
		Text:          text,
	}, nil
}
