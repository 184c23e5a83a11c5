// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package simulator

import (
	"errors"

	"github.com/btcsuite/blockspace/auction"
	"github.com/btcsuite/blockspace/marketdata"
)

var (
	// ErrNotLoaded is returned when simulating before market data was
	// loaded successfully.
	ErrNotLoaded = errors.New("market data not loaded")

	// ErrNoDemand is returned when the loaded market data does not
	// translate into any pending transactions.
	ErrNoDemand = errors.New("market data contains no usable transactions")
)

// failureLabel returns the metrics label describing err.
func failureLabel(err error) string {
	var rErr auction.RuleError
	switch {
	case errors.As(err, &rErr):
		return rErr.ErrorCode.String()
	case errors.Is(err, ErrNotLoaded):
		return "ErrNotLoaded"
	case errors.Is(err, ErrNoDemand):
		return "ErrNoDemand"
	case errors.Is(err, marketdata.ErrNoProjectedBlocks):
		return "ErrNoProjectedBlocks"
	default:
		return "ErrMarketData"
	}
}
