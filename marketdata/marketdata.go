// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package marketdata retrieves the projected mempool blocks and recommended
fee rates published by a mempool.space compatible API, and translates the
projected blocks into representative transactions for the auction model.

Two sources are provided.  Client polls the REST API and Feed subscribes to
the WebSocket API, which pushes a new set of projected blocks whenever the
mempool changes.  Both implement Source.
*/
package marketdata

import (
	"context"
)

// ProjectedBlock summarizes one block of the mempool as projected by the
// API.  The field names match the JSON returned by /fees/mempool-blocks.
type ProjectedBlock struct {
	// BlockSize is the total size in bytes.
	BlockSize float64 `json:"blockSize"`

	// BlockVSize is the total virtual size in vbytes.
	BlockVSize float64 `json:"blockVSize"`

	// NTx is the number of transactions.
	NTx int64 `json:"nTx"`

	// TotalFees is the sum of all fees in satoshis.
	TotalFees float64 `json:"totalFees"`

	// MedianFee is the median fee rate in sat/vB.
	MedianFee float64 `json:"medianFee"`

	// FeeRange holds fee rate breakpoints in sat/vB.  See the feeRange*
	// index constants for the layout.
	FeeRange []float64 `json:"feeRange"`
}

// RecommendedFees houses the fee rates in sat/vB recommended by the API for
// different confirmation targets.
type RecommendedFees struct {
	FastestFee  float64 `json:"fastestFee"`
	HalfHourFee float64 `json:"halfHourFee"`
	HourFee     float64 `json:"hourFee"`
	EconomyFee  float64 `json:"economyFee"`
	MinimumFee  float64 `json:"minimumFee"`
}

// Source provides market data.  Implementations must either return complete
// results or an error.
type Source interface {
	// FetchProjectedBlocks returns the projected mempool blocks, the next
	// block first.
	FetchProjectedBlocks(ctx context.Context) ([]ProjectedBlock, error)

	// FetchRecommendedFees returns the currently recommended fee rates.
	FetchRecommendedFees(ctx context.Context) (*RecommendedFees, error)
}
