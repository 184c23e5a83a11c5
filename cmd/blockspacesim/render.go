// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/btcsuite/blockspace/marketdata"
	"github.com/btcsuite/blockspace/simulator"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const ruleWidth = 70

// renderer formats simulation output for humans.  Counts are printed with
// thousands separators.
type renderer struct {
	p *message.Printer
	w io.Writer
}

func newRenderer(w io.Writer) *renderer {
	return &renderer{
		p: message.NewPrinter(language.English),
		w: w,
	}
}

func (r *renderer) printf(format string, args ...interface{}) {
	r.p.Fprintf(r.w, format, args...)
}

func (r *renderer) rule(ch string) {
	r.printf("%s\n", strings.Repeat(ch, ruleWidth))
}

// header prints title framed by rules.
func (r *renderer) header(title string) {
	r.printf("\n")
	r.rule("=")
	r.printf("%s\n", title)
	r.rule("=")
}

// signed formats v with an explicit sign for non-negative values.
func signed(v float64) string {
	if v >= 0 {
		return "+"
	}
	return ""
}

// result prints a simulation result.
func (r *renderer) result(res *simulator.Result) {
	r.header("BITCOIN BLOCKSPACE AUCTION SIMULATION RESULTS")

	f := &res.Focus
	r.printf("\nYOUR TRANSACTION:\n")
	r.printf("   Size: %.0f vBytes (%d weight units)\n", f.VSize, f.Weight)
	r.printf("   Fee Rate: %.1f sat/vB\n", f.FeeRate)
	r.printf("   Total Fee: %.0f sats (%s)\n", f.Fee, f.Amount())

	pos := &res.Position
	r.printf("\nPROJECTED POSITION:\n")
	r.printf("   Block Number: #%d (next block = #1)\n", pos.Round)
	r.printf("   Position in Block: #%d\n", pos.InRound)
	r.printf("   Overall Queue Position: #%d\n", pos.Overall)
	r.printf("   Estimated Wait Time: ~%d minutes\n",
		int64(pos.EstimatedWait/time.Minute))

	r.printf("\nCONFIRMATION RISK: %s\n", res.Risk.Level)
	r.printf("   %s\n", res.Risk.Explanation)

	cmp := &res.Comparison
	sign := signed(cmp.Difference)
	r.printf("\nFEE ANALYSIS:\n")
	r.printf("   Your Fee Rate: %.1f sat/vB\n", cmp.FeeRate)
	r.printf("   Next Block Median: %.1f sat/vB\n", cmp.NextBlockMedian)
	r.printf("   Difference: %s%.1f sat/vB (%s%.1f%%)\n", sign,
		cmp.Difference, sign, cmp.PercentVsMedian)

	ctx := &res.Context
	r.printf("\nMEMPOOL CONTEXT:\n")
	r.printf("   Total Pending Transactions: %d\n", ctx.PendingUnits)
	r.printf("   Projected Blocks: %d\n", ctx.PendingRounds)
	r.printf("   Next Block Size: %d transactions\n", ctx.NextRoundUnits)
	r.printf("   Transactions Ahead of Yours: %d\n", ctx.Competing)
	r.printf("   Total Fees Pending: %s\n", res.Stats.TotalAmount())

	r.printf("\n")
	r.rule("=")
	r.printf("Note: Estimates based on the mempool as of %s. Actual "+
		"confirmation\ntime may vary based on new transactions entering "+
		"the mempool.\n", res.SnapshotTime.Format("15:04:05"))
	r.printf("Allocation: %v\n", res.Fingerprint)
	r.rule("=")
}

// formatRate formats a fee rate with as many decimals as it needs.
func formatRate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// fees prints the recommended fee rates.
func (r *renderer) fees(fees *marketdata.RecommendedFees) {
	r.printf("\n")
	r.rule("-")
	r.printf("CURRENT FEE RECOMMENDATIONS (sat/vB)\n")
	r.rule("-")
	r.printf("Fastest (Next Block):     %s sat/vB\n",
		formatRate(fees.FastestFee))
	r.printf("Half Hour (~3 blocks):    %s sat/vB\n",
		formatRate(fees.HalfHourFee))
	r.printf("One Hour (~6 blocks):     %s sat/vB\n",
		formatRate(fees.HourFee))
	r.printf("Economy (Low Priority):   %s sat/vB\n",
		formatRate(fees.EconomyFee))
	r.printf("Minimum (Enter Mempool):  %s sat/vB\n",
		formatRate(fees.MinimumFee))
	r.rule("-")
}

// summary prints an overview of the loaded market data.
func (r *renderer) summary(snap *marketdata.Snapshot) {
	s := snap.Summary
	r.printf("Loaded %d pending transactions (%.0f vB) in %d projected "+
		"blocks\n", s.TotalTx, s.TotalVSize, s.ProjectedBlocks)
	r.printf("Next block median %.1f sat/vB, fee rates range from %.1f "+
		"to %.1f sat/vB\n", s.NextBlockMedian, s.LowestFeeRate,
		s.HighestFeeRate)
}
