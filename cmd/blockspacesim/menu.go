// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/btcsuite/blockspace/auction"
	"github.com/btcsuite/blockspace/simulator"
)

// minInput is the smallest fee rate and size accepted from the menu.
const minInput = 1.0

// menu drives the interactive session.
type menu struct {
	sess *simulator.Session
	in   lineReader
	out  *renderer
}

func newMenu(sess *simulator.Session, in lineReader, out io.Writer) *menu {
	return &menu{sess: sess, in: in, out: newRenderer(out)}
}

// run shows the main menu until the user exits, the input ends, or ctx is
// done.
func (m *menu) run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		m.out.header("MAIN MENU")
		m.out.printf("1. Simulate Transaction\n")
		m.out.printf("2. View Current Fee Recommendations\n")
		m.out.printf("3. Refresh Mempool Data\n")
		m.out.printf("4. Learn About Bitcoin Concepts\n")
		m.out.printf("5. Exit\n")
		m.out.rule("=")

		choice, err := m.in.ReadLine("\nSelect option (1-5): ")
		if err != nil {
			return inputErr(err)
		}

		switch strings.TrimSpace(choice) {
		case "1":
			if err := m.simulate(ctx); err != nil {
				return err
			}

		case "2":
			m.recommendations(ctx)

		case "3":
			m.out.printf("\nRefreshing mempool data...\n")
			if err := m.sess.Load(ctx); err != nil {
				m.out.printf("Failed to refresh mempool data: %v\n", err)
				continue
			}
			m.out.printf("Mempool data refreshed successfully\n")
			m.out.summary(m.sess.Snapshot())

		case "4":
			m.out.printf("%s", conceptsHelp)

		case "5":
			m.out.printf("\nThank you for using Bitcoin Blockspace " +
				"Auction Simulator!\n")
			return nil

		default:
			m.out.printf("Invalid option. Please select 1-5.\n")
		}
	}
}

// inputErr maps the end of the input to a clean exit.
func inputErr(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// readFloat prompts until the user enters a number of at least min.
func (m *menu) readFloat(prompt string, min float64) (float64, error) {
	for {
		line, err := m.in.ReadLine(prompt)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
		if err != nil {
			m.out.printf("Invalid input. Please enter a number.\n")
			continue
		}
		if !(v >= min) {
			m.out.printf("Value must be at least %.1f\n", min)
			continue
		}
		return v, nil
	}
}

// simulate runs the simulation flow and then refreshes the market data for
// the next one.  Only input errors are returned.
func (m *menu) simulate(ctx context.Context) error {
	m.out.header("TRANSACTION SIMULATION")
	m.out.printf("\nEnter your transaction details:\n")
	m.out.printf("(Typical transaction sizes: 140-250 vBytes for simple " +
		"sends,\n 400-600 vBytes for complex multi-input transactions)\n\n")

	vsize, err := m.readFloat("Transaction size (vBytes): ", minInput)
	if err != nil {
		return inputErr(err)
	}
	feeRate, err := m.readFloat("Proposed fee rate (sat/vB): ", minInput)
	if err != nil {
		return inputErr(err)
	}

	m.out.printf("\nRunning simulation...\n")
	res, err := m.sess.Simulate(feeRate, vsize)
	switch {
	case err == nil:
		m.out.result(res)
	case errors.As(err, new(auction.RuleError)):
		m.out.printf("Simulation rejected: %v\n", err)
	default:
		m.out.printf("Simulation failed: %v\n", err)
	}

	if err := m.sess.Load(ctx); err != nil {
		mainLog.Warnf("Could not refresh mempool data, using cached "+
			"data: %v", err)
		m.out.printf("Warning: Could not refresh mempool data. Using " +
			"cached data.\n")
	}
	return nil
}

// recommendations prints the recommended fee rates.
func (m *menu) recommendations(ctx context.Context) {
	m.out.printf("\nFetching current fee recommendations...\n")
	fees, err := m.sess.Recommendations(ctx)
	if err != nil {
		m.out.printf("Could not fetch fee recommendations: %v\n", err)
		return
	}
	m.out.fees(fees)
}
