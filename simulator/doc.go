// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package simulator ties market data to the auction model.

A Session loads a snapshot of the projected mempool blocks from a
marketdata.Source, translates it into representative transactions, and then
answers any number of simulations against that fixed view:

	sess := simulator.New(&simulator.Config{Source: client})
	if err := sess.Load(ctx); err != nil {
		return err
	}
	res, err := sess.Simulate(12.5, 140)

Each simulation builds a fresh allocation from the loaded transactions plus
the simulated one, so simulations never affect each other.  Loading again
replaces the view only when the new snapshot is complete.
*/
package simulator
