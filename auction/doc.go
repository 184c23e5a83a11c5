// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package auction models the block space auction: pending transactions compete
for a fixed per-block weight budget and are admitted in fee rate order.

The Engine accumulates a demand set of transactions, at most one of which is
flagged as the focus transaction whose fate is tracked.  RunAllocation
partitions the demand set into successive blocks using the greedy algorithm a
revenue maximizing miner applies:

  1. Stable sort all transactions by fee rate, highest first.  Transactions
     paying the same fee rate keep their insertion order.
  2. Add transactions to the current block while the block weight stays
     within the policy limit.
  3. When a transaction does not fit, close the block and start a new one
     containing only that transaction.

A transaction that alone exceeds the weight limit still receives a block of
its own.  LocateFocus then finds the focus transaction in the resulting
blocks and Summarize provides aggregate statistics.

Errors

Invalid input is reported with a RuleError carrying an ErrorCode, so callers
can use errors.As or IsErrorCode to distinguish a rejected fee rate from a
missing focus transaction:

	_, err := engine.AddFocusUnit(feeRate, vsize)
	if IsErrorCode(err, ErrInvalidFeeRate) {
		// Ask for a new fee rate.
	}

Concurrency

An Engine is not safe for concurrent use.  Create one engine per simulation
session.
*/
package auction
