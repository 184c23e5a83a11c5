// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

const banner = `
+------------------------------------------------------------------+
|                                                                  |
|        BITCOIN BLOCKSPACE AUCTION SIMULATOR                      |
|                                                                  |
|        Understanding Bitcoin's Fee Market Dynamics               |
|                                                                  |
+------------------------------------------------------------------+
`

const conceptsHelp = `
BITCOIN CONCEPTS EXPLAINED
------------------------------------------------------------------

BLOCKSPACE:
   Bitcoin blocks have a maximum size of 4,000,000 weight units (~1-4MB).
   This limited space creates scarcity and competition among transactions.

FEE RATE (sat/vB):
   Transactions pay fees measured in satoshis per virtual byte.
   Higher fee rates = higher priority for miners.
   Miners maximize revenue by selecting highest-paying transactions.

VIRTUAL SIZE (vBytes):
   SegWit transactions get a "discount" on their size calculation.
   vSize = (3 x base size + total size) / 4
   This encourages use of SegWit for efficiency.

MINER SELECTION:
   Miners use a "greedy algorithm" to fill blocks:
   1. Sort all pending transactions by fee rate (highest first)
   2. Include transactions until block is full
   3. Lower fee transactions wait for next block

THE AUCTION:
   The mempool is a continuous auction for blockspace.
   You compete against all other pending transactions.
   Your fee rate determines your priority in the queue.

CONFIRMATION TIME:
   Average block time: ~10 minutes
   Your position in queue determines estimated wait time.
   New high-fee transactions can push you back in line.

------------------------------------------------------------------
`
