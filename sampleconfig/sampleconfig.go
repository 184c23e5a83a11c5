// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package sampleconfig

// FileContents is a string containing the commented example config for
// blockspacesim.
const FileContents = `[Application Options]

; ------------------------------------------------------------------------------
; Market data
; ------------------------------------------------------------------------------

; Base URL of a mempool.space compatible REST API.  Specify it multiple times
; to fail over to other servers when the first one is unreachable.
; apiurl=https://mempool.space/api/v1
; apiurl=https://mempool.emzy.de/api/v1

; Timeout for each API request.
; timeout=10s

; Receive projected blocks over the WebSocket API instead of polling the REST
; API.  Recommended fee rates are still fetched over REST.
; ws=1
; wsurl=wss://mempool.space/api/v1/ws


; ------------------------------------------------------------------------------
; Proxy settings
; ------------------------------------------------------------------------------

; Connect to the API through a SOCKS5 proxy, for example Tor.
; proxy=127.0.0.1:9050
; proxyuser=
; proxypass=

; Use a separate Tor circuit for every connection.
; torisolation=1


; ------------------------------------------------------------------------------
; Auction model
; ------------------------------------------------------------------------------

; Expected minutes between blocks, used to convert a block number into an
; estimated wait.
; roundminutes=10

; Maximum weight of a block in weight units.
; maxblockweight=4000000


; ------------------------------------------------------------------------------
; Logging and metrics
; ------------------------------------------------------------------------------

; Directory to write the log file to.
; logdir=~/.blockspacesim/logs

; Debug logging level.
; Valid levels are {trace, debug, info, warn, error, critical}
; You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set
; the log level for individual subsystems.  Use blockspacesim --debuglevel=show
; to list available subsystems.  While the interactive menu runs, only
; warnings and errors are also printed to the console; the log file receives
; every line at the selected level.
; debuglevel=info

; Serve Prometheus metrics at http://<address>/metrics.
; metricslisten=127.0.0.1:9101
`
