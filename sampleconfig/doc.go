// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package sampleconfig provides the contents of the sample configuration file
for blockspacesim.  It is written to the default configuration path the first
time blockspacesim runs so users have every option documented in one place.
*/
package sampleconfig
