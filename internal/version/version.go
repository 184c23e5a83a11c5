// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package version houses the version information of blockspacesim.
package version

import (
	"fmt"
	"strings"
)

const (
	// semanticAlphabet is the set of characters allowed in the pre-release
	// portion of a semantic version string.
	semanticAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-"

	// semanticBuildAlphabet is the set of characters allowed in the build
	// metadata portion of a semantic version string.
	semanticBuildAlphabet = semanticAlphabet + "."
)

// The application version, following semantic versioning 2.0.0.
const (
	Major uint = 0
	Minor uint = 1
	Patch uint = 0
)

var (
	// PreRelease may be overridden at link time with
	// '-ldflags "-X github.com/btcsuite/blockspace/internal/version.PreRelease=foo"'.
	// Characters outside semanticAlphabet are dropped.
	PreRelease = "beta"

	// BuildMetadata may be overridden at link time in the same way.
	// Characters outside semanticBuildAlphabet are dropped.
	BuildMetadata = ""
)

// String returns the application version, for example "0.1.0-beta+abc123".
func String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d.%d.%d", Major, Minor, Patch)
	if pre := normalize(PreRelease, semanticAlphabet); pre != "" {
		b.WriteString("-")
		b.WriteString(pre)
	}
	if build := normalize(BuildMetadata, semanticBuildAlphabet); build != "" {
		b.WriteString("+")
		b.WriteString(build)
	}
	return b.String()
}

// UserAgent returns the user agent sent with API requests.
func UserAgent() string {
	return "blockspacesim/" + String()
}

// normalize strips str of every character not contained in alphabet.
func normalize(str, alphabet string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(alphabet, r) {
			return r
		}
		return -1
	}, str)
}
