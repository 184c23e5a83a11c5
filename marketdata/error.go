// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package marketdata

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNoProjectedBlocks is returned when the API reports an empty
	// mempool, which leaves nothing to simulate against.
	ErrNoProjectedBlocks = errors.New("no projected mempool blocks available")

	// ErrNoFallback is returned by a Feed asked for data it does not
	// stream when no fallback source is configured.
	ErrNoFallback = errors.New("no fallback source configured")

	// ErrFeedStopped is returned when waiting on a feed that was stopped
	// before it delivered any data.
	ErrFeedStopped = errors.New("feed stopped")

	// ErrFeedClosed is returned when the feed connection was lost and no
	// fallback source is configured.
	ErrFeedClosed = errors.New("feed connection closed")
)

// APIError describes a non-success HTTP response from the API.
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

// Error satisfies the error interface and prints human-readable errors.
func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: %d %s", e.Endpoint, e.StatusCode,
			http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s: %d %s: %s", e.Endpoint, e.StatusCode,
		http.StatusText(e.StatusCode), e.Body)
}

// Temporary returns whether the request may succeed when retried, possibly
// against another server.
func (e *APIError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}
