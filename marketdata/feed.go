// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/gorilla/websocket"
)

const (
	// DefaultFeedURL is the WebSocket endpoint of the public mempool.space
	// API.
	DefaultFeedURL = "wss://mempool.space/api/v1/ws"

	// defaultHandshakeTimeout bounds the WebSocket handshake.
	defaultHandshakeTimeout = 10 * time.Second

	// feedPingInterval is how often a keepalive ping is sent.
	feedPingInterval = 30 * time.Second

	// feedWriteWait bounds each write to the connection.
	feedWriteWait = 10 * time.Second
)

// wantMessage subscribes to data pushed by the server.
type wantMessage struct {
	Action string   `json:"action"`
	Data   []string `json:"data"`
}

// feedMessage is the subset of a pushed message the feed consumes.  Messages
// without projected blocks are ignored.
type feedMessage struct {
	MempoolBlocks []ProjectedBlock `json:"mempool-blocks"`
}

// FeedConfig houses the configuration of a WebSocket feed.
type FeedConfig struct {
	// URL is the WebSocket endpoint.  DefaultFeedURL is used when empty.
	URL string

	// HandshakeTimeout bounds the WebSocket handshake.
	HandshakeTimeout time.Duration

	// Proxy routes the connection through a SOCKS5 proxy.
	Proxy *ProxyConfig

	// Fallback serves the data the feed does not stream, which is the
	// recommended fee rates.  It also serves the projected blocks once the
	// connection is lost.
	Fallback Source

	// OnUpdate, when set, is invoked from the read goroutine each time the
	// projected blocks change.
	OnUpdate func(blocks []ProjectedBlock)
}

// Feed maintains the most recent projected blocks pushed over the WebSocket
// API.  It implements Source, serving the projected blocks from the latest
// push and delegating the recommended fees to the configured fallback.
type Feed struct {
	cfg FeedConfig

	mtx     sync.RWMutex
	latest  []ProjectedBlock
	digest  chainhash.Hash
	updated time.Time
	readErr error

	conn  *websocket.Conn
	ready chan struct{}
	done  chan struct{}
	quit  chan struct{}
	wg    sync.WaitGroup
	once  sync.Once
	stop  sync.Once
}

// Ensure Feed implements the Source interface.
var _ Source = (*Feed)(nil)

// NewFeed returns a feed that is not yet connected.  Call Start to connect.
func NewFeed(cfg *FeedConfig) *Feed {
	f := &Feed{
		ready: make(chan struct{}),
		done:  make(chan struct{}),
		quit:  make(chan struct{}),
	}
	if cfg != nil {
		f.cfg = *cfg
	}
	if f.cfg.URL == "" {
		f.cfg.URL = DefaultFeedURL
	}
	if f.cfg.HandshakeTimeout <= 0 {
		f.cfg.HandshakeTimeout = defaultHandshakeTimeout
	}
	return f
}

// Start connects to the server, subscribes to projected block updates, and
// launches the goroutines which process them.
func (f *Feed) Start(ctx context.Context) error {
	dialer := &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: f.cfg.HandshakeTimeout,
	}
	if dial := f.cfg.Proxy.dialer(); dial != nil {
		dialer.Proxy = nil
		dialer.NetDialContext = dial
	}

	conn, _, err := dialer.DialContext(ctx, f.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("connect %s: %w", f.cfg.URL, err)
	}

	want := wantMessage{Action: "want", Data: []string{"mempool-blocks"}}
	conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
	if err := conn.WriteJSON(&want); err != nil {
		conn.Close()
		return fmt.Errorf("subscribe %s: %w", f.cfg.URL, err)
	}

	f.conn = conn
	f.wg.Add(2)
	go f.readHandler()
	go f.pingHandler()

	log.Infof("Subscribed to projected blocks at %s", f.cfg.URL)
	return nil
}

// Stop closes the connection and waits for the goroutines to finish.
func (f *Feed) Stop() {
	f.stop.Do(func() {
		close(f.quit)
		if f.conn != nil {
			f.conn.Close()
		}
	})
	f.wg.Wait()
}

// readHandler processes pushed messages until the connection fails or the
// feed is stopped.  It must be run as a goroutine.
func (f *Feed) readHandler() {
	defer f.wg.Done()
	defer close(f.done)

	for {
		_, msg, err := f.conn.ReadMessage()
		if err != nil {
			select {
			case <-f.quit:
			default:
				log.Errorf("Feed connection lost: %v", err)
			}
			f.mtx.Lock()
			f.readErr = err
			f.mtx.Unlock()
			return
		}

		var m feedMessage
		if err := json.Unmarshal(msg, &m); err != nil {
			log.Warnf("Ignoring malformed feed message: %v", err)
			continue
		}
		if len(m.MempoolBlocks) == 0 {
			continue
		}
		f.handleBlocks(m.MempoolBlocks)
	}
}

// pingHandler periodically pings the server to keep the connection alive.
// It must be run as a goroutine.
func (f *Feed) pingHandler() {
	defer f.wg.Done()

	ticker := time.NewTicker(feedPingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			deadline := time.Now().Add(feedWriteWait)
			err := f.conn.WriteControl(websocket.PingMessage, nil, deadline)
			if err != nil {
				log.Debugf("Feed ping failed: %v", err)
				return
			}
		case <-f.quit:
			return
		}
	}
}

// handleBlocks records a pushed set of projected blocks.  The server repeats
// unchanged projections, so updates whose digest matches the latest one are
// dropped.
func (f *Feed) handleBlocks(blocks []ProjectedBlock) {
	digest := blocksDigest(blocks)

	f.mtx.Lock()
	if f.latest != nil && digest == f.digest {
		f.mtx.Unlock()
		log.Tracef("Ignoring unchanged projection %v", digest)
		return
	}
	f.latest = blocks
	f.digest = digest
	f.updated = time.Now()
	f.mtx.Unlock()

	f.once.Do(func() { close(f.ready) })
	log.Debugf("Received %d projected blocks (%v)", len(blocks), digest)

	if f.cfg.OnUpdate != nil {
		f.cfg.OnUpdate(copyBlocks(blocks))
	}
}

// Latest returns a copy of the most recent projected blocks, their digest,
// and when they were received.  The slice is nil before the first update.
func (f *Feed) Latest() ([]ProjectedBlock, chainhash.Hash, time.Time) {
	f.mtx.RLock()
	defer f.mtx.RUnlock()
	return copyBlocks(f.latest), f.digest, f.updated
}

// FetchProjectedBlocks returns the latest pushed projected blocks, waiting
// for the first push when none has been received yet.  Once the connection
// is lost the blocks are fetched from the fallback source instead, and
// ErrFeedClosed is returned when there is none.
func (f *Feed) FetchProjectedBlocks(ctx context.Context) ([]ProjectedBlock, error) {
	select {
	case <-f.ready:
	case <-f.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-f.quit:
		return nil, ErrFeedStopped
	}

	f.mtx.RLock()
	blocks, readErr, updated := copyBlocks(f.latest), f.readErr, f.updated
	f.mtx.RUnlock()

	if readErr == nil {
		return blocks, nil
	}
	select {
	case <-f.quit:
		return nil, ErrFeedStopped
	default:
	}
	if f.cfg.Fallback == nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedClosed, readErr)
	}
	if blocks != nil {
		log.Debugf("Feed closed with a projection from %v ago, using the "+
			"fallback source", time.Since(updated).Round(time.Second))
	}
	return f.cfg.Fallback.FetchProjectedBlocks(ctx)
}

// FetchRecommendedFees delegates to the fallback source.
func (f *Feed) FetchRecommendedFees(ctx context.Context) (*RecommendedFees, error) {
	if f.cfg.Fallback == nil {
		return nil, ErrNoFallback
	}
	return f.cfg.Fallback.FetchRecommendedFees(ctx)
}

// blocksDigest commits to the content of the passed projected blocks.
func blocksDigest(blocks []ProjectedBlock) chainhash.Hash {
	// Marshalling a slice of plain structs can't fail.
	b, _ := json.Marshal(blocks)
	return chainhash.HashH(b)
}

func copyBlocks(blocks []ProjectedBlock) []ProjectedBlock {
	if blocks == nil {
		return nil
	}
	res := make([]ProjectedBlock, len(blocks))
	for i, b := range blocks {
		res[i] = b
		res[i].FeeRange = append([]float64(nil), b.FeeRange...)
	}
	return res
}
