// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/blockspace/internal/version"
	"github.com/btcsuite/blockspace/marketdata"
	"github.com/btcsuite/blockspace/simulator"
	"github.com/btcsuite/btclog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metricsShutdownTimeout bounds the graceful shutdown of the metrics server.
const metricsShutdownTimeout = 5 * time.Second

// newSource returns the market data source selected by the configuration
// along with a function to release it.
func newSource(ctx context.Context, cfg *config) (marketdata.Source, func(), error) {
	client, err := marketdata.NewClient(&marketdata.ClientConfig{
		APIURLs:   cfg.APIURLs,
		Timeout:   cfg.Timeout,
		Proxy:     cfg.proxy(),
		UserAgent: version.UserAgent(),
	})
	if err != nil {
		return nil, nil, err
	}
	if !cfg.UseFeed {
		return client, func() {}, nil
	}

	feed := marketdata.NewFeed(&marketdata.FeedConfig{
		URL:              cfg.FeedURL,
		HandshakeTimeout: cfg.Timeout,
		Proxy:            cfg.proxy(),
		Fallback:         client,
		OnUpdate: func(blocks []marketdata.ProjectedBlock) {
			mainLog.Debugf("Projected blocks updated (%d blocks)",
				len(blocks))
		},
	})
	if err := feed.Start(ctx); err != nil {
		return nil, nil, err
	}
	return feed, feed.Stop, nil
}

// startMetricsServer serves the metrics gathered by reg on addr and returns
// the server so it can be shut down.
func startMetricsServer(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		mainLog.Infof("Metrics server listening on %s/metrics", addr)
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			mainLog.Errorf("Metrics server: %v", err)
		}
	}()
	return srv
}

// blockspacesimMain is the real main function for blockspacesim.  It is
// necessary to work around the fact that deferred functions do not run when
// os.Exit() is called.
func blockspacesimMain() error {
	cfg, _, err := loadConfig(os.Args[1:])
	if err != nil {
		return err
	}

	if err := initLogRotator(filepath.Join(cfg.LogDir,
		defaultLogFilename)); err != nil {

		fmt.Fprintln(os.Stderr, err)
		return err
	}
	defer logRotator.Close()
	if err := applyDebugLevels(cfg.DebugLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	if !cfg.oneShot() {
		consoleLevel = btclog.LevelWarn
	}

	ctx, cancel := shutdownListener()
	defer cancel()

	mainLog.Infof("Version %s", version.String())

	var metrics *simulator.Metrics
	if cfg.MetricsListen != "" {
		reg := prometheus.NewRegistry()
		metrics = simulator.NewMetrics(reg)
		srv := startMetricsServer(cfg.MetricsListen, reg)
		defer func() {
			sctx, scancel := context.WithTimeout(context.Background(),
				metricsShutdownTimeout)
			defer scancel()
			srv.Shutdown(sctx)
		}()
	}

	src, release, err := newSource(ctx, cfg)
	if err != nil {
		mainLog.Errorf("Unable to set up market data source: %v", err)
		return err
	}
	defer release()

	sess := simulator.New(&simulator.Config{
		Source:       src,
		Policy:       cfg.policy(),
		Metrics:      metrics,
		FetchTimeout: cfg.Timeout,
	})
	mainLog.Debugf("Started session %s", sess.ID())

	out := newRenderer(os.Stdout)
	if !cfg.oneShot() {
		out.printf("%s", banner)
		out.printf("Connecting to the Bitcoin mempool...\n")
	}
	if err := sess.Load(ctx); err != nil {
		mainLog.Errorf("Failed to load mempool data: %v", err)
		fmt.Fprintln(os.Stderr, "Failed to load mempool data.  Please "+
			"check your internet connection.")
		return err
	}

	if cfg.oneShot() {
		res, err := sess.Simulate(cfg.FeeRate, cfg.VSize)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Simulation failed: %v\n", err)
			return err
		}
		out.result(res)
		return nil
	}

	out.summary(sess.Snapshot())
	err = newMenu(sess, newLineReader(), os.Stdout).run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func main() {
	if err := blockspacesimMain(); err != nil {
		os.Exit(1)
	}
}
