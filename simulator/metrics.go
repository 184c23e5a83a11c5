// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package simulator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics maintained by sessions.
type Metrics struct {
	// Simulations counts successful simulations by risk level.
	Simulations *prometheus.CounterVec

	// Failures counts failed loads and simulations by error code.
	Failures *prometheus.CounterVec

	// LoadDuration observes how long loading market data takes.
	LoadDuration prometheus.Histogram

	// Rounds is the number of rounds in the latest allocation.
	Rounds prometheus.Gauge
}

// NewMetrics creates the session metrics and registers them with reg.  A nil
// reg leaves the metrics unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Simulations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "blockspace_simulations_total",
			Help: "Simulations completed, by projected risk level",
		}, []string{"risk"}),

		Failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "blockspace_failures_total",
			Help: "Failed loads and simulations, by error code",
		}, []string{"code"}),

		LoadDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "blockspace_load_duration_seconds",
			Help:    "Time to fetch and load market data",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}),

		Rounds: factory.NewGauge(prometheus.GaugeOpts{
			Name: "blockspace_allocation_rounds",
			Help: "Rounds in the latest allocation",
		}),
	}
}
