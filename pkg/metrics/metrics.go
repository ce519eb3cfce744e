package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Build metrics, registered through promauto so no explicit initialization
// is needed. All are labeled by the wheel compression level.

var (
	// BuildDuration measures full sieve constructions, from allocation to
	// the end of the trailing collection sweep.
	// Buckets span the tiny test wheels up to multi-second 4e9 builds.
	BuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "primegrid_build_duration_seconds",
			Help:    "Duration of sieve constructions in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"compression"},
	)

	// PrimesFound tracks pi(max_value) of the most recent build.
	PrimesFound = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "primegrid_primes_found",
			Help: "Number of primes found by the most recent sieve build",
		},
		[]string{"compression"},
	)

	// GridBytes tracks the size of the cross-off bitmap, which is released
	// as soon as construction finishes.
	GridBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "primegrid_grid_bytes",
			Help: "Size in bytes of the grid bitmap of the most recent sieve build",
		},
		[]string{"compression"},
	)
)
