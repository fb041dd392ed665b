package provisioning

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	provisionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopstack",
			Subsystem: "orchestrator",
			Name:      "provision_total",
			Help:      "Total number of provision requests by result",
		},
		[]string{"result"},
	)

	provisionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "shopstack",
			Subsystem: "orchestrator",
			Name:      "provision_duration_seconds",
			Help:      "Duration of provision requests in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 14), // 100ms to ~13min
		},
	)

	deprovisionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopstack",
			Subsystem: "orchestrator",
			Name:      "deprovision_total",
			Help:      "Total number of deprovision requests by result",
		},
		[]string{"result"},
	)

	storesTracked = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "shopstack",
			Subsystem: "orchestrator",
			Name:      "stores_tracked",
			Help:      "Number of store records currently tracked by the registry",
		},
	)
)

func init() {
	prometheus.MustRegister(
		provisionTotal,
		provisionDuration,
		deprovisionTotal,
		storesTracked,
	)
}

// observeProvision records the outcome and duration of a provision request.
func observeProvision(result string, duration time.Duration) {
	provisionTotal.WithLabelValues(result).Inc()
	provisionDuration.Observe(duration.Seconds())
}

// observeDeprovision records the outcome of a deprovision request.
func observeDeprovision(result string) {
	deprovisionTotal.WithLabelValues(result).Inc()
}

// setStoresTracked updates the tracked-stores gauge.
func setStoresTracked(n int) {
	storesTracked.Set(float64(n))
}
