// Package telemetry instruments the updater and evaluator with Prometheus
// metrics. It is purely ambient: nothing in the SDK's own control flow
// depends on it, and a caller that never registers a collector still gets
// a fully functioning client.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	CatalogInstalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "appconfiguration_catalog_installs_total",
			Help: "Total number of catalogs installed into the snapshot store",
		},
		[]string{"environment_id"},
	)
	RefreshErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "appconfiguration_refresh_errors_total",
			Help: "Total number of catalog fetch or push-channel errors",
		},
		[]string{"stage"},
	)
	EvaluationErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "appconfiguration_evaluation_errors_total",
			Help: "Total number of feature/property evaluation errors",
		},
		[]string{"resource_kind"},
	)
)

// NewSnapshotAgeCollector builds a gauge that reports the age, in
// seconds, of the currently installed snapshot by calling installedAt on
// every scrape. installedAt's second return is false before any catalog
// has been installed, in which case the gauge reports 0.
func NewSnapshotAgeCollector(installedAt func() (time.Time, bool)) prometheus.Collector {
	return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "appconfiguration_snapshot_age_seconds",
		Help: "Seconds since the currently installed catalog was installed",
	}, func() float64 {
		at, ok := installedAt()
		if !ok {
			return 0
		}
		return time.Since(at).Seconds()
	})
}

// Init registers this package's collectors with the default Prometheus
// registry. Callers that want a different registry should use
// MustRegisterOn instead.
func Init(snapshotAge prometheus.Collector) {
	prometheus.MustRegister(CatalogInstalls, RefreshErrors, EvaluationErrors, snapshotAge)
}

// MustRegisterOn registers this package's collectors with reg, letting a
// caller avoid the global default registry entirely.
func MustRegisterOn(reg *prometheus.Registry, snapshotAge prometheus.Collector) {
	reg.MustRegister(CatalogInstalls, RefreshErrors, EvaluationErrors, snapshotAge)
}
