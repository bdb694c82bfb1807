// Package metrics provides Prometheus metrics for the calculator.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Simplici0/fraktkalkulator/internal/pricing"
)

var (
	EstimatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "freight_estimates_total",
			Help: "Total number of cost estimates computed",
		},
		[]string{"destination", "source"},
	)

	ReceiptsExported = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "freight_receipts_exported_total",
			Help: "Total number of receipts exported",
		},
		[]string{"format"},
	)

	ExportErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "freight_receipt_export_errors_total",
			Help: "Total number of failed receipt exports",
		},
		[]string{"format", "stage"},
	)

	ExportedTotalCost = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "freight_exported_total_cost_nok",
			Help:    "Total cost of exported receipts in NOK",
			Buckets: []float64{500, 1000, 2500, 5000, 10000, 25000, 50000, 100000},
		},
	)
)

// RecordEstimate counts one computed estimate. source is "form" or "api".
// Destinations outside the catalog share the "unknown" label.
func RecordEstimate(destination, source string) {
	if _, ok := pricing.LookupDestination(destination); !ok {
		destination = "unknown"
	}
	EstimatesTotal.WithLabelValues(destination, source).Inc()
}

// RecordExport counts a successful export and observes its total.
func RecordExport(format string, totalCost float64) {
	ReceiptsExported.WithLabelValues(format).Inc()
	ExportedTotalCost.Observe(totalCost)
}

// RecordExportError counts an export that failed at stage ("store" or
// "render").
func RecordExportError(format, stage string) {
	ExportErrors.WithLabelValues(format, stage).Inc()
}
