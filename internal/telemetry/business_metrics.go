package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds Prometheus metrics for business-level observability.
type BusinessMetrics struct {
	// Invoicing
	InvoicesCreated   *prometheus.CounterVec
	InvoiceValue      prometheus.Histogram
	InvoiceItemCount  prometheus.Histogram
	StatusTransitions *prometheus.CounterVec
	NumberConflicts   prometheus.Counter

	// Bulk import
	ImportedRows *prometheus.CounterVec
	RejectedRows *prometheus.CounterVec

	// AI summary collaborator
	SummaryRequests prometheus.Counter
	SummaryFailures prometheus.Counter
}

// NewBusinessMetrics creates and registers business metrics on the given
// registerer. Pass prometheus.DefaultRegisterer in production.
func NewBusinessMetrics(reg prometheus.Registerer) *BusinessMetrics {
	factory := promauto.With(reg)

	return &BusinessMetrics{
		InvoicesCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "facturio",
			Name:      "invoices_created_total",
			Help:      "Total number of invoices created",
		}, []string{"status"}),
		InvoiceValue: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "facturio",
			Name:      "invoice_total_amount",
			Help:      "Grand total per created invoice",
			Buckets:   []float64{100, 500, 1000, 5000, 10000, 50000, 100000},
		}),
		InvoiceItemCount: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "facturio",
			Name:      "invoice_item_count",
			Help:      "Line items per created invoice",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50},
		}),
		StatusTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "facturio",
			Name:      "invoice_status_transitions_total",
			Help:      "Invoice status transitions, including forced overrides",
		}, []string{"from", "to", "forced"}),
		NumberConflicts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "facturio",
			Name:      "invoice_number_conflicts_total",
			Help:      "Invoice number conflicts detected at persist time",
		}),
		ImportedRows: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "facturio",
			Name:      "import_rows_total",
			Help:      "CSV rows imported successfully",
		}, []string{"kind"}),
		RejectedRows: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "facturio",
			Name:      "import_rows_rejected_total",
			Help:      "CSV rows rejected during import",
		}, []string{"kind"}),
		SummaryRequests: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "facturio",
			Name:      "summary_requests_total",
			Help:      "AI summary requests issued",
		}),
		SummaryFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "facturio",
			Name:      "summary_failures_total",
			Help:      "AI summary requests that failed or timed out",
		}),
	}
}
