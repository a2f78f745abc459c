package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SeriesPoint is one date bucket of the sales chart: the sum of invoice
// totals issued on that date.
type SeriesPoint struct {
	Date   time.Time       `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// Report holds the dashboard metrics derived from the invoice collection.
type Report struct {
	TotalSales    decimal.Decimal `json:"totalSales"`
	InvoiceCount  int             `json:"invoiceCount"`
	AverageTicket decimal.Decimal `json:"averageTicket"`
	Series        []SeriesPoint   `json:"series"` // sorted by date ascending
	Currency      string          `json:"currency"`
}

// ReportService folds the invoice collection into dashboard metrics and
// feeds the external summary collaborator.
type ReportService interface {
	// BuildReport computes totals, count, average ticket and the
	// date-bucketed series. An empty collection yields an all-zero report.
	BuildReport(ctx context.Context) (*Report, error)

	// Summarize hands the invoice collection to the AI summary
	// collaborator and returns its prose. Failures never touch stored
	// invoice data.
	Summarize(ctx context.Context) (string, error)
}
