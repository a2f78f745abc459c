package summary

import (
	"context"

	"github.com/facturio/facturio/internal/domain"
)

// MockSummarizer implements Summarizer for testing.
type MockSummarizer struct {
	SummarizeFunc func(ctx context.Context, report domain.Report, invoices []domain.Invoice) (string, error)
}

func (m *MockSummarizer) Summarize(ctx context.Context, report domain.Report, invoices []domain.Invoice) (string, error) {
	return m.SummarizeFunc(ctx, report, invoices)
}
