// Package summary talks to the external AI collaborator that turns the
// invoice ledger into short management prose.
package summary

import (
	"context"

	"github.com/facturio/facturio/internal/domain"
)

// Summarizer produces a natural-language summary of a report and the
// invoices behind it. Implementations call an external service and must
// respect the context deadline.
type Summarizer interface {
	Summarize(ctx context.Context, report domain.Report, invoices []domain.Invoice) (string, error)
}

// Disabled is the summarizer used when no API key is configured. It fails
// every request with a collaborator error instead of silently fabricating
// prose.
type Disabled struct{}

func (Disabled) Summarize(context.Context, domain.Report, []domain.Invoice) (string, error) {
	return "", domain.Errorf(domain.ECOLLABORATOR, "summary.disabled", "summary service is not configured")
}
