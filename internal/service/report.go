package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/facturio/facturio/internal/domain"
	"github.com/facturio/facturio/internal/store"
	"github.com/facturio/facturio/internal/summary"
	"github.com/facturio/facturio/internal/telemetry"
)

type reportService struct {
	store      store.Store
	summarizer summary.Summarizer
	metrics    *telemetry.BusinessMetrics // optional
	log        zerolog.Logger

	// currency is the fallback when no company profile has been saved yet.
	currency string
}

// NewReportService creates the dashboard aggregator. metrics may be nil.
func NewReportService(st store.Store, sum summary.Summarizer, metrics *telemetry.BusinessMetrics, currency string, log zerolog.Logger) domain.ReportService {
	return &reportService{
		store:      st,
		summarizer: sum,
		metrics:    metrics,
		currency:   currency,
		log:        log.With().Str("component", "report-service").Logger(),
	}
}

// BuildReport folds the whole invoice collection into dashboard metrics.
// Every invoice counts regardless of status; the total can go negative when
// retentions exceed taxes.
func (s *reportService) BuildReport(ctx context.Context) (*domain.Report, error) {
	invoices, err := s.store.GetInvoices(ctx)
	if err != nil {
		return nil, err
	}

	report := &domain.Report{
		TotalSales:    decimal.Zero,
		AverageTicket: decimal.Zero,
		InvoiceCount:  len(invoices),
		Currency:      s.reportCurrency(ctx),
	}

	buckets := make(map[time.Time]decimal.Decimal)
	for _, inv := range invoices {
		report.TotalSales = report.TotalSales.Add(inv.Total)
		day := inv.Date.UTC().Truncate(24 * time.Hour)
		buckets[day] = buckets[day].Add(inv.Total)
	}

	if report.InvoiceCount > 0 {
		report.AverageTicket = report.TotalSales.DivRound(decimal.NewFromInt(int64(report.InvoiceCount)), 2)
	}

	report.Series = make([]domain.SeriesPoint, 0, len(buckets))
	for day, amount := range buckets {
		report.Series = append(report.Series, domain.SeriesPoint{Date: day, Amount: amount})
	}
	sort.Slice(report.Series, func(i, j int) bool {
		return report.Series[i].Date.Before(report.Series[j].Date)
	})

	return report, nil
}

// Summarize builds a fresh report and forwards it, together with the
// invoice ledger, to the summary collaborator. Stored data is never touched.
func (s *reportService) Summarize(ctx context.Context) (string, error) {
	if s.metrics != nil {
		s.metrics.SummaryRequests.Inc()
	}

	report, err := s.BuildReport(ctx)
	if err != nil {
		return "", err
	}
	invoices, err := s.store.GetInvoices(ctx)
	if err != nil {
		return "", err
	}

	text, err := s.summarizer.Summarize(ctx, *report, invoices)
	if err != nil {
		if s.metrics != nil {
			s.metrics.SummaryFailures.Inc()
		}
		s.log.Error().Err(err).Msg("summary request failed")
		return "", err
	}

	s.log.Info().Int("invoice_count", report.InvoiceCount).Msg("summary generated")
	return text, nil
}

// reportCurrency prefers the saved company profile and falls back to the
// configured default.
func (s *reportService) reportCurrency(ctx context.Context) string {
	profile, err := s.store.GetCompanyProfile(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrProfileNotSet) && !domain.IsCode(err, domain.ENOTFOUND) {
			s.log.Warn().Err(err).Msg("company profile unavailable, using default currency")
		}
		return s.currency
	}
	if profile.Currency == "" {
		return s.currency
	}
	return profile.Currency
}
