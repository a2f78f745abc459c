package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturio/facturio/internal/domain"
	"github.com/facturio/facturio/internal/store/memory"
	"github.com/facturio/facturio/internal/summary"
)

func seedInvoices(t *testing.T, st *memory.Store, invoices []domain.Invoice) {
	t.Helper()
	require.NoError(t, st.SaveInvoices(context.Background(), invoices))
}

func testInvoice(number string, day time.Time, total string, status domain.Status) domain.Invoice {
	return domain.Invoice{
		ID:         "inv_" + number,
		Number:     number,
		ClientName: "Cliente de Prueba",
		Date:       day,
		Total:      decimal.RequireFromString(total),
		Status:     status,
	}
}

func TestBuildReportEmptyCollection(t *testing.T) {
	st := memory.New()
	svc := NewReportService(st, summary.Disabled{}, nil, "MXN", zerolog.Nop())

	report, err := svc.BuildReport(context.Background())
	require.NoError(t, err)

	assert.True(t, report.TotalSales.IsZero())
	assert.Zero(t, report.InvoiceCount)
	assert.True(t, report.AverageTicket.IsZero())
	assert.Empty(t, report.Series)
	assert.Equal(t, "MXN", report.Currency)
}

func TestBuildReport(t *testing.T) {
	st := memory.New()
	svc := NewReportService(st, summary.Disabled{}, nil, "MXN", zerolog.Nop())

	day1 := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	day2 := time.Date(2025, 3, 12, 17, 0, 0, 0, time.UTC)
	seedInvoices(t, st, []domain.Invoice{
		testInvoice("INV-0001", day1, "232.00", domain.StatusPaid),
		testInvoice("INV-0002", day1, "100.00", domain.StatusDraft),
		testInvoice("INV-0003", day2, "50.01", domain.StatusPending),
	})

	report, err := svc.BuildReport(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.InvoiceCount)
	assert.True(t, report.TotalSales.Equal(decimal.RequireFromString("382.01")), "total = %s", report.TotalSales)
	assert.True(t, report.AverageTicket.Equal(decimal.RequireFromString("127.34")), "avg = %s", report.AverageTicket)

	require.Len(t, report.Series, 2)
	assert.True(t, report.Series[0].Date.Before(report.Series[1].Date))
	assert.True(t, report.Series[0].Amount.Equal(decimal.RequireFromString("332.00")))
	assert.True(t, report.Series[1].Amount.Equal(decimal.RequireFromString("50.01")))
}

func TestBuildReportCurrencyFromProfile(t *testing.T) {
	st := memory.New()
	require.NoError(t, st.SaveCompanyProfile(context.Background(), domain.CompanyProfile{
		Name:     "Empresa Demo",
		Currency: "USD",
	}))

	svc := NewReportService(st, summary.Disabled{}, nil, "MXN", zerolog.Nop())
	report, err := svc.BuildReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "USD", report.Currency)
}

func TestSummarize(t *testing.T) {
	st := memory.New()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	seedInvoices(t, st, []domain.Invoice{
		testInvoice("INV-0001", day, "232.00", domain.StatusPaid),
	})

	var gotReport domain.Report
	mock := &summary.MockSummarizer{
		SummarizeFunc: func(ctx context.Context, report domain.Report, invoices []domain.Invoice) (string, error) {
			gotReport = report
			require.Len(t, invoices, 1)
			return "Un total facturado de 232.00 MXN en una sola factura, ya pagada.", nil
		},
	}

	svc := NewReportService(st, mock, nil, "MXN", zerolog.Nop())
	text, err := svc.Summarize(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, text)
	assert.Equal(t, 1, gotReport.InvoiceCount)
	assert.True(t, gotReport.TotalSales.Equal(decimal.RequireFromString("232.00")))
}

func TestSummarizeCollaboratorFailure(t *testing.T) {
	st := memory.New()
	svc := NewReportService(st, summary.Disabled{}, nil, "MXN", zerolog.Nop())

	_, err := svc.Summarize(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.ECOLLABORATOR, domain.ErrorCode(err))

	// A failed summary never touches stored data.
	invoices, err := st.GetInvoices(context.Background())
	require.NoError(t, err)
	assert.Empty(t, invoices)
}
