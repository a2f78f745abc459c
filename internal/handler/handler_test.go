package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturio/facturio/internal/csvimport"
	"github.com/facturio/facturio/internal/domain"
	"github.com/facturio/facturio/internal/numbering"
	"github.com/facturio/facturio/internal/service"
	"github.com/facturio/facturio/internal/store/memory"
	"github.com/facturio/facturio/internal/summary"
)

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestServer(t *testing.T, summarizer summary.Summarizer) (*echo.Echo, *memory.Store) {
	t.Helper()

	st := memory.New()
	log := zerolog.Nop()
	if summarizer == nil {
		summarizer = summary.Disabled{}
	}

	e := echo.New()
	Register(e, Deps{
		Catalog:  service.NewCatalogService(st, nil, log),
		Invoices: service.NewInvoiceService(st, numbering.NewAuthority(), nil, log),
		Reports:  service.NewReportService(st, summarizer, nil, "MXN", log),
		ImportDefaults: csvimport.Defaults{
			TaxID:   "XAXX010101000",
			Country: "México",
			Unit:    domain.UnitService,
		},
		Logger: log,
	})
	return e, st
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func seedCatalog(t *testing.T, st *memory.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, st.SaveClients(ctx, []domain.Client{{
		ID:      "cli_test",
		Name:    "Tornillos del Norte",
		TaxID:   "TNO850101AB1",
		Email:   "ventas@tornillosnorte.mx",
		Address: "Av. Universidad 123",
		Zip:     "64720",
	}}))
	require.NoError(t, st.SaveProducts(ctx, []domain.Product{{
		ID:    "prd_test",
		Code:  "CONS-HR",
		Name:  "Consultoría por hora",
		Price: mustDecimal("100.00"),
		Unit:  domain.UnitHour,
	}}))
}

func TestCreateInvoiceEndpoint(t *testing.T) {
	e, st := newTestServer(t, nil)
	seedCatalog(t, st)

	rec := doJSON(e, http.MethodPost, "/api/invoices", `{
		"clientId": "cli_test",
		"items": [{"productId": "prd_test", "quantity": "2"}],
		"tax": {"name": "IVA", "rate": "0.16"}
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var inv domain.Invoice
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &inv))
	assert.Equal(t, "INV-0001", inv.Number)
	assert.Equal(t, domain.StatusDraft, inv.Status)
	assert.Equal(t, "232", inv.Total.String())
}

func TestCreateInvoiceEndpointValidation(t *testing.T) {
	e, _ := newTestServer(t, nil)

	rec := doJSON(e, http.MethodPost, "/api/invoices", `{"items": []}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.EINVALID, resp.Error.Code)
	assert.Contains(t, resp.Error.Fields, "clientId")
}

func TestInvoiceStatusEndpoint(t *testing.T) {
	e, st := newTestServer(t, nil)
	seedCatalog(t, st)

	rec := doJSON(e, http.MethodPost, "/api/invoices", `{
		"clientId": "cli_test",
		"items": [{"productId": "prd_test", "quantity": "1"}],
		"markIssued": true
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var inv domain.Invoice
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &inv))

	rec = doJSON(e, http.MethodPost, "/api/invoices/"+inv.ID+"/status", `{"status": "paid"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Paid invoices refuse normal transitions.
	rec = doJSON(e, http.MethodPost, "/api/invoices/"+inv.ID+"/status", `{"status": "draft"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.ELIFECYCLE, resp.Error.Code)

	// The override goes through.
	rec = doJSON(e, http.MethodPost, "/api/invoices/"+inv.ID+"/status", `{"status": "draft", "force": true}`)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGetInvoiceNotFound(t *testing.T) {
	e, _ := newTestServer(t, nil)

	rec := doJSON(e, http.MethodGet, "/api/invoices/inv_missing", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.ENOTFOUND, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.RequestID)
}

func TestDuplicateClientConflict(t *testing.T) {
	e, _ := newTestServer(t, nil)

	body := `{
		"name": "Diseño Gráfico Luna",
		"taxId": "DGL920505XY9",
		"email": "hola@luna.mx",
		"address": "Calle Reforma 45",
		"zip": "06600"
	}`
	rec := doJSON(e, http.MethodPost, "/api/clients", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(e, http.MethodPost, "/api/clients", body)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestReportSummaryEndpoint(t *testing.T) {
	e, st := newTestServer(t, nil)
	seedCatalog(t, st)

	rec := doJSON(e, http.MethodPost, "/api/invoices", `{
		"clientId": "cli_test",
		"items": [{"productId": "prd_test", "quantity": "2"}],
		"tax": {"name": "IVA", "rate": "0.16"}
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/reports/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var report domain.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 1, report.InvoiceCount)
	assert.Equal(t, "232", report.TotalSales.String())
	assert.Equal(t, "MXN", report.Currency)
}

func TestAISummaryEndpoint(t *testing.T) {
	mock := &summary.MockSummarizer{
		SummarizeFunc: func(ctx context.Context, report domain.Report, invoices []domain.Invoice) (string, error) {
			return "Sin actividad de facturación todavía.", nil
		},
	}
	e, _ := newTestServer(t, mock)

	rec := doJSON(e, http.MethodPost, "/api/reports/ai-summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sin actividad")
}

func TestAISummaryCollaboratorDown(t *testing.T) {
	e, _ := newTestServer(t, summary.Disabled{})

	rec := doJSON(e, http.MethodPost, "/api/reports/ai-summary", "")
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.ECOLLABORATOR, resp.Error.Code)
}

func TestImportClientsEndpoint(t *testing.T) {
	e, st := newTestServer(t, nil)

	csvBody := strings.Join([]string{
		"name,taxid,email,address,zip",
		"Cliente Uno,AAA010101AA1,uno@example.mx,Calle 1,11111",
		"Cliente Sin Correo,BBB010101BB2,,Calle 2,22222",
	}, "\n")

	req := httptest.NewRequest(http.MethodPost, "/api/import/clients", strings.NewReader(csvBody))
	req.Header.Set(echo.HeaderContentType, "text/csv")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Imported int `json:"imported"`
		Rejected int `json:"rejected"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Imported)
	assert.Equal(t, 1, resp.Rejected)

	clients, err := st.GetClients(context.Background())
	require.NoError(t, err)
	assert.Len(t, clients, 1)
}

func TestHealthz(t *testing.T) {
	e, _ := newTestServer(t, nil)

	rec := doJSON(e, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
