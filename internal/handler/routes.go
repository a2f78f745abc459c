package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/facturio/facturio/internal/csvimport"
	"github.com/facturio/facturio/internal/domain"
	"github.com/facturio/facturio/internal/middleware"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Catalog        domain.CatalogService
	Invoices       domain.InvoiceService
	Reports        domain.ReportService
	ImportDefaults csvimport.Defaults
	Logger         zerolog.Logger
	Registry       *prometheus.Registry // nil disables /metrics
}

// Register wires middleware and routes onto the echo instance.
func Register(e *echo.Echo, deps Deps) {
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewRequestValidator()
	e.HTTPErrorHandler = HTTPErrorHandler(deps.Logger)

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Logger))
	if deps.Registry != nil {
		e.Use(middleware.NewMetrics(deps.Registry, "facturio").Middleware())
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api")

	catalog := NewCatalogHandler(deps.Catalog)
	api.POST("/clients", catalog.CreateClient)
	api.GET("/clients", catalog.ListClients)
	api.GET("/clients/:id", catalog.GetClient)
	api.POST("/products", catalog.CreateProduct)
	api.GET("/products", catalog.ListProducts)
	api.GET("/products/:id", catalog.GetProduct)
	api.GET("/company", catalog.GetCompany)
	api.PUT("/company", catalog.SaveCompany)

	invoices := NewInvoiceHandler(deps.Invoices)
	api.POST("/invoices", invoices.Create)
	api.GET("/invoices", invoices.List)
	api.GET("/invoices/:id", invoices.Get)
	api.POST("/invoices/:id/status", invoices.UpdateStatus)

	reports := NewReportHandler(deps.Reports)
	api.GET("/reports/summary", reports.Summary)
	api.POST("/reports/ai-summary", reports.AISummary)

	imports := NewImportHandler(deps.Catalog, deps.ImportDefaults)
	api.POST("/import/clients", imports.Clients)
	api.POST("/import/products", imports.Products)
}
