package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/facturio/facturio/internal/domain"
)

// InvoiceHandler serves the invoice builder and lifecycle endpoints.
type InvoiceHandler struct {
	invoices domain.InvoiceService
}

func NewInvoiceHandler(invoices domain.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

type taxSettingRequest struct {
	Name string          `json:"name"`
	Rate decimal.Decimal `json:"rate"`
}

type createItemRequest struct {
	ProductID string          `json:"productId" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
}

type createInvoiceRequest struct {
	ClientID   string              `json:"clientId" validate:"required"`
	Items      []createItemRequest `json:"items" validate:"dive"`
	Tax        *taxSettingRequest  `json:"tax"`
	Retention  *taxSettingRequest  `json:"retention"`
	Date       *time.Time          `json:"date"`
	MarkIssued bool                `json:"markIssued"`
}

// Create handles POST /api/invoices.
func (h *InvoiceHandler) Create(c echo.Context) error {
	var req createInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return domain.Invalid("invoice.create", "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	params := domain.CreateInvoiceParams{
		ClientID:   req.ClientID,
		MarkIssued: req.MarkIssued,
	}
	if req.Date != nil {
		params.Date = *req.Date
	}
	for _, item := range req.Items {
		params.Items = append(params.Items, domain.CreateItemParams{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	if req.Tax != nil {
		params.Tax = &domain.TaxSetting{Name: req.Tax.Name, Rate: req.Tax.Rate, Type: domain.TaxTypeTax}
	}
	if req.Retention != nil {
		params.Retention = &domain.TaxSetting{Name: req.Retention.Name, Rate: req.Retention.Rate, Type: domain.TaxTypeRetention}
	}

	inv, err := h.invoices.CreateInvoice(c.Request().Context(), params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, inv)
}

// List handles GET /api/invoices. An optional ?number= filter resolves a
// single invoice by serial.
func (h *InvoiceHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	if number := c.QueryParam("number"); number != "" {
		inv, err := h.invoices.GetInvoiceByNumber(ctx, number)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, []domain.Invoice{*inv})
	}

	invoices, err := h.invoices.ListInvoices(ctx)
	if err != nil {
		return err
	}
	if invoices == nil {
		invoices = []domain.Invoice{}
	}
	return c.JSON(http.StatusOK, invoices)
}

// Get handles GET /api/invoices/:id.
func (h *InvoiceHandler) Get(c echo.Context) error {
	inv, err := h.invoices.GetInvoice(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, inv)
}

type statusRequest struct {
	Status domain.Status `json:"status" validate:"required,oneof=draft pending paid"`

	// Force bypasses the transition table (administrative override).
	Force bool `json:"force"`
}

// UpdateStatus handles POST /api/invoices/:id/status.
func (h *InvoiceHandler) UpdateStatus(c echo.Context) error {
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return domain.Invalid("invoice.status", "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	id := c.Param("id")

	var (
		inv *domain.Invoice
		err error
	)
	if req.Force {
		inv, err = h.invoices.ForceInvoiceStatus(ctx, id, req.Status)
	} else {
		inv, err = h.invoices.TransitionInvoice(ctx, id, req.Status)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, inv)
}
