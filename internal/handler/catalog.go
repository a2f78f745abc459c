package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/facturio/facturio/internal/domain"
)

// CatalogHandler serves the client, product and company profile endpoints.
type CatalogHandler struct {
	catalog domain.CatalogService
}

func NewCatalogHandler(catalog domain.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

type clientRequest struct {
	Name    string `json:"name" validate:"required"`
	TaxID   string `json:"taxId" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Address string `json:"address" validate:"required"`
	City    string `json:"city"`
	Zip     string `json:"zip" validate:"required"`
	Phone   string `json:"phone"`
	Country string `json:"country"`
}

// CreateClient handles POST /api/clients.
func (h *CatalogHandler) CreateClient(c echo.Context) error {
	var req clientRequest
	if err := c.Bind(&req); err != nil {
		return domain.Invalid("client.create", "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	client, err := h.catalog.CreateClient(c.Request().Context(), domain.Client{
		Name:    req.Name,
		TaxID:   req.TaxID,
		Email:   req.Email,
		Address: req.Address,
		City:    req.City,
		Zip:     req.Zip,
		Phone:   req.Phone,
		Country: req.Country,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, client)
}

// ListClients handles GET /api/clients.
func (h *CatalogHandler) ListClients(c echo.Context) error {
	clients, err := h.catalog.ListClients(c.Request().Context())
	if err != nil {
		return err
	}
	if clients == nil {
		clients = []domain.Client{}
	}
	return c.JSON(http.StatusOK, clients)
}

// GetClient handles GET /api/clients/:id.
func (h *CatalogHandler) GetClient(c echo.Context) error {
	client, err := h.catalog.GetClient(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, client)
}

type productRequest struct {
	Code        string          `json:"code" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Unit        string          `json:"unit" validate:"required"`
	Description string          `json:"description"`
}

// CreateProduct handles POST /api/products.
func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return domain.Invalid("product.create", "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	product, err := h.catalog.CreateProduct(c.Request().Context(), domain.Product{
		Code:        req.Code,
		Name:        req.Name,
		Price:       req.Price,
		Unit:        domain.Unit(req.Unit),
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, product)
}

// ListProducts handles GET /api/products.
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	products, err := h.catalog.ListProducts(c.Request().Context())
	if err != nil {
		return err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return c.JSON(http.StatusOK, products)
}

// GetProduct handles GET /api/products/:id.
func (h *CatalogHandler) GetProduct(c echo.Context) error {
	product, err := h.catalog.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

// GetCompany handles GET /api/company.
func (h *CatalogHandler) GetCompany(c echo.Context) error {
	profile, err := h.catalog.GetCompanyProfile(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

type companyRequest struct {
	Name     string `json:"name" validate:"required"`
	TaxID    string `json:"taxId"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Zip      string `json:"zip"`
	Country  string `json:"country"`
	Currency string `json:"currency" validate:"required"`
}

// SaveCompany handles PUT /api/company.
func (h *CatalogHandler) SaveCompany(c echo.Context) error {
	var req companyRequest
	if err := c.Bind(&req); err != nil {
		return domain.Invalid("company.save", "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	profile := domain.CompanyProfile{
		Name:     req.Name,
		TaxID:    req.TaxID,
		Email:    req.Email,
		Address:  req.Address,
		City:     req.City,
		Zip:      req.Zip,
		Country:  req.Country,
		Currency: req.Currency,
	}
	if err := h.catalog.SaveCompanyProfile(c.Request().Context(), profile); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}
