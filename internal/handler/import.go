package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/facturio/facturio/internal/csvimport"
	"github.com/facturio/facturio/internal/domain"
)

// ImportHandler serves the CSV bulk import endpoints. Files arrive either
// as a multipart "file" part or as the raw request body.
type ImportHandler struct {
	catalog  domain.CatalogService
	defaults csvimport.Defaults
}

func NewImportHandler(catalog domain.CatalogService, defaults csvimport.Defaults) *ImportHandler {
	return &ImportHandler{catalog: catalog, defaults: defaults}
}

type importResponse struct {
	Imported int                  `json:"imported"`
	Rejected int                  `json:"rejected"`
	Errors   []csvimport.RowError `json:"errors,omitempty"`
}

// Clients handles POST /api/import/clients.
func (h *ImportHandler) Clients(c echo.Context) error {
	const op = "import.clients"

	body, err := h.openUpload(c, op)
	if err != nil {
		return err
	}
	defer body.Close()

	result, err := csvimport.Clients(body, h.defaults)
	if err != nil {
		return err
	}

	imported, err := h.catalog.ImportClients(c.Request().Context(), result.Records)
	if err != nil {
		return err
	}

	// Parse-level rejections plus rows the catalog skipped (duplicates).
	rejected := len(result.Errors) + (len(result.Records) - imported)
	return c.JSON(http.StatusOK, importResponse{
		Imported: imported,
		Rejected: rejected,
		Errors:   result.Errors,
	})
}

// Products handles POST /api/import/products.
func (h *ImportHandler) Products(c echo.Context) error {
	const op = "import.products"

	body, err := h.openUpload(c, op)
	if err != nil {
		return err
	}
	defer body.Close()

	result, err := csvimport.Products(body, h.defaults)
	if err != nil {
		return err
	}

	imported, err := h.catalog.ImportProducts(c.Request().Context(), result.Records)
	if err != nil {
		return err
	}

	rejected := len(result.Errors) + (len(result.Records) - imported)
	return c.JSON(http.StatusOK, importResponse{
		Imported: imported,
		Rejected: rejected,
		Errors:   result.Errors,
	})
}

func (h *ImportHandler) openUpload(c echo.Context, op string) (io.ReadCloser, error) {
	file, err := c.FormFile("file")
	if err == nil {
		src, err := file.Open()
		if err != nil {
			return nil, domain.Internal(err, op, "failed to open uploaded file")
		}
		return src, nil
	}

	if c.Request().Body == nil || c.Request().ContentLength == 0 {
		return nil, domain.Invalid(op, "no CSV file provided")
	}
	return c.Request().Body, nil
}
