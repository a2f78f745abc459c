package service

import (
	"github.com/facturio/facturio/internal/domain"
)

// Catalog errors - use domain.ENOTFOUND / domain.ECONFLICT
var (
	ErrClientNotFound       = domain.Errorf(domain.ENOTFOUND, "", "Client not found")
	ErrProductNotFound      = domain.Errorf(domain.ENOTFOUND, "", "Product not found")
	ErrDuplicateTaxID       = domain.Errorf(domain.ECONFLICT, "", "A client with this tax id already exists")
	ErrDuplicateProductCode = domain.Errorf(domain.ECONFLICT, "", "A product with this code already exists")
)

// Invoice errors
var (
	ErrInvoiceNotFound = domain.Errorf(domain.ENOTFOUND, "", "Invoice not found")
	ErrNumberExhausted = domain.Errorf(domain.ENUMBERCONFLICT, "", "Could not assign a unique invoice number")
)
