package domain

import (
	"context"
	"strings"
)

// Client is a billable customer. Invoices snapshot the fields they display,
// so editing a client never changes an already issued invoice.
type Client struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	TaxID   string `json:"taxId"` // RFC or equivalent fiscal id, stored uppercase
	Email   string `json:"email"`
	Address string `json:"address"`
	City    string `json:"city,omitempty"`
	Zip     string `json:"zip"`
	Phone   string `json:"phone,omitempty"`
	Country string `json:"country,omitempty"`
}

// Normalize uppercases the fiscal id and trims surrounding whitespace from
// every field.
func (c *Client) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.TaxID = strings.ToUpper(strings.TrimSpace(c.TaxID))
	c.Email = strings.TrimSpace(c.Email)
	c.Address = strings.TrimSpace(c.Address)
	c.City = strings.TrimSpace(c.City)
	c.Zip = strings.TrimSpace(c.Zip)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Country = strings.TrimSpace(c.Country)
}

// Validate checks the creation invariants: name, taxId, email, address and
// zip must be non-empty. Each failing field is named in the returned
// ValidationError.
func (c *Client) Validate(op string) error {
	var err error
	if c.Name == "" {
		err = AddFieldError(err, "name", "is required")
	}
	if c.TaxID == "" {
		err = AddFieldError(err, "taxId", "is required")
	}
	if c.Email == "" {
		err = AddFieldError(err, "email", "is required")
	}
	if c.Address == "" {
		err = AddFieldError(err, "address", "is required")
	}
	if c.Zip == "" {
		err = AddFieldError(err, "zip", "is required")
	}
	if err != nil {
		err.(*ValidationError).Op = op
	}
	return err
}

// CatalogService manages the client and product collections.
type CatalogService interface {
	// CreateClient validates, normalizes and persists a new client.
	CreateClient(ctx context.Context, client Client) (*Client, error)

	// ListClients returns the full client collection.
	ListClients(ctx context.Context) ([]Client, error)

	// GetClient retrieves a client by id.
	GetClient(ctx context.Context, id string) (*Client, error)

	// CreateProduct validates and persists a new product.
	CreateProduct(ctx context.Context, product Product) (*Product, error)

	// ListProducts returns the full product collection.
	ListProducts(ctx context.Context) ([]Product, error)

	// GetProduct retrieves a product by id.
	GetProduct(ctx context.Context, id string) (*Product, error)

	// ImportClients bulk-adds clients, skipping rows that fail validation.
	// Returns the number imported.
	ImportClients(ctx context.Context, clients []Client) (int, error)

	// ImportProducts bulk-adds products, skipping rows that fail validation.
	ImportProducts(ctx context.Context, products []Product) (int, error)

	// GetCompanyProfile returns the issuer profile.
	GetCompanyProfile(ctx context.Context) (*CompanyProfile, error)

	// SaveCompanyProfile replaces the issuer profile.
	SaveCompanyProfile(ctx context.Context, profile CompanyProfile) error
}
