// Package store defines the storage collaborator the engine reads from and
// writes to. Collections move whole: a read returns the entire collection,
// a save replaces it. Any persistence technology can sit behind the
// interface as long as read-after-write is consistent within one process.
package store

import (
	"context"

	"github.com/facturio/facturio/internal/domain"
)

// Store is the whole-collection persistence port.
//
// Implementations wrap their failures as ECOLLABORATOR domain errors; the
// engine surfaces those to the caller without crashing or corrupting its
// in-memory state.
type Store interface {
	GetClients(ctx context.Context) ([]domain.Client, error)
	SaveClients(ctx context.Context, clients []domain.Client) error

	GetProducts(ctx context.Context) ([]domain.Product, error)
	SaveProducts(ctx context.Context, products []domain.Product) error

	GetInvoices(ctx context.Context) ([]domain.Invoice, error)

	// SaveInvoices replaces the invoice collection. Implementations backed
	// by a store shared across processes re-check invoice number
	// uniqueness inside their write transaction and return an
	// ENUMBERCONFLICT error when another writer won the race.
	SaveInvoices(ctx context.Context, invoices []domain.Invoice) error

	GetCompanyProfile(ctx context.Context) (*domain.CompanyProfile, error)
	SaveCompanyProfile(ctx context.Context, profile domain.CompanyProfile) error
}

// ErrProfileNotSet is returned by GetCompanyProfile before a profile has
// been saved.
var ErrProfileNotSet = domain.Errorf(domain.ENOTFOUND, "store.company_profile", "company profile not configured")
