// Package memory is the in-process Store implementation used by unit tests
// and dev mode. Collections are guarded by a RWMutex and copied on the way
// in and out, so callers can never mutate stored state behind the lock.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/facturio/facturio/internal/domain"
	"github.com/facturio/facturio/internal/store"
)

type Store struct {
	mu       sync.RWMutex
	clients  []domain.Client
	products []domain.Product
	invoices []domain.Invoice
	profile  *domain.CompanyProfile
}

var _ store.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{}
}

// NewSeeded creates a store pre-loaded with a small demo catalog for dev
// mode.
func NewSeeded() *Store {
	s := New()
	s.clients = []domain.Client{
		{
			ID:      "cli-seed-0001",
			Name:    "Comercializadora del Valle SA de CV",
			TaxID:   "CVA980512QX4",
			Email:   "pagos@cvalle.example",
			Address: "Av. Insurgentes Sur 601",
			City:    "Ciudad de México",
			Zip:     "03810",
			Country: "México",
		},
		{
			ID:      "cli-seed-0002",
			Name:    "Estudio Lumbre",
			TaxID:   "ELU150330KT8",
			Email:   "facturas@lumbre.example",
			Address: "Calle 60 418",
			City:    "Mérida",
			Zip:     "97000",
			Country: "México",
		},
	}
	s.products = []domain.Product{
		{
			ID:    "prd-seed-0001",
			Code:  "CONS-HR",
			Name:  "Consultoría por hora",
			Price: decimal.NewFromInt(850),
			Unit:  domain.UnitHour,
		},
		{
			ID:          "prd-seed-0002",
			Code:        "DES-WEB",
			Name:        "Desarrollo web",
			Price:       decimal.RequireFromString("12500.00"),
			Unit:        domain.UnitService,
			Description: "Sitio institucional, entrega única",
		},
		{
			ID:    "prd-seed-0003",
			Code:  "LIC-01",
			Name:  "Licencia mensual",
			Price: decimal.RequireFromString("499.90"),
			Unit:  domain.UnitPiece,
		},
	}
	s.profile = &domain.CompanyProfile{
		Name:     "Mi Empresa SA de CV",
		TaxID:    "MEM120101AB1",
		Currency: "MXN",
		Country:  "México",
	}
	return s
}

func (s *Store) GetClients(ctx context.Context) ([]domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.clients), nil
}

func (s *Store) SaveClients(ctx context.Context, clients []domain.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients = slices.Clone(clients)
	return nil
}

func (s *Store) GetProducts(ctx context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.products), nil
}

func (s *Store) SaveProducts(ctx context.Context, products []domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = slices.Clone(products)
	return nil
}

func (s *Store) GetInvoices(ctx context.Context) ([]domain.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneInvoices(s.invoices), nil
}

func (s *Store) SaveInvoices(ctx context.Context, invoices []domain.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices = cloneInvoices(invoices)
	return nil
}

func (s *Store) GetCompanyProfile(ctx context.Context) (*domain.CompanyProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil, store.ErrProfileNotSet
	}
	profile := *s.profile
	return &profile, nil
}

func (s *Store) SaveCompanyProfile(ctx context.Context, profile domain.CompanyProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = &profile
	return nil
}

// cloneInvoices copies invoices including their item slices; items are
// owned exclusively by their parent invoice.
func cloneInvoices(invoices []domain.Invoice) []domain.Invoice {
	out := slices.Clone(invoices)
	for i := range out {
		out[i].Items = slices.Clone(out[i].Items)
	}
	return out
}
