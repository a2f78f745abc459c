package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/facturio/facturio/internal/domain"
	"github.com/facturio/facturio/internal/store"
	"github.com/facturio/facturio/internal/telemetry"
	"github.com/facturio/facturio/internal/xid"
)

type catalogService struct {
	store   store.Store
	metrics *telemetry.BusinessMetrics // optional
	log     zerolog.Logger

	// mu serializes read-modify-write cycles on the client and product
	// collections.
	mu sync.Mutex
}

// NewCatalogService creates the client/product catalog service.
// metrics may be nil.
func NewCatalogService(st store.Store, metrics *telemetry.BusinessMetrics, log zerolog.Logger) domain.CatalogService {
	return &catalogService{
		store:   st,
		metrics: metrics,
		log:     log.With().Str("component", "catalog-service").Logger(),
	}
}

func (s *catalogService) CreateClient(ctx context.Context, client domain.Client) (*domain.Client, error) {
	const op = "client.create"

	client.Normalize()
	if err := client.Validate(op); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	clients, err := s.store.GetClients(ctx)
	if err != nil {
		return nil, err
	}
	for _, existing := range clients {
		if existing.TaxID == client.TaxID {
			return nil, ErrDuplicateTaxID
		}
	}

	client.ID = xid.New("cli")
	if err := s.store.SaveClients(ctx, append(clients, client)); err != nil {
		return nil, err
	}

	s.log.Info().Str("client_id", client.ID).Str("tax_id", client.TaxID).Msg("client created")
	return &client, nil
}

func (s *catalogService) ListClients(ctx context.Context) ([]domain.Client, error) {
	return s.store.GetClients(ctx)
}

func (s *catalogService) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	clients, err := s.store.GetClients(ctx)
	if err != nil {
		return nil, err
	}
	for i := range clients {
		if clients[i].ID == id {
			return &clients[i], nil
		}
	}
	return nil, ErrClientNotFound
}

func (s *catalogService) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	const op = "product.create"

	product.Normalize()
	if err := product.Validate(op); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.store.GetProducts(ctx)
	if err != nil {
		return nil, err
	}
	for _, existing := range products {
		if existing.Code == product.Code {
			return nil, ErrDuplicateProductCode
		}
	}

	product.ID = xid.New("prd")
	if err := s.store.SaveProducts(ctx, append(products, product)); err != nil {
		return nil, err
	}

	s.log.Info().Str("product_id", product.ID).Str("code", product.Code).Msg("product created")
	return &product, nil
}

func (s *catalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.store.GetProducts(ctx)
}

func (s *catalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	products, err := s.store.GetProducts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, ErrProductNotFound
}

// ImportClients bulk-adds clients in one save. Rows failing validation or
// colliding on tax id are skipped, never aborting the batch.
func (s *catalogService) ImportClients(ctx context.Context, incoming []domain.Client) (int, error) {
	const op = "client.import"

	s.mu.Lock()
	defer s.mu.Unlock()

	clients, err := s.store.GetClients(ctx)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(clients))
	for _, c := range clients {
		seen[c.TaxID] = true
	}

	imported := 0
	for i, client := range incoming {
		client.Normalize()
		if err := client.Validate(op); err != nil {
			s.rejectRow("clients", i, err)
			continue
		}
		if seen[client.TaxID] {
			s.rejectRow("clients", i, ErrDuplicateTaxID)
			continue
		}
		client.ID = xid.New("cli")
		seen[client.TaxID] = true
		clients = append(clients, client)
		imported++
	}

	if imported > 0 {
		if err := s.store.SaveClients(ctx, clients); err != nil {
			return 0, err
		}
	}

	s.log.Info().Int("imported", imported).Int("received", len(incoming)).Msg("clients imported")
	if s.metrics != nil {
		s.metrics.ImportedRows.WithLabelValues("clients").Add(float64(imported))
	}
	return imported, nil
}

// ImportProducts mirrors ImportClients for the product collection, keyed on
// product code.
func (s *catalogService) ImportProducts(ctx context.Context, incoming []domain.Product) (int, error) {
	const op = "product.import"

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.store.GetProducts(ctx)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(products))
	for _, p := range products {
		seen[p.Code] = true
	}

	imported := 0
	for i, product := range incoming {
		product.Normalize()
		if err := product.Validate(op); err != nil {
			s.rejectRow("products", i, err)
			continue
		}
		if seen[product.Code] {
			s.rejectRow("products", i, ErrDuplicateProductCode)
			continue
		}
		product.ID = xid.New("prd")
		seen[product.Code] = true
		products = append(products, product)
		imported++
	}

	if imported > 0 {
		if err := s.store.SaveProducts(ctx, products); err != nil {
			return 0, err
		}
	}

	s.log.Info().Int("imported", imported).Int("received", len(incoming)).Msg("products imported")
	if s.metrics != nil {
		s.metrics.ImportedRows.WithLabelValues("products").Add(float64(imported))
	}
	return imported, nil
}

func (s *catalogService) rejectRow(kind string, index int, err error) {
	s.log.Warn().Str("kind", kind).Int("row", index).Err(err).Msg("import row rejected")
	if s.metrics != nil {
		s.metrics.RejectedRows.WithLabelValues(kind).Inc()
	}
}

func (s *catalogService) GetCompanyProfile(ctx context.Context) (*domain.CompanyProfile, error) {
	return s.store.GetCompanyProfile(ctx)
}

func (s *catalogService) SaveCompanyProfile(ctx context.Context, profile domain.CompanyProfile) error {
	const op = "company.save"

	if profile.Name == "" {
		return domain.NewValidationError(op, "name", "is required")
	}
	if profile.Currency == "" {
		return domain.NewValidationError(op, "currency", "is required")
	}
	return s.store.SaveCompanyProfile(ctx, profile)
}
