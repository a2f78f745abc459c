// Package postgres implements the Store port on PostgreSQL. Each
// collection lives as a single JSONB document in the collections table,
// keeping the whole-collection read/replace semantics of the port while
// letting the database arbitrate cross-process writes.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/facturio/facturio/internal/domain"
	"github.com/facturio/facturio/internal/store"
)

const (
	colClients  = "clients"
	colProducts = "products"
	colInvoices = "invoices"
	colProfile  = "company_profile"
)

type Store struct {
	pool *pgxpool.Pool
}

var _ store.Store = (*Store)(nil)

// New creates a postgres-backed store on an existing connection pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) GetClients(ctx context.Context) ([]domain.Client, error) {
	var clients []domain.Client
	if err := s.getCollection(ctx, colClients, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

func (s *Store) SaveClients(ctx context.Context, clients []domain.Client) error {
	return s.saveCollection(ctx, colClients, clients)
}

func (s *Store) GetProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := s.getCollection(ctx, colProducts, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Store) SaveProducts(ctx context.Context, products []domain.Product) error {
	return s.saveCollection(ctx, colProducts, products)
}

func (s *Store) GetInvoices(ctx context.Context) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	if err := s.getCollection(ctx, colInvoices, &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

// SaveInvoices replaces the invoice collection. The row is locked and the
// current numbers re-checked inside the transaction: when another process
// persisted one of our numbers for a different invoice since we read the
// collection, the save fails with ENUMBERCONFLICT and the caller
// re-requests a number.
func (s *Store) SaveInvoices(ctx context.Context, invoices []domain.Invoice) error {
	const op = "postgres.save_invoices"

	doc, err := json.Marshal(invoices)
	if err != nil {
		return domain.Internal(err, op, "failed to encode invoices")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.WrapError(err, domain.ECOLLABORATOR, op, "storage unavailable")
	}
	defer tx.Rollback(ctx)

	var current []byte
	err = tx.QueryRow(ctx,
		`SELECT doc FROM collections WHERE name = $1 FOR UPDATE`, colInvoices,
	).Scan(&current)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return domain.WrapError(err, domain.ECOLLABORATOR, op, "failed to read current invoices")
	}

	if len(current) > 0 {
		var persisted []domain.Invoice
		if err := json.Unmarshal(current, &persisted); err != nil {
			return domain.Internal(err, op, "failed to decode stored invoices")
		}
		byNumber := make(map[string]string, len(persisted))
		for _, inv := range persisted {
			byNumber[inv.Number] = inv.ID
		}
		for _, inv := range invoices {
			if id, ok := byNumber[inv.Number]; ok && id != inv.ID {
				return domain.Errorf(domain.ENUMBERCONFLICT, op,
					"invoice number %s already assigned by a concurrent writer", inv.Number)
			}
		}
	}

	if err := upsert(ctx, tx, colInvoices, doc); err != nil {
		return domain.WrapError(err, domain.ECOLLABORATOR, op, "failed to persist invoices")
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.WrapError(err, domain.ECOLLABORATOR, op, "failed to commit invoices")
	}
	return nil
}

func (s *Store) GetCompanyProfile(ctx context.Context) (*domain.CompanyProfile, error) {
	var profile *domain.CompanyProfile
	if err := s.getCollection(ctx, colProfile, &profile); err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, store.ErrProfileNotSet
	}
	return profile, nil
}

func (s *Store) SaveCompanyProfile(ctx context.Context, profile domain.CompanyProfile) error {
	return s.saveCollection(ctx, colProfile, &profile)
}

// getCollection loads one collection document into v. A missing row leaves
// v at its zero value: an empty store behaves as empty collections.
func (s *Store) getCollection(ctx context.Context, name string, v any) error {
	op := fmt.Sprintf("postgres.get_%s", name)

	var doc []byte
	err := s.pool.QueryRow(ctx,
		`SELECT doc FROM collections WHERE name = $1`, name,
	).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return domain.WrapError(err, domain.ECOLLABORATOR, op, "storage unavailable")
	}
	if err := json.Unmarshal(doc, v); err != nil {
		return domain.Internal(err, op, "failed to decode stored collection")
	}
	return nil
}

func (s *Store) saveCollection(ctx context.Context, name string, v any) error {
	op := fmt.Sprintf("postgres.save_%s", name)

	doc, err := json.Marshal(v)
	if err != nil {
		return domain.Internal(err, op, "failed to encode collection")
	}
	if err := upsert(ctx, s.pool, name, doc); err != nil {
		return domain.WrapError(err, domain.ECOLLABORATOR, op, "storage unavailable")
	}
	return nil
}

// execer covers both the pool and an open transaction.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func upsert(ctx context.Context, db execer, name string, doc []byte) error {
	_, err := db.Exec(ctx,
		`INSERT INTO collections (name, doc, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (name) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`,
		name, doc)
	return err
}
