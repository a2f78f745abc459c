package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/facturio/facturio/internal/domain"
	"github.com/facturio/facturio/internal/money"
	"github.com/facturio/facturio/internal/numbering"
	"github.com/facturio/facturio/internal/store"
	"github.com/facturio/facturio/internal/telemetry"
)

// maxNumberRetries bounds how often a create retries after a persist-time
// number conflict (another process won the race for the same serial).
const maxNumberRetries = 3

type invoiceService struct {
	store     store.Store
	numbering *numbering.Authority
	metrics   *telemetry.BusinessMetrics // optional
	log       zerolog.Logger

	// createMu serializes read-assign-persist so two in-process creations
	// never draw the same serial. This is the engine's central concurrency
	// invariant.
	createMu sync.Mutex
}

// NewInvoiceService creates the invoice builder/lifecycle service.
// metrics may be nil.
func NewInvoiceService(st store.Store, auth *numbering.Authority, metrics *telemetry.BusinessMetrics, log zerolog.Logger) domain.InvoiceService {
	return &invoiceService{
		store:     st,
		numbering: auth,
		metrics:   metrics,
		log:       log.With().Str("component", "invoice-service").Logger(),
	}
}

// CreateInvoice validates, snapshots, computes, numbers and persists a new
// invoice. Nothing is persisted on any validation failure.
func (s *invoiceService) CreateInvoice(ctx context.Context, params domain.CreateInvoiceParams) (*domain.Invoice, error) {
	const op = "invoice.create"

	client, err := s.resolveClient(ctx, op, params.ClientID)
	if err != nil {
		return nil, err
	}

	if params.Tax != nil {
		if err := params.Tax.Validate(op, "tax.rate"); err != nil {
			return nil, err
		}
	}
	if params.Retention != nil {
		if err := params.Retention.Validate(op, "retention.rate"); err != nil {
			return nil, err
		}
	}

	items, err := s.buildItems(ctx, op, params.Items)
	if err != nil {
		return nil, err
	}

	totals, err := money.Compute(items, money.RateOrZero(params.Tax), money.RateOrZero(params.Retention))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	date := params.Date
	if date.IsZero() {
		date = now
	}

	status := domain.StatusDraft
	if params.MarkIssued {
		status = domain.StatusPending
	}

	inv := domain.Invoice{
		ID:              uuid.New().String(),
		ClientID:        client.ID,
		ClientName:      client.Name,
		ClientAddress:   client.Address,
		ClientTaxID:     client.TaxID,
		Date:            date,
		Items:           items,
		Subtotal:        totals.Subtotal,
		TaxRate:         money.RateOrZero(params.Tax),
		TaxAmount:       totals.TaxAmount,
		RetentionRate:   money.RateOrZero(params.Retention),
		RetentionAmount: totals.RetentionAmount,
		Total:           totals.Total,
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if params.Tax != nil {
		inv.TaxName = params.Tax.Name
	}
	if params.Retention != nil {
		inv.RetentionName = params.Retention.Name
	}

	if err := s.persistNew(ctx, &inv); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("invoice_id", inv.ID).
		Str("number", inv.Number).
		Str("client_id", inv.ClientID).
		Str("status", string(inv.Status)).
		Str("total", inv.Total.StringFixed(2)).
		Msg("invoice created")

	if s.metrics != nil {
		s.metrics.InvoicesCreated.WithLabelValues(string(inv.Status)).Inc()
		s.metrics.InvoiceValue.Observe(inv.Total.InexactFloat64())
		s.metrics.InvoiceItemCount.Observe(float64(len(inv.Items)))
	}

	return &inv, nil
}

// persistNew assigns a serial under the creation lock and appends the
// invoice to the persisted collection. A persist-time number conflict
// (shared store raced by another process) triggers a bounded retry with a
// freshly read collection.
func (s *invoiceService) persistNew(ctx context.Context, inv *domain.Invoice) error {
	s.createMu.Lock()
	defer s.createMu.Unlock()

	for attempt := 0; attempt < maxNumberRetries; attempt++ {
		invoices, err := s.store.GetInvoices(ctx)
		if err != nil {
			return err
		}

		numbers := make([]string, len(invoices))
		for i, existing := range invoices {
			numbers[i] = existing.Number
		}
		inv.Number = s.numbering.Next(numbers)

		err = s.store.SaveInvoices(ctx, append(invoices, *inv))
		if err == nil {
			return nil
		}
		if !domain.IsCode(err, domain.ENUMBERCONFLICT) {
			return err
		}

		if s.metrics != nil {
			s.metrics.NumberConflicts.Inc()
		}
		s.log.Warn().
			Str("number", inv.Number).
			Int("attempt", attempt+1).
			Msg("invoice number conflict, retrying with a fresh serial")
	}

	return ErrNumberExhausted
}

func (s *invoiceService) resolveClient(ctx context.Context, op, clientID string) (*domain.Client, error) {
	if clientID == "" {
		return nil, domain.NewValidationError(op, "clientId", "is required")
	}

	clients, err := s.store.GetClients(ctx)
	if err != nil {
		return nil, err
	}
	for i := range clients {
		if clients[i].ID == clientID {
			// A client imported with defaulted fields is still expected to
			// satisfy the creation invariants before it can be invoiced.
			if err := clients[i].Validate(op); err != nil {
				return nil, err
			}
			return &clients[i], nil
		}
	}
	return nil, domain.NewValidationError(op, "clientId", fmt.Sprintf("unknown client: %s", clientID))
}

// buildItems resolves product references and snapshots name and price into
// invoice items. Every failing item names its position and field.
func (s *invoiceService) buildItems(ctx context.Context, op string, params []domain.CreateItemParams) ([]domain.InvoiceItem, error) {
	if len(params) == 0 {
		// A zero-item draft is permitted and yields zero totals.
		return nil, nil
	}

	products, err := s.store.GetProducts(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var verr error
	items := make([]domain.InvoiceItem, 0, len(params))
	for i, item := range params {
		product, ok := byID[item.ProductID]
		if !ok {
			verr = domain.AddFieldError(verr, fmt.Sprintf("items[%d].productId", i),
				fmt.Sprintf("unknown product: %s", item.ProductID))
			continue
		}
		if !item.Quantity.IsPositive() {
			verr = domain.AddFieldError(verr, fmt.Sprintf("items[%d].quantity", i),
				"must be greater than zero")
			continue
		}
		items = append(items, domain.InvoiceItem{
			ID:          uuid.New().String(),
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   product.Price,
			Total:       money.ItemTotal(item.Quantity, product.Price),
		})
	}
	if verr != nil {
		verr.(*domain.ValidationError).Op = op
		return nil, verr
	}
	return items, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*domain.Invoice, error) {
	invoices, err := s.store.GetInvoices(ctx)
	if err != nil {
		return nil, err
	}
	for i := range invoices {
		if invoices[i].ID == id {
			return &invoices[i], nil
		}
	}
	return nil, ErrInvoiceNotFound
}

func (s *invoiceService) GetInvoiceByNumber(ctx context.Context, number string) (*domain.Invoice, error) {
	invoices, err := s.store.GetInvoices(ctx)
	if err != nil {
		return nil, err
	}
	for i := range invoices {
		if invoices[i].Number == number {
			return &invoices[i], nil
		}
	}
	return nil, ErrInvoiceNotFound
}

func (s *invoiceService) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	return s.store.GetInvoices(ctx)
}

func (s *invoiceService) TransitionInvoice(ctx context.Context, id string, to domain.Status) (*domain.Invoice, error) {
	return s.updateStatus(ctx, id, to, false)
}

func (s *invoiceService) ForceInvoiceStatus(ctx context.Context, id string, to domain.Status) (*domain.Invoice, error) {
	return s.updateStatus(ctx, id, to, true)
}

// updateStatus applies a status change and persists only that change. The
// invoice's financial fields are never touched after creation.
func (s *invoiceService) updateStatus(ctx context.Context, id string, to domain.Status, forced bool) (*domain.Invoice, error) {
	s.createMu.Lock()
	defer s.createMu.Unlock()

	invoices, err := s.store.GetInvoices(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range invoices {
		if invoices[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrInvoiceNotFound
	}

	from := invoices[idx].Status
	if forced {
		err = invoices[idx].ForceStatus(to)
	} else {
		err = invoices[idx].Transition(to)
	}
	if err != nil {
		return nil, err
	}
	invoices[idx].UpdatedAt = time.Now().UTC()

	if err := s.store.SaveInvoices(ctx, invoices); err != nil {
		return nil, err
	}

	event := s.log.Info().
		Str("invoice_id", id).
		Str("from", string(from)).
		Str("to", string(to))
	if forced {
		event = event.Bool("forced", true)
	}
	event.Msg("invoice status updated")

	if s.metrics != nil {
		s.metrics.StatusTransitions.WithLabelValues(string(from), string(to), fmt.Sprintf("%t", forced)).Inc()
	}

	inv := invoices[idx]
	return &inv, nil
}
