package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TaxType distinguishes amounts added to an invoice total from amounts
// withheld from it.
type TaxType string

const (
	TaxTypeTax       TaxType = "tax"       // increases the total
	TaxTypeRetention TaxType = "retention" // decreases the total
)

// TaxSetting names a rate applied to an invoice subtotal, e.g. IVA 16%
// or an ISR retention.
type TaxSetting struct {
	Name string          `json:"name"`
	Rate decimal.Decimal `json:"rate"` // fraction, e.g. 0.16
	Type TaxType         `json:"type"`
}

// Validate rejects negative rates. Zero rates are permitted and behave as
// an absent setting.
func (t *TaxSetting) Validate(op, field string) error {
	if t.Rate.IsNegative() {
		return NewValidationError(op, field, "rate must not be negative")
	}
	return nil
}

// InvoiceItem is one line of an invoice. ProductName and UnitPrice are
// snapshots taken at creation time; Total is quantity times unit price,
// rounded to 2 decimals once, when the item is created.
type InvoiceItem struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Total       decimal.Decimal `json:"total"`
}

// Invoice is a financially consistent invoice record. All monetary fields
// are fixed at creation; only Status changes afterwards, through a
// validated transition.
type Invoice struct {
	ID     string `json:"id"`
	Number string `json:"number"` // human-facing sequential serial, unique

	// Client snapshot at creation time.
	ClientID      string `json:"clientId"`
	ClientName    string `json:"clientName"`
	ClientAddress string `json:"clientAddress"`
	ClientTaxID   string `json:"clientTaxId"`

	Date  time.Time     `json:"date"`
	Items []InvoiceItem `json:"items"`

	Subtotal        decimal.Decimal `json:"subtotal"`
	TaxName         string          `json:"taxName,omitempty"`
	TaxRate         decimal.Decimal `json:"taxRate"`
	TaxAmount       decimal.Decimal `json:"taxAmount"`
	RetentionName   string          `json:"retentionName,omitempty"`
	RetentionRate   decimal.Decimal `json:"retentionRate"`
	RetentionAmount decimal.Decimal `json:"retentionAmount"`
	Total           decimal.Decimal `json:"total"`

	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Transition moves the invoice to a new status if the transition table
// allows it.
func (inv *Invoice) Transition(to Status) error {
	if err := CheckTransition(inv.Status, to); err != nil {
		return err
	}
	inv.Status = to
	return nil
}

// ForceStatus is the administrative override: it sets any valid status
// without consulting the transition table. Callers are expected to surface
// the override explicitly.
func (inv *Invoice) ForceStatus(to Status) error {
	if !to.Valid() {
		return Errorf(EINVALID, "invoice.force_status", "unknown status %q", to)
	}
	inv.Status = to
	return nil
}

// CreateInvoiceParams contains parameters for building an invoice.
type CreateInvoiceParams struct {
	ClientID  string
	Items     []CreateItemParams
	Tax       *TaxSetting // nil means 0%
	Retention *TaxSetting // nil means 0%
	Date      time.Time   // zero value means "now"

	// MarkIssued starts the invoice at pending instead of draft. Both are
	// legitimate creation-time choices, not transitions.
	MarkIssued bool
}

// CreateItemParams references a product by id; name and unit price are
// snapshot from the product at build time.
type CreateItemParams struct {
	ProductID string
	Quantity  decimal.Decimal
}

// InvoiceService builds invoices and governs their lifecycle.
type InvoiceService interface {
	// CreateInvoice validates the parameters, snapshots client and product
	// data, computes totals, assigns an id and a unique sequential number,
	// persists the invoice and returns it. Validation failures persist
	// nothing.
	CreateInvoice(ctx context.Context, params CreateInvoiceParams) (*Invoice, error)

	// GetInvoice retrieves an invoice by id.
	GetInvoice(ctx context.Context, id string) (*Invoice, error)

	// GetInvoiceByNumber retrieves an invoice by its serial number.
	GetInvoiceByNumber(ctx context.Context, number string) (*Invoice, error)

	// ListInvoices returns the full invoice collection.
	ListInvoices(ctx context.Context) ([]Invoice, error)

	// TransitionInvoice applies a status change through the transition
	// table and persists only the status.
	TransitionInvoice(ctx context.Context, id string, to Status) (*Invoice, error)

	// ForceInvoiceStatus applies a status change bypassing the transition
	// table (administrative override).
	ForceInvoiceStatus(ctx context.Context, id string, to Status) (*Invoice, error)
}
