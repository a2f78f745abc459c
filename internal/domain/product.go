package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Unit is a standardized unit-of-measure code (UN/ECE style catalog codes,
// as used on Mexican CFDI invoices).
type Unit string

const (
	UnitPiece   Unit = "H87" // piece
	UnitService Unit = "E48" // service unit
	UnitHour    Unit = "HUR"
	UnitDay     Unit = "DAY"
	UnitKilo    Unit = "KGM"
	UnitLiter   Unit = "LTR"
	UnitMeter   Unit = "MTR"
	UnitUnit    Unit = "C62" // one (dimensionless)
)

// knownUnits is the closed set accepted at product creation.
var knownUnits = map[Unit]bool{
	UnitPiece:   true,
	UnitService: true,
	UnitHour:    true,
	UnitDay:     true,
	UnitKilo:    true,
	UnitLiter:   true,
	UnitMeter:   true,
	UnitUnit:    true,
}

// Valid reports whether u is a known unit-of-measure code.
func (u Unit) Valid() bool {
	return knownUnits[u]
}

// Product is a sellable good or service. Invoice items snapshot the price
// at creation time, so later price edits never alter issued invoices.
type Product struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"` // SKU / fiscal product code
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Unit        Unit            `json:"unit"`
	Description string          `json:"description,omitempty"`
}

// Normalize trims surrounding whitespace and uppercases the code.
func (p *Product) Normalize() {
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
}

// Validate checks the creation invariants: code and name non-empty,
// price strictly positive, unit a known code.
func (p *Product) Validate(op string) error {
	var err error
	if p.Code == "" {
		err = AddFieldError(err, "code", "is required")
	}
	if p.Name == "" {
		err = AddFieldError(err, "name", "is required")
	}
	if !p.Price.IsPositive() {
		err = AddFieldError(err, "price", "must be greater than zero")
	}
	if !p.Unit.Valid() {
		err = AddFieldError(err, "unit", "unknown unit-of-measure code")
	}
	if err != nil {
		err.(*ValidationError).Op = op
	}
	return err
}
