// Package csvimport turns uploaded CSV files into client and product
// records. Headers are matched by name, not position, so exported
// spreadsheets survive column reordering.
package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/facturio/facturio/internal/domain"
)

// Defaults fills the gaps of sparse spreadsheets. A missing tax id becomes
// the generic public RFC, a missing country the issuer's country, a missing
// unit the service unit.
type Defaults struct {
	TaxID   string
	Country string
	Unit    domain.Unit
}

// RowError describes one rejected CSV line. Line numbers are 1-based and
// count the header.
type RowError struct {
	Line int    `json:"line"`
	Err  string `json:"error"`
}

// Result carries the parsed records together with per-line rejections.
// Records and Errors are independent: a bad line never blocks a good one.
type Result[T any] struct {
	Records []T        `json:"records"`
	Errors  []RowError `json:"errors,omitempty"`
}

// Clients parses a client CSV. Recognized headers: name, taxid (or rfc),
// email, address, city, zip, phone, country.
func Clients(r io.Reader, defaults Defaults) (*Result[domain.Client], error) {
	const op = "csvimport.clients"

	rows, header, err := readAll(r, op)
	if err != nil {
		return nil, err
	}

	result := &Result[domain.Client]{}
	for _, row := range rows {
		client := domain.Client{
			Name:    row.get(header, "name"),
			TaxID:   row.get(header, "taxid", "rfc"),
			Email:   row.get(header, "email"),
			Address: row.get(header, "address"),
			City:    row.get(header, "city"),
			Zip:     row.get(header, "zip"),
			Phone:   row.get(header, "phone"),
			Country: row.get(header, "country"),
		}
		if client.TaxID == "" {
			client.TaxID = defaults.TaxID
		}
		if client.Country == "" {
			client.Country = defaults.Country
		}
		client.Normalize()

		if err := client.Validate(op); err != nil {
			result.Errors = append(result.Errors, RowError{Line: row.line, Err: domain.ErrorMessage(err)})
			continue
		}
		result.Records = append(result.Records, client)
	}
	return result, nil
}

// Products parses a product CSV. Recognized headers: code (or sku), name,
// price, unit, description.
func Products(r io.Reader, defaults Defaults) (*Result[domain.Product], error) {
	const op = "csvimport.products"

	rows, header, err := readAll(r, op)
	if err != nil {
		return nil, err
	}

	result := &Result[domain.Product]{}
	for _, row := range rows {
		product := domain.Product{
			Code:        row.get(header, "code", "sku"),
			Name:        row.get(header, "name"),
			Unit:        domain.Unit(strings.ToUpper(row.get(header, "unit"))),
			Description: row.get(header, "description"),
		}
		if product.Unit == "" {
			product.Unit = defaults.Unit
		}

		rawPrice := row.get(header, "price")
		if rawPrice != "" {
			price, err := decimal.NewFromString(rawPrice)
			if err != nil {
				result.Errors = append(result.Errors, RowError{
					Line: row.line,
					Err:  fmt.Sprintf("price: not a number: %s", rawPrice),
				})
				continue
			}
			product.Price = price
		}
		product.Normalize()

		if err := product.Validate(op); err != nil {
			result.Errors = append(result.Errors, RowError{Line: row.line, Err: domain.ErrorMessage(err)})
			continue
		}
		result.Records = append(result.Records, product)
	}
	return result, nil
}

type row struct {
	line   int
	fields []string
}

// get returns the trimmed cell under the first matching header name.
func (r row) get(header map[string]int, names ...string) string {
	for _, name := range names {
		if idx, ok := header[name]; ok && idx < len(r.fields) {
			return strings.TrimSpace(r.fields[idx])
		}
	}
	return ""
}

// readAll consumes the whole file and builds the normalized header index.
// Header names are lowercased with spaces and underscores stripped, so
// "Tax ID", "tax_id" and "taxId" all land on "taxid".
func readAll(r io.Reader, op string) ([]row, map[string]int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, domain.WrapError(err, domain.EINVALID, op, "malformed CSV file")
	}
	if len(records) == 0 {
		return nil, nil, domain.Errorf(domain.EINVALID, op, "empty CSV file")
	}

	header := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		header[normalizeHeader(name)] = i
	}

	rows := make([]row, 0, len(records)-1)
	for i, fields := range records[1:] {
		if blank(fields) {
			continue
		}
		rows = append(rows, row{line: i + 2, fields: fields})
	}
	return rows, header, nil
}

func normalizeHeader(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "")
	name = strings.ReplaceAll(name, "_", "")
	return strings.TrimPrefix(name, "\uFEFF")
}

func blank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
