// Package numbering issues the human-facing sequential invoice serials.
// The next serial is max(highest existing numeric suffix, collection size)
// plus one: max-plus-one stays correct after deletions or out-of-order
// imports, where a pure count-based scheme would collide.
package numbering

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Prefix is the fixed serial prefix, e.g. INV-0001.
const Prefix = "INV-"

// padWidth is the minimum digit width; serials grow past it naturally.
const padWidth = 4

// Authority generates unique, monotonically increasing invoice serials.
// Calls to Next are serialized; the invoice builder additionally holds its
// own creation lock around the whole read-assign-persist sequence so two
// in-process creations can never draw the same serial.
type Authority struct {
	mu sync.Mutex
}

// NewAuthority creates a numbering authority.
func NewAuthority() *Authority {
	return &Authority{}
}

// Next returns the next serial given the current invoice numbers.
func (a *Authority) Next(existing []string) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	next := len(existing)
	for _, number := range existing {
		if n, ok := Suffix(number); ok && n > next {
			next = n
		}
	}
	return Format(next + 1)
}

// Suffix extracts the numeric suffix of a serial. Numbers carrying an
// unknown prefix or a non-numeric suffix report false and are ignored for
// ordering purposes.
func Suffix(number string) (int, bool) {
	rest, ok := strings.CutPrefix(number, Prefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Format renders a numeric suffix as a serial, zero-padded to the minimum
// width.
func Format(n int) string {
	return fmt.Sprintf("%s%0*d", Prefix, padWidth, n)
}

// Greater reports whether serial a outranks serial b by numeric suffix.
func Greater(a, b string) bool {
	na, oka := Suffix(a)
	nb, okb := Suffix(b)
	if !oka || !okb {
		return a > b
	}
	return na > nb
}
