// Package budget turns imported bank statement rows into the learner's
// starting budget.
package budget

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finquest/finquest/internal/apperr"
)

// Row is one raw statement line as imported.
type Row struct {
	Description string
	Amount      string
}

// Entry is a parsed budget line. Amount is always positive, in cents.
type Entry struct {
	Description string `json:"description"`
	AmountCents int64  `json:"amount_cents"`
}

// Skipped records a row that was not imported.
type Skipped struct {
	Line   int    `json:"line"` // 1-based index into the imported rows
	Reason string `json:"reason"`
}

// Budget is the stored result of one statement import.
type Budget struct {
	Inflows    []Entry   `json:"inflows"`
	Outflows   []Entry   `json:"outflows"`
	Balance    int64     `json:"balance_cents"`
	Skipped    []Skipped `json:"skipped,omitempty"`
	ImportedAt time.Time `json:"imported_at"`
}

// TotalIn returns the sum of inflows in cents.
func (b Budget) TotalIn() int64 { return sum(b.Inflows) }

// TotalOut returns the sum of outflows in cents.
func (b Budget) TotalOut() int64 { return sum(b.Outflows) }

func sum(es []Entry) int64 {
	var t int64
	for _, e := range es {
		t += e.AmountCents
	}
	return t
}

// Import builds a budget from rows. A positive amount becomes an inflow, a
// negative amount an outflow stored as its absolute value. Rows that fail to
// parse are skipped and listed in Skipped; zero amounts are ignored.
func Import(rows []Row, now time.Time) Budget {
	b := Budget{Inflows: []Entry{}, Outflows: []Entry{}, ImportedAt: now}
	for i, r := range rows {
		cents, err := ParseCents(r.Amount)
		if err != nil {
			b.Skipped = append(b.Skipped, Skipped{Line: i + 1, Reason: err.Error()})
			continue
		}
		desc := strings.TrimSpace(r.Description)
		switch {
		case cents > 0:
			b.Inflows = append(b.Inflows, Entry{Description: desc, AmountCents: cents})
		case cents < 0:
			b.Outflows = append(b.Outflows, Entry{Description: desc, AmountCents: -cents})
		}
	}
	b.Balance = b.TotalIn() - b.TotalOut()
	return b
}

// ParseCents parses a statement amount such as "1,234.50", "-$12" or
// "(40.00)" into cents. Fractions beyond cents are rounded half away from
// zero.
func ParseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, apperr.Validation(apperr.ReasonInvalidAmount, "empty amount")
	}

	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		neg = !neg
		s = rest
	} else {
		s = strings.TrimPrefix(s, "+")
	}
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")

	if s == "" || strings.ContainsAny(s, "+-eE") {
		return 0, apperr.Validation(apperr.ReasonInvalidAmount, "amount %q is not a number", s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, apperr.Validation(apperr.ReasonInvalidAmount, "amount %q is not a number", s)
	}

	cents := d.Shift(2).Round(0)
	if !cents.IsInteger() || cents.Abs().GreaterThan(decimal.NewFromInt(maxCents)) {
		return 0, apperr.Validation(apperr.ReasonInvalidAmount, "amount %q out of range", s)
	}
	v := cents.IntPart()
	if neg {
		v = -v
	}
	return v, nil
}

// maxCents bounds parsed amounts so balances cannot overflow.
const maxCents = 1_000_000_000_00

// FormatCents renders cents as a signed dollar amount, e.g. -$12.05.
func FormatCents(c int64) string {
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s$%d.%02d", sign, c/100, c%100)
}
