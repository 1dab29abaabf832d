package canonical

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a monetary string into a decimal. It tolerates
// currency symbols, thousands separators, surrounding whitespace, and
// parenthesized-negative notation ("(4.50)" == -4.50).
func ParseAmount(s string) (decimal.Decimal, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	neg := false
	if strings.HasPrefix(t, "(") && strings.HasSuffix(t, ")") {
		neg = true
		t = strings.TrimSpace(t[1 : len(t)-1])
	}
	t = strings.ReplaceAll(t, "$", "")
	t = strings.ReplaceAll(t, ",", "")
	t = strings.TrimSpace(t)

	d, err := decimal.NewFromString(t)
	if err != nil {
		return decimal.Zero, fmt.Errorf("not a number: %q", s)
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

// Cents converts a decimal amount into integer cents, the authoritative
// representation for identity and equality.
func Cents(d decimal.Decimal) int64 {
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
