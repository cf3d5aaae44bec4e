package domain

import (
	"fmt"
	"strings"
)

const DefaultCurrency = "EUR"

// NormalizeCurrency upper-cases code and checks that it looks like an ISO 4217
// alphabetic code. Whether the rate source knows the code is decided later.
func NormalizeCurrency(code string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if len(c) != 3 {
		return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, code)
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, code)
		}
	}
	return c, nil
}
