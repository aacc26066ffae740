package store

import (
	"strconv"
	"strings"

	domainErrors "github.com/andrusov/storefront-service/internal/domain/errors"
)

// ToCents converts a decimal price string ("10.00", "5", "3.999") to
// integer cents. Fraction digits past the second are truncated, never
// rounded, so repeated conversions of the same price always agree.
func ToCents(price string) (int64, error) {
	s := strings.TrimSpace(price)
	if s == "" {
		return 0, domainErrors.ErrInvalidPrice
	}

	negative := false
	if s[0] == '+' || s[0] == '-' {
		negative = s[0] == '-'
		s = s[1:]
	}

	whole := s
	frac := ""
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		whole = s[:idx]
		frac = s[idx+1:]
	}

	if whole == "" && frac == "" {
		return 0, domainErrors.ErrInvalidPrice
	}
	if whole == "" {
		whole = "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, domainErrors.ErrInvalidPrice
	}

	// Truncate the fraction to two digits, right-padding "5.1" to 10 cents.
	if len(frac) > 2 {
		frac = frac[:2]
	}
	for len(frac) < 2 {
		frac += "0"
	}

	fracCents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, domainErrors.ErrInvalidPrice
	}

	cents := units*100 + fracCents
	if negative {
		cents = -cents
	}

	return cents, nil
}
