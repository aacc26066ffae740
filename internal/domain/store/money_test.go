package store

import (
	"testing"

	domainErrors "github.com/andrusov/storefront-service/internal/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCents(t *testing.T) {
	tests := []struct {
		name  string
		price string
		want  int64
	}{
		{name: "two decimals", price: "10.00", want: 1000},
		{name: "no decimals", price: "5", want: 500},
		{name: "one decimal pads", price: "5.1", want: 510},
		{name: "extra decimals truncate", price: "3.999", want: 399},
		{name: "zero", price: "0", want: 0},
		{name: "leading dot", price: ".99", want: 99},
		{name: "trailing dot", price: "12.", want: 1200},
		{name: "whitespace trimmed", price: " 7.25 ", want: 725},
		{name: "negative", price: "-2.50", want: -250},
		{name: "large price", price: "99999.99", want: 9999999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToCents(tt.price)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToCents_Invalid(t *testing.T) {
	for _, price := range []string{"", "   ", ".", "abc", "1.2x", "10,00"} {
		t.Run(price, func(t *testing.T) {
			_, err := ToCents(price)
			assert.ErrorIs(t, err, domainErrors.ErrInvalidPrice)
		})
	}
}

func TestToCents_TruncationIsStable(t *testing.T) {
	// The same price string converts identically no matter how often it
	// is converted, so order totals and gateway line amounts agree.
	first, err := ToCents("19.998")
	require.NoError(t, err)

	second, err := ToCents("19.998")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1999), first)
}
