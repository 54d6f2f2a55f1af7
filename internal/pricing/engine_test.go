package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func money(v string) Money { return decimal.RequireFromString(v) }

func TestLineTotalLuxuryBulkRebate(t *testing.T) {
	p := MustProduct("Product 2", money("20"), true)

	cases := []struct {
		qty  int
		want string
	}{
		{qty: 1, want: "20"},
		{qty: 2, want: "40"},
		{qty: 3, want: "58"},
		{qty: 10, want: "198"},
	}
	for _, tc := range cases {
		got := LineTotal(Line{Product: p, Qty: tc.qty})
		require.Truef(t, got.Equal(money(tc.want)), "qty %d: expected %s got %s", tc.qty, tc.want, got)
	}
}

func TestLineTotalRegularProductHasNoRebate(t *testing.T) {
	p := MustProduct("Product 1", money("10"), false)
	got := LineTotal(Line{Product: p, Qty: 5})
	require.True(t, got.Equal(money("50")), "got %s", got)
}

func TestSubtotalSumsLines(t *testing.T) {
	lux := MustProduct("Product 3", money("30"), true)
	plain := MustProduct("Product 4", money("40"), false)
	subtotal := Subtotal([]Line{{Product: lux, Qty: 3}, {Product: plain, Qty: 1}})
	// 90 - 3 + 40
	require.True(t, subtotal.Equal(money("127")), "got %s", subtotal)
	require.True(t, Subtotal(nil).IsZero())
}

func TestNewLineRejectsInvalidInput(t *testing.T) {
	p := MustProduct("Product 1", money("10"), false)

	_, err := NewLine(p, 0)
	require.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = NewLine(p, -2)
	require.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = NewLine(nil, 1)
	require.ErrorIs(t, err, ErrMissingProduct)

	line, err := NewLine(p, 2)
	require.NoError(t, err)
	require.Equal(t, 2, line.Qty)
}

func TestProductPriceInvariant(t *testing.T) {
	_, err := NewProduct("broken", money("-1"), false)
	require.ErrorIs(t, err, ErrNegativePrice)

	p := MustProduct("  Product 1 ", money("10"), false)
	require.Equal(t, "Product 1", p.Name())
	require.ErrorIs(t, p.SetPrice(money("-0.01")), ErrNegativePrice)
	require.True(t, p.Price().Equal(money("10")))
	require.NoError(t, p.SetPrice(money("12.5")))
	require.True(t, p.Price().Equal(money("12.5")))
	p.SetLuxury(true)
	require.True(t, p.Luxury())
}
