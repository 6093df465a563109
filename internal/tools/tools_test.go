package tools

import (
	"testing"

	investapi "github.com/russianinvestments/invest-api-go-sdk/proto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestQuotationToDecimal(t *testing.T) {
	cases := []struct {
		q    *investapi.Quotation
		want string
	}{
		{nil, "0"},
		{&investapi.Quotation{Units: 114, Nano: 250000000}, "114.25"},
		{&investapi.Quotation{Units: 0, Nano: 10000000}, "0.01"},
		{&investapi.Quotation{Units: -2, Nano: -500000000}, "-2.5"},
	}
	for _, c := range cases {
		got := QuotationToDecimal(c.q)
		assert.True(t, decimal.RequireFromString(c.want).Equal(got), "want %s got %s", c.want, got)
	}
}

func TestFloorDiv(t *testing.T) {
	assert.Equal(t, int64(5), FloorDiv(decimal.NewFromInt(100), decimal.NewFromInt(19)))
	assert.Equal(t, int64(3), FloorDiv(decimal.RequireFromString("99.99"), decimal.RequireFromString("33.33")))
	assert.Equal(t, int64(0), FloorDiv(decimal.NewFromInt(10), decimal.NewFromInt(19)))
	assert.Equal(t, int64(0), FloorDiv(decimal.NewFromInt(10), decimal.Zero))
	assert.Equal(t, int64(2), FloorDiv(decimal.RequireFromString("2.99999999999999999999"), decimal.NewFromInt(1)))
	assert.Equal(t, int64(2), FloorDiv(decimal.RequireFromString("59.99999999999999999999"), decimal.NewFromInt(20)))
	assert.Equal(t, int64(-3), FloorDiv(decimal.RequireFromString("-2.5"), decimal.NewFromInt(1)))
}
