package tools

import (
	investapi "github.com/russianinvestments/invest-api-go-sdk/proto"
	"github.com/shopspring/decimal"
)

const _nanoExp = -9

// QuotationToDecimal converts the broker's units+nano fixed point into a decimal without going through float64.
func QuotationToDecimal(q *investapi.Quotation) decimal.Decimal {
	if q == nil {
		return decimal.Zero
	}
	return decimal.NewFromInt(q.GetUnits()).Add(decimal.New(int64(q.GetNano()), _nanoExp))
}

// FloorDiv returns how many whole units of price fit into amount. Zero for non-positive price.
func FloorDiv(amount, price decimal.Decimal) int64 {
	if !price.IsPositive() {
		return 0
	}
	q, r := amount.QuoRem(price, 0)
	if r.IsNegative() {
		q = q.Sub(decimal.NewFromInt(1))
	}
	return q.IntPart()
}
