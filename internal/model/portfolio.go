package model

import "github.com/shopspring/decimal"

type Position struct {
	InstrumentID     int64           `json:"-"`
	Ticker           string          `json:"ticker"`
	Name             string          `json:"name"`
	Quantity         int64           `json:"quantity"`
	Cost             decimal.Decimal `json:"-"`
	TotalValue       decimal.Decimal `json:"totalValue"`
	ReturnPercentage decimal.Decimal `json:"returnPercentage"`
}

type Portfolio struct {
	AvailableCash decimal.Decimal `json:"availableCash"`
	Positions     []Position      `json:"positions"`
	TotalValue    decimal.Decimal `json:"totalValue"`
}

func EmptyPortfolio() Portfolio {
	return Portfolio{
		AvailableCash: decimal.Zero,
		Positions:     []Position{},
		TotalValue:    decimal.Zero,
	}
}
