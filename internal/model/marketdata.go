package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarketData is one daily bar. The latest bar of an instrument is the one with the greatest Date.
type MarketData struct {
	InstrumentID  int64           `json:"instrument_id" db:"instrument_id"`
	Date          time.Time       `json:"date" db:"date"`
	Open          decimal.Decimal `json:"open" db:"open"`
	High          decimal.Decimal `json:"high" db:"high"`
	Low           decimal.Decimal `json:"low" db:"low"`
	Close         decimal.Decimal `json:"close" db:"close"`
	PreviousClose decimal.Decimal `json:"previous_close" db:"previous_close"`
}

// Quote is a bar as served by the remote quotes API.
type Quote struct {
	Ticker        string          `json:"ticker"`
	Date          string          `json:"date"`
	Open          decimal.Decimal `json:"open"`
	High          decimal.Decimal `json:"high"`
	Low           decimal.Decimal `json:"low"`
	Close         decimal.Decimal `json:"close"`
	PreviousClose decimal.Decimal `json:"previous_close"`
}

type QuotesResponse struct {
	Quotes []Quote `json:"quotes"`
}

type QuotesErrorResponse struct {
	Message           string `json:"message"`
	RetryAfterSeconds int64  `json:"retry_after"`
}

func (r QuotesErrorResponse) RetryAfter() time.Duration {
	return time.Duration(r.RetryAfterSeconds) * time.Second
}
