package model

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type Instrument struct {
	ID         int64          `json:"id" db:"id"`
	Ticker     string         `json:"ticker" db:"ticker"`
	Name       string         `json:"name" db:"name"`
	Type       InstrumentType `json:"type" db:"type"`
	ExternalID sql.NullString `json:"-" db:"external_id"` // FIGI or instrument uid for remote quote sources
}

type InstrumentType string

const (
	Stock InstrumentType = "STOCK"
	Cash  InstrumentType = "CASH"
)

// IsCash reports whether the instrument is the brokerage cash account.
func (i InstrumentType) IsCash() bool {
	return i == Cash
}

type InstrumentQuote struct {
	Instrument
	Close         decimal.Decimal `json:"close" db:"close"`
	PreviousClose decimal.Decimal `json:"previousClose" db:"previous_close"`
	DailyReturn   decimal.Decimal `json:"dailyReturn" db:"-"`
}

var _hundred = decimal.NewFromInt(100)

// SetDailyReturn computes the close-to-close change in percent. Zero when previous close is unknown.
func (q *InstrumentQuote) SetDailyReturn() {
	if !q.PreviousClose.IsPositive() {
		q.DailyReturn = decimal.Zero
		return
	}
	q.DailyReturn = q.Close.Sub(q.PreviousClose).Div(q.PreviousClose).Mul(_hundred)
}
