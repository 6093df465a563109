package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderSide string

const (
	Buy     OrderSide = "BUY"
	Sell    OrderSide = "SELL"
	CashIn  OrderSide = "CASH_IN"
	CashOut OrderSide = "CASH_OUT"
)

func (s OrderSide) Valid() bool {
	switch s {
	case Buy, Sell, CashIn, CashOut:
		return true
	default:
		return false
	}
}

type OrderType string

const (
	Market OrderType = "MARKET"
	Limit  OrderType = "LIMIT"
)

func (t OrderType) Valid() bool {
	return t == Market || t == Limit
}

type OrderStatus string

const (
	StatusNew       OrderStatus = "NEW"
	StatusFilled    OrderStatus = "FILLED"
	StatusRejected  OrderStatus = "REJECTED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// Order is a ledger row. Rows are append-only: nothing updates an order after AddOrder.
// InstrumentType, Ticker and Name are filled by ledger reads joined with instruments.
type Order struct {
	ID           int64               `json:"id" db:"id"`
	UserID       int64               `json:"user_id" db:"user_id"`
	InstrumentID int64               `json:"instrument_id" db:"instrument_id"`
	Side         OrderSide           `json:"side" db:"side"`
	Type         OrderType           `json:"type" db:"type"`
	Size         int64               `json:"size" db:"size"`
	Price        decimal.NullDecimal `json:"price" db:"price"`
	Status       OrderStatus         `json:"status" db:"status"`
	CreatedAt    time.Time           `json:"created_at" db:"created_at"`

	InstrumentType InstrumentType `json:"instrument_type,omitempty" db:"instrument_type"`
	Ticker         string         `json:"ticker,omitempty" db:"ticker"`
	Name           string         `json:"name,omitempty" db:"name"`
}

// SignedSize is the order's contribution to the held quantity of its instrument.
func (o Order) SignedSize() int64 {
	switch o.Side {
	case Buy:
		return o.Size
	case Sell:
		return -o.Size
	default:
		return 0
	}
}

type OrderRequest struct {
	UserID       int64            `json:"userId"`
	InstrumentID int64            `json:"instrumentId"`
	Side         OrderSide        `json:"side"`
	Type         OrderType        `json:"type"`
	Size         int64            `json:"size"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	TotalAmount  *decimal.Decimal `json:"totalAmount,omitempty"`
}

// HasTotalAmount reports whether the request is expressed as a cash budget.
func (r OrderRequest) HasTotalAmount() bool {
	return r.TotalAmount != nil && r.TotalAmount.IsPositive()
}

// IsSized reports whether the request carries an explicit share count and no budget.
func (r OrderRequest) IsSized() bool {
	return r.Size > 0 && !r.HasTotalAmount()
}

// LimitPrice returns the requested limit price and whether it is usable (present and positive).
func (r OrderRequest) LimitPrice() (decimal.Decimal, bool) {
	if r.Price == nil || !r.Price.IsPositive() {
		return decimal.Zero, false
	}
	return *r.Price, true
}

type OrderResult struct {
	Success bool        `json:"success"`
	Status  OrderStatus `json:"status"`
	Message string      `json:"message"`
}
