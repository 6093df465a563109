package portfolio

import (
	"github.com/STTM-NSU/trading-api/internal/model"
	"github.com/shopspring/decimal"
)

var _hundred = decimal.NewFromInt(100)

// Quotes is the latest bar per instrument id.
type Quotes map[int64]model.MarketData

func NewQuotes(rows []model.MarketData) Quotes {
	q := make(Quotes, len(rows))
	for _, r := range rows {
		q[r.InstrumentID] = r
	}
	return q
}

// Inconsistency is a position that could not be revalued after an order was applied.
type Inconsistency struct {
	InstrumentID int64
	OrderID      int64
	Quantity     int64
	HasQuote     bool
}

// State is threaded through the fold. Strategies return the next state instead of sharing one.
type State struct {
	AvailableCash   decimal.Decimal
	Positions       map[int64]*model.Position
	Inconsistencies []Inconsistency
}

func NewState() State {
	return State{
		AvailableCash: decimal.Zero,
		Positions:     make(map[int64]*model.Position),
	}
}

type ProcessingStrategy interface {
	AppliesTo(order model.Order) bool
	Process(state State, order model.Order, quotes Quotes) State
}

func DefaultProcessingStrategies() []ProcessingStrategy {
	return []ProcessingStrategy{
		CashStrategy{},
		SecurityStrategy{},
	}
}

// CashStrategy moves the cash balance on CASH_IN and CASH_OUT. Other sides on the cash instrument are ignored.
type CashStrategy struct{}

func (CashStrategy) AppliesTo(order model.Order) bool {
	return order.InstrumentType.IsCash()
}

func (CashStrategy) Process(state State, order model.Order, _ Quotes) State {
	switch order.Side {
	case model.CashIn:
		state.AvailableCash = state.AvailableCash.Add(decimal.NewFromInt(order.Size))
	case model.CashOut:
		state.AvailableCash = state.AvailableCash.Sub(decimal.NewFromInt(order.Size))
	}
	return state
}

// SecurityStrategy keeps quantity and cost per instrument. Cost only grows on BUY; SELL leaves it as is.
type SecurityStrategy struct{}

func (SecurityStrategy) AppliesTo(order model.Order) bool {
	return !order.InstrumentType.IsCash()
}

func (SecurityStrategy) Process(state State, order model.Order, quotes Quotes) State {
	position, ok := state.Positions[order.InstrumentID]
	if !ok {
		position = &model.Position{
			InstrumentID:     order.InstrumentID,
			Ticker:           order.Ticker,
			Name:             order.Name,
			Cost:             decimal.Zero,
			TotalValue:       decimal.Zero,
			ReturnPercentage: decimal.Zero,
		}
		state.Positions[order.InstrumentID] = position
	}

	switch order.Side {
	case model.Buy:
		position.Quantity += order.Size
		position.Cost = position.Cost.Add(order.Price.Decimal.Mul(decimal.NewFromInt(order.Size)))
	case model.Sell:
		position.Quantity -= order.Size
	}

	quote, hasQuote := quotes[order.InstrumentID]
	if position.Quantity <= 0 || !hasQuote {
		state.Inconsistencies = append(state.Inconsistencies, Inconsistency{
			InstrumentID: order.InstrumentID,
			OrderID:      order.ID,
			Quantity:     position.Quantity,
			HasQuote:     hasQuote,
		})
		return state
	}

	position.TotalValue = quote.Close.Mul(decimal.NewFromInt(position.Quantity))
	if position.Cost.IsPositive() {
		position.ReturnPercentage = position.TotalValue.Sub(position.Cost).Div(position.Cost).Mul(_hundred)
	} else {
		position.ReturnPercentage = decimal.Zero
	}
	return state
}
