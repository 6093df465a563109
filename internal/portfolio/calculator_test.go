package portfolio

import (
	"testing"
	"time"

	"github.com/STTM-NSU/trading-api/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	_cashID = int64(66)
	_pampID = int64(47)
	_metrID = int64(54)
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func cashOrder(id int64, side model.OrderSide, size int64) model.Order {
	return model.Order{
		ID: id, UserID: 1, InstrumentID: _cashID, Side: side, Type: model.Market, Size: size,
		Price: decimal.NewNullDecimal(decimal.NewFromInt(1)), Status: model.StatusFilled,
		InstrumentType: model.Cash, Ticker: "ARS", Name: "PESOS",
	}
}

func stockOrder(id, instrumentID int64, side model.OrderSide, size int64, price string) model.Order {
	return model.Order{
		ID: id, UserID: 1, InstrumentID: instrumentID, Side: side, Type: model.Market, Size: size,
		Price: decimal.NewNullDecimal(dec(price)), Status: model.StatusFilled,
		InstrumentType: model.Stock, Ticker: "T" + decimal.NewFromInt(instrumentID).String(),
	}
}

func quotes(closes map[int64]string) Quotes {
	q := make(Quotes, len(closes))
	for id, c := range closes {
		q[id] = model.MarketData{InstrumentID: id, Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Close: dec(c)}
	}
	return q
}

func TestCalculateCash(t *testing.T) {
	state := Calculate([]model.Order{
		cashOrder(1, model.CashIn, 1000),
		cashOrder(2, model.CashOut, 250),
		cashOrder(3, model.Buy, 999),
	}, Quotes{})

	assert.True(t, dec("750").Equal(state.AvailableCash), state.AvailableCash.String())
	assert.Empty(t, state.Positions)
}

func TestCalculateSellKeepsCost(t *testing.T) {
	state := Calculate([]model.Order{
		stockOrder(1, _pampID, model.Buy, 10, "10"),
		stockOrder(2, _pampID, model.Sell, 4, "12"),
	}, quotes(map[int64]string{_pampID: "15"}))

	require.Contains(t, state.Positions, _pampID)
	p := state.Positions[_pampID]
	assert.Equal(t, int64(6), p.Quantity)
	assert.True(t, dec("100").Equal(p.Cost), p.Cost.String())
	assert.True(t, dec("90").Equal(p.TotalValue), p.TotalValue.String())
	assert.True(t, dec("-10").Equal(p.ReturnPercentage), p.ReturnPercentage.String())
	assert.Empty(t, state.Inconsistencies)
}

func TestCalculateOrderMatters(t *testing.T) {
	q := quotes(map[int64]string{_pampID: "15"})
	buy := stockOrder(1, _pampID, model.Buy, 10, "10")
	sell := stockOrder(2, _pampID, model.Sell, 10, "12")

	inOrder := Calculate([]model.Order{buy, sell}, q)
	reordered := Calculate([]model.Order{sell, buy}, q)

	// a closed position keeps the value it had when it was last revalued
	assert.Equal(t, int64(0), inOrder.Positions[_pampID].Quantity)
	assert.True(t, dec("150").Equal(inOrder.Positions[_pampID].TotalValue))
	assert.Len(t, inOrder.Inconsistencies, 1)

	assert.Equal(t, int64(0), reordered.Positions[_pampID].Quantity)
	assert.True(t, reordered.Positions[_pampID].TotalValue.IsZero())
	assert.Len(t, reordered.Inconsistencies, 2)
}

func TestCalculateRecordsInconsistencies(t *testing.T) {
	state := Calculate([]model.Order{
		stockOrder(1, _pampID, model.Buy, 5, "10"),
		stockOrder(2, _metrID, model.Sell, 3, "1"),
	}, Quotes{})

	require.Len(t, state.Inconsistencies, 2)
	assert.Equal(t, Inconsistency{InstrumentID: _pampID, OrderID: 1, Quantity: 5, HasQuote: false}, state.Inconsistencies[0])
	assert.Equal(t, int64(-3), state.Inconsistencies[1].Quantity)
	assert.True(t, state.Positions[_pampID].TotalValue.IsZero())
}

func TestCalculateZeroCostReturn(t *testing.T) {
	state := Calculate([]model.Order{
		{ID: 1, InstrumentID: _pampID, Side: model.Buy, Size: 3, InstrumentType: model.Stock},
	}, quotes(map[int64]string{_pampID: "15"}))

	p := state.Positions[_pampID]
	assert.True(t, dec("45").Equal(p.TotalValue))
	assert.True(t, p.ReturnPercentage.IsZero())
}

type cashOnly struct{}

func (cashOnly) AppliesTo(order model.Order) bool { return order.InstrumentType.IsCash() }

func (cashOnly) Process(state State, order model.Order, _ Quotes) State {
	state.AvailableCash = state.AvailableCash.Add(decimal.NewFromInt(order.Size))
	return state
}

func TestCalculateSkipsUnmatchedOrders(t *testing.T) {
	state := Calculate([]model.Order{
		cashOrder(1, model.CashIn, 10),
		stockOrder(2, _pampID, model.Buy, 1, "5"),
	}, Quotes{}, cashOnly{})

	assert.True(t, dec("10").Equal(state.AvailableCash))
	assert.Empty(t, state.Positions)
}

func TestCalculateIsRepeatable(t *testing.T) {
	orders := []model.Order{
		cashOrder(1, model.CashIn, 1000),
		stockOrder(2, _pampID, model.Buy, 10, "10"),
	}
	q := quotes(map[int64]string{_pampID: "12"})

	first := Calculate(orders, q)
	second := Calculate(orders, q)
	assert.Equal(t, first, second)
	assert.NotSame(t, first.Positions[_pampID], second.Positions[_pampID])
}
