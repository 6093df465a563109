package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/STTM-NSU/trading-api/internal/model"
	"github.com/shopspring/decimal"
)

const (
	MsgInsufficientFunds   = "Insufficient funds to buy the requested shares"
	MsgMarketAboveLimit    = "Market price is higher than the limit price"
	MsgMarketBelowLimit    = "Market price is lower than the limit price"
	MsgNoMarketData        = "No market data available for the selected instrument"
	MsgInsufficientShares  = "Insufficient shares to sell"
	MsgTotalAmountNotPos   = "Total amount must be greater than zero"
	MsgPriceRequired       = "Price is required for LIMIT orders"
	MsgTotalAmountTooSmall = "Total amount is lower than the market price"
	MsgMarketBuyExecuted   = "Market buy order executed"
	MsgMarketSellExecuted  = "Market sell order executed"
	MsgLimitBuyCreated     = "Limit buy order created"
	MsgLimitSellCreated    = "Limit sell order created"
)

// Ledger is the part of the order ledger strategies read from and append to.
type Ledger interface {
	GetAvailableCash(ctx context.Context, userID int64) (int64, error)
	GetFilledOrdersByInstrument(ctx context.Context, userID, instrumentID int64) ([]model.Order, error)
	AddOrder(ctx context.Context, order *model.Order) error
}

type MarketData interface {
	GetClose(ctx context.Context, instrumentID int64) (model.MarketData, bool, error)
}

// Env is what a strategy may touch while executing one request.
type Env struct {
	Ledger     Ledger
	MarketData MarketData
	Now        func() time.Time
}

// Strategy validates one kind of order request and either rejects it or appends exactly one order.
// Implementations hold no state between calls.
type Strategy interface {
	Name() string
	AppliesTo(req model.OrderRequest) bool
	Execute(ctx context.Context, env Env, req model.OrderRequest) (model.OrderResult, error)
}

// DefaultStrategies is the scan order used by the dispatcher. First match wins.
func DefaultStrategies() []Strategy {
	return []Strategy{
		BuyMarket{},
		SellMarket{},
		BuyLimit{},
		SellLimit{},
		BuyLimitTotal{},
		SellLimitTotal{},
	}
}

func reject(msg string) model.OrderResult {
	return model.OrderResult{
		Success: false,
		Status:  model.StatusRejected,
		Message: msg,
	}
}

// place appends the accepted order and reports it back with the given message.
func (e Env) place(ctx context.Context, req model.OrderRequest, size int64, price decimal.Decimal,
	status model.OrderStatus, msg string,
) (model.OrderResult, error) {
	order := &model.Order{
		UserID:       req.UserID,
		InstrumentID: req.InstrumentID,
		Side:         req.Side,
		Type:         req.Type,
		Size:         size,
		Price:        decimal.NewNullDecimal(price),
		Status:       status,
		CreatedAt:    e.Now().UTC(),
	}
	if err := e.Ledger.AddOrder(ctx, order); err != nil {
		return model.OrderResult{}, err
	}
	return model.OrderResult{
		Success: true,
		Status:  status,
		Message: msg,
	}, nil
}

// latestClose is the instrument's latest close; ok is false when there is no bar or the close is not positive.
func (e Env) latestClose(ctx context.Context, instrumentID int64) (decimal.Decimal, bool, error) {
	md, ok, err := e.MarketData.GetClose(ctx, instrumentID)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("%w: can't get latest close", err)
	}
	if !ok || !md.Close.IsPositive() {
		return decimal.Zero, false, nil
	}
	return md.Close, true, nil
}

func (e Env) availableCash(ctx context.Context, userID int64) (decimal.Decimal, error) {
	cash, err := e.Ledger.GetAvailableCash(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: can't get available cash", err)
	}
	return decimal.NewFromInt(cash), nil
}

// heldQuantity is buys minus sells over the user's filled orders on the instrument.
func (e Env) heldQuantity(ctx context.Context, userID, instrumentID int64) (int64, error) {
	filled, err := e.Ledger.GetFilledOrdersByInstrument(ctx, userID, instrumentID)
	if err != nil {
		return 0, fmt.Errorf("%w: can't get held quantity", err)
	}
	var held int64
	for _, o := range filled {
		held += o.SignedSize()
	}
	return held, nil
}
