package orders

import (
	"context"

	"github.com/STTM-NSU/trading-api/internal/model"
	"github.com/STTM-NSU/trading-api/internal/tools"
	"github.com/shopspring/decimal"
)

// BuyLimit is a limit buy with an explicit share count. The order rests as NEW at the limit price.
type BuyLimit struct{}

func (BuyLimit) Name() string { return "buy-limit" }

func (BuyLimit) AppliesTo(req model.OrderRequest) bool {
	return req.Side == model.Buy && req.Type == model.Limit && req.IsSized()
}

func (BuyLimit) Execute(ctx context.Context, env Env, req model.OrderRequest) (model.OrderResult, error) {
	limit, ok := req.LimitPrice()
	if !ok {
		return reject(MsgPriceRequired), nil
	}

	cost := limit.Mul(decimal.NewFromInt(req.Size))
	cash, err := env.availableCash(ctx, req.UserID)
	if err != nil {
		return model.OrderResult{}, err
	}
	if cash.LessThan(cost) {
		return reject(MsgInsufficientFunds), nil
	}

	closePrice, ok, err := env.latestClose(ctx, req.InstrumentID)
	if err != nil {
		return model.OrderResult{}, err
	}
	if !ok {
		return reject(MsgNoMarketData), nil
	}
	if closePrice.GreaterThan(limit) {
		return reject(MsgMarketAboveLimit), nil
	}

	return env.place(ctx, req, req.Size, limit, model.StatusNew, MsgLimitBuyCreated)
}

// SellLimit is a limit sell with an explicit share count. The order rests as NEW at the limit price.
type SellLimit struct{}

func (SellLimit) Name() string { return "sell-limit" }

func (SellLimit) AppliesTo(req model.OrderRequest) bool {
	return req.Side == model.Sell && req.Type == model.Limit && req.IsSized()
}

func (SellLimit) Execute(ctx context.Context, env Env, req model.OrderRequest) (model.OrderResult, error) {
	limit, ok := req.LimitPrice()
	if !ok {
		return reject(MsgPriceRequired), nil
	}

	held, err := env.heldQuantity(ctx, req.UserID, req.InstrumentID)
	if err != nil {
		return model.OrderResult{}, err
	}
	if held < req.Size {
		return reject(MsgInsufficientShares), nil
	}

	closePrice, ok, err := env.latestClose(ctx, req.InstrumentID)
	if err != nil {
		return model.OrderResult{}, err
	}
	if !ok {
		return reject(MsgNoMarketData), nil
	}
	if closePrice.LessThan(limit) {
		return reject(MsgMarketBelowLimit), nil
	}

	return env.place(ctx, req, req.Size, limit, model.StatusNew, MsgLimitSellCreated)
}

// BuyLimitTotal spends at most TotalAmount at the latest close. Shares are rounded down.
type BuyLimitTotal struct{}

func (BuyLimitTotal) Name() string { return "buy-limit-total" }

func (BuyLimitTotal) AppliesTo(req model.OrderRequest) bool {
	return req.Side == model.Buy && req.Type == model.Limit && req.HasTotalAmount()
}

func (BuyLimitTotal) Execute(ctx context.Context, env Env, req model.OrderRequest) (model.OrderResult, error) {
	if !req.HasTotalAmount() {
		return reject(MsgTotalAmountNotPos), nil
	}
	limit, ok := req.LimitPrice()
	if !ok {
		return reject(MsgPriceRequired), nil
	}

	closePrice, ok, err := env.latestClose(ctx, req.InstrumentID)
	if err != nil {
		return model.OrderResult{}, err
	}
	if !ok {
		return reject(MsgNoMarketData), nil
	}
	if closePrice.GreaterThan(limit) {
		return reject(MsgMarketAboveLimit), nil
	}

	size := tools.FloorDiv(*req.TotalAmount, closePrice)
	if size == 0 {
		return reject(MsgTotalAmountTooSmall), nil
	}

	cost := closePrice.Mul(decimal.NewFromInt(size))
	cash, err := env.availableCash(ctx, req.UserID)
	if err != nil {
		return model.OrderResult{}, err
	}
	if cash.LessThan(cost) {
		return reject(MsgInsufficientFunds), nil
	}

	return env.place(ctx, req, size, closePrice, model.StatusNew, MsgLimitBuyCreated)
}

// SellLimitTotal sells shares worth at most TotalAmount at the latest close. Shares are rounded down.
type SellLimitTotal struct{}

func (SellLimitTotal) Name() string { return "sell-limit-total" }

func (SellLimitTotal) AppliesTo(req model.OrderRequest) bool {
	return req.Side == model.Sell && req.Type == model.Limit && req.HasTotalAmount()
}

func (SellLimitTotal) Execute(ctx context.Context, env Env, req model.OrderRequest) (model.OrderResult, error) {
	if !req.HasTotalAmount() {
		return reject(MsgTotalAmountNotPos), nil
	}
	limit, ok := req.LimitPrice()
	if !ok {
		return reject(MsgPriceRequired), nil
	}

	closePrice, ok, err := env.latestClose(ctx, req.InstrumentID)
	if err != nil {
		return model.OrderResult{}, err
	}
	if !ok {
		return reject(MsgNoMarketData), nil
	}
	if closePrice.LessThan(limit) {
		return reject(MsgMarketBelowLimit), nil
	}

	size := tools.FloorDiv(*req.TotalAmount, closePrice)
	if size == 0 {
		return reject(MsgTotalAmountTooSmall), nil
	}

	held, err := env.heldQuantity(ctx, req.UserID, req.InstrumentID)
	if err != nil {
		return model.OrderResult{}, err
	}
	if held < size {
		return reject(MsgInsufficientShares), nil
	}

	return env.place(ctx, req, size, closePrice, model.StatusNew, MsgLimitSellCreated)
}
