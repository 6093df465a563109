package orders

import (
	"context"

	"github.com/STTM-NSU/trading-api/internal/model"
	"github.com/shopspring/decimal"
)

type BuyMarket struct{}

func (BuyMarket) Name() string { return "buy-market" }

func (BuyMarket) AppliesTo(req model.OrderRequest) bool {
	return req.Side == model.Buy && req.Type == model.Market
}

func (BuyMarket) Execute(ctx context.Context, env Env, req model.OrderRequest) (model.OrderResult, error) {
	closePrice, ok, err := env.latestClose(ctx, req.InstrumentID)
	if err != nil {
		return model.OrderResult{}, err
	}
	if !ok {
		return reject(MsgNoMarketData), nil
	}

	cost := closePrice.Mul(decimal.NewFromInt(req.Size))
	cash, err := env.availableCash(ctx, req.UserID)
	if err != nil {
		return model.OrderResult{}, err
	}
	if cash.LessThan(cost) {
		return reject(MsgInsufficientFunds), nil
	}

	return env.place(ctx, req, req.Size, closePrice, model.StatusFilled, MsgMarketBuyExecuted)
}

type SellMarket struct{}

func (SellMarket) Name() string { return "sell-market" }

func (SellMarket) AppliesTo(req model.OrderRequest) bool {
	return req.Side == model.Sell && req.Type == model.Market
}

func (SellMarket) Execute(ctx context.Context, env Env, req model.OrderRequest) (model.OrderResult, error) {
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

	return env.place(ctx, req, req.Size, closePrice, model.StatusFilled, MsgMarketSellExecuted)
}
