package portfolio

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/STTM-NSU/trading-api/internal/logger"
	"github.com/STTM-NSU/trading-api/internal/model"
)

type OrderSource interface {
	GetFilledOrders(ctx context.Context, userID int64) ([]model.Order, error)
}

type MarketData interface {
	GetLatest(ctx context.Context, instrumentIDs ...int64) ([]model.MarketData, error)
}

type Service struct {
	orders     OrderSource
	marketData MarketData
	logger     logger.Logger

	strategies []ProcessingStrategy
}

func NewService(orders OrderSource, marketData MarketData, logger logger.Logger) *Service {
	return &Service{
		orders:     orders,
		marketData: marketData,
		logger:     logger,
		strategies: DefaultProcessingStrategies(),
	}
}

// GetPortfolio replays the user's filled orders and values open positions at the latest close.
// A user without filled orders gets an empty portfolio, not an error.
func (s *Service) GetPortfolio(ctx context.Context, userID int64) (model.Portfolio, error) {
	orders, err := s.orders.GetFilledOrders(ctx, userID)
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("%w: can't get filled orders", err)
	}
	if len(orders) == 0 {
		return model.EmptyPortfolio(), nil
	}

	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.InstrumentID)
	}

	rows, err := s.marketData.GetLatest(ctx, ids...)
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("%w: can't get latest market data", err)
	}

	state := Calculate(orders, NewQuotes(rows), s.strategies...)
	for _, inc := range state.Inconsistencies {
		s.logger.Warnw("position not revalued",
			"user_id", userID,
			"instrument_id", inc.InstrumentID,
			"order_id", inc.OrderID,
			"quantity", inc.Quantity,
			"has_quote", inc.HasQuote,
		)
	}

	return snapshot(state), nil
}

func snapshot(state State) model.Portfolio {
	p := model.EmptyPortfolio()
	p.AvailableCash = state.AvailableCash
	p.TotalValue = state.AvailableCash

	for _, position := range state.Positions {
		if position.Quantity <= 0 {
			continue
		}
		p.Positions = append(p.Positions, *position)
		p.TotalValue = p.TotalValue.Add(position.TotalValue)
	}
	slices.SortFunc(p.Positions, func(a, b model.Position) int {
		return cmp.Compare(a.InstrumentID, b.InstrumentID)
	})
	return p
}
