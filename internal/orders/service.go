package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/STTM-NSU/trading-api/internal/logger"
	"github.com/STTM-NSU/trading-api/internal/model"
	"github.com/google/uuid"
)

var ErrNoApplicableStrategy = errors.New("no strategy applies to the order request")

// LedgerTx runs fn inside one serializable unit of work on the ledger. Every read fn makes and the
// single append it may do commit together or not at all.
type LedgerTx func(ctx context.Context, fn func(Ledger) error) error

type Service struct {
	inTx       LedgerTx
	marketData MarketData
	strategies []Strategy
	logger     logger.Logger

	now func() time.Time
}

// NewService builds the dispatcher. With no strategies given it uses DefaultStrategies.
func NewService(inTx LedgerTx, marketData MarketData, logger logger.Logger, strategies ...Strategy) *Service {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &Service{
		inTx:       inTx,
		marketData: marketData,
		strategies: strategies,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *Service) PlaceOrder(ctx context.Context, req model.OrderRequest) (model.OrderResult, error) {
	log := s.logger.With(
		"request_id", uuid.NewString(),
		"user_id", req.UserID,
		"instrument_id", req.InstrumentID,
		"side", req.Side,
		"type", req.Type,
	)

	strategy := s.strategyFor(req)
	if strategy == nil {
		log.Errorw("no applicable strategy", "size", req.Size, "has_total_amount", req.HasTotalAmount())
		return model.OrderResult{}, ErrNoApplicableStrategy
	}

	var result model.OrderResult
	err := s.inTx(ctx, func(l Ledger) error {
		var err error
		result, err = strategy.Execute(ctx, Env{
			Ledger:     l,
			MarketData: s.marketData,
			Now:        s.now,
		}, req)
		return err
	})
	if err != nil {
		log.Errorw("order placement failed", "strategy", strategy.Name(), "error", err)
		return model.OrderResult{}, fmt.Errorf("%w: can't place order with %s", err, strategy.Name())
	}

	if result.Success {
		log.Infow("order accepted", "strategy", strategy.Name(), "status", result.Status)
	} else {
		log.Infow("order rejected", "strategy", strategy.Name(), "reason", result.Message)
	}
	return result, nil
}

func (s *Service) strategyFor(req model.OrderRequest) Strategy {
	for _, st := range s.strategies {
		if st.AppliesTo(req) {
			return st
		}
	}
	return nil
}
