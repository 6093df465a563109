package marketdata

import (
	"context"
	"fmt"
	"slices"

	"github.com/STTM-NSU/trading-api/internal/logger"
	"github.com/STTM-NSU/trading-api/internal/model"
	"github.com/jmoiron/sqlx"
)

// Quoter fetches the latest bar for instruments that have none stored.
type Quoter interface {
	Quote(ctx context.Context, instruments []model.Instrument) ([]model.MarketData, error)
}

type InstrumentSource interface {
	GetByIDs(ctx context.Context, ids []int64) ([]model.Instrument, error)
}

type Service struct {
	db     *sqlx.DB
	logger logger.Logger

	instruments InstrumentSource
	quoter      Quoter // nil disables the remote fallback
}

func NewService(db *sqlx.DB, instruments InstrumentSource, quoter Quoter, logger logger.Logger) *Service {
	return &Service{
		db:          db,
		logger:      logger,
		instruments: instruments,
		quoter:      quoter,
	}
}

// GetLatest returns at most one bar per distinct instrument id: the one with the greatest date.
// Instruments with no data at all are absent from the result.
func (s *Service) GetLatest(ctx context.Context, instrumentIDs ...int64) ([]model.MarketData, error) {
	ids := distinct(instrumentIDs)
	if len(ids) == 0 {
		return []model.MarketData{}, nil
	}

	rows, err := s.GetLatestFromDB(ctx, ids)
	if err != nil {
		return nil, err
	}

	if s.quoter == nil || len(rows) == len(ids) {
		return rows, nil
	}

	missing := missingIDs(ids, rows)
	s.logger.Warnf("no market data in database for instruments %v, asking remote quotes", missing)

	instruments, err := s.instruments.GetByIDs(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("%w: can't resolve instruments for remote quotes", err)
	}

	remote, err := s.quoter.Quote(ctx, instruments)
	if err != nil {
		return nil, fmt.Errorf("%w: can't get remote quotes", err)
	}

	return append(rows, remote...), nil
}

// GetClose is the latest close of one instrument; ok is false when nothing is known about it.
func (s *Service) GetClose(ctx context.Context, instrumentID int64) (model.MarketData, bool, error) {
	rows, err := s.GetLatest(ctx, instrumentID)
	if err != nil {
		return model.MarketData{}, false, err
	}
	for _, r := range rows {
		if r.InstrumentID == instrumentID {
			return r, true, nil
		}
	}
	return model.MarketData{}, false, nil
}

func distinct(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

func missingIDs(ids []int64, rows []model.MarketData) []int64 {
	found := make(map[int64]struct{}, len(rows))
	for _, r := range rows {
		found[r.InstrumentID] = struct{}{}
	}
	missing := make([]int64, 0, len(ids)-len(rows))
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
