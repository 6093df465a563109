package marketdata

import (
	"context"
	"fmt"

	"github.com/STTM-NSU/trading-api/internal/model"
	"github.com/lib/pq"
)

const (
	_queryLatest = `SELECT DISTINCT ON (instrument_id)
						instrument_id, date, open, high, low, close, previous_close
					FROM marketdata
					WHERE instrument_id = ANY($1)
					ORDER BY instrument_id, date DESC`
)

func (s *Service) GetLatestFromDB(ctx context.Context, ids []int64) ([]model.MarketData, error) {
	rows := make([]model.MarketData, 0, len(ids))
	if err := s.db.SelectContext(ctx, &rows, _queryLatest, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("%w: can't get latest market data from database", err)
	}
	return rows, nil
}
