package instrument

import (
	"context"
	"fmt"
	"strings"

	"github.com/STTM-NSU/trading-api/internal/logger"
	"github.com/STTM-NSU/trading-api/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	_queryByIDs = `SELECT id, ticker, name, type, external_id
					FROM instruments
					WHERE id = ANY($1)
					ORDER BY id`
	_querySearch = `SELECT i.id, i.ticker, i.name, i.type, i.external_id, md.close, md.previous_close
					FROM instruments i
					JOIN LATERAL (
						SELECT close, previous_close
						FROM marketdata
						WHERE instrument_id = i.id
						ORDER BY date DESC
						LIMIT 1
					) md ON TRUE
					WHERE i.ticker ILIKE $1 OR i.name ILIKE $1
					ORDER BY i.ticker`
)

var _likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type Repository struct {
	db     *sqlx.DB
	logger logger.Logger
}

func NewRepository(db *sqlx.DB, logger logger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) GetByIDs(ctx context.Context, ids []int64) ([]model.Instrument, error) {
	instruments := make([]model.Instrument, 0, len(ids))
	if len(ids) == 0 {
		return instruments, nil
	}
	if err := r.db.SelectContext(ctx, &instruments, _queryByIDs, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("%w: can't get instruments by ids", err)
	}
	return instruments, nil
}

// Search matches ticker or name case-insensitively. Only instruments with at least one bar are returned.
func (r *Repository) Search(ctx context.Context, query string) ([]model.InstrumentQuote, error) {
	quotes := make([]model.InstrumentQuote, 0)
	query = strings.TrimSpace(query)
	if query == "" {
		return quotes, nil
	}

	if err := r.db.SelectContext(ctx, &quotes, _querySearch, "%"+_likeEscaper.Replace(query)+"%"); err != nil {
		return nil, fmt.Errorf("%w: can't search instruments", err)
	}

	for i := range quotes {
		quotes[i].SetDailyReturn()
	}

	r.logger.Debugw("instrument search", "query", query, "found", len(quotes))
	return quotes, nil
}
