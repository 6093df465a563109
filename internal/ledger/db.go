package ledger

import (
	"context"
	"fmt"

	"github.com/STTM-NSU/trading-api/internal/model"
	"github.com/jmoiron/sqlx"
)

const (
	_queryAvailableCash = `SELECT COALESCE(SUM(CASE
								WHEN o.side = $2 THEN o.size
								WHEN o.side = $3 THEN -o.size
								ELSE 0 END), 0)
							FROM orders o
							JOIN instruments i ON i.id = o.instrument_id
							WHERE o.user_id = $1 AND o.status = $4 AND i.type = $5`
	_queryFilledOrders = `SELECT o.id, o.user_id, o.instrument_id, o.side, o.type, o.size, o.price, o.status, o.created_at,
								i.type AS instrument_type, i.ticker, i.name
							FROM orders o
							JOIN instruments i ON i.id = o.instrument_id
							WHERE o.user_id = $1 AND o.status = $2
							ORDER BY o.created_at, o.id`
	_queryFilledOrdersByInstrument = `SELECT o.id, o.user_id, o.instrument_id, o.side, o.type, o.size, o.price, o.status, o.created_at,
								i.type AS instrument_type, i.ticker, i.name
							FROM orders o
							JOIN instruments i ON i.id = o.instrument_id
							WHERE o.user_id = $1 AND o.instrument_id = $2 AND o.status = $3
							ORDER BY o.created_at, o.id`
	_insertOrder = `INSERT INTO orders (
								user_id,
								instrument_id,
								side,
								type,
								size,
								price,
								status,
								created_at
							) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
							RETURNING id`
)

// GetAvailableCash is the net of CASH_IN and CASH_OUT sizes over the user's filled cash orders.
func (r *Repository) GetAvailableCash(ctx context.Context, userID int64) (int64, error) {
	var cash int64
	if err := sqlx.GetContext(ctx, r.ext, &cash, _queryAvailableCash,
		userID, model.CashIn, model.CashOut, model.StatusFilled, model.Cash,
	); err != nil {
		return 0, fmt.Errorf("%w: can't query available cash", err)
	}
	return cash, nil
}

// GetFilledOrders returns the user's filled orders, oldest first.
func (r *Repository) GetFilledOrders(ctx context.Context, userID int64) ([]model.Order, error) {
	orders := make([]model.Order, 0)
	if err := sqlx.SelectContext(ctx, r.ext, &orders, _queryFilledOrders, userID, model.StatusFilled); err != nil {
		return nil, fmt.Errorf("%w: can't query filled orders", err)
	}
	return orders, nil
}

// GetFilledOrdersByInstrument returns the user's filled orders on one instrument, oldest first.
func (r *Repository) GetFilledOrdersByInstrument(ctx context.Context, userID, instrumentID int64) ([]model.Order, error) {
	orders := make([]model.Order, 0)
	if err := sqlx.SelectContext(ctx, r.ext, &orders, _queryFilledOrdersByInstrument,
		userID, instrumentID, model.StatusFilled,
	); err != nil {
		return nil, fmt.Errorf("%w: can't query filled orders for instrument", err)
	}
	return orders, nil
}

// AddOrder appends the order and stores the generated id into it.
func (r *Repository) AddOrder(ctx context.Context, order *model.Order) error {
	if err := r.ext.QueryRowxContext(ctx, _insertOrder,
		order.UserID,
		order.InstrumentID,
		order.Side,
		order.Type,
		order.Size,
		order.Price,
		order.Status,
		order.CreatedAt,
	).Scan(&order.ID); err != nil {
		return fmt.Errorf("%w: can't insert order", err)
	}

	r.logger.Debugw("order appended",
		"order_id", order.ID,
		"user_id", order.UserID,
		"instrument_id", order.InstrumentID,
		"status", order.Status,
	)
	return nil
}
