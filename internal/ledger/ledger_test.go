package ledger

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/STTM-NSU/trading-api/internal/logger"
	"github.com/STTM-NSU/trading-api/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _orderColumns = []string{
	"id", "user_id", "instrument_id", "side", "type", "size", "price", "status", "created_at",
	"instrument_type", "ticker", "name",
}

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(sqlx.NewDb(db, "postgres"), logger.NewNop()), mock
}

func TestGetAvailableCash(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(_queryAvailableCash)).
		WithArgs(int64(1), "CASH_IN", "CASH_OUT", "FILLED", "CASH").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(int64(750)))

	cash, err := repo.GetAvailableCash(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(750), cash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAvailableCashPropagatesErrors(t *testing.T) {
	repo, mock := newMockRepository(t)
	boom := errors.New("connection reset")

	mock.ExpectQuery(regexp.QuoteMeta(_queryAvailableCash)).WillReturnError(boom)

	_, err := repo.GetAvailableCash(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
}

func TestGetFilledOrders(t *testing.T) {
	repo, mock := newMockRepository(t)
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(_queryFilledOrders)).
		WithArgs(int64(1), "FILLED").
		WillReturnRows(sqlmock.NewRows(_orderColumns).
			AddRow(int64(1), int64(1), int64(66), "CASH_IN", "MARKET", int64(1000), "1", "FILLED", ts, "CASH", "ARS", "PESOS").
			AddRow(int64(2), int64(1), int64(47), "BUY", "MARKET", int64(10), "12.5", "FILLED", ts.Add(time.Minute), "STOCK", "PAMP", "Pampa Holding S.A.").
			AddRow(int64(3), int64(1), int64(47), "SELL", "MARKET", int64(4), nil, "FILLED", ts.Add(2*time.Minute), "STOCK", "PAMP", "Pampa Holding S.A."))

	orders, err := repo.GetFilledOrders(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, orders, 3)

	assert.Equal(t, model.CashIn, orders[0].Side)
	assert.Equal(t, model.Cash, orders[0].InstrumentType)
	assert.True(t, orders[1].Price.Valid)
	assert.True(t, decimal.RequireFromString("12.5").Equal(orders[1].Price.Decimal))
	assert.Equal(t, "PAMP", orders[1].Ticker)
	assert.False(t, orders[2].Price.Valid)
	assert.Equal(t, int64(-4), orders[2].SignedSize())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetFilledOrdersEmpty(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(_queryFilledOrdersByInstrument)).
		WithArgs(int64(2), int64(47), "FILLED").
		WillReturnRows(sqlmock.NewRows(_orderColumns))

	orders, err := repo.GetFilledOrdersByInstrument(context.Background(), 2, 47)
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestAddOrder(t *testing.T) {
	repo, mock := newMockRepository(t)
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	order := &model.Order{
		UserID:       1,
		InstrumentID: 47,
		Side:         model.Buy,
		Type:         model.Limit,
		Size:         5,
		Price:        decimal.NewNullDecimal(decimal.NewFromInt(19)),
		Status:       model.StatusNew,
		CreatedAt:    ts,
	}

	mock.ExpectQuery(regexp.QuoteMeta(_insertOrder)).
		WithArgs(int64(1), int64(47), "BUY", "LIMIT", int64(5), "19", "NEW", ts).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	require.NoError(t, repo.AddOrder(context.Background(), order))
	assert.Equal(t, int64(42), order.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInTxCommits(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(_queryAvailableCash)).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(int64(10)))
	mock.ExpectCommit()

	err := repo.InTx(context.Background(), func(tx *Repository) error {
		_, err := tx.GetAvailableCash(context.Background(), 1)
		return err
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInTxRollsBackOnError(t *testing.T) {
	repo, mock := newMockRepository(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := repo.InTx(context.Background(), func(tx *Repository) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInTxRejectsNesting(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := repo.InTx(context.Background(), func(tx *Repository) error {
		return tx.InTx(context.Background(), func(*Repository) error { return nil })
	})
	assert.ErrorIs(t, err, ErrNestedTx)
	assert.NoError(t, mock.ExpectationsWereMet())
}
