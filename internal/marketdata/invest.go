package marketdata

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/STTM-NSU/trading-api/internal/logger"
	"github.com/STTM-NSU/trading-api/internal/model"
	"github.com/STTM-NSU/trading-api/internal/tools"
	"github.com/russianinvestments/invest-api-go-sdk/investgo"
	investapi "github.com/russianinvestments/invest-api-go-sdk/proto"
	"go.uber.org/ratelimit"
)

// two weeks always covers at least two trading days
const _candlesLookback = 14 * 24 * time.Hour

type InvestQuoter struct {
	mdService   *investgo.MarketDataServiceClient
	rateLimiter ratelimit.Limiter
	logger      logger.Logger

	now func() time.Time
}

func NewInvestQuoter(c *investgo.Client, ratePerMinute int, logger logger.Logger) *InvestQuoter {
	return &InvestQuoter{
		mdService:   c.NewMarketDataServiceClient(),
		rateLimiter: ratelimit.New(ratePerMinute, ratelimit.Per(1*time.Minute)),
		logger:      logger,
		now:         time.Now,
	}
}

// Quote builds a bar per instrument from its two latest daily candles. Instruments without an
// external id or without candles are skipped.
func (q *InvestQuoter) Quote(ctx context.Context, instruments []model.Instrument) ([]model.MarketData, error) {
	result := make([]model.MarketData, 0, len(instruments))
	for _, i := range instruments {
		if !i.ExternalID.Valid || i.ExternalID.String == "" {
			q.logger.Warnf("instrument %s has no external id, skipping remote quote", i.Ticker)
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		to := q.now().UTC()
		q.rateLimiter.Take()
		resp, err := q.mdService.GetCandles(i.ExternalID.String, investapi.CandleInterval_CANDLE_INTERVAL_DAY,
			to.Add(-_candlesLookback), to, 0, 0)
		if err != nil {
			return nil, fmt.Errorf("%w: can't get candles for %s", err, i.Ticker)
		}

		md, ok := candlesToMarketData(i.ID, resp.GetCandles())
		if !ok {
			q.logger.Warnf("empty candles from api for %s", i.Ticker)
			continue
		}
		result = append(result, md)
	}
	return result, nil
}

func candlesToMarketData(instrumentID int64, candles []*investapi.HistoricCandle) (model.MarketData, bool) {
	if len(candles) == 0 {
		return model.MarketData{}, false
	}

	sorted := slices.Clone(candles)
	slices.SortFunc(sorted, func(a, b *investapi.HistoricCandle) int {
		return a.GetTime().AsTime().Compare(b.GetTime().AsTime())
	})

	last := sorted[len(sorted)-1]
	md := model.MarketData{
		InstrumentID: instrumentID,
		Date:         last.GetTime().AsTime().Truncate(24 * time.Hour),
		Open:         tools.QuotationToDecimal(last.GetOpen()),
		High:         tools.QuotationToDecimal(last.GetHigh()),
		Low:          tools.QuotationToDecimal(last.GetLow()),
		Close:        tools.QuotationToDecimal(last.GetClose()),
	}
	if len(sorted) > 1 {
		md.PreviousClose = tools.QuotationToDecimal(sorted[len(sorted)-2].GetClose())
	}
	return md, true
}
