package marketdata

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/STTM-NSU/trading-api/internal/config"
	"github.com/STTM-NSU/trading-api/internal/logger"
	"github.com/STTM-NSU/trading-api/internal/model"
	"github.com/bytedance/sonic"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

const (
	_quotesURL = "/quotes"
)

type HTTPQuoter struct {
	c           *resty.Client
	rateLimiter ratelimit.Limiter

	logger logger.Logger
}

func NewHTTPQuoter(cfg config.QuotesAPIConfig, logger logger.Logger) *HTTPQuoter {
	client := resty.New().
		SetLogger(logger).
		SetBaseURL(cfg.Address).
		SetTimeout(cfg.Timeout).
		AddContentTypeDecoder("json", func(r io.Reader, v any) error {
			return sonic.ConfigStd.NewDecoder(r).Decode(v)
		})

	return &HTTPQuoter{
		c:           client,
		rateLimiter: ratelimit.New(cfg.RatePerMinute, ratelimit.Per(1*time.Minute)),
		logger:      logger,
	}
}

func (q *HTTPQuoter) Close() error {
	return q.c.Close()
}

// curl -X GET "http://quotes.local:8000/quotes?tickers=PAMP,YPFD" -H "accept: application/json"
func (q *HTTPQuoter) Quote(ctx context.Context, instruments []model.Instrument) ([]model.MarketData, error) {
	if len(instruments) == 0 {
		return []model.MarketData{}, nil
	}

	byTicker := make(map[string]int64, len(instruments))
	tickers := make([]string, 0, len(instruments))
	for _, i := range instruments {
		byTicker[i.Ticker] = i.ID
		tickers = append(tickers, i.Ticker)
	}

	q.rateLimiter.Take()
	resp, err := q.c.R().
		SetQueryParam("tickers", strings.Join(tickers, ",")).
		SetResult(&model.QuotesResponse{}).
		SetError(&model.QuotesErrorResponse{}).
		SetContext(ctx).
		Get(_quotesURL)
	if err != nil {
		return nil, fmt.Errorf("%w: can't send request for quotes", err)
	}

	q.logger.Debugf("got response %s status: %s, %s", resp.Request.URL, resp.Status(), resp.Duration())

	if resp.IsError() {
		response := resp.Error().(*model.QuotesErrorResponse)
		return nil, fmt.Errorf("%s: quotes request error, retry after %s", response.Message, response.RetryAfter())
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("quotes unexpected request error: %s", resp.Status())
	}

	quotes := resp.Result().(*model.QuotesResponse).Quotes
	result := make([]model.MarketData, 0, len(quotes))
	for _, quote := range quotes {
		id, ok := byTicker[quote.Ticker]
		if !ok {
			q.logger.Warnf("quotes api returned unrequested ticker %s", quote.Ticker)
			continue
		}
		date, err := time.Parse(time.DateOnly, quote.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid quote date for %s", err, quote.Ticker)
		}
		result = append(result, model.MarketData{
			InstrumentID:  id,
			Date:          date,
			Open:          quote.Open,
			High:          quote.High,
			Low:           quote.Low,
			Close:         quote.Close,
			PreviousClose: quote.PreviousClose,
		})
	}
	return result, nil
}
