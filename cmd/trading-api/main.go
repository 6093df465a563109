package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/STTM-NSU/trading-api/internal/api"
	"github.com/STTM-NSU/trading-api/internal/config"
	"github.com/STTM-NSU/trading-api/internal/instrument"
	"github.com/STTM-NSU/trading-api/internal/ledger"
	"github.com/STTM-NSU/trading-api/internal/logger"
	"github.com/STTM-NSU/trading-api/internal/marketdata"
	"github.com/STTM-NSU/trading-api/internal/orders"
	"github.com/STTM-NSU/trading-api/internal/portfolio"
	"github.com/STTM-NSU/trading-api/internal/postgres"
	"github.com/STTM-NSU/trading-api/internal/server"
	"github.com/joho/godotenv"
	"github.com/russianinvestments/invest-api-go-sdk/investgo"
)

const (
	_apiCfgFilePath = "./configs/api.yaml"
)

func main() {
	cfg, err := config.LoadAPIConfig(_apiCfgFilePath)
	if err != nil {
		log.Fatalf("%s: can't load api cfg", err)
	}

	zapLogger, loggerSync, err := logger.NewZapLogger(logger.ParseLevel(cfg.LogLevel))
	if err != nil {
		log.Fatalf("%s: can't init logger", err)
	}
	defer loggerSync()

	if err := godotenv.Load(); err != nil {
		zapLogger.Warnf("can't detect .env file")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pgCfg := postgres.NewConfigFromEnv().Setup()
	db, err := postgres.NewDB(ctx, pgCfg)
	if err != nil {
		zapLogger.Fatalf("%s: can't connect to postgres %s", err, pgCfg.Redacted())
	}
	defer db.Close()

	ledgerRepo := ledger.NewRepository(db, zapLogger)
	instrumentRepo := instrument.NewRepository(db, zapLogger)

	var quoter marketdata.Quoter
	switch cfg.MarketData.Fallback {
	case config.InvestFallback:
		investCfg, err := config.LoadInvestConfig(cfg.MarketData.InvestConfigPath)
		if err != nil {
			zapLogger.Fatalf("%s: can't load invest cfg", err)
		}
		investClient, err := investgo.NewClient(ctx, investCfg, zapLogger)
		if err != nil {
			zapLogger.Fatalf("%s: can't create invest client", err)
		}
		defer func() {
			if err := investClient.Stop(); err != nil {
				zapLogger.Errorf("%s: can't stop invest client", err)
			}
		}()
		quoter = marketdata.NewInvestQuoter(investClient, cfg.MarketData.InvestRatePerMinute, zapLogger)
	case config.HTTPFallback:
		httpQuoter := marketdata.NewHTTPQuoter(cfg.MarketData.QuotesAPI, zapLogger)
		defer httpQuoter.Close()
		quoter = httpQuoter
	}

	mdService := marketdata.NewService(db, instrumentRepo, quoter, zapLogger)
	portfolioService := portfolio.NewService(ledgerRepo, mdService, zapLogger)
	orderService := orders.NewService(func(ctx context.Context, fn func(orders.Ledger) error) error {
		return ledgerRepo.InTx(ctx, func(tx *ledger.Repository) error {
			return fn(tx)
		})
	}, mdService, zapLogger)

	handler := api.NewHandler(orderService, portfolioService, instrumentRepo, zapLogger)
	router := api.NewRouter(cfg.Server, handler, zapLogger)

	zapLogger.Infof("market data fallback: %s", cfg.MarketData.Fallback)
	if err := server.NewHTTPServer(ctx, cfg.Server, router, zapLogger).Run(ctx); err != nil {
		zapLogger.Errorf("%s: http server stopped", err)
	}
}
