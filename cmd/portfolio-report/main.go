package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/STTM-NSU/trading-api/internal/config"
	"github.com/STTM-NSU/trading-api/internal/instrument"
	"github.com/STTM-NSU/trading-api/internal/ledger"
	"github.com/STTM-NSU/trading-api/internal/logger"
	"github.com/STTM-NSU/trading-api/internal/marketdata"
	"github.com/STTM-NSU/trading-api/internal/portfolio"
	"github.com/STTM-NSU/trading-api/internal/postgres"
	"github.com/bytedance/sonic"
	"github.com/joho/godotenv"
)

// portfolio-report prints a user's valued portfolio as JSON using only stored market data,
// optionally falling back to the configured http quotes api.
func main() {
	userID := flag.Int64("user", 0, "user id to value")
	useQuotesAPI := flag.Bool("quotes-api", false, "ask the http quotes api for instruments without stored market data")
	cfgPath := flag.String("config", "./configs/api.yaml", "api config used for the quotes api fallback")
	flag.Parse()

	zapLogger, loggerSync, err := logger.NewZapLogger(logger.Error)
	if err != nil {
		log.Fatalf("%s: can't init logger", err)
	}
	defer loggerSync()

	if *userID <= 0 {
		zapLogger.Fatalf("user id must be positive, use -user")
	}

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

	var quoter marketdata.Quoter
	if *useQuotesAPI {
		cfg, err := config.LoadAPIConfig(*cfgPath)
		if err != nil {
			zapLogger.Fatalf("%s: can't load api cfg", err)
		}
		if cfg.MarketData.Fallback != config.HTTPFallback {
			zapLogger.Fatalf("market data fallback in %s is %q, want %q", *cfgPath, cfg.MarketData.Fallback, config.HTTPFallback)
		}
		httpQuoter := marketdata.NewHTTPQuoter(cfg.MarketData.QuotesAPI, zapLogger)
		defer httpQuoter.Close()
		quoter = httpQuoter
	}

	mdService := marketdata.NewService(db, instrument.NewRepository(db, zapLogger), quoter, zapLogger)
	portfolioService := portfolio.NewService(ledger.NewRepository(db, zapLogger), mdService, zapLogger)

	p, err := portfolioService.GetPortfolio(ctx, *userID)
	if err != nil {
		zapLogger.Fatalf("%s: can't value portfolio of user %d", err, *userID)
	}

	out, err := sonic.ConfigStd.MarshalIndent(p, "", "  ")
	if err != nil {
		zapLogger.Fatalf("%s: can't encode portfolio", err)
	}
	fmt.Println(string(out))
}
