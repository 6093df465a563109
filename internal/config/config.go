package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/russianinvestments/invest-api-go-sdk/investgo"
)

const (
	InvestTokenEnv = "T_INVEST_API_TOKEN"

	_defaultInvestAppName = "trading-api"
)

var ErrEmptyInvestToken = errors.New("empty t-invest api token")

// LoadInvestConfig reads the broker sdk config used by the invest quotes fallback.
// The token is never read from the file, only from InvestTokenEnv.
func LoadInvestConfig(filename string) (investgo.Config, error) {
	cfg, err := investgo.LoadConfig(filename)
	if err != nil {
		return investgo.Config{}, fmt.Errorf("%w: can't load invest config %s", err, filename)
	}

	cfg.Token = os.Getenv(InvestTokenEnv)
	if cfg.Token == "" {
		return investgo.Config{}, fmt.Errorf("%w: set %s", ErrEmptyInvestToken, InvestTokenEnv)
	}
	if cfg.AppName == "" {
		cfg.AppName = _defaultInvestAppName
	}

	return cfg, nil
}
