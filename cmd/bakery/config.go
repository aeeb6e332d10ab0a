package main

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tinytelemetry/bakery/internal/model"
)

const (
	defaultBindHost      = "127.0.0.1"
	defaultAPIPort       = 3000
	defaultRetentionDays = 90 // 0 = disabled
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	Endpoint         string        `mapstructure:"endpoint"`
	ContractAddress  string        `mapstructure:"contract-address"`
	ChainID          uint64        `mapstructure:"chain-id"`
	ChainName        string        `mapstructure:"chain-name"`
	ChainRPCURL      string        `mapstructure:"chain-rpc-url"`
	ChainExplorerURL string        `mapstructure:"chain-explorer-url"`
	CurrencyName     string        `mapstructure:"currency-name"`
	CurrencySymbol   string        `mapstructure:"currency-symbol"`
	CurrencyDecimals int           `mapstructure:"currency-decimals"`
	UpdateInterval   time.Duration `mapstructure:"update-interval"`
	ReceiptInterval  time.Duration `mapstructure:"receipt-interval"`
	RequestTimeout   time.Duration `mapstructure:"request-timeout"`
	DBPath           string        `mapstructure:"db-path"`
	BakerAddress     string        `mapstructure:"baker-address"`
	APIEnabled       bool          `mapstructure:"api-enabled"`
	APIPort          int           `mapstructure:"api-port"`
	APIAddr          string        `mapstructure:"api-addr"`
	RetentionDays    int           `mapstructure:"retention-days"`
	ConfigPath       string        `mapstructure:"-"` // not from config file

	contract common.Address
	baker    common.Address
}

// chain assembles the network definition handed to the session.
func (c appConfig) chain() model.Chain {
	ch := model.Chain{
		ID:   c.ChainID,
		Name: c.ChainName,
		NativeCurrency: model.NativeCurrency{
			Name:     c.CurrencyName,
			Symbol:   c.CurrencySymbol,
			Decimals: c.CurrencyDecimals,
		},
	}
	if c.ChainRPCURL != "" {
		ch.RPCURLs = []string{c.ChainRPCURL}
	}
	if c.ChainExplorerURL != "" {
		ch.ExplorerURLs = []string{c.ChainExplorerURL}
	}
	return ch
}
