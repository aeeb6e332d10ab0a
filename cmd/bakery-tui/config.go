package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
	"github.com/tinytelemetry/bakery/internal/ethx"
	"github.com/tinytelemetry/bakery/internal/model"
)

// cliConfig holds only TUI-relevant configuration.
type cliConfig struct {
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
	ConfirmTimeout   time.Duration `mapstructure:"confirm-timeout"`
	DBPath           string        `mapstructure:"db-path"`
	Skin             string        `mapstructure:"skin"`
	LogFile          string        `mapstructure:"log-file"`

	contract common.Address
}

func loadCLIConfig(configPath string) (cliConfig, error) {
	var cfg cliConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("BAKERY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	chain := model.BaseMainnet
	v.SetDefault("endpoint", model.DefaultEndpoint)
	v.SetDefault("contract-address", model.DefaultContractAddress)
	v.SetDefault("chain-id", chain.ID)
	v.SetDefault("chain-name", chain.Name)
	v.SetDefault("chain-rpc-url", chain.RPCURLs[0])
	v.SetDefault("chain-explorer-url", chain.ExplorerURLs[0])
	v.SetDefault("currency-name", chain.NativeCurrency.Name)
	v.SetDefault("currency-symbol", chain.NativeCurrency.Symbol)
	v.SetDefault("currency-decimals", chain.NativeCurrency.Decimals)
	v.SetDefault("update-interval", model.DefaultUpdateInterval)
	v.SetDefault("receipt-interval", model.DefaultReceiptInterval)
	v.SetDefault("request-timeout", model.DefaultRequestTimeout)
	v.SetDefault("confirm-timeout", model.DefaultConfirmTimeout)
	v.SetDefault("db-path", "")
	v.SetDefault("skin", model.DefaultSkin)
	v.SetDefault("log-file", filepath.Join(home, ".local", "state", "bakery", "bakery-tui.log"))

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "bakery", "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	cfg.contract, err = ethx.ParseAddress(cfg.ContractAddress)
	if err != nil {
		return cfg, fmt.Errorf("invalid contract-address: %w", err)
	}
	if cfg.ChainID == 0 {
		return cfg, fmt.Errorf("invalid chain-id: %d", cfg.ChainID)
	}
	if cfg.UpdateInterval <= 0 {
		return cfg, fmt.Errorf("invalid update-interval: %s", cfg.UpdateInterval)
	}
	if cfg.ReceiptInterval <= 0 {
		return cfg, fmt.Errorf("invalid receipt-interval: %s", cfg.ReceiptInterval)
	}
	if cfg.RequestTimeout <= 0 {
		return cfg, fmt.Errorf("invalid request-timeout: %s", cfg.RequestTimeout)
	}
	if cfg.ConfirmTimeout < 0 {
		return cfg, fmt.Errorf("invalid confirm-timeout: %s", cfg.ConfirmTimeout)
	}

	// Expand ~ in paths
	cfg.DBPath = expandHome(home, cfg.DBPath)
	cfg.LogFile = expandHome(home, cfg.LogFile)

	return cfg, nil
}

// chain assembles the network the wallet is asked to switch to.
func (c cliConfig) chain() model.Chain {
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

func expandHome(home, path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
