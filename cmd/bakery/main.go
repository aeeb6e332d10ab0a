package main

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"github.com/tinytelemetry/bakery/internal/ethx"
	"github.com/tinytelemetry/bakery/internal/model"
)

// Build variables - set by ldflags during build.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	var configPath string
	var exportDir string
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/bakery/config.yml)")
	flag.StringVar(&exportDir, "export", "", "export recorded history as parquet into dir and exit")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("Pizza Bakery - Watcher\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if exportDir != "" {
		err = runExport(cfg, exportDir)
	} else {
		err = runServer(cfg)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(configPath string) (appConfig, error) {
	var cfg appConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	defaultDBPath := filepath.Join(home, ".local", "share", "bakery", "bakery.duckdb")

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
	v.SetDefault("db-path", defaultDBPath)
	v.SetDefault("baker-address", "")
	v.SetDefault("api-enabled", true)
	v.SetDefault("api-port", defaultAPIPort)
	v.SetDefault("api-addr", "")
	v.SetDefault("retention-days", defaultRetentionDays)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		defaultConfigPath := filepath.Join(home, ".config", "bakery", "config.yml")
		v.SetConfigFile(defaultConfigPath)
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
	cfg.ConfigPath = v.ConfigFileUsed()
	if _, err := os.Stat(cfg.ConfigPath); err != nil {
		cfg.ConfigPath = ""
	}

	cfg.contract, err = ethx.ParseAddress(cfg.ContractAddress)
	if err != nil {
		return cfg, fmt.Errorf("invalid contract-address: %w", err)
	}
	if cfg.BakerAddress != "" {
		cfg.baker, err = ethx.ParseAddress(cfg.BakerAddress)
		if err != nil {
			return cfg, fmt.Errorf("invalid baker-address: %w", err)
		}
	}
	if cfg.ChainID == 0 {
		return cfg, fmt.Errorf("invalid chain-id: %d", cfg.ChainID)
	}
	if cfg.UpdateInterval <= 0 {
		return cfg, fmt.Errorf("invalid update-interval: %s", cfg.UpdateInterval)
	}
	if cfg.RequestTimeout <= 0 {
		return cfg, fmt.Errorf("invalid request-timeout: %s", cfg.RequestTimeout)
	}
	if cfg.APIPort <= 0 || cfg.APIPort > 65535 {
		return cfg, fmt.Errorf("invalid api-port: %d", cfg.APIPort)
	}
	if cfg.RetentionDays < 0 {
		return cfg, fmt.Errorf("invalid retention-days: %d", cfg.RetentionDays)
	}

	// Expand ~ in db-path
	if strings.HasPrefix(cfg.DBPath, "~/") {
		cfg.DBPath = filepath.Join(home, cfg.DBPath[2:])
	}

	if cfg.APIAddr == "" {
		cfg.APIAddr = net.JoinHostPort(defaultBindHost, strconv.Itoa(cfg.APIPort))
	}

	return cfg, nil
}
