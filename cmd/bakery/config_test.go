package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tinytelemetry/bakery/internal/ethx"
	"github.com/tinytelemetry/bakery/internal/model"
)

func TestLoadConfig_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if cfg.Endpoint != model.DefaultEndpoint {
		t.Errorf("endpoint = %q", cfg.Endpoint)
	}
	if cfg.ChainID != 8453 {
		t.Errorf("chain-id = %d, want 8453", cfg.ChainID)
	}
	if cfg.UpdateInterval != 5*time.Second {
		t.Errorf("update-interval = %s", cfg.UpdateInterval)
	}
	if want := filepath.Join(home, ".local", "share", "bakery", "bakery.duckdb"); cfg.DBPath != want {
		t.Errorf("db-path = %q, want %q", cfg.DBPath, want)
	}
	if cfg.APIAddr != "127.0.0.1:3000" {
		t.Errorf("api-addr = %q", cfg.APIAddr)
	}
	if !cfg.APIEnabled {
		t.Error("api should be enabled by default")
	}
	if cfg.RetentionDays != defaultRetentionDays {
		t.Errorf("retention-days = %d", cfg.RetentionDays)
	}
	if ethx.IsZero(cfg.contract) {
		t.Error("contract address not parsed")
	}
	if !ethx.IsZero(cfg.baker) {
		t.Errorf("baker = %s, want unset", cfg.baker.Hex())
	}
	if cfg.ConfigPath != "" {
		t.Errorf("config path = %q, want empty without a file", cfg.ConfigPath)
	}
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(home, "bakery.yml")
	content := strings.Join([]string{
		"baker-address: 0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
		"api-port: 3100",
		"db-path: ~/data/bakery.duckdb",
		"update-interval: 10s",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("BAKERY_CHAIN_ID", "84532")

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if cfg.baker.Hex() != "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed" {
		t.Errorf("baker = %s", cfg.baker.Hex())
	}
	if cfg.APIAddr != "127.0.0.1:3100" {
		t.Errorf("api-addr = %q", cfg.APIAddr)
	}
	if want := filepath.Join(home, "data", "bakery.duckdb"); cfg.DBPath != want {
		t.Errorf("db-path = %q, want %q", cfg.DBPath, want)
	}
	if cfg.UpdateInterval != 10*time.Second {
		t.Errorf("update-interval = %s", cfg.UpdateInterval)
	}
	if cfg.ChainID != 84532 {
		t.Errorf("chain-id = %d, want env override 84532", cfg.ChainID)
	}
	if cfg.ConfigPath != path {
		t.Errorf("config path = %q", cfg.ConfigPath)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"contract", "BAKERY_CONTRACT_ADDRESS", "0x1234"},
		{"baker", "BAKERY_BAKER_ADDRESS", "not-an-address"},
		{"chain id", "BAKERY_CHAIN_ID", "0"},
		{"api port", "BAKERY_API_PORT", "70000"},
		{"interval", "BAKERY_UPDATE_INTERVAL", "0s"},
		{"retention", "BAKERY_RETENTION_DAYS", "-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			t.Setenv(tt.key, tt.value)
			if _, err := loadConfig(""); err == nil {
				t.Errorf("%s=%s: expected error", tt.key, tt.value)
			}
		})
	}
}

func TestChain_FromConfig(t *testing.T) {
	cfg := appConfig{
		ChainID:          84532,
		ChainName:        "Base Sepolia",
		ChainExplorerURL: "https://sepolia.basescan.org",
		CurrencyName:     "Ethereum",
		CurrencySymbol:   "ETH",
		CurrencyDecimals: 18,
	}
	ch := cfg.chain()
	if ch.HexID() != "0x14a34" {
		t.Errorf("hex id = %s", ch.HexID())
	}
	if ch.NativeCurrency.Symbol != "ETH" || ch.NativeCurrency.Decimals != 18 {
		t.Errorf("currency = %+v", ch.NativeCurrency)
	}
	if len(ch.RPCURLs) != 0 {
		t.Errorf("rpc urls = %v, want none when unset", ch.RPCURLs)
	}
	if len(ch.ExplorerURLs) != 1 || ch.ExplorerURLs[0] != "https://sepolia.basescan.org" {
		t.Errorf("explorer urls = %v", ch.ExplorerURLs)
	}
}
