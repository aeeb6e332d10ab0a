package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/tinytelemetry/bakery/internal/baker"
	"github.com/tinytelemetry/bakery/internal/duckdb"
	"github.com/tinytelemetry/bakery/internal/rpc"
	"github.com/tinytelemetry/bakery/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	var configPath string
	var endpoint string
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/bakery/config.yml)")
	flag.StringVar(&endpoint, "endpoint", "", "override wallet provider endpoint (http://, ws://, ipc:// or socket path)")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("Pizza Bakery - Check-in Client\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	cfg, err := loadCLIConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if endpoint != "" {
		cfg.Endpoint = endpoint
	}

	if err := runTUI(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(cfg cliConfig) error {
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
		f, err := tea.LogToFile(cfg.LogFile, "bakery-tui ")
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	}

	configDir := os.Getenv("HOME") + "/.config/bakery"
	if err := tui.InitializeSkin(cfg.Skin, configDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to load skin '%s': %v (using default)\n", cfg.Skin, err)
	}

	client, err := rpc.Dial(cfg.Endpoint)
	if err != nil {
		return fmt.Errorf("wallet endpoint %s: %w", cfg.Endpoint, err)
	}
	defer client.Close()

	store, err := duckdb.NewStore(cfg.DBPath, cfg.RequestTimeout)
	if err != nil {
		return fmt.Errorf("failed to initialize DuckDB: %w", err)
	}
	defer store.Close()

	service := baker.NewService(client, baker.Config{
		Contract:        cfg.contract,
		Chain:           cfg.chain(),
		ReceiptInterval: cfg.ReceiptInterval,
	}, store)

	log.Printf("bakery-tui: %s starting, endpoint %s, contract %s", version, cfg.Endpoint, cfg.contract.Hex())

	bakerModel := tui.NewBakerModel(service, store, tui.Options{
		UpdateInterval: cfg.UpdateInterval,
		RequestTimeout: cfg.RequestTimeout,
		ConfirmTimeout: cfg.ConfirmTimeout,
	})
	app := tui.NewApp(tui.NewBakerPage(bakerModel))

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return fmt.Errorf("TUI requires a real terminal")
		}
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
