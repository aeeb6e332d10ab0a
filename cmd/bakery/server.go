package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/ethereum/go-ethereum/common"
	"github.com/tinytelemetry/bakery/internal/baker"
	"github.com/tinytelemetry/bakery/internal/duckdb"
	"github.com/tinytelemetry/bakery/internal/ethx"
	"github.com/tinytelemetry/bakery/internal/httpserver"
	"github.com/tinytelemetry/bakery/internal/model"
	"github.com/tinytelemetry/bakery/internal/rpc"
	"golang.org/x/sync/errgroup"
)

// runServer watches one baker, records what it sees and serves the HTTP API.
func runServer(cfg appConfig) error {
	configureRuntimeLogger()

	store, err := duckdb.NewStore(cfg.DBPath, cfg.RequestTimeout)
	if err != nil {
		return fmt.Errorf("failed to initialize DuckDB: %w", err)
	}
	defer store.Close()

	// Start retention cleaner for automatic history expiry
	retentionCleaner := duckdb.NewRetentionCleaner(store, duckdb.RetentionConfig{
		RetentionDays: cfg.RetentionDays,
	})
	if retentionCleaner != nil {
		defer retentionCleaner.Stop()
	}

	client, err := rpc.Dial(cfg.Endpoint)
	if err != nil {
		return fmt.Errorf("wallet endpoint %s: %w", cfg.Endpoint, err)
	}
	defer client.Close()

	service := baker.NewService(client, baker.Config{
		Contract:        cfg.contract,
		Chain:           cfg.chain(),
		ReceiptInterval: cfg.ReceiptInterval,
	}, store)

	// Set up context and signal handling before errgroup
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	account, err := bindAccount(ctx, service, cfg)
	if err != nil {
		return err
	}

	var apiServer *httpserver.Server
	if cfg.APIEnabled {
		apiServer = httpserver.NewServer(cfg.APIAddr, account, store, service)
		if err := apiServer.Start(); err != nil {
			return fmt.Errorf("failed to start API server: %w", err)
		}
		defer apiServer.Stop()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nShutting down gracefully... (press Ctrl+C again to force)")
		cancel()

		// Shutdown deadline starts now, not at boot.
		deadline := time.NewTimer(10 * time.Second)
		defer deadline.Stop()

		select {
		case <-sigCh:
			fmt.Println("\nForce shutdown.")
		case <-deadline.C:
			fmt.Println("Shutdown timed out, forcing exit.")
		}
		os.Exit(1)
	}()

	printStartupBanner(cfg, account)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		service.Watch(gctx, cfg.UpdateInterval, cfg.RequestTimeout, func(info model.BakerInfo, err error) {
			if apiServer != nil {
				apiServer.ReportPoll(time.Now(), err)
			}
			if err != nil {
				log.Printf("watcher: read failed: %v", err)
				return
			}
			log.Printf("watcher: progress %d/%d, pizzas %d, points %d, next check-in in %s",
				info.PizzaProgress, model.CheckInsPerPizza, info.TotalPizzas, info.Points, info.TimeLeft)
		})
		return nil
	})

	// Wait for context cancellation (from signal handler) in the errgroup
	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Printf("server: errgroup exited with error: %v", err)
	}

	cancel()
	signal.Stop(sigCh)

	return nil
}

// bindAccount pins the configured baker or falls back to the wallet's
// already-authorized account. It never prompts.
func bindAccount(ctx context.Context, service *baker.Service, cfg appConfig) (common.Address, error) {
	if !ethx.IsZero(cfg.baker) {
		service.Bind(cfg.baker)
		return cfg.baker, nil
	}

	reqCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	defer cancel()
	account, err := service.Restore(reqCtx)
	if errors.Is(err, baker.ErrNotConnected) {
		return common.Address{}, fmt.Errorf("no account to watch: set baker-address or authorize an account in the wallet at %s", cfg.Endpoint)
	}
	if err != nil {
		return common.Address{}, fmt.Errorf("restore wallet session: %w", err)
	}
	return account, nil
}

// runExport dumps the recorded history to dir without touching the wallet.
func runExport(cfg appConfig, dir string) error {
	store, err := duckdb.NewStore(cfg.DBPath, cfg.RequestTimeout)
	if err != nil {
		return fmt.Errorf("failed to initialize DuckDB: %w", err)
	}
	defer store.Close()

	if err := store.ExportTo(dir); err != nil {
		return err
	}
	fmt.Printf("Exported %s to %s\n", shortenPath(cfg.DBPath), dir)
	return nil
}

func configureRuntimeLogger() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.SetOutput(os.Stderr)
}

func printStartupBanner(cfg appConfig, account common.Address) {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	orange := lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	bold := lipgloss.NewStyle().Bold(true)

	check := green.Render("●")
	dot := dim.Render("●")

	logo := orange.Bold(true).Render(`
    ╔╗ ╔═╗╦╔═╔═╗╦═╗╦ ╦
    ╠╩╗╠═╣╠╩╗║╣ ╠╦╝╚╦╝
    ╚═╝╩ ╩╩ ╩╚═╝╩╚═ ╩ `)

	ver := dim.Render("v" + version)

	var lines []string
	lines = append(lines, "")
	lines = append(lines, logo)
	lines = append(lines, "    "+ver)
	lines = append(lines, "")

	separator := dim.Render("    ─────────────────────────────────")
	lines = append(lines, separator)
	lines = append(lines, "")

	// Chain
	lines = append(lines, bold.Render("    Chain"))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("    %s  Wallet         %s", check, orange.Render(cfg.Endpoint)))
	lines = append(lines, fmt.Sprintf("    %s  Network        %s", check, dim.Render(fmt.Sprintf("%s (%d)", cfg.ChainName, cfg.ChainID))))
	lines = append(lines, fmt.Sprintf("    %s  Contract       %s", check, dim.Render(cfg.contract.Hex())))
	lines = append(lines, fmt.Sprintf("    %s  Baker          %s", check, dim.Render(account.Hex())))
	lines = append(lines, "")

	// Gateway
	lines = append(lines, bold.Render("    Gateway"))
	lines = append(lines, "")
	if cfg.APIEnabled {
		lines = append(lines, fmt.Sprintf("    %s  HTTP API       %s", check, orange.Render(cfg.APIAddr)))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  HTTP API       %s", dot, dim.Render("disabled")))
	}
	lines = append(lines, "")

	// Storage
	lines = append(lines, bold.Render("    Storage"))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("    %s  Storage        %s", check, dim.Render(shortenPath(cfg.DBPath))))
	if cfg.RetentionDays > 0 {
		lines = append(lines, fmt.Sprintf("    %s  Retention      %s", check, dim.Render(fmt.Sprintf("%d days", cfg.RetentionDays))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Retention      %s", dot, dim.Render("disabled")))
	}
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Config"))
	lines = append(lines, "")
	if cfg.ConfigPath != "" {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", check, dim.Render(shortenPath(cfg.ConfigPath))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", dot, dim.Render("default (no file)")))
	}

	lines = append(lines, "")
	lines = append(lines, separator)
	lines = append(lines, "")
	lines = append(lines, "    "+dim.Render("Press ")+yellow.Render("Ctrl+C")+dim.Render(" to stop"))
	lines = append(lines, "")

	fmt.Println(strings.Join(lines, "\n"))
}

func shortenPath(path string) string {
	if path == "" {
		return "in-memory"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
