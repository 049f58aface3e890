package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"consultation-triage/config"
	"consultation-triage/internal/portal"
	"consultation-triage/internal/run"
	"consultation-triage/internal/session"
	"consultation-triage/pkg/browser"
	"consultation-triage/pkg/log"
)

// main is the entry point for the bulk sales-order eligibility scan.
//
// Pattern:
//  1. Initialize config and logger (same as cmd/consultbot/main.go)
//  2. Collect identifiers from args or --input
//  3. Run the worker pool, one browser session per worker
//  4. Print per-identifier verdicts
func main() {
	var (
		configPath = pflag.StringP("config", "c", "", "path to config file")
		driverName = pflag.String("driver", "chromium", "registered browser driver")
		headless   = pflag.Bool("headless", true, "run the browser without a window")
		workers    = pflag.IntP("workers", "w", 0, "worker count (overrides config)")
		input      = pflag.StringP("input", "i", "", "file with one sales-order identifier per line")
	)
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		os.Exit(1)
	}
	if *workers > 0 {
		cfg.Bulk.Workers = *workers
	}

	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	identifiers, err := collectIdentifiers(*input, pflag.Args())
	if err != nil {
		logger.Errorf(ctx, "Failed to read identifiers: %v", err)
		os.Exit(1)
	}
	if len(identifiers) == 0 {
		fmt.Println("Usage: bulkverify [--input file] [identifiers...]")
		os.Exit(2)
	}
	logger.Infof(ctx, "Bulk verification: %d identifiers, %d workers", len(identifiers), cfg.Bulk.Workers)

	// Workers share one cookie store; the store serializes access itself.
	store := session.NewStateStore(cfg.Session.StatePath)
	factory := func(ctx context.Context) (browser.Session, error) {
		raw, err := browser.Open(ctx, *driverName, browser.Options{
			Headless:    *headless,
			PageTimeout: cfg.Portal.PageTimeout,
			ArtifactDir: cfg.Finalize.DiagnosticDir,
		})
		if err != nil {
			return nil, err
		}
		sess := browser.NewRateLimited(raw, cfg.Portal.NavsPerMinute)
		manager := session.NewManager(sess, store, logger, cfg.Portal.BaseURL, cfg.Session.EnvPath, cfg.Portal.PageTimeout)
		if err := manager.Bootstrap(ctx); err != nil {
			raw.Close()
			return nil, err
		}
		return sess, nil
	}

	pool := run.NewBulkPool(cfg.Bulk, factory, portal.SalesOrderEligibility(cfg.Portal, logger), logger)
	results := pool.Verify(ctx, identifiers)

	for _, res := range results {
		if res.Err != nil {
			fmt.Printf("%s\tERROR\t%v\n", res.Identifier, res.Err)
			continue
		}
		fmt.Printf("%s\t%s\n", res.Identifier, res.Detail)
	}

	failed := run.Failed(results)
	logger.Infof(ctx, "Bulk verification done: %d checked, %d failed", len(results), failed)
	if failed > 0 {
		os.Exit(1)
	}
}

// collectIdentifiers merges the input file (if given) with positional args,
// preserving order and dropping blanks.
func collectIdentifiers(path string, args []string) ([]string, error) {
	var ids []string
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if id := strings.TrimSpace(scanner.Text()); id != "" {
				ids = append(ids, id)
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}
	for _, arg := range args {
		if id := strings.TrimSpace(arg); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
