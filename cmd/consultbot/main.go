package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/pflag"

	"consultation-triage/config"
	"consultation-triage/internal/classify"
	"consultation-triage/internal/finalize"
	"consultation-triage/internal/portal"
	"consultation-triage/internal/run"
	"consultation-triage/internal/session"
	"consultation-triage/internal/status"
	"consultation-triage/internal/summary"
	"consultation-triage/pkg/browser"
	"consultation-triage/pkg/log"
)

func main() {
	var (
		configPath = pflag.StringP("config", "c", "", "path to config file")
		driverName = pflag.String("driver", "chromium", "registered browser driver")
		headless   = pflag.Bool("headless", true, "run the browser without a window")
		dryRun     = pflag.Bool("dry-run", false, "write notes only, never toggle completion or billing")
	)
	pflag.Parse()

	// 1. Configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		os.Exit(1)
	}
	if *dryRun {
		cfg.DryRun = true
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting consultation triage run...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)
	logger.Infof(ctx, "Portal: %s", cfg.Portal.BaseURL)
	if cfg.DryRun {
		logger.Warn(ctx, "Dry run: completion and billing toggles are disabled")
	}

	// 3. Browser session
	raw, err := browser.Open(ctx, *driverName, browser.Options{
		Headless:    *headless,
		PageTimeout: cfg.Portal.PageTimeout,
		ArtifactDir: cfg.Finalize.DiagnosticDir,
	})
	if err != nil {
		logger.Errorf(ctx, "Failed to open browser session: %v", err)
		os.Exit(1)
	}
	defer func() {
		if err := raw.Close(); err != nil {
			logger.Warnf(ctx, "Failed to close browser session: %v", err)
		}
	}()
	sess := browser.NewRateLimited(raw, cfg.Portal.NavsPerMinute)

	// 4. Login. A bootstrap failure is fatal before any task is touched.
	store := session.NewStateStore(cfg.Session.StatePath)
	manager := session.NewManager(sess, store, logger, cfg.Portal.BaseURL, cfg.Session.EnvPath, cfg.Portal.PageTimeout)
	if err := manager.Bootstrap(ctx); err != nil {
		logger.Errorf(ctx, "Session bootstrap failed: %v", err)
		os.Exit(1)
	}

	// 5. Engine wiring
	repo := portal.New(sess, logger, cfg.Portal)
	classifier := classify.NewClassifier(cfg.Classifier)
	detector := classify.NewChargeDetector(cfg.Charges)
	builder := summary.NewBuilder(repo, detector, logger)
	finalizer := finalize.NewFinalizer(repo, logger, cfg.Finalize, cfg.DryRun)
	orchestrator := run.NewOrchestrator(repo, classifier, builder, finalizer, logger)

	// 6. Optional operator status endpoint
	var (
		reportMu   sync.RWMutex
		lastReport run.Report
	)
	if cfg.Status.Enabled {
		statusSrv, err := status.New(status.Config{
			Logger: logger,
			Port:   cfg.Status.Port,
			Mode:   cfg.Status.Mode,
			Snapshot: func() run.Report {
				reportMu.RLock()
				defer reportMu.RUnlock()
				return lastReport
			},
		})
		if err != nil {
			logger.Errorf(ctx, "Failed to init status server: %v", err)
			os.Exit(1)
		}
		go func() {
			if err := statusSrv.Run(ctx); err != nil {
				logger.Errorf(ctx, "Status server stopped: %v", err)
			}
		}()
	}

	// 7. Run
	report, err := orchestrator.Run(ctx)
	if err != nil {
		logger.Errorf(ctx, "Run aborted: %v", err)
		os.Exit(1)
	}
	reportMu.Lock()
	lastReport = report
	reportMu.Unlock()

	for _, runErr := range report.Errors {
		logger.Errorf(ctx, "Task error: %v", runErr)
	}
	logger.Infof(ctx, "Done: processed=%d succeeded=%d skipped=%d failed=%d",
		report.Processed, report.Succeeded, report.Skipped, report.Failed)
	fmt.Println(run.TallyJobTypes(report.Results))

	if report.Failed > 0 {
		os.Exit(1)
	}
}
