// Command webpdrop is the CLI entrypoint for the drop-folder WebP converter.
//
// It parses flags, validates configuration and paths, and either runs
// system diagnostics (--check) or watches the source folder, converting
// every image it finds to WebP under the size budget.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/backmassage/webpdrop/internal/check"
	"github.com/backmassage/webpdrop/internal/codec"
	"github.com/backmassage/webpdrop/internal/compress"
	"github.com/backmassage/webpdrop/internal/config"
	"github.com/backmassage/webpdrop/internal/display"
	"github.com/backmassage/webpdrop/internal/logging"
	"github.com/backmassage/webpdrop/internal/metrics"
	"github.com/backmassage/webpdrop/internal/naming"
	"github.com/backmassage/webpdrop/internal/pipeline"
	"github.com/backmassage/webpdrop/internal/term"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors go
	// directly to stderr via fmt.
	cfg, err := config.Load(os.Args[1:], version, os.Stdout)
	if errors.Is(err, config.ErrHelp) || errors.Is(err, config.ErrVersion) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "webpdrop: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "webpdrop: %v\n", err)
		return 1
	}

	logger, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "webpdrop: %v\n", err)
		return 1
	}
	defer logger.Close()
	log := logger.Logger

	// Phase 2: Logger available; all output goes through log from here on.
	color := term.ColorEnabled(cfg.ColorMode)
	display.PrintBanner(os.Stdout, color)

	if cfg.CheckOnly {
		if err := check.RunCheck(&cfg, log.Sugar()); err != nil {
			log.Error("check failed", zap.Error(err))
			return 1
		}
		return 0
	}

	// Root folders must exist before their paths can be resolved and
	// compared; failing to create one is a startup error.
	var abs [3]string
	for i, dir := range []string{cfg.SourceDir, cfg.ResultDir, cfg.FailedDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Error("cannot create folder", zap.String("dir", dir), zap.Error(err))
			return 1
		}
		if abs[i], err = absPath(dir); err != nil {
			log.Error("cannot resolve folder", zap.String("dir", dir), zap.Error(err))
			return 1
		}
	}
	if err := cfg.ValidatePaths(abs[0], abs[1], abs[2]); err != nil {
		log.Error("invalid folder layout", zap.Error(err))
		return 1
	}

	// Phase 3: Wire the pipeline.
	router := naming.NewRouter(cfg.ResultDir, cfg.FailedDir)
	enc := codec.NewWebPEncoder(log)
	engine := compress.New(enc, compress.Settings{
		BudgetBytes: cfg.BudgetBytes(),
		TierLowMB:   cfg.TierLowMB,
		TierMidMB:   cfg.TierMidMB,
		TierHighMB:  cfg.TierHighMB,
	}, log)
	var rec *metrics.Recorder
	if cfg.MetricsFile != "" {
		rec = metrics.New()
	}
	conv := pipeline.NewFileConverter(engine, enc, router, log)
	runner := pipeline.NewRunner(conv, router, rec, cfg.BudgetBytes(), log)
	sup := pipeline.NewSupervisor(cfg.SourceDir, cfg.PollInterval, runner, rec, cfg.MetricsFile, log)

	quitKey := !cfg.Once && !cfg.NoKeys && term.IsTerminal(os.Stdin)
	display.PrintWelcome(os.Stdout, display.Welcome{
		Version:      fmt.Sprintf("%s (%s)", version, commit),
		SourceDir:    abs[0],
		ResultDir:    abs[1],
		FailedDir:    abs[2],
		TodayFolder:  naming.DateFolderName(router.Now()),
		BudgetBytes:  cfg.BudgetBytes(),
		PollInterval: cfg.PollInterval.String(),
		Once:         cfg.Once,
		QuitKey:      quitKey,
	})

	// Phase 4: Cancellation. SIGINT/SIGTERM and the quit key both cancel
	// ctx; the supervisor notices between batches, never mid-file. Both
	// paths end with the totals summary.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stop := notifyInterrupt(cancel, log)
	defer stop()

	if cfg.Once {
		sup.RunOnce()
		return 0
	}
	if quitKey {
		term.WatchQuitKey(os.Stdin, "q", func() {
			log.Info("quit requested, finishing current batch")
			cancel()
		})
	}

	sup.Run(ctx)
	return 0
}

// notifyInterrupt cancels ctx through cancel on the first SIGINT or SIGTERM.
// After that the handler is released, so a second interrupt terminates the
// process immediately. The returned func releases the handler early.
func notifyInterrupt(cancel context.CancelFunc, log *zap.Logger) (stop func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		select {
		case <-sigCh:
			signal.Stop(sigCh)
			log.Warn("interrupted, finishing current batch (interrupt again to abort)")
			cancel()
		case <-done:
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(sigCh)
			close(done)
		})
	}
}

// absPath returns the absolute, symlink-resolved path for safe comparison
// of the folder hierarchy.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
