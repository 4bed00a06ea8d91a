// Package main is the entry point for the hpn-transform CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hpn/hpn-transform/internal/adapter"
	"github.com/hpn/hpn-transform/internal/config"
	"github.com/hpn/hpn-transform/internal/domain"
	"github.com/hpn/hpn-transform/internal/logger"
	"github.com/hpn/hpn-transform/internal/metrics"
	"github.com/hpn/hpn-transform/internal/transform"
	"github.com/hpn/hpn-transform/internal/ui"
)

// Set with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = ""
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1 // provider failure or empty result
	exitUsage   = 2 // configuration or input error
)

// exitError ends the command with a code after output was already written.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// usageError marks bad flags or arguments.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// app carries the process streams and test seams shared by every command.
type app struct {
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	stdinPiped  bool
	factoryOpts []adapter.FactoryOption

	configPath string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := &app{
		stdin:      os.Stdin,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		stdinPiped: isPiped(os.Stdin),
	}

	code := run(ctx, a, os.Args[1:])
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, a *app, args []string) int {
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}

	ui.NewConsole(a.stdout, a.stderr).Error(err)
	return exitCode(err)
}

func exitCode(err error) int {
	var ue *usageError
	switch {
	case errors.As(err, &ue),
		domain.IsConfigurationError(err),
		domain.IsInvalidInputError(err),
		config.IsConfigError(err),
		config.IsValidationError(err),
		config.IsInvalidValueError(err):
		return exitUsage
	default:
		return exitFailure
	}
}

func isPiped(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice == 0
}

// session is everything a command needs once configuration is loaded.
type session struct {
	cfg     *config.Configuration
	logger  *slog.Logger
	metrics *metrics.Metrics
	orch    *transform.Orchestrator
}

// setup loads configuration and builds the logger and orchestrator.
// verbose forces debug logging; format overrides the configured log format.
func (a *app) setup(verbose bool, format string) (*session, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	if format == "" {
		format = cfg.Logging.Format
	}
	log := logger.New(level, format, a.stderr, cfg.Secrets()...)

	if src := cfg.Source(); src != "" {
		log.Debug("configuration loaded", slog.String("file", src))
	} else {
		log.Debug("no config file, using environment only")
	}

	opts := []adapter.FactoryOption{adapter.WithFactoryLogger(log)}
	if t := cfg.RequestTimeout(); t > 0 {
		opts = append(opts, adapter.WithAdapterOptions(adapter.WithTimeout(t)))
	}
	opts = append(opts, a.factoryOpts...)

	m := metrics.New()
	orch := transform.NewOrchestrator(adapter.NewFactory(opts...),
		transform.WithLogger(log),
		transform.WithMetrics(m),
	)

	return &session{cfg: cfg, logger: log, metrics: m, orch: orch}, nil
}
