package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/vadimtrunov/transmate/internal/config"
	"github.com/vadimtrunov/transmate/internal/transmission"
)

// Lipgloss styles used across commands.
var (
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	styleInfo    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")) // blue
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // gray

	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("5")).
			MarginBottom(1)
)

// loadConfig loads and validates the configuration file. A missing file at
// the default location falls back to defaults plus environment overrides.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, config.ErrConfigNotFound) && path == defaultConfigPath {
		cfg, err = config.FromEnv()
	}
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

// initClient creates the Transmission client described by cfg.
func initClient(cfg *config.Config, logger *slog.Logger) (*transmission.Client, error) {
	tc, err := transmission.New(transmission.Config{
		BaseURL:           cfg.Transmission.URL,
		Path:              cfg.Transmission.Path,
		Username:          cfg.Transmission.Username,
		Password:          cfg.Transmission.Password,
		Timeout:           cfg.Transmission.Timeout,
		Proxy:             cfg.Transmission.Proxy,
		MaxSessionRetries: cfg.Transmission.MaxSessionRetries,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create transmission client: %w", err)
	}
	logger.Debug("transmission client initialized", slog.String("url", sanitizeURL(tc.URL())))
	return tc, nil
}

// setup loads the configuration, installs the logger and connects the client.
// The returned context is cancelled on SIGINT/SIGTERM and carries the logger.
func setup(cmd *cobra.Command) (context.Context, context.CancelFunc, *transmission.Client, error) {
	ctx, cancel, tc, _, err := setupWithConfig(cmd)
	return ctx, cancel, tc, err
}

func setupWithConfig(cmd *cobra.Command) (context.Context, context.CancelFunc, *transmission.Client, *config.Config, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	logger := config.SetupLogger(cfg.App.LogLevel)
	tc, err := initClient(cfg, logger)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	return config.ContextWithLogger(ctx, logger), cancel, tc, cfg, nil
}

// sanitizeURL strips credentials, query params, and fragment from a URL for safe logging.
func sanitizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || u.Scheme == "" {
		return "<redacted>"
	}
	u.User = nil
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
