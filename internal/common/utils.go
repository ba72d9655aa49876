// Package common holds helpers shared by the CLI actions.
package common

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/dtnitsch/wp-stylometry/models"
	"github.com/urfave/cli/v2"
)

// NewLogger builds the JSON stderr logger. --quiet and --verbose win over
// the configured level.
func NewLogger(c *cli.Context, cfg *models.Config) *slog.Logger {
	logLevel := slog.LevelInfo
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	if c.Bool("verbose") {
		logLevel = slog.LevelDebug
	}
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// LoadConfig reads --config (if any) over the defaults.
func LoadConfig(c *cli.Context) (*models.Config, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("base-url") {
		cfg.Site.BaseURL = c.String("base-url")
	}
	return cfg, nil
}

// InputArg returns the single positional input file argument.
func InputArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", cli.Exit(fmt.Sprintf("usage: %s %s <input.json>", c.App.Name, c.Command.Name), 2)
	}
	return c.Args().First(), nil
}

// SignalContext is cancelled on SIGINT.
func SignalContext(c *cli.Context) (context.Context, context.CancelFunc) {
	parent := c.Context
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt)
}
