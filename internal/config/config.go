// Package config loads the small set of knobs cmd/exchange needs for
// itself and its collaborators (internal/feed, internal/notify) from the
// environment,
// with explicit defaults — no configuration framework, matching the
// teacher repo's style of plain constructor functions.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Config holds the exchange process's tunables.
type Config struct {
	// Symbols is the symbol list read from MATCHCORE_SYMBOLS. Neither
	// cmd/exchange nor cmd/loadgen reads it; the engine creates books
	// lazily on first reference.
	Symbols []string

	// CSVDir is the directory internal/feed writes orders.csv,
	// trades.csv, and cancelled.csv into (spec §6's persistence format).
	CSVDir string

	// LogLevel controls the zerolog global level for every collaborator.
	LogLevel zerolog.Level

	// NotifyBuffer is the channel buffer size internal/notify uses per
	// subscriber before it starts dropping events for a slow consumer.
	NotifyBuffer int
}

const (
	envSymbols      = "MATCHCORE_SYMBOLS"
	envCSVDir       = "MATCHCORE_CSV_DIR"
	envLogLevel     = "MATCHCORE_LOG_LEVEL"
	envNotifyBuffer = "MATCHCORE_NOTIFY_BUFFER"
)

// Load reads Config from the environment, falling back to defaults for
// anything unset or unparsable.
func Load() Config {
	cfg := Default()

	if v := os.Getenv(envSymbols); v != "" {
		cfg.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv(envCSVDir); v != "" {
		cfg.CSVDir = v
	}
	if v := os.Getenv(envLogLevel); v != "" {
		if lvl, err := zerolog.ParseLevel(v); err == nil {
			cfg.LogLevel = lvl
		}
	}
	if v := os.Getenv(envNotifyBuffer); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.NotifyBuffer = n
		}
	}

	return cfg
}

// Default returns the Config used when no environment overrides are set.
func Default() Config {
	return Config{
		Symbols:      []string{"AAPL"},
		CSVDir:       "./data",
		LogLevel:     zerolog.InfoLevel,
		NotifyBuffer: 256,
	}
}
