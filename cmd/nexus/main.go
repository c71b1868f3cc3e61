package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jessevdk/go-flags"

	"github.com/MikeSquared-Agency/nexus/internal/config"
)

type globalOptions struct {
	EnvFile  string `long:"env-file" default:".env" description:"Environment file loaded before the process environment is read"`
	LogLevel string `long:"log-level" choice:"debug" choice:"info" choice:"warn" choice:"error" description:"Overrides LOG_LEVEL"`
}

var global globalOptions

func main() {
	parser := flags.NewParser(&global, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "nexus"

	commands := []struct {
		name, short string
		data        any
	}{
		{"serve", "Run the HTTP API and the NATS handlers", &serveCommand{}},
		{"tag", "Tag one candidate from a notes file and a resume", &tagCommand{}},
		{"batch", "Tag every resume in a directory", &batchCommand{}},
		{"pool", "Inspect and edit the talent pool", &poolCmd},
	}
	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, "", c.data); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, err)
			return
		}
		fmt.Fprintln(os.Stderr, "nexus:", err)
		os.Exit(1)
	}
}

// loadConfig reads the env file, then the environment, then applies global
// flag overrides.
func loadConfig() (config.Config, error) {
	if err := config.LoadEnvFile(global.EnvFile); err != nil {
		return config.Config{}, fmt.Errorf("load %s: %w", global.EnvFile, err)
	}
	cfg := config.Load()
	if global.LogLevel != "" {
		cfg.LogLevel = global.LogLevel
	}
	return cfg, nil
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupLogging installs the JSON handler used by the long-running service.
func setupLogging(level string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(level)})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// setupCLILogging writes human-readable logs to stderr so stdout carries
// only command output.
func setupCLILogging(level string) *slog.Logger {
	handler := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Level:           log.Level(parseLevel(level)),
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
