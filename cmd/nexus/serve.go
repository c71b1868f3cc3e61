package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/MikeSquared-Agency/nexus/internal/api"
	"github.com/MikeSquared-Agency/nexus/internal/dedup"
	"github.com/MikeSquared-Agency/nexus/internal/hermes"
	"github.com/MikeSquared-Agency/nexus/internal/processor"
	"github.com/MikeSquared-Agency/nexus/internal/slack"
)

type serveCommand struct {
	Pool string `long:"pool" value-name:"FILE" description:"Snapshot file backing the pool when DATABASE_URL is not set"`
}

func (c *serveCommand) Execute(_ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := setupLogging(cfg.LogLevel)
	logger.Info("nexus starting", "port", cfg.Port)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	repo, err := openRepository(ctx, cfg, c.Pool, logger)
	if err != nil {
		return fmt.Errorf("open talent pool: %w", err)
	}
	defer func() {
		if err := repo.close(context.Background()); err != nil {
			logger.Error("failed to close talent pool", "error", err)
		}
	}()

	client, tagger, pat, lex, err := newPipelineParts(cfg, logger)
	if err != nil {
		return err
	}

	// NATS/Hermes is optional; without it no events are published.
	var (
		bus *hermes.Client
		pub processor.Publisher
	)
	if cfg.NatsURL != "" {
		bus, err = hermes.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, logger)
		if err != nil {
			return fmt.Errorf("connect to NATS: %w", err)
		}
		defer bus.Close()
		pub = bus
		logger.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		logger.Warn("NATS_URL not set, running without events")
	}

	// Slack is optional too; without it profiles are only confirmed through
	// the API.
	var rev processor.Reviewer
	if cfg.SlackBotToken != "" && cfg.SlackChannel != "" {
		rev = slack.NewPoster(cfg.SlackBotToken, cfg.SlackChannel, logger)
		logger.Info("slack poster ready", "channel", cfg.SlackChannel)
	} else {
		logger.Warn("slack not configured, running without review loop")
	}

	proc := processor.New(repo.Repository, tagger, pat, pub, rev, logger)

	if bus != nil {
		if err := bus.Subscribe(hermes.SubjectTagRequested, proc.HandleTagRequested); err != nil {
			return err
		}
		if rev != nil {
			if err := bus.Subscribe(hermes.SubjectSlackReaction, proc.HandleReaction); err != nil {
				return err
			}
		}
	}

	opts := api.Options{Port: cfg.Port, APIToken: cfg.APIToken, CORSOrigins: cfg.CORSOrigins}
	srv := api.NewServer(opts, proc, repo.Repository, dedup.New(repo.Repository, logger), api.Status{
		LexiconVersion: lex.Version(),
		Model:          client.Model(),
		Storage:        repo.storage,
	}, logger)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	if bus != nil {
		if err := bus.Publish(hermes.SubjectRegistered, map[string]any{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"port":      cfg.Port,
			"model":     client.Model(),
		}); err != nil {
			logger.Warn("failed to publish registration", "error", err)
		}
	}

	logger.Info("nexus ready", "port", cfg.Port, "storage", repo.storage)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	logger.Info("shutting down")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", "error", err)
	}
	if bus != nil {
		if err := bus.Flush(shutdownCtx); err != nil {
			logger.Warn("nats flush", "error", err)
		}
	}
	logger.Info("nexus stopped")
	return nil
}
