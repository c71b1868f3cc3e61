package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/MikeSquared-Agency/nexus/internal/config"
	"github.com/MikeSquared-Agency/nexus/internal/extractor"
	"github.com/MikeSquared-Agency/nexus/internal/lexicon"
	"github.com/MikeSquared-Agency/nexus/internal/llm"
	"github.com/MikeSquared-Agency/nexus/internal/patterns"
	"github.com/MikeSquared-Agency/nexus/internal/store"
	"github.com/MikeSquared-Agency/nexus/internal/talent"
)

// repository is the talent pool a command works on together with the
// function that releases it.
type repository struct {
	talent.Repository
	storage string // "postgres", "file" or "memory"
	close   func(ctx context.Context) error
}

// openRepository picks Postgres when DATABASE_URL is set. Otherwise the pool
// lives in memory, loaded from and saved back to snapshot when one is named.
func openRepository(ctx context.Context, cfg config.Config, snapshot string, logger *slog.Logger) (*repository, error) {
	if cfg.DatabaseURL != "" {
		db, err := store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx, logger); err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("database connected")
		return &repository{
			Repository: db,
			storage:    "postgres",
			close: func(context.Context) error {
				db.Close()
				return nil
			},
		}, nil
	}

	if snapshot == "" {
		logger.Warn("DATABASE_URL not set, talent pool is in memory only")
		return &repository{
			Repository: talent.NewPool(),
			storage:    "memory",
			close:      func(context.Context) error { return nil },
		}, nil
	}

	pool, err := talent.LoadSnapshot(snapshot)
	if err != nil {
		return nil, err
	}
	logger.Info("talent pool loaded", "path", snapshot, "count", pool.Len())
	return &repository{
		Repository: pool,
		storage:    "file",
		close: func(ctx context.Context) error {
			if err := talent.SaveSnapshot(ctx, snapshot, pool); err != nil {
				return err
			}
			logger.Info("talent pool saved", "path", snapshot, "count", pool.Len())
			return nil
		},
	}, nil
}

func loadLexicon(cfg config.Config, logger *slog.Logger) (*lexicon.Lexicon, error) {
	if cfg.LexiconPath == "" {
		return lexicon.Default(), nil
	}
	lex, err := lexicon.LoadFile(cfg.LexiconPath)
	if err != nil {
		return nil, err
	}
	logger.Info("lexicon loaded", "path", cfg.LexiconPath, "version", lex.Version())
	return lex, nil
}

// newPipelineParts builds the inference client, the tagger on top of it and
// the pattern extractor.
func newPipelineParts(cfg config.Config, logger *slog.Logger) (*llm.Client, *extractor.Extractor, *patterns.Extractor, *lexicon.Lexicon, error) {
	if cfg.LLMAPIKey == "" {
		logger.Warn("LLM_API_KEY is empty, inference calls will be unauthenticated")
	}
	lex, err := loadLexicon(cfg, logger)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	temperature := cfg.Temperature
	client := llm.NewClient(llm.Config{
		APIKey:      cfg.LLMAPIKey,
		BaseURL:     cfg.LLMBaseURL,
		Model:       cfg.Model,
		Timeout:     cfg.LLMTimeout,
		Temperature: &temperature,
	})
	logger.Info("llm client ready", "model", client.Model(), "base_url", cfg.LLMBaseURL)

	return client, extractor.New(client, logger), patterns.New(lex), lex, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
