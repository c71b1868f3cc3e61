package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MikeSquared-Agency/nexus/internal/document"
	"github.com/MikeSquared-Agency/nexus/internal/processor"
)

type tagCommand struct {
	Notes       string   `long:"notes" value-name:"FILE" description:"Communication notes"`
	CV          string   `long:"cv" value-name:"FILE" description:"Resume (.pdf, .docx, .txt or .md)"`
	Model       string   `long:"model" description:"Model preset or id for this request"`
	Temperature *float64 `long:"temperature" description:"Sampling temperature for this request"`
	Confirm     bool     `long:"confirm" description:"Append the tagged profile to the pool"`
	Pool        string   `long:"pool" value-name:"FILE" default:"Pool.json" description:"Snapshot file used when DATABASE_URL is not set"`
}

func (c *tagCommand) Execute(_ []string) (err error) {
	if c.Notes == "" && c.CV == "" {
		return fmt.Errorf("at least one of --notes or --cv is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := setupCLILogging(cfg.LogLevel)

	notes, err := readDocument(c.Notes)
	if err != nil {
		return err
	}
	cv, err := readDocument(c.CV)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	snapshot := ""
	if c.Confirm {
		snapshot = c.Pool
	}
	repo, err := openRepository(ctx, cfg, snapshot, logger)
	if err != nil {
		return fmt.Errorf("open talent pool: %w", err)
	}
	defer func() {
		if cerr := repo.close(context.Background()); cerr != nil && err == nil {
			err = cerr
		}
	}()

	_, tagger, pat, _, err := newPipelineParts(cfg, logger)
	if err != nil {
		return err
	}
	proc := processor.New(repo.Repository, tagger, pat, nil, nil, logger)

	res, err := proc.Tag(ctx, processor.TagRequest{
		Notes:       notes,
		CV:          cv,
		Model:       c.Model,
		Temperature: c.Temperature,
		Source:      "cli",
	})
	if err != nil {
		return err
	}

	if c.Confirm {
		idx, err := proc.Confirm(ctx, res.Record)
		if err != nil {
			return err
		}
		logger.Info("added to talent pool", "position", idx+1, "name", res.Card.Name)
	}

	return printJSON(os.Stdout, res)
}

func readDocument(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return document.Read(path, data), nil
}
