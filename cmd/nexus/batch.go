package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MikeSquared-Agency/nexus/internal/batch"
	"github.com/MikeSquared-Agency/nexus/internal/processor"
)

type batchCommand struct {
	Dir         string        `long:"dir" value-name:"DIR" description:"Directory of resumes; notes are read from <name>.notes.txt"`
	File        string        `long:"file" value-name:"FILE" description:"Tag a single resume instead of a directory"`
	DryRun      bool          `long:"dry-run" description:"Tag without adding to the pool"`
	Model       string        `long:"model" description:"Model preset or id"`
	Temperature *float64      `long:"temperature" description:"Sampling temperature"`
	BatchSize   int           `long:"batch-size" default:"10" description:"Files per batch before pausing; 0 never pauses"`
	Pause       time.Duration `long:"pause" default:"5s" description:"Pause between batches"`
	State       string        `long:"state" value-name:"FILE" description:"Resumable state file (default NEXUS_BATCH_STATE)"`
	Pool        string        `long:"pool" value-name:"FILE" default:"Pool.json" description:"Snapshot file used when DATABASE_URL is not set"`
	NoSlack     bool          `long:"no-slack" description:"Do not post the run summary to Slack"`
}

func (c *batchCommand) Execute(_ []string) (err error) {
	if c.Dir == "" && c.File == "" {
		return fmt.Errorf("one of --dir or --file is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := setupCLILogging(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	snapshot := c.Pool
	if c.DryRun {
		snapshot = ""
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

	state := c.State
	if state == "" {
		state = cfg.BatchStatePath
	}
	runCfg := batch.Config{
		Dir:         c.Dir,
		SingleFile:  c.File,
		DryRun:      c.DryRun,
		Model:       c.Model,
		Temperature: c.Temperature,
		BatchSize:   c.BatchSize,
		Pause:       c.Pause,
		StatePath:   state,
		Out:         os.Stdout,
	}
	if !c.NoSlack {
		runCfg.SlackToken = cfg.SlackBotToken
		runCfg.SlackChannel = cfg.SlackChannel
	}

	_, err = batch.NewRunner(runCfg, proc, logger).Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Warn("batch interrupted; rerun to resume")
		return nil
	}
	return err
}
