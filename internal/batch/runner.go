// Package batch tags a directory of resumes in one resumable run.
package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/nexus/internal/document"
	"github.com/MikeSquared-Agency/nexus/internal/processor"
	"github.com/MikeSquared-Agency/nexus/internal/slack"
	"github.com/MikeSquared-Agency/nexus/internal/talent"
)

// NotesSuffix marks the communication log that belongs to a resume: the
// notes for "li.pdf" live in "li.notes.txt".
const NotesSuffix = ".notes.txt"

// Config holds the batch command configuration.
type Config struct {
	Dir          string
	SingleFile   string
	DryRun       bool
	Model        string
	Temperature  *float64
	BatchSize    int           // save state and pause after this many files; 0 never pauses
	Pause        time.Duration // pause length between batches
	StatePath    string
	Source       string
	SlackToken   string
	SlackChannel string
	Out          io.Writer // final summary; defaults to stdout
}

// Pipeline is the part of the processor the runner drives.
type Pipeline interface {
	Tag(ctx context.Context, req processor.TagRequest) (*processor.TagResult, error)
	Confirm(ctx context.Context, rec *talent.Record) (int, error)
}

// FileSummary is the outcome for one resume.
type FileSummary struct {
	Path   string `json:"path"`
	Name   string `json:"name,omitempty"`
	Phone  string `json:"phone,omitempty"`
	School string `json:"school,omitempty"`
	Region string `json:"region,omitempty"`
	Index  int    `json:"index"` // -1 when not added
	Error  string `json:"error,omitempty"`
}

// Job is one resume and its optional notes file.
type Job struct {
	CVPath    string
	NotesPath string
}

type Runner struct {
	cfg      Config
	pipeline Pipeline
	slack    *slack.Poster
	logger   *slog.Logger
}

func NewRunner(cfg Config, p Pipeline, logger *slog.Logger) *Runner {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	r := &Runner{cfg: cfg, pipeline: p, logger: logger}
	if cfg.SlackToken != "" && cfg.SlackChannel != "" {
		r.slack = slack.NewPoster(cfg.SlackToken, cfg.SlackChannel, logger)
	}
	return r
}

func (r *Runner) sourceLabel() string {
	if r.cfg.Source != "" {
		return r.cfg.Source
	}
	return "batch"
}

// Run tags every job not yet recorded in the state file. Files that fail are
// logged in the state and retried on the next run.
func (r *Runner) Run(ctx context.Context) ([]FileSummary, error) {
	state, err := LoadState(r.cfg.StatePath)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	jobs, err := r.discover()
	if err != nil {
		return nil, fmt.Errorf("discover files: %w", err)
	}
	pending := make([]Job, 0, len(jobs))
	for _, j := range jobs {
		if !state.IsProcessed(j.CVPath) {
			pending = append(pending, j)
		}
	}

	state.FilesRemaining = len(pending)
	r.logger.Info("files to process",
		"total", len(jobs),
		"pending", len(pending),
		"dry_run", r.cfg.DryRun,
	)

	var summaries []FileSummary
	inBatch := 0
	for _, job := range pending {
		select {
		case <-ctx.Done():
			r.logger.Info("batch interrupted, saving state")
			if err := state.Save(); err != nil {
				r.logger.Warn("failed to save state", "error", err)
			}
			r.postSummary(ctx, summaries)
			return summaries, ctx.Err()
		default:
		}

		fs := r.process(ctx, job, state)
		summaries = append(summaries, fs)
		if fs.Error == "" {
			state.MarkProcessed(job.CVPath)
		} else {
			state.AddError(fmt.Sprintf("%s: %s", job.CVPath, fs.Error))
		}
		state.FilesRemaining--
		if err := state.Save(); err != nil {
			r.logger.Warn("failed to save state", "error", err)
		}

		inBatch++
		if r.cfg.BatchSize > 0 && inBatch >= r.cfg.BatchSize {
			r.logger.Info("batch complete, pausing", "files", inBatch)
			inBatch = 0
			select {
			case <-ctx.Done():
				return summaries, ctx.Err()
			case <-time.After(r.cfg.Pause):
			}
		}
	}

	if err := state.Save(); err != nil {
		r.logger.Warn("failed to save state", "error", err)
	}
	r.postSummary(ctx, summaries)

	added, failed := 0, 0
	for _, s := range summaries {
		if s.Error != "" {
			failed++
		} else if s.Index >= 0 {
			added++
		}
	}
	r.logger.Info("batch complete",
		"files_processed", len(summaries),
		"added", added,
		"failed", failed,
	)

	fmt.Fprintf(r.cfg.Out, "\n=== Batch Summary ===\n")
	fmt.Fprintf(r.cfg.Out, "Files processed: %d\n", len(summaries))
	fmt.Fprintf(r.cfg.Out, "Profiles added: %d\n", added)
	fmt.Fprintf(r.cfg.Out, "Errors: %d\n", failed)
	if r.cfg.DryRun {
		fmt.Fprintf(r.cfg.Out, "Mode: DRY RUN (pool unchanged)\n")
	}
	fmt.Fprintf(r.cfg.Out, "State file: %s\n", state.Path())

	return summaries, nil
}

func (r *Runner) process(ctx context.Context, job Job, state *State) FileSummary {
	fs := FileSummary{Path: job.CVPath, Index: -1}

	cv, err := readFile(job.CVPath)
	if err != nil {
		fs.Error = err.Error()
		return fs
	}
	var notes string
	if job.NotesPath != "" {
		if notes, err = readFile(job.NotesPath); err != nil {
			fs.Error = err.Error()
			return fs
		}
	}

	r.logger.Info("tagging file", "path", job.CVPath, "has_notes", job.NotesPath != "")

	res, err := r.pipeline.Tag(ctx, processor.TagRequest{
		Notes:       notes,
		CV:          cv,
		Model:       r.cfg.Model,
		Temperature: r.cfg.Temperature,
		Source:      r.sourceLabel(),
	})
	if err != nil {
		r.logger.Error("tagging failed", "path", job.CVPath, "error", err)
		fs.Error = err.Error()
		return fs
	}
	state.ProfilesTagged++

	fs.Name = res.Card.Name
	fs.Phone = res.Card.Phone
	fs.School = res.Card.School
	fs.Region = res.Card.GlobalRegion

	if r.cfg.DryRun {
		return fs
	}
	idx, err := r.pipeline.Confirm(ctx, res.Record)
	if err != nil {
		r.logger.Error("append failed", "path", job.CVPath, "error", err)
		fs.Error = err.Error()
		return fs
	}
	fs.Index = idx
	state.ProfilesAdded++
	return fs
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return document.Read(path, data), nil
}

// discover lists resume files in name order and pairs each with its notes
// file when one exists.
func (r *Runner) discover() ([]Job, error) {
	if r.cfg.SingleFile != "" {
		path := expandHome(r.cfg.SingleFile)
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("single file not found: %s", path)
		}
		return []Job{pair(path)}, nil
	}

	dir := expandHome(r.cfg.Dir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var jobs []Job
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || strings.HasSuffix(name, NotesSuffix) {
			continue
		}
		if !document.Supported(name) {
			continue
		}
		jobs = append(jobs, pair(filepath.Join(dir, name)))
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].CVPath < jobs[j].CVPath })
	return jobs, nil
}

func pair(cvPath string) Job {
	job := Job{CVPath: cvPath}
	notes := strings.TrimSuffix(cvPath, filepath.Ext(cvPath)) + NotesSuffix
	if info, err := os.Stat(notes); err == nil && !info.IsDir() {
		job.NotesPath = notes
	}
	return job
}

// postSummary posts the run summary to Slack, or logs it when Slack is not
// configured.
func (r *Runner) postSummary(ctx context.Context, summaries []FileSummary) {
	if len(summaries) == 0 {
		return
	}
	text := FormatSummary(summaries, r.cfg.DryRun)

	if r.slack == nil {
		r.logger.Info("batch summary (no Slack configured)", "summary", text)
		return
	}
	if err := r.slack.PostThread(ctx, "", text); err != nil {
		r.logger.Warn("failed to post batch summary to Slack, logging instead",
			"error", err,
			"summary", text,
		)
	}
}

// FormatSummary renders one line per file.
func FormatSummary(summaries []FileSummary, dryRun bool) string {
	var sb strings.Builder
	sb.WriteString("*Batch Tagging Summary*")
	if dryRun {
		sb.WriteString(" (dry run)")
	}
	sb.WriteString("\n")

	for _, s := range summaries {
		name := filepath.Base(s.Path)
		if s.Error != "" {
			fmt.Fprintf(&sb, "  - %s: failed (%s)\n", name, s.Error)
			continue
		}
		fmt.Fprintf(&sb, "  - %s: %s | %s | %s | %s", name, s.Name, s.School, s.Region, s.Phone)
		if s.Index >= 0 {
			fmt.Fprintf(&sb, " -> #%d", s.Index+1)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
