package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/nexus/internal/extractor"
	"github.com/MikeSquared-Agency/nexus/internal/hermes"
	"github.com/MikeSquared-Agency/nexus/internal/patterns"
	"github.com/MikeSquared-Agency/nexus/internal/reconcile"
	"github.com/MikeSquared-Agency/nexus/internal/record"
	"github.com/MikeSquared-Agency/nexus/internal/slack"
	"github.com/MikeSquared-Agency/nexus/internal/talent"
)

// ErrNoInput is returned when both the notes and the CV are blank.
var ErrNoInput = errors.New("notes and cv are both empty")

// Tagger produces the raw inference record for one request.
type Tagger interface {
	Extract(ctx context.Context, req extractor.Request) (*record.Object, error)
}

// Publisher sends events to the message bus.
type Publisher interface {
	Publish(subject string, data any) error
}

// Reviewer posts tagged profiles for a human to accept or discard.
type Reviewer interface {
	PostProfileReview(ctx context.Context, requestID string, card talent.Card) (string, error)
	PostThread(ctx context.Context, threadTS, text string) error
}

// TagRequest is one profile to tag.
type TagRequest struct {
	RequestID   string
	Notes       string
	CV          string
	Model       string
	Temperature *float64
	Source      string
	Now         time.Time
}

// TagResult is the reconciled profile and where it went for review.
type TagResult struct {
	RequestID string         `json:"request_id"`
	Record    *talent.Record `json:"profile"`
	Card      talent.Card    `json:"card"`
	ReviewTS  string         `json:"review_ts,omitempty"`
}

// Processor runs the tagging pipeline and the review loop that moves
// accepted profiles into the talent repository.
type Processor struct {
	repo      talent.Repository
	tagger    Tagger
	patterns  *patterns.Extractor
	publisher Publisher
	reviewer  Reviewer
	logger    *slog.Logger

	mu      sync.Mutex
	pending map[string]*pendingProfile // keyed by review message TS
}

type pendingProfile struct {
	RequestID string
	Record    *talent.Record
}

// New builds a Processor. pub and rev are optional; pass nil interfaces
// when NATS or Slack is not configured. A nil pat uses the built-in
// lexicon.
func New(repo talent.Repository, tagger Tagger, pat *patterns.Extractor, pub Publisher, rev Reviewer, logger *slog.Logger) *Processor {
	if pat == nil {
		pat = patterns.New(nil)
	}
	return &Processor{
		repo:      repo,
		tagger:    tagger,
		patterns:  pat,
		publisher: pub,
		reviewer:  rev,
		logger:    logger,
		pending:   make(map[string]*pendingProfile),
	}
}

// Tag turns notes and a CV into a canonical profile. The profile is not
// added to the repository; that happens on Confirm or an accepting review.
func (p *Processor) Tag(ctx context.Context, req TagRequest) (*TagResult, error) {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	if strings.TrimSpace(req.Notes) == "" && strings.TrimSpace(req.CV) == "" {
		p.publishFailed(req, "no_input", ErrNoInput)
		return nil, ErrNoInput
	}

	p.logger.Info("tagging request",
		"request_id", req.RequestID,
		"source", req.Source,
		"model", req.Model,
	)

	raw, err := p.tagger.Extract(ctx, extractor.Request{
		Notes:       req.Notes,
		CV:          req.CV,
		Model:       req.Model,
		Temperature: req.Temperature,
		Now:         req.Now,
	})
	if err != nil {
		p.logger.Error("inference failed", "request_id", req.RequestID, "error", err)
		p.publishFailed(req, "inference", err)
		return nil, fmt.Errorf("tag profile: %w", err)
	}

	facts := p.patterns.Extract(req.Notes, req.CV)
	rec, err := reconcile.Merge(raw, reconcile.Input{Notes: req.Notes, CV: req.CV, Facts: facts})
	if err != nil {
		p.publishFailed(req, "reconcile", err)
		return nil, fmt.Errorf("reconcile profile: %w", err)
	}

	res := &TagResult{RequestID: req.RequestID, Record: rec, Card: rec.Card()}

	p.logger.Info("profile tagged",
		"request_id", req.RequestID,
		"phone_found", facts.Phone != patterns.NotProvided,
		"edu", facts.Education,
		"intl", facts.Region,
	)

	if p.publisher != nil {
		if err := p.publisher.Publish(hermes.SubjectProfileTagged, hermes.ProfileTagged{
			RequestID: req.RequestID,
			Source:    req.Source,
			Model:     req.Model,
			Name:      res.Card.Name,
			Phone:     facts.Phone,
			Education: facts.Education,
			Region:    facts.Region,
			Profile:   rec,
		}); err != nil {
			p.logger.Error("failed to publish profile tagged", "error", err)
		}
	}

	if p.reviewer != nil {
		ts, err := p.reviewer.PostProfileReview(ctx, req.RequestID, res.Card)
		if err != nil {
			p.logger.Error("slack post failed", "request_id", req.RequestID, "error", err)
		} else {
			res.ReviewTS = ts
			p.mu.Lock()
			p.pending[ts] = &pendingProfile{RequestID: req.RequestID, Record: rec.Clone()}
			p.mu.Unlock()
		}
	}

	return res, nil
}

// Confirm appends rec to the repository and returns its index.
func (p *Processor) Confirm(ctx context.Context, rec *talent.Record) (int, error) {
	idx, err := p.repo.Append(ctx, rec)
	if err != nil {
		return 0, fmt.Errorf("confirm talent: %w", err)
	}
	p.logger.Info("talent confirmed", "index", idx, "name", rec.Name())
	p.publishChange(hermes.SubjectTalentConfirmed, idx, rec)
	return idx, nil
}

// Remove deletes the entry at index. Later entries shift down by one.
func (p *Processor) Remove(ctx context.Context, index int) (*talent.Record, error) {
	rec, err := p.repo.Remove(ctx, index)
	if err != nil {
		return nil, fmt.Errorf("remove talent %d: %w", index, err)
	}
	p.logger.Info("talent removed", "index", index, "name", rec.Name())
	p.publishChange(hermes.SubjectTalentRemoved, index, rec)
	return rec, nil
}

// Pending reports how many posted profiles are still waiting for a review.
func (p *Processor) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

// HandleTagRequested is the NATS handler for nexus.profile.tag.requested.
func (p *Processor) HandleTagRequested(subject string, data []byte) {
	var evt extractor.TagRequestedEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		p.logger.Error("failed to parse tag request", "subject", subject, "error", err)
		return
	}

	source := evt.Source
	if source == "" {
		source = "nats"
	}
	if _, err := p.Tag(context.Background(), TagRequest{
		RequestID:   evt.RequestID,
		Notes:       evt.Notes,
		CV:          evt.CVText,
		Model:       evt.Model,
		Temperature: evt.Temperature,
		Source:      source,
	}); err != nil {
		p.logger.Error("tag request failed", "request_id", evt.RequestID, "error", err)
	}
}

// HandleReaction processes Slack review reactions forwarded over NATS.
// An accepting reaction adds the profile to the repository; a rejecting one
// discards it.
func (p *Processor) HandleReaction(subject string, data []byte) {
	ctx := context.Background()

	evt, err := slack.ParseReactionEvent(data, p.logger)
	if err != nil {
		p.logger.Error("failed to parse reaction", "error", err)
		return
	}

	verdict := slack.ParseReaction(evt.Reaction)
	if verdict == slack.VerdictUnknown {
		return
	}

	p.mu.Lock()
	item, ok := p.pending[evt.MessageTS]
	if ok {
		delete(p.pending, evt.MessageTS)
	}
	p.mu.Unlock()
	if !ok {
		return
	}

	p.logger.Info("processing profile review",
		"reaction", evt.Reaction,
		"verdict", string(verdict),
		"request_id", item.RequestID,
		"user_id", evt.UserID,
	)

	var reply string
	switch verdict {
	case slack.VerdictConfirmed:
		idx, err := p.Confirm(ctx, item.Record)
		if err != nil {
			p.logger.Error("failed to add reviewed talent", "request_id", item.RequestID, "error", err)
			reply = "写入人才库失败: " + err.Error()
		} else {
			reply = fmt.Sprintf("已加入人才库 #%d", idx+1)
		}
	case slack.VerdictRejected:
		reply = "已丢弃"
	default:
		return
	}

	if p.reviewer != nil {
		if err := p.reviewer.PostThread(ctx, evt.MessageTS, reply); err != nil {
			p.logger.Error("failed to post review reply", "error", err)
		}
	}
}

func (p *Processor) publishFailed(req TagRequest, reason string, cause error) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(hermes.SubjectProfileFailed, hermes.ProfileFailed{
		RequestID: req.RequestID,
		Source:    req.Source,
		Reason:    reason,
		Error:     cause.Error(),
	}); err != nil {
		p.logger.Error("failed to publish profile failed", "error", err)
	}
}

func (p *Processor) publishChange(subject string, index int, rec *talent.Record) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(subject, hermes.TalentChanged{
		Index: index,
		Name:  rec.Name(),
		Phone: rec.Phone(),
	}); err != nil {
		p.logger.Error("failed to publish talent change", "subject", subject, "error", err)
	}
}
