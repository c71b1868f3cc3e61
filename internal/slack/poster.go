package slack

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	slackapi "github.com/slack-go/slack"

	"github.com/MikeSquared-Agency/nexus/internal/talent"
)

const reactionLegend = "React: :+1: add to pool | :-1: discard | :shrug: skip"

type Poster struct {
	api     *slackapi.Client
	channel string
	logger  *slog.Logger
}

func NewPoster(token, channel string, logger *slog.Logger) *Poster {
	return newPoster(token, channel, logger)
}

func newPoster(token, channel string, logger *slog.Logger, opts ...slackapi.Option) *Poster {
	return &Poster{
		api:     slackapi.New(token, opts...),
		channel: channel,
		logger:  logger,
	}
}

// PostProfileReview posts a tagged profile for human review and returns the
// message timestamp that later reactions refer to.
func (p *Poster) PostProfileReview(ctx context.Context, requestID string, card talent.Card) (string, error) {
	text := formatProfileMessage(card)

	_, ts, err := p.api.PostMessageContext(ctx, p.channel,
		slackapi.MsgOptionText(text, false),
		slackapi.MsgOptionBlocks(
			slackapi.NewSectionBlock(slackapi.NewTextBlockObject(slackapi.MarkdownType, text, false, false), nil, nil),
			slackapi.NewContextBlock("", slackapi.NewTextBlockObject(slackapi.MarkdownType, reactionLegend, false, false)),
		),
	)
	if err != nil {
		return "", fmt.Errorf("slack post: %w", err)
	}

	p.logger.Info("posted profile review to slack", "ts", ts, "request_id", requestID)
	return ts, nil
}

// PostThread posts a reply under threadTS, or a top-level message when
// threadTS is empty.
func (p *Poster) PostThread(ctx context.Context, threadTS, text string) error {
	opts := []slackapi.MsgOption{slackapi.MsgOptionText(text, false)}
	if threadTS != "" {
		opts = append(opts, slackapi.MsgOptionTS(threadTS))
	}
	if _, _, err := p.api.PostMessageContext(ctx, p.channel, opts...); err != nil {
		return fmt.Errorf("slack post: %w", err)
	}
	return nil
}

func formatProfileMessage(c talent.Card) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "*%s* | %s\n", c.Name, c.CompanyPath)
	fmt.Fprintf(&sb, "*职级:* %s  *薪资:* %s\n", c.Rank, c.Salary)
	fmt.Fprintf(&sb, "*学校:* %s  *国际化:* %s\n", c.School, c.GlobalRegion)
	fmt.Fprintf(&sb, "*所在地:* %s -> %s\n", c.Location, c.PreferredLocation)
	fmt.Fprintf(&sb, "*电话:* %s\n", c.Phone)
	if c.Motive != "" {
		fmt.Fprintf(&sb, "\n*动因:* %s\n", c.Motive)
	}
	if c.Summary != "" {
		fmt.Fprintf(&sb, "_%s_", c.Summary)
	}

	return sb.String()
}
