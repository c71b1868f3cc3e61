package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/nexus/internal/llm"
	"github.com/MikeSquared-Agency/nexus/internal/record"
)

var (
	// ErrNoJSON means the completion contained no braced JSON span.
	ErrNoJSON = errors.New("no JSON object in completion")
	// ErrNotObject means the JSON span parsed to something other than an object.
	ErrNotObject = errors.New("completion JSON is not an object")
)

// Completer is the inference call the extractor depends on.
type Completer interface {
	Complete(ctx context.Context, system, user string, opts llm.Options) (string, error)
}

type Extractor struct {
	llm    Completer
	logger *slog.Logger
}

func New(llm Completer, logger *slog.Logger) *Extractor {
	return &Extractor{llm: llm, logger: logger}
}

// Extract asks the inference service to tag the candidate material and
// returns the raw record it produced.
func (e *Extractor) Extract(ctx context.Context, req Request) (*record.Object, error) {
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}
	prompt := fmt.Sprintf(userPromptTemplate, now.Format("2006/01/02"), req.Notes, req.CV)

	e.logger.Info("tagging profile",
		"model", req.Model,
		"notes_len", len(req.Notes),
		"cv_len", len(req.CV),
	)

	raw, err := e.llm.Complete(ctx, systemPrompt, prompt, llm.Options{
		Model:       req.Model,
		Temperature: req.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("llm tagging: %w", err)
	}

	obj, err := ParseCompletion(raw)
	if err != nil {
		e.logger.Error("failed to parse tagging response",
			"error", err,
			"raw", truncate(raw, 500),
		)
		return nil, fmt.Errorf("parse tagging: %w", err)
	}

	e.logger.Info("tagging complete", "fields", obj.Len())
	return obj, nil
}

// ParseCompletion pulls the JSON object out of a completion. Text before the
// first '{' and after the last '}' is ignored and // line comments outside
// string literals are dropped.
func ParseCompletion(content string) (*record.Object, error) {
	start := strings.IndexByte(content, '{')
	end := strings.LastIndexByte(content, '}')
	if start == -1 || end < start {
		return nil, ErrNoJSON
	}

	v, err := record.Parse([]byte(stripLineComments(content[start : end+1])))
	if err != nil {
		return nil, err
	}
	obj, ok := v.Object()
	if !ok {
		return nil, ErrNotObject
	}
	return obj, nil
}

// stripLineComments replaces every // comment that starts outside a JSON
// string with a single space, up to but not including the newline.
func stripLineComments(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inString:
			b.WriteByte(c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
		case c == '"':
			inString = true
			b.WriteByte(c)
		case c == '/' && i+1 < len(s) && s[i+1] == '/':
			for i < len(s) && s[i] != '\n' {
				i++
			}
			b.WriteByte(' ')
			if i < len(s) {
				b.WriteByte('\n')
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
