package talent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/MikeSquared-Agency/nexus/internal/record"
)

// ErrNotFound is returned for an index outside the collection.
var ErrNotFound = errors.New("talent not found")

// Repository is an ordered collection of confirmed profiles. Positions are
// zero-based and shift down after a removal.
type Repository interface {
	Append(ctx context.Context, rec *Record) (int, error)
	List(ctx context.Context) ([]*Record, error)
	Get(ctx context.Context, index int) (*Record, error)
	Remove(ctx context.Context, index int) (*Record, error)
	Replace(ctx context.Context, recs []*Record) error
	// Rewrite swaps the collection for fn's result without letting any
	// other write land between the read and the write. An error from fn
	// leaves the collection unchanged.
	Rewrite(ctx context.Context, fn RewriteFunc) error
}

// RewriteFunc computes the next collection from the current one. It must
// not call back into the repository.
type RewriteFunc func(recs []*Record) ([]*Record, error)

// Pool is an in-memory Repository. Records are copied on the way in and on
// the way out so stored profiles cannot change after they are added.
type Pool struct {
	mu   sync.RWMutex
	recs []*Record
}

func NewPool(recs ...*Record) *Pool {
	p := &Pool{}
	for _, r := range recs {
		p.recs = append(p.recs, r.Clone())
	}
	return p
}

func (p *Pool) Append(_ context.Context, rec *Record) (int, error) {
	if rec == nil {
		return 0, fmt.Errorf("append talent: nil record")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.recs = append(p.recs, rec.Clone())
	return len(p.recs) - 1, nil
}

func (p *Pool) List(_ context.Context) ([]*Record, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*Record, len(p.recs))
	for i, r := range p.recs {
		out[i] = r.Clone()
	}
	return out, nil
}

func (p *Pool) Get(_ context.Context, index int) (*Record, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if index < 0 || index >= len(p.recs) {
		return nil, ErrNotFound
	}
	return p.recs[index].Clone(), nil
}

func (p *Pool) Remove(_ context.Context, index int) (*Record, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if index < 0 || index >= len(p.recs) {
		return nil, ErrNotFound
	}
	removed := p.recs[index]
	p.recs = append(p.recs[:index], p.recs[index+1:]...)
	return removed, nil
}

func (p *Pool) Replace(_ context.Context, recs []*Record) error {
	next := make([]*Record, 0, len(recs))
	for _, r := range recs {
		if r == nil {
			return fmt.Errorf("replace talents: nil record")
		}
		next = append(next, r.Clone())
	}
	p.mu.Lock()
	p.recs = next
	p.mu.Unlock()
	return nil
}

func (p *Pool) Rewrite(_ context.Context, fn RewriteFunc) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	current := make([]*Record, len(p.recs))
	for i, r := range p.recs {
		current[i] = r.Clone()
	}
	out, err := fn(current)
	if err != nil {
		return err
	}
	next := make([]*Record, 0, len(out))
	for _, r := range out {
		if r == nil {
			return fmt.Errorf("rewrite talents: nil record")
		}
		next = append(next, r.Clone())
	}
	p.recs = next
	return nil
}

func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.recs)
}

// Export writes recs as a bare JSON array of profile objects.
func Export(w io.Writer, recs []*Record) error {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, r := range recs {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := r.MarshalJSON()
		if err != nil {
			return fmt.Errorf("export talent %d: %w", i, err)
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("export talents: %w", err)
	}
	return nil
}

// Import reads a JSON array written by Export. Every element must be an
// object.
func Import(r io.Reader) ([]*Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("import talents: %w", err)
	}
	v, err := record.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("import talents: %w", err)
	}
	if v.Kind() != record.List {
		return nil, fmt.Errorf("import talents: expected array, got %s", v.Kind())
	}
	items := v.Items()
	recs := make([]*Record, 0, len(items))
	for i, item := range items {
		obj, ok := item.Object()
		if !ok {
			return nil, fmt.Errorf("import talents: element %d is %s, not object", i, item.Kind())
		}
		recs = append(recs, NewRecord(obj))
	}
	return recs, nil
}
