package talent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// LoadSnapshot reads a pool file written by SaveSnapshot or Export. A
// missing file yields an empty pool.
func LoadSnapshot(path string) (*Pool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewPool(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return NewPool(), nil
	}
	recs, err := Import(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", path, err)
	}
	return &Pool{recs: recs}, nil
}

// SaveSnapshot writes the whole repository to path. The file is replaced
// atomically so a crash never leaves a truncated pool behind.
func SaveSnapshot(ctx context.Context, path string, repo Repository) error {
	recs, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	var buf bytes.Buffer
	if err := Export(&buf, recs); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".pool-*.json")
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("save snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
