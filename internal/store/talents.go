package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/MikeSquared-Agency/nexus/internal/talent"
)

var _ talent.Repository = (*Store)(nil)

// Talents are addressed by their zero-based rank in position order, so an
// index shifts down once an earlier entry is removed.

// Append stores rec after every existing talent and returns its index.
func (s *Store) Append(ctx context.Context, rec *talent.Record) (int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := insertTalent(ctx, tx, rec); err != nil {
		return 0, err
	}

	var count int
	if err := tx.QueryRow(ctx, `SELECT count(*) FROM talents`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count talents: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return count - 1, nil
}

func (s *Store) List(ctx context.Context) ([]*talent.Record, error) {
	rows, err := s.pool.Query(ctx, `SELECT payload FROM talents ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query talents: %w", err)
	}
	return scanTalents(rows)
}

func scanTalents(rows pgx.Rows) ([]*talent.Record, error) {
	defer rows.Close()

	var out []*talent.Record
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan talent: %w", err)
		}
		rec, err := talent.ParseRecord(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate talents: %w", err)
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, index int) (*talent.Record, error) {
	if index < 0 {
		return nil, talent.ErrNotFound
	}
	var payload []byte
	err := s.pool.QueryRow(ctx, `
		SELECT payload FROM talents
		ORDER BY position
		OFFSET $1 LIMIT 1`, index,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, talent.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get talent %d: %w", index, err)
	}
	return talent.ParseRecord(payload)
}

func (s *Store) Remove(ctx context.Context, index int) (*talent.Record, error) {
	if index < 0 {
		return nil, talent.ErrNotFound
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		id      uuid.UUID
		payload []byte
	)
	err = tx.QueryRow(ctx, `
		SELECT id, payload FROM talents
		ORDER BY position
		OFFSET $1 LIMIT 1
		FOR UPDATE`, index,
	).Scan(&id, &payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, talent.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select talent %d: %w", index, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM talents WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("delete talent: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return talent.ParseRecord(payload)
}

// Replace swaps the whole collection for recs in one transaction.
func (s *Store) Replace(ctx context.Context, recs []*talent.Record) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := replaceAll(ctx, tx, recs); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Rewrite holds an EXCLUSIVE lock on talents from the read until the commit,
// so appends and removals wait instead of being overwritten. Plain reads
// still proceed.
func (s *Store) Rewrite(ctx context.Context, fn talent.RewriteFunc) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `LOCK TABLE talents IN EXCLUSIVE MODE`); err != nil {
		return fmt.Errorf("lock talents: %w", err)
	}
	rows, err := tx.Query(ctx, `SELECT payload FROM talents ORDER BY position`)
	if err != nil {
		return fmt.Errorf("query talents: %w", err)
	}
	current, err := scanTalents(rows)
	if err != nil {
		return err
	}

	next, err := fn(current)
	if err != nil {
		return err
	}
	if err := replaceAll(ctx, tx, next); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func replaceAll(ctx context.Context, tx pgx.Tx, recs []*talent.Record) error {
	if _, err := tx.Exec(ctx, `DELETE FROM talents`); err != nil {
		return fmt.Errorf("clear talents: %w", err)
	}
	for i, rec := range recs {
		if rec == nil {
			return fmt.Errorf("replace talents: nil record at %d", i)
		}
		if err := insertTalent(ctx, tx, rec); err != nil {
			return err
		}
	}
	return nil
}

func insertTalent(ctx context.Context, tx pgx.Tx, rec *talent.Record) error {
	if rec == nil {
		return fmt.Errorf("insert talent: nil record")
	}
	payload, err := rec.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshal talent: %w", err)
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO talents (id, payload, name, phone, created_at)
		VALUES ($1, $2, $3, $4, now())`,
		uuid.New(), json.RawMessage(payload), rec.Field(talent.FieldName), rec.Phone(),
	)
	if err != nil {
		return fmt.Errorf("insert talent: %w", err)
	}
	return nil
}
