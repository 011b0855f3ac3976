package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/san-kum/algoviz/internal/algo"
	"github.com/san-kum/algoviz/internal/experiment"
)

var ErrNotFound = errors.New("run not found")

const dbFile = "runs.db"

// Store keeps run history in a SQLite database under a data directory.
type Store struct {
	db *sql.DB
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Algorithm  string             `json:"algorithm"`
	Timestamp  time.Time          `json:"timestamp"`
	Status     string             `json:"status"`
	Steps      int                `json:"steps"`
	DelayMs    int64              `json:"delay_ms"`
	Input      []float64          `json:"input"`
	Metrics    map[string]float64 `json:"metrics"`
	Annotation string             `json:"annotation"`
}

// FrameRecord is one stored frame. Values holds the array shown at that
// step when the algorithm works on an array.
type FrameRecord struct {
	Step       int             `json:"step"`
	Status     string          `json:"status"`
	Annotation string          `json:"annotation"`
	At         time.Time       `json:"at"`
	Values     []float64       `json:"values,omitempty"`
	State      json.RawMessage `json:"state"`
}

func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, dbFile))
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func ensureSchema(db *sql.DB) error {
	const runs = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	algorithm TEXT NOT NULL,
	created_at TEXT NOT NULL,
	status TEXT NOT NULL,
	steps INTEGER NOT NULL,
	delay_ms INTEGER NOT NULL,
	input TEXT NOT NULL,
	metrics TEXT NOT NULL,
	annotation TEXT NOT NULL
);`
	const frames = `
CREATE TABLE IF NOT EXISTS frames (
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	seq INTEGER NOT NULL,
	step INTEGER NOT NULL,
	status TEXT NOT NULL,
	annotation TEXT NOT NULL,
	at TEXT NOT NULL,
	vals TEXT NOT NULL,
	state TEXT NOT NULL,
	PRIMARY KEY (run_id, seq)
);`
	for _, stmt := range []string{runs, frames} {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("initialize run schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save records a finished run and every frame it produced.
func (s *Store) Save(ctx context.Context, res *experiment.Result, delay time.Duration) (string, error) {
	input, err := json.Marshal(nonNil(res.Input))
	if err != nil {
		return "", err
	}
	metrics, err := json.Marshal(res.Metrics)
	if err != nil {
		return "", err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, algorithm, created_at, status, steps, delay_ms, input, metrics, annotation)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.RunID,
		res.Algorithm,
		res.StartedAt.UTC().Format(time.RFC3339Nano),
		res.Status.String(),
		res.Steps,
		delay.Milliseconds(),
		string(input),
		string(metrics),
		res.Annotation,
	); err != nil {
		return "", fmt.Errorf("insert run %s: %w", res.RunID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO frames (run_id, seq, step, status, annotation, at, vals, state) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare frame insert: %w", err)
	}
	defer stmt.Close()

	for i, f := range res.Frames {
		state, err := json.Marshal(f.State)
		if err != nil {
			return "", fmt.Errorf("encode frame %d: %w", i, err)
		}
		var vals []float64
		if a, ok := f.State.(algo.Arrayed); ok {
			vals = a.Values()
		}
		valJSON, err := json.Marshal(nonNil(vals))
		if err != nil {
			return "", err
		}
		if _, err := stmt.ExecContext(ctx, res.RunID, i, f.Step, f.Status.String(), f.Annotation,
			f.At.UTC().Format(time.RFC3339Nano), string(valJSON), string(state)); err != nil {
			return "", fmt.Errorf("insert frame %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit run %s: %w", res.RunID, err)
	}
	return res.RunID, nil
}

func (s *Store) List(ctx context.Context) ([]RunMetadata, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, algorithm, created_at, status, steps, delay_ms, input, metrics, annotation FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunMetadata
	for rows.Next() {
		m, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (s *Store) Load(ctx context.Context, id string) (*RunMetadata, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, algorithm, created_at, status, steps, delay_ms, input, metrics, annotation FROM runs WHERE id = ?`, id)
	m, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return m, err
}

func (s *Store) LoadFrames(ctx context.Context, id string) ([]FrameRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT step, status, annotation, at, vals, state FROM frames WHERE run_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("query frames for %s: %w", id, err)
	}
	defer rows.Close()

	var out []FrameRecord
	for rows.Next() {
		var (
			f            FrameRecord
			at, vals, st string
		)
		if err := rows.Scan(&f.Step, &f.Status, &f.Annotation, &at, &vals, &st); err != nil {
			return nil, fmt.Errorf("scan frame: %w", err)
		}
		if f.At, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, fmt.Errorf("parse frame time: %w", err)
		}
		if err := json.Unmarshal([]byte(vals), &f.Values); err != nil {
			return nil, fmt.Errorf("decode frame values: %w", err)
		}
		f.State = json.RawMessage(st)
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM frames WHERE run_id = ?`, id); err != nil {
		return fmt.Errorf("delete frames for %s: %w", id, err)
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*RunMetadata, error) {
	var (
		m                 RunMetadata
		created, in, mets string
	)
	if err := row.Scan(&m.ID, &m.Algorithm, &created, &m.Status, &m.Steps, &m.DelayMs, &in, &mets, &m.Annotation); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	var err error
	if m.Timestamp, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, fmt.Errorf("parse run time: %w", err)
	}
	if err := json.Unmarshal([]byte(in), &m.Input); err != nil {
		return nil, fmt.Errorf("decode run input: %w", err)
	}
	if err := json.Unmarshal([]byte(mets), &m.Metrics); err != nil {
		return nil, fmt.Errorf("decode run metrics: %w", err)
	}
	return &m, nil
}

func nonNil(v []float64) []float64 {
	if v == nil {
		return []float64{}
	}
	return v
}
