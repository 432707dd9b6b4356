// Package trace provides a SQLite-backed store for chains of independent
// draws, used for initialization diagnostics. Each run groups a fixed
// number of chains and draws; each draw records one array per variable.
package trace

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/perihelionlabs/exoprior/internal/tensor"
	"github.com/perihelionlabs/exoprior/internal/trace/migrations"
)

// ErrRunNotFound indicates a run id the store does not hold.
var ErrRunNotFound = errors.New("run not found")

// Store persists sampling runs in SQLite.
type Store struct {
	sqlDB *sql.DB
	clock func() time.Time
}

// Run describes one stored sampling run.
type Run struct {
	ID        string
	CreatedAt time.Time
	Chains    int
	Draws     int
}

// Draw is one stored draw of a single variable.
type Draw struct {
	Chain  int
	Index  int
	Values *tensor.Array
}

// Open opens a SQLite trace store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, clock: time.Now}, nil
}

func applyMigrations(sqlDB *sql.DB) error {
	if _, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
);`); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		var count int
		if err := sqlDB.QueryRow(
			`SELECT COUNT(1) FROM schema_migrations WHERE name = ?`, name,
		).Scan(&count); err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if count > 0 {
			continue
		}
		content, err := fs.ReadFile(migrations.FS, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := sqlDB.Exec(string(content)); err != nil {
			return fmt.Errorf("exec migration %s: %w", name, err)
		}
		if _, err := sqlDB.Exec(
			`INSERT INTO schema_migrations (name, applied_at) VALUES (?, ?)`,
			name, time.Now().UTC().UnixMilli(),
		); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
	}
	return nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// CreateRun registers a new run and returns its id.
func (s *Store) CreateRun(ctx context.Context, chains, draws int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if chains < 1 || draws < 1 {
		return "", fmt.Errorf("chains and draws must be positive, got %d and %d", chains, draws)
	}
	id := uuid.NewString()
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, chains, draws) VALUES (?, ?, ?, ?)`,
		id, s.clock().UTC().UnixMilli(), chains, draws)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// RunInfo returns metadata for a stored run.
func (s *Store) RunInfo(ctx context.Context, runID string) (Run, error) {
	if err := ctx.Err(); err != nil {
		return Run{}, err
	}
	var run Run
	var createdAt int64
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, created_at, chains, draws FROM runs WHERE id = ?`, runID,
	).Scan(&run.ID, &createdAt, &run.Chains, &run.Draws)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %q", ErrRunNotFound, runID)
	}
	if err != nil {
		return Run{}, fmt.Errorf("query run: %w", err)
	}
	run.CreatedAt = time.UnixMilli(createdAt).UTC()
	return run, nil
}

// AppendDraw stores one variable's values for a (chain, draw) pair.
func (s *Store) AppendDraw(ctx context.Context, runID string, chain, draw int, name string, values *tensor.Array) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("variable name is required")
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO draws (run_id, chain, draw, name, shape, data) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, chain, draw, name, encodeShape(values.Shape), encodeData(values.Data))
	if err != nil {
		return fmt.Errorf("insert draw: %w", err)
	}
	return nil
}

// Draws returns all stored draws of one variable, ordered by chain then
// draw index.
func (s *Store) Draws(ctx context.Context, runID, name string) ([]Draw, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := s.RunInfo(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT chain, draw, shape, data FROM draws WHERE run_id = ? AND name = ? ORDER BY chain, draw`,
		runID, name)
	if err != nil {
		return nil, fmt.Errorf("query draws: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var draws []Draw
	for rows.Next() {
		var d Draw
		var shapeText string
		var blob []byte
		if err := rows.Scan(&d.Chain, &d.Index, &shapeText, &blob); err != nil {
			return nil, fmt.Errorf("scan draw: %w", err)
		}
		shape, err := decodeShape(shapeText)
		if err != nil {
			return nil, err
		}
		values, err := tensor.FromSlice(decodeData(blob), shape...)
		if err != nil {
			return nil, fmt.Errorf("decode draw values: %w", err)
		}
		d.Values = values
		draws = append(draws, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate draws: %w", err)
	}
	return draws, nil
}

func encodeShape(shape []int) string {
	parts := make([]string, len(shape))
	for i, n := range shape {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

func decodeShape(text string) ([]int, error) {
	parts := strings.Split(text, ",")
	shape := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("decode shape %q: %w", text, err)
		}
		shape[i] = n
	}
	return shape, nil
}

func encodeData(values []float64) []byte {
	blob := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(blob[8*i:], math.Float64bits(v))
	}
	return blob
}

func decodeData(blob []byte) []float64 {
	values := make([]float64, len(blob)/8)
	for i := range values {
		values[i] = math.Float64frombits(binary.LittleEndian.Uint64(blob[8*i:]))
	}
	return values
}
