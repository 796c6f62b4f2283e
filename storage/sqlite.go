package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/sheikhrachel/go-life/model"
)

// ErrNotFound is returned when a named pattern does not exist
var ErrNotFound = errors.New("pattern not found")

const schema = `
CREATE TABLE IF NOT EXISTS patterns (
	name       TEXT PRIMARY KEY,
	population INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS pattern_cells (
	pattern_name TEXT NOT NULL REFERENCES patterns(name) ON DELETE CASCADE,
	x            INTEGER NOT NULL,
	y            INTEGER NOT NULL,
	PRIMARY KEY (pattern_name, x, y)
);`

// PatternInfo describes a stored pattern without its cells
type PatternInfo struct {
	Name       string
	Population int
	UpdatedAt  time.Time
}

// Store persists named generations in SQLite
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite pattern library at path, creating the schema when needed
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("[Open] storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "[Open] failed to open sqlite db: %+v", path)
	}
	if err = sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrapf(err, "[Open] failed to ping sqlite db: %+v", path)
	}
	if _, err = sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(err, "[Open] failed to create schema")
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SavePattern stores g under name, replacing any pattern with the same name
func (s *Store) SavePattern(ctx context.Context, name string, g model.Generation) (err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("[SavePattern] pattern name is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "[SavePattern] failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM patterns WHERE name = ?`, name); err != nil {
		return errors.Wrapf(err, "[SavePattern] failed to clear pattern: %+v", name)
	}
	if _, err = tx.ExecContext(
		ctx,
		`INSERT INTO patterns (name, population, updated_at) VALUES (?, ?, ?)`,
		name, g.Len(), time.Now().UTC().UnixMilli(),
	); err != nil {
		return errors.Wrapf(err, "[SavePattern] failed to insert pattern: %+v", name)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO pattern_cells (pattern_name, x, y) VALUES (?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "[SavePattern] failed to prepare cell insert")
	}
	defer stmt.Close()
	for _, c := range g.Cells() {
		if _, err = stmt.ExecContext(ctx, name, c.X, c.Y); err != nil {
			return errors.Wrapf(err, "[SavePattern] failed to insert cell %v", c)
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "[SavePattern] failed to commit")
	}
	return nil
}

// LoadPattern returns the generation stored under name, or ErrNotFound
func (s *Store) LoadPattern(ctx context.Context, name string) (model.Generation, error) {
	name = strings.TrimSpace(name)

	var population int
	err := s.sqlDB.QueryRowContext(ctx, `SELECT population FROM patterns WHERE name = ?`, name).Scan(&population)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "[LoadPattern] failed to query pattern: %+v", name)
	}

	rows, err := s.sqlDB.QueryContext(ctx, `SELECT x, y FROM pattern_cells WHERE pattern_name = ?`, name)
	if err != nil {
		return nil, errors.Wrapf(err, "[LoadPattern] failed to query cells: %+v", name)
	}
	defer rows.Close()

	g := make(model.Generation, population)
	for rows.Next() {
		var c model.Cell
		if err = rows.Scan(&c.X, &c.Y); err != nil {
			return nil, errors.Wrap(err, "[LoadPattern] failed to scan cell")
		}
		g.Add(c)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "[LoadPattern] failed to iterate cells")
	}
	return g, nil
}

// ListPatterns returns the stored patterns sorted by name
func (s *Store) ListPatterns(ctx context.Context) ([]PatternInfo, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT name, population, updated_at FROM patterns ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "[ListPatterns] failed to query patterns")
	}
	defer rows.Close()

	var out []PatternInfo
	for rows.Next() {
		var (
			info      PatternInfo
			updatedAt int64
		)
		if err = rows.Scan(&info.Name, &info.Population, &updatedAt); err != nil {
			return nil, errors.Wrap(err, "[ListPatterns] failed to scan pattern")
		}
		info.UpdatedAt = time.UnixMilli(updatedAt).UTC()
		out = append(out, info)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "[ListPatterns] failed to iterate patterns")
	}
	return out, nil
}

// DeletePattern removes a stored pattern, or returns ErrNotFound
func (s *Store) DeletePattern(ctx context.Context, name string) error {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM patterns WHERE name = ?`, strings.TrimSpace(name))
	if err != nil {
		return errors.Wrapf(err, "[DeletePattern] failed to delete pattern: %+v", name)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "[DeletePattern] failed to read affected rows")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
