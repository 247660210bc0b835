package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/hazyhaar/feedview/article"
	"github.com/hazyhaar/feedview/prefs/internal/sqlitedb"
)

const schema = `CREATE TABLE IF NOT EXISTS preferences (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

const keyFontSize = "font_size"

// SQLite is a Store persisted in an SQLite file.
type SQLite struct {
	db     *sql.DB
	logger *slog.Logger

	mu       sync.Mutex
	fontSize int
}

// OpenSQLite opens (or creates) the preference database at path. When no
// font size is stored yet, defaultSize is used (article.DefaultFontSize if
// it is not valid). Pass ":memory:" for a throwaway store.
func OpenSQLite(ctx context.Context, path string, defaultSize int, logger *slog.Logger) (*SQLite, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !article.ValidFontSize(defaultSize) {
		defaultSize = article.DefaultFontSize
	}

	db, err := sqlitedb.Open(path, sqlitedb.WithSchema(schema))
	if err != nil {
		return nil, fmt.Errorf("prefs: %w", err)
	}

	s := &SQLite{db: db, logger: logger, fontSize: defaultSize}
	raw, err := s.load(ctx)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		db.Close()
		return nil, err
	default:
		if size, perr := strconv.Atoi(raw); perr == nil && article.ValidFontSize(size) {
			s.fontSize = size
		} else {
			logger.Warn("prefs: stored font size ignored", "value", raw)
		}
	}
	return s, nil
}

func (s *SQLite) load(ctx context.Context) (string, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE key = ?`, keyFontSize).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", err
		}
		return "", fmt.Errorf("prefs: load font size: %w", err)
	}
	return raw, nil
}

// FontSize returns the cached font size.
func (s *SQLite) FontSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fontSize
}

// SetFontSize validates and persists size.
func (s *SQLite) SetFontSize(size int) error {
	if err := checkFontSize(size); err != nil {
		return err
	}
	_, err := sqlitedb.Exec(context.Background(), s.db,
		`INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		keyFontSize, strconv.Itoa(size), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("prefs: save font size: %w", err)
	}
	s.mu.Lock()
	s.fontSize = size
	s.mu.Unlock()
	s.logger.Debug("prefs: font size saved", "size", size)
	return nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
