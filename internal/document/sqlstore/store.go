// Package sqlstore provides a SQLite-backed paragraph store for documents
// too large to keep in memory comfortably.
//
// Paragraphs are imported once and then read on demand in small blocks;
// recently read paragraphs are kept in a bounded cache. The store is
// read-only after import and implements the window's Model and the row
// factory's Source.
package sqlstore

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // register sqlite driver

	"github.com/dshills/vflow/internal/renderer/rowcache"
)

const schema = `
CREATE TABLE IF NOT EXISTS paragraphs (
	idx   INTEGER PRIMARY KEY,
	text  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS meta (
	key    TEXT PRIMARY KEY,
	value  TEXT NOT NULL
);
`

// DefaultBlockSize is the number of paragraphs read per query on a miss.
const DefaultBlockSize = 64

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store is closed")

// Store is a read-mostly paragraph store.
type Store struct {
	mu     sync.Mutex
	db     *sql.DB
	id     uuid.UUID
	count  int
	block  int
	cache  *rowcache.Cache[string]
	log    zerolog.Logger
	closed bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for read failures.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.log = l.With().Str("component", "sqlstore").Logger()
	}
}

// WithCacheSize sets the paragraph cache capacity.
func WithCacheSize(n int) Option {
	return func(s *Store) {
		cfg := rowcache.DefaultConfig()
		cfg.Capacity = n
		s.cache = rowcache.New[string](cfg)
	}
}

// WithBlockSize sets the number of paragraphs read per query.
func WithBlockSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.block = n
		}
	}
}

// Open creates or opens a store at the given path.
func Open(dbPath string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store db: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s := &Store{
		db:    db,
		block: DefaultBlockSize,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = rowcache.New[string](rowcache.Config{Capacity: 4 * rowcache.DefaultCapacity})
	}

	if err := s.loadMeta(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) loadMeta() error {
	var raw string
	err := s.db.QueryRow("SELECT value FROM meta WHERE key = 'id'").Scan(&raw)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.id = uuid.New()
		if _, err := s.db.Exec("INSERT INTO meta (key, value) VALUES ('id', ?)", s.id.String()); err != nil {
			return fmt.Errorf("store id: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read id: %w", err)
	default:
		id, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("parse id %q: %w", raw, err)
		}
		s.id = id
	}

	if err := s.db.QueryRow("SELECT COUNT(*) FROM paragraphs").Scan(&s.count); err != nil {
		return fmt.Errorf("count paragraphs: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// Import replaces the stored paragraphs with the lines read from r and
// returns the paragraph count. Line endings are normalized. The store gets
// a new identity, so a window showing it treats the result as a new model.
func (s *Store) Import(ctx context.Context, r io.Reader) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM paragraphs"); err != nil {
		return 0, fmt.Errorf("clear paragraphs: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO paragraphs (idx, text) VALUES (?, ?)")
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	br := bufio.NewReader(r)
	n := 0
	for {
		line, readErr := br.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return 0, fmt.Errorf("read paragraph %d: %w", n, readErr)
		}
		eof := readErr != nil
		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")
		if _, err := stmt.ExecContext(ctx, n, line); err != nil {
			return 0, fmt.Errorf("insert paragraph %d: %w", n, err)
		}
		n++
		if eof {
			break
		}
	}

	id := uuid.New()
	if _, err := tx.ExecContext(ctx, "INSERT OR REPLACE INTO meta (key, value) VALUES ('id', ?)", id.String()); err != nil {
		return 0, fmt.Errorf("store id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}

	s.id = id
	s.count = n
	s.cache.Clear()
	return n, nil
}

// ID returns the store identity.
func (s *Store) ID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// ParagraphCount returns the number of stored paragraphs.
func (s *Store) ParagraphCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// ParagraphText returns a paragraph's text. A read failure is logged and
// yields "".
func (s *Store) ParagraphText(index int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || index < 0 || index >= s.count {
		return ""
	}
	if text, ok := s.cache.Get(index); ok {
		return text
	}
	text, err := s.readBlock(index)
	if err != nil {
		s.log.Warn().Err(err).Int("index", index).Msg("failed to read paragraph")
		return ""
	}
	return text
}

// ParagraphLength returns the length of a paragraph in runes.
func (s *Store) ParagraphLength(index int) int {
	return utf8.RuneCountInString(s.ParagraphText(index))
}

// readBlock loads the block of paragraphs holding index into the cache and
// returns the paragraph at index. Caller holds the lock.
func (s *Store) readBlock(index int) (string, error) {
	from := index - index%s.block
	rows, err := s.db.Query(
		"SELECT idx, text FROM paragraphs WHERE idx >= ? AND idx < ? ORDER BY idx",
		from, from+s.block,
	)
	if err != nil {
		return "", fmt.Errorf("query block %d: %w", from, err)
	}
	defer rows.Close()

	var target string
	for rows.Next() {
		var (
			idx  int
			text string
		)
		if err := rows.Scan(&idx, &text); err != nil {
			return "", fmt.Errorf("scan paragraph: %w", err)
		}
		if idx == index {
			target = text
			continue
		}
		s.cache.Put(idx, text)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	// Put last so the requested paragraph is the most recent entry.
	s.cache.Put(index, target)
	return target, nil
}

// CacheStats returns paragraph cache statistics.
func (s *Store) CacheStats() rowcache.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Stats()
}
