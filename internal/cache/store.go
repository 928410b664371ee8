package cache

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/sunholo/corelang/internal/typedast"
)

// Store is a persistent, on-disk cache of checked symbol bodies,
// backed by a single sqlite file. Concurrent access is safe: every
// checking worker may race to Put the same key (spec.md §5 "per-symbol,
// may race-insert"), and the table's digest primary key plus `INSERT OR
// REPLACE` makes the last writer win rather than error.
type Store struct {
	db *sql.DB
	mu sync.Mutex // serializes writes; sqlite itself only allows one at a time
}

// Open creates (or reuses) a sqlite database at path and ensures its
// schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: opening %s: %w", path, err)
	}
	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS checked_symbols (
	digest      TEXT PRIMARY KEY,
	full_name   TEXT NOT NULL,
	scheme_text TEXT NOT NULL,
	dep_hash    TEXT NOT NULL,
	expr_json   BLOB NOT NULL
);
`

// Close releases the underlying sqlite connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get looks up a previously cached checked body. ok is false on a cache
// miss; err is only non-nil on an actual I/O or decode failure.
func (s *Store) Get(key CacheKey) (expr *typedast.Expr, ok bool, err error) {
	row := s.db.QueryRow(
		`SELECT expr_json FROM checked_symbols WHERE digest = ?`, key.digest(),
	)
	var blob []byte
	switch err := row.Scan(&blob); err {
	case sql.ErrNoRows:
		return nil, false, nil
	case nil:
		// fall through
	default:
		return nil, false, fmt.Errorf("cache: reading %s: %w", key.FullName, err)
	}

	e, err := unmarshalExpr(blob)
	if err != nil {
		return nil, false, fmt.Errorf("cache: decoding %s: %w", key.FullName, err)
	}
	return &e, true, nil
}

// Put stores (or overwrites) the checked body for key.
func (s *Store) Put(key CacheKey, expr typedast.Expr) error {
	blob, err := marshalExpr(expr)
	if err != nil {
		return fmt.Errorf("cache: encoding %s: %w", key.FullName, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO checked_symbols (digest, full_name, scheme_text, dep_hash, expr_json)
		 VALUES (?, ?, ?, ?, ?)`,
		key.digest(), key.FullName, key.SchemeText, key.DepHash, blob,
	)
	if err != nil {
		return fmt.Errorf("cache: writing %s: %w", key.FullName, err)
	}
	return nil
}

// Invalidate drops every cached entry for fullName, regardless of
// scheme text or dependency hash — used when a symbol's own definition
// changes shape enough that the caller can no longer compute a stable
// key for it.
func (s *Store) Invalidate(fullName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(`DELETE FROM checked_symbols WHERE full_name = ?`, fullName); err != nil {
		return fmt.Errorf("cache: invalidating %s: %w", fullName, err)
	}
	return nil
}
