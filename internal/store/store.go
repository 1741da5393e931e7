package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// MemoryDSN opens a private in-memory database. Nothing is written to disk.
const MemoryDSN = ":memory:"

type Store struct {
	db *sql.DB
}

func New(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Each connection to :memory: is its own database, so pin the pool to one.
	db.SetMaxOpenConns(1)

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func createTables(db *sql.DB) error {
	const query = `
CREATE TABLE IF NOT EXISTS Play (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  artist TEXT,
  track TEXT,
  album TEXT,
  ms_played INTEGER NOT NULL DEFAULT 0,
  date INTEGER
);

CREATE INDEX IF NOT EXISTS PlayArtist ON Play (artist);
`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("creating play table: %w", err)
	}
	return nil
}
