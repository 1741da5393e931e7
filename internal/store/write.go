package store

import (
	"database/sql"
	"fmt"
	"time"
)

type PlayImport struct {
	Artist   *string
	Track    *string
	Album    *string
	MsPlayed int64
	Date     time.Time
}

// AddPlays inserts a batch of plays transactionally.
func (s *Store) AddPlays(plays []PlayImport) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT INTO Play (artist, track, album, ms_played, date) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range plays {
		var date sql.NullInt64
		if !p.Date.IsZero() {
			date = sql.NullInt64{Int64: p.Date.Unix(), Valid: true}
		}
		_, err := stmt.Exec(nullString(p.Artist), nullString(p.Track), nullString(p.Album), p.MsPlayed, date)
		if err != nil {
			return fmt.Errorf("inserting play: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
