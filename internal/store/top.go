package store

import (
	"database/sql"
	"fmt"
	"time"
)

type ArtistTotals struct {
	Artist       string
	Plays        int64
	MsPlayed     int64
	MeanMsPlayed float64
}

type Totals struct {
	Plays    int64
	Artists  int64
	MsPlayed int64
	First    time.Time
	Last     time.Time
}

// GetTopArtists returns per-artist totals ordered by play count, ties broken
// by name. Plays without an artist are not counted. A limit of zero or less
// returns every artist.
func (s *Store) GetTopArtists(limit int) ([]ArtistTotals, error) {
	if limit <= 0 {
		// SQLite treats a negative LIMIT as no limit.
		limit = -1
	}

	const query = `
	SELECT artist, COUNT(*) AS plays, SUM(ms_played), AVG(ms_played)
	FROM Play
	WHERE artist IS NOT NULL
	GROUP BY artist
	ORDER BY plays DESC, artist ASC
	LIMIT ?
	`
	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying top artists: %w", err)
	}
	defer rows.Close()

	var results []ArtistTotals
	for rows.Next() {
		var at ArtistTotals
		if err := rows.Scan(&at.Artist, &at.Plays, &at.MsPlayed, &at.MeanMsPlayed); err != nil {
			return nil, fmt.Errorf("scanning artist: %w", err)
		}
		results = append(results, at)
	}
	return results, rows.Err()
}

func (s *Store) GetTotals() (Totals, error) {
	const query = `
	SELECT COUNT(*), COUNT(DISTINCT artist), COALESCE(SUM(ms_played), 0), MIN(date), MAX(date)
	FROM Play
	`
	var t Totals
	var first, last sql.NullInt64
	err := s.db.QueryRow(query).Scan(&t.Plays, &t.Artists, &t.MsPlayed, &first, &last)
	if err != nil {
		return Totals{}, fmt.Errorf("querying totals: %w", err)
	}
	if first.Valid {
		t.First = time.Unix(first.Int64, 0).UTC()
	}
	if last.Valid {
		t.Last = time.Unix(last.Int64, 0).UTC()
	}
	return t, nil
}
