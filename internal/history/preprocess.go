package history

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ademuri/spotify-plot/internal/logger"
)

type PreprocessOptions struct {
	ExcludedArtists []string

	// From and To bound the play timestamp as [From, To). Zero values leave
	// that side open.
	From time.Time
	To   time.Time

	// Plays shorter than this many milliseconds are dropped.
	MinPlayed int64
}

// Preprocess drops podcast episodes and excluded artists, parses timestamps,
// and applies the optional date and duration filters. Filters only apply when
// the column they depend on is present.
func Preprocess(ds *Dataset, opts PreprocessOptions) (*Dataset, error) {
	excluded := make(map[string]bool, len(opts.ExcludedArtists))
	for _, a := range opts.ExcludedArtists {
		excluded[a] = true
	}

	hasShow := ds.HasColumn(ColumnShow)
	hasArtist := ds.HasColumn(ColumnArtist)
	hasTimestamp := ds.HasColumn(ColumnTimestamp)
	hasMsPlayed := ds.HasColumn(ColumnMsPlayed)
	dateFiltered := !opts.From.IsZero() || !opts.To.IsZero()

	if dateFiltered && !hasTimestamp {
		return nil, fmt.Errorf("filtering by date: %q not present in the provided files", ColumnTimestamp)
	}

	out := make([]Play, 0, len(ds.Plays))
	for _, p := range ds.Plays {
		if hasShow && p.IsPodcast() {
			continue
		}
		if hasArtist && p.Artist != nil && excluded[*p.Artist] {
			continue
		}
		if hasMsPlayed && opts.MinPlayed > 0 && p.MsPlayed < opts.MinPlayed {
			continue
		}

		if hasTimestamp && p.RawTimestamp != "" {
			ts, err := time.Parse(time.RFC3339, p.RawTimestamp)
			if err != nil {
				return nil, fmt.Errorf("parsing %s: %w", ColumnTimestamp, err)
			}
			p.Timestamp = ts
		}
		if dateFiltered {
			if p.Timestamp.IsZero() {
				continue
			}
			if !opts.From.IsZero() && p.Timestamp.Before(opts.From) {
				continue
			}
			if !opts.To.IsZero() && !p.Timestamp.Before(opts.To) {
				continue
			}
		}

		out = append(out, p)
	}

	logger.L().Debug("Preprocessed streaming history",
		zap.Int("before", ds.Len()),
		zap.Int("after", len(out)))
	return ds.withPlays(out), nil
}
