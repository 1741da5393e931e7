package analysis

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ademuri/spotify-plot/internal/history"
	"github.com/ademuri/spotify-plot/internal/logger"
	"github.com/ademuri/spotify-plot/internal/store"
)

var (
	ErrNoArtistData   = errors.New("artist name data not available in the provided files")
	ErrNoPlayTimeData = fmt.Errorf("%q not present in the provided files", history.ColumnMsPlayed)
)

const (
	msPerHour   = 1000 * 60 * 60
	msPerMinute = 1000 * 60
)

// CalculateMetrics returns the numArtists most played artists with their
// total listening hours and mean play length in minutes. numArtists <= 0
// returns every artist.
func CalculateMetrics(ds *history.Dataset, numArtists int) ([]ArtistMetrics, error) {
	if err := checkColumns(ds); err != nil {
		return nil, err
	}

	db, err := loadStore(ds)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return topArtists(db, numArtists)
}

// Summarize totals the whole dataset.
func Summarize(ds *history.Dataset) (Summary, error) {
	db, err := loadStore(ds)
	if err != nil {
		return Summary{}, err
	}
	defer db.Close()

	return summarize(db)
}

// GenerateReport builds the summary and top artist metrics for ds.
func GenerateReport(ds *history.Dataset, numArtists int) (*Report, error) {
	if err := checkColumns(ds); err != nil {
		return nil, err
	}

	db, err := loadStore(ds)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	metrics, err := topArtists(db, numArtists)
	if err != nil {
		return nil, err
	}
	summary, err := summarize(db)
	if err != nil {
		return nil, err
	}
	return &Report{Summary: summary, TopArtists: metrics}, nil
}

func checkColumns(ds *history.Dataset) error {
	if !ds.HasColumn(history.ColumnArtist) {
		logger.L().Error("Artist name data not available in the provided files.")
		return ErrNoArtistData
	}
	if !ds.HasColumn(history.ColumnMsPlayed) {
		logger.L().Error("Play time data not available in the provided files.")
		return ErrNoPlayTimeData
	}
	return nil
}

func topArtists(db *store.Store, numArtists int) ([]ArtistMetrics, error) {
	totals, err := db.GetTopArtists(numArtists)
	if err != nil {
		return nil, fmt.Errorf("calculating metrics: %w", err)
	}

	metrics := make([]ArtistMetrics, 0, len(totals))
	for _, t := range totals {
		metrics = append(metrics, ArtistMetrics{
			Name:             t.Artist,
			Plays:            t.Plays,
			ListeningHours:   float64(t.MsPlayed) / msPerHour,
			MeanTrackMinutes: t.MeanMsPlayed / msPerMinute,
		})
	}

	logger.L().Info("Calculated artist metrics",
		zap.Int("requested", numArtists),
		zap.Int("artists", len(metrics)))
	return metrics, nil
}

func summarize(db *store.Store) (Summary, error) {
	totals, err := db.GetTotals()
	if err != nil {
		return Summary{}, fmt.Errorf("summarizing: %w", err)
	}

	const dateFormat = "2006-01-02"
	summary := Summary{
		GeneratedDate:  time.Now().Format(dateFormat),
		TotalPlays:     totals.Plays,
		TotalArtists:   totals.Artists,
		ListeningHours: float64(totals.MsPlayed) / msPerHour,
	}
	if !totals.First.IsZero() {
		summary.Period = fmt.Sprintf("%s to %s", totals.First.Format(dateFormat), totals.Last.Format(dateFormat))
	}
	return summary, nil
}

// loadStore copies ds into a fresh in-memory store. Callers close it.
func loadStore(ds *history.Dataset) (*store.Store, error) {
	db, err := store.New(store.MemoryDSN)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	loadedStores++

	plays := make([]store.PlayImport, 0, ds.Len())
	for _, p := range ds.Plays {
		plays = append(plays, store.PlayImport{
			Artist:   p.Artist,
			Track:    p.Track,
			Album:    p.Album,
			MsPlayed: p.MsPlayed,
			Date:     p.Timestamp,
		})
	}
	if err := db.AddPlays(plays); err != nil {
		db.Close()
		return nil, fmt.Errorf("loading plays: %w", err)
	}
	return db, nil
}

// loadedStores counts loadStore calls.
var loadedStores int
