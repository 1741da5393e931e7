package analysis

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ademuri/spotify-plot/internal/history"
)

const streamingHistory = `{"ts": "2023-01-01T10:00:00Z", "master_metadata_album_artist_name": "Radiohead", "ms_played": 3600000, "episode_show_name": null}
{"ts": "2023-01-02T10:00:00Z", "master_metadata_album_artist_name": "Radiohead", "ms_played": 1800000, "episode_show_name": null}
{"ts": "2023-01-03T10:00:00Z", "master_metadata_album_artist_name": "Radiohead", "ms_played": 600000, "episode_show_name": null}
{"ts": "2023-01-04T10:00:00Z", "master_metadata_album_artist_name": "Bjork", "ms_played": 240000, "episode_show_name": null}
{"ts": "2023-01-05T10:00:00Z", "master_metadata_album_artist_name": "Bjork", "ms_played": 120000, "episode_show_name": null}
{"ts": "2023-01-06T10:00:00Z", "master_metadata_album_artist_name": "Peppa Pig", "ms_played": 60000, "episode_show_name": null}
{"ts": "2023-01-06T11:00:00Z", "master_metadata_album_artist_name": "Peppa Pig", "ms_played": 60000, "episode_show_name": null}
{"ts": "2023-01-06T12:00:00Z", "master_metadata_album_artist_name": "Peppa Pig", "ms_played": 60000, "episode_show_name": null}
{"ts": "2023-01-06T13:00:00Z", "master_metadata_album_artist_name": "Peppa Pig", "ms_played": 60000, "episode_show_name": null}
[{"ts": "2023-01-07T10:00:00Z", "master_metadata_album_artist_name": null, "ms_played": 7200000, "episode_show_name": "A Podcast"}, {"ts": "2023-01-08T10:00:00Z", "master_metadata_album_artist_name": "Low", "ms_played": 300000, "episode_show_name": null}]
`

func loadFixture(t *testing.T, contents string) *history.Dataset {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "MyData/Streaming_History_Audio_2023.json", []byte(contents), 0644))
	ds, err := history.NewLoader(fs).Load("MyData")
	require.NoError(t, err)
	return ds
}

func TestCalculateMetrics(t *testing.T) {
	ds := loadFixture(t, streamingHistory)
	ds, err := history.Preprocess(ds, history.PreprocessOptions{ExcludedArtists: []string{"Peppa Pig"}})
	require.NoError(t, err)

	metrics, err := CalculateMetrics(ds, 2)
	require.NoError(t, err)
	require.Len(t, metrics, 2)

	assert.Equal(t, "Radiohead", metrics[0].Name)
	assert.Equal(t, int64(3), metrics[0].Plays)
	assert.InDelta(t, 1.5+1.0/6, metrics[0].ListeningHours, 1e-9)
	assert.InDelta(t, (60.0+30+10)/3, metrics[0].MeanTrackMinutes, 1e-9)

	assert.Equal(t, "Bjork", metrics[1].Name)
	assert.Equal(t, int64(2), metrics[1].Plays)
	assert.InDelta(t, 0.1, metrics[1].ListeningHours, 1e-9)
	assert.InDelta(t, 3.0, metrics[1].MeanTrackMinutes, 1e-9)
}

func TestCalculateMetricsWithoutExclusions(t *testing.T) {
	metrics, err := CalculateMetrics(loadFixture(t, streamingHistory), 0)
	require.NoError(t, err)

	var names []string
	for _, m := range metrics {
		names = append(names, m.Name)
	}
	// The podcast row has no artist, so it never becomes a group.
	assert.Equal(t, []string{"Peppa Pig", "Radiohead", "Bjork", "Low"}, names)
}

func TestCalculateMetricsNoArtistColumn(t *testing.T) {
	ds := loadFixture(t, `{"ts": "2023-01-01T10:00:00Z", "ms_played": 1000}`)

	_, err := CalculateMetrics(ds, 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoArtistData))
}

func TestCalculateMetricsNoPlayTimeColumn(t *testing.T) {
	ds := loadFixture(t, `{"master_metadata_album_artist_name": "A"}
{"master_metadata_album_artist_name": "A"}`)

	metrics, err := CalculateMetrics(ds, 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoPlayTimeData))
	assert.Contains(t, err.Error(), history.ColumnMsPlayed)
	assert.Nil(t, metrics)

	_, err = GenerateReport(ds, 10)
	assert.True(t, errors.Is(err, ErrNoPlayTimeData))
}

func TestCalculateMetricsEmptyDataset(t *testing.T) {
	ds := history.NewDataset(nil, history.ColumnArtist, history.ColumnMsPlayed)

	metrics, err := CalculateMetrics(ds, 10)
	require.NoError(t, err)
	assert.Empty(t, metrics)
}

func TestGenerateReport(t *testing.T) {
	ds, err := history.Preprocess(loadFixture(t, streamingHistory), history.PreprocessOptions{})
	require.NoError(t, err)

	before := loadedStores
	report, err := GenerateReport(ds, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, loadedStores-before, "metrics and summary should share one store")

	assert.Equal(t, int64(10), report.Summary.TotalPlays)
	assert.Equal(t, int64(4), report.Summary.TotalArtists)
	assert.Equal(t, "2023-01-01 to 2023-01-08", report.Summary.Period)
	require.Len(t, report.TopArtists, 1)
	assert.Equal(t, "Peppa Pig", report.TopArtists[0].Name)
}
