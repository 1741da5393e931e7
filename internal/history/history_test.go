package history

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lineDelimited = `{"ts": "2023-01-01T10:00:00Z", "master_metadata_album_artist_name": "Radiohead", "master_metadata_track_name": "Airbag", "ms_played": 240000, "episode_show_name": null}
[{"ts": "2023-01-02T10:00:00Z", "master_metadata_album_artist_name": "Bjork", "ms_played": 180000}, {"ts": "2023-01-03T10:00:00Z", "master_metadata_album_artist_name": null, "ms_played": 1000, "episode_name": "Ep 1", "episode_show_name": "Some Show"}, 42]
`

const prettyArray = `[
  {
    "ts": "2023-02-01T10:00:00Z",
    "master_metadata_album_artist_name": "Radiohead",
    "ms_played": 120000
  }
]
`

func writeFile(t *testing.T, fs afero.Fs, path, contents string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(contents), 0644))
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "MyData/StreamingHistory0.json", lineDelimited)
	writeFile(t, fs, "MyData/StreamingHistory1.json", prettyArray)
	writeFile(t, fs, "MyData/ReadMe.pdf", "not json")
	require.NoError(t, fs.MkdirAll("MyData/nested.json", 0755))

	ds, err := NewLoader(fs).Load("MyData")
	require.NoError(t, err)
	require.Equal(t, 4, ds.Len())

	assert.Equal(t, "Radiohead", ds.Plays[0].ArtistName())
	assert.Equal(t, "Bjork", ds.Plays[1].ArtistName())
	assert.Nil(t, ds.Plays[2].Artist)
	assert.True(t, ds.Plays[2].IsPodcast())
	assert.Equal(t, int64(120000), ds.Plays[3].MsPlayed)

	for _, c := range []string{ColumnTimestamp, ColumnArtist, ColumnTrack, ColumnMsPlayed, ColumnShow, ColumnEpisode} {
		assert.True(t, ds.HasColumn(c), "missing column %s", c)
	}
	assert.False(t, ds.HasColumn(ColumnAlbum))
}

func TestLoadMissingDirectory(t *testing.T) {
	_, err := NewLoader(afero.NewMemMapFs()).Load("nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}

func TestLoadNotADirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "history.json", prettyArray)

	_, err := NewLoader(fs).Load("history.json")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestLoadMalformedJSON(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "MyData/bad.json", `{"ts": "2023-01-01T10:00:00Z",`)

	_, err := NewLoader(fs).Load("MyData")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.json")
}

func TestLoadEmptyDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("MyData", 0755))

	ds, err := NewLoader(fs).Load("MyData")
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Len())
	assert.Empty(t, ds.Columns())
}

func strPtr(s string) *string { return &s }

func TestPreprocess(t *testing.T) {
	plays := []Play{
		{RawTimestamp: "2023-01-01T00:00:00Z", Artist: strPtr("Radiohead"), MsPlayed: 3600000},
		{RawTimestamp: "2023-01-02T00:00:00Z", Artist: strPtr("Peppa Pig"), MsPlayed: 60000},
		{RawTimestamp: "2023-01-03T00:00:00Z", ShowName: strPtr("Some Show"), MsPlayed: 60000},
		{RawTimestamp: "2023-01-04T00:00:00Z", MsPlayed: 60000},
	}
	ds := NewDataset(plays, ColumnTimestamp, ColumnArtist, ColumnShow, ColumnMsPlayed)

	out, err := Preprocess(ds, PreprocessOptions{ExcludedArtists: []string{"Peppa Pig"}})
	require.NoError(t, err)
	require.Equal(t, 2, out.Len())
	assert.Equal(t, "Radiohead", out.Plays[0].ArtistName())
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), out.Plays[0].Timestamp)
	assert.InDelta(t, 1.0, out.Plays[0].Hours(), 1e-9)
	assert.InDelta(t, 60.0, out.Plays[0].Minutes(), 1e-9)

	// Null artists survive preprocessing.
	assert.Nil(t, out.Plays[1].Artist)
	assert.True(t, out.HasColumn(ColumnShow))

	// The input is left untouched.
	assert.Equal(t, 4, ds.Len())
}

func TestPreprocessWithoutShowColumnKeepsEverything(t *testing.T) {
	plays := []Play{
		{Artist: strPtr("A"), ShowName: strPtr("ignored without the column")},
	}
	out, err := Preprocess(NewDataset(plays, ColumnArtist), PreprocessOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Len())
}

func TestPreprocessDateRangeAndMinPlayed(t *testing.T) {
	plays := []Play{
		{RawTimestamp: "2022-12-31T23:59:59Z", Artist: strPtr("A"), MsPlayed: 100000},
		{RawTimestamp: "2023-01-01T00:00:00Z", Artist: strPtr("B"), MsPlayed: 100000},
		{RawTimestamp: "2023-01-15T00:00:00Z", Artist: strPtr("C"), MsPlayed: 5000},
		{RawTimestamp: "2023-02-01T00:00:00Z", Artist: strPtr("D"), MsPlayed: 100000},
	}
	ds := NewDataset(plays, ColumnTimestamp, ColumnArtist, ColumnMsPlayed)

	out, err := Preprocess(ds, PreprocessOptions{
		From:      time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		To:        time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC),
		MinPlayed: 30000,
	})
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, "B", out.Plays[0].ArtistName())
}

func TestPreprocessBadTimestamp(t *testing.T) {
	ds := NewDataset([]Play{{RawTimestamp: "yesterday"}}, ColumnTimestamp)
	_, err := Preprocess(ds, PreprocessOptions{})
	assert.Error(t, err)
}

func TestPreprocessDateRangeNeedsTimestamp(t *testing.T) {
	ds := NewDataset([]Play{{Artist: strPtr("A")}}, ColumnArtist)
	_, err := Preprocess(ds, PreprocessOptions{From: time.Now()})
	assert.Error(t, err)
}
