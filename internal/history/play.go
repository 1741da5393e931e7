package history

import (
	"sort"
	"time"
)

// Keys used in Spotify's extended streaming history export.
const (
	ColumnTimestamp = "ts"
	ColumnArtist    = "master_metadata_album_artist_name"
	ColumnTrack     = "master_metadata_track_name"
	ColumnAlbum     = "master_metadata_album_album_name"
	ColumnMsPlayed  = "ms_played"
	ColumnEpisode   = "episode_name"
	ColumnShow      = "episode_show_name"
)

const (
	msPerHour   = 1000 * 60 * 60
	minsPerHour = 60
)

// Play is a single streaming event. Nullable fields are pointers; a nil value
// means the key was missing or null in the export.
type Play struct {
	RawTimestamp string  `json:"ts"`
	Artist       *string `json:"master_metadata_album_artist_name"`
	Track        *string `json:"master_metadata_track_name"`
	Album        *string `json:"master_metadata_album_album_name"`
	MsPlayed     int64   `json:"ms_played"`
	EpisodeName  *string `json:"episode_name"`
	ShowName     *string `json:"episode_show_name"`
	Platform     string  `json:"platform"`
	ConnCountry  string  `json:"conn_country"`
	ReasonStart  string  `json:"reason_start"`
	ReasonEnd    string  `json:"reason_end"`
	Shuffle      *bool   `json:"shuffle"`
	Skipped      *bool   `json:"skipped"`

	// Timestamp is set by Preprocess from RawTimestamp.
	Timestamp time.Time `json:"-"`
}

func (p Play) Hours() float64 {
	return float64(p.MsPlayed) / msPerHour
}

func (p Play) Minutes() float64 {
	return p.Hours() * minsPerHour
}

func (p Play) IsPodcast() bool {
	return p.ShowName != nil
}

func (p Play) ArtistName() string {
	if p.Artist == nil {
		return ""
	}
	return *p.Artist
}

// Dataset is a table of plays in load order, along with the set of columns
// seen in any record.
type Dataset struct {
	Plays   []Play
	columns map[string]struct{}
}

func NewDataset(plays []Play, columns ...string) *Dataset {
	ds := &Dataset{Plays: plays, columns: make(map[string]struct{}, len(columns))}
	for _, c := range columns {
		ds.columns[c] = struct{}{}
	}
	return ds
}

func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.columns[name]
	return ok
}

func (d *Dataset) Columns() []string {
	cols := make([]string, 0, len(d.columns))
	for c := range d.columns {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

func (d *Dataset) Len() int {
	return len(d.Plays)
}

// withPlays returns a dataset sharing d's columns.
func (d *Dataset) withPlays(plays []Play) *Dataset {
	return &Dataset{Plays: plays, columns: d.columns}
}

func (d *Dataset) addColumn(name string) {
	if d.columns == nil {
		d.columns = make(map[string]struct{})
	}
	d.columns[name] = struct{}{}
}
