package analysis

// Report is the document printed by the report command.
type Report struct {
	Summary    Summary         `yaml:"summary"`
	TopArtists []ArtistMetrics `yaml:"top_artists"`
}

type Summary struct {
	GeneratedDate  string  `yaml:"generated_date"`
	Period         string  `yaml:"period,omitempty"`
	TotalPlays     int64   `yaml:"total_plays"`
	TotalArtists   int64   `yaml:"total_artists"`
	ListeningHours float64 `yaml:"listening_hours"`
}

// ArtistMetrics is one row of the top artists chart.
type ArtistMetrics struct {
	Name             string  `yaml:"name"`
	Plays            int64   `yaml:"plays"`
	ListeningHours   float64 `yaml:"listening_hours"`
	MeanTrackMinutes float64 `yaml:"mean_track_minutes"`
}
