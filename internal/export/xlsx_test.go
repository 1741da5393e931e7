package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ademuri/spotify-plot/internal/analysis"
)

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "top_artists.xlsx")
	metrics := []analysis.ArtistMetrics{
		{Name: "Radiohead", Plays: 3, ListeningHours: 1.5, MeanTrackMinutes: 30},
		{Name: "Bjork", Plays: 2, ListeningHours: 0.1, MeanTrackMinutes: 3},
	}
	require.NoError(t, WriteXLSX(path, metrics))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Artist", "Plays", "Listening Hours", "Mean Track Duration (Minutes)"}, rows[0])
	assert.Equal(t, "Radiohead", rows[1][0])
	assert.Equal(t, "3", rows[1][1])
	assert.Equal(t, "1.5", rows[1][2])
	assert.Equal(t, "Bjork", rows[2][0])
}
