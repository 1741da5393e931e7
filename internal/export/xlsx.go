package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ademuri/spotify-plot/internal/analysis"
)

const SheetName = "Top Artists"

var header = []interface{}{"Artist", "Plays", "Listening Hours", "Mean Track Duration (Minutes)"}

// WriteXLSX writes metrics to a workbook at path, one artist per row.
func WriteXLSX(path string, metrics []analysis.ArtistMetrics) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, m := range metrics {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{m.Name, m.Plays, m.ListeningHours, m.MeanTrackMinutes}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("writing row for %q: %w", m.Name, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
