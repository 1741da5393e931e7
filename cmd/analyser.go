/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"bytes"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/ademuri/spotify-plot/internal/analysis"
)

type Analysis struct {
	results [][]string
	summary string
}

func newTopArtistsAnalysis(report *analysis.Report) Analysis {
	a := Analysis{results: [][]string{{"Artist", "Plays", "Listening Hours", "Mean Track Duration (Minutes)"}}}
	for _, m := range report.TopArtists {
		a.results = append(a.results, []string{
			m.Name,
			strconv.FormatInt(m.Plays, 10),
			strconv.FormatFloat(m.ListeningHours, 'f', 2, 64),
			strconv.FormatFloat(m.MeanTrackMinutes, 'f', 2, 64),
		})
	}

	summary := report.Summary
	a.summary = fmt.Sprintf("Found %d artists and %d plays (%.1f hours)", summary.TotalArtists, summary.TotalPlays, summary.ListeningHours)
	if summary.Period != "" {
		a.summary += " from " + summary.Period
	}
	return a
}

func describeRange(start, end time.Time) string {
	const dateFormat = "2006-01-02"
	from, to := "the beginning", "now"
	if !start.IsZero() {
		from = start.Format(dateFormat)
	}
	if !end.IsZero() {
		to = end.Format(dateFormat)
	}
	return from + " to " + to
}

func (a Analysis) String() string {
	out := new(bytes.Buffer)
	table := tablewriter.NewWriter(out)
	table.Header(a.results[0])
	for _, row := range a.results[1:] {
		if err := table.Append(row); err != nil {
			return fmt.Sprintf("Error rendering table: %v", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Sprintf("Error rendering table: %v", err)
	}
	fmt.Fprintf(out, "%s\n", a.summary)
	return out.String()
}

// HTML renders the analysis as an email body.
func (a Analysis) HTML() string {
	var out strings.Builder
	out.WriteString(`
<html>
  <head>
<style>
td {
  padding: 0.1em 0.2em;
}
table, th, td {
  border: 1px solid black;
  border-collapse: collapse;
}
</style>
  </head>
  <body>
`)
	if len(a.results) <= 1 {
		out.WriteString("<div>No plays found.</div>\n")
	} else {
		out.WriteString("<table>\n<thead>\n<tr>\n")
		for _, header := range a.results[0] {
			fmt.Fprintf(&out, "<th>%s</th>", html.EscapeString(header))
		}
		out.WriteString("</tr>\n</thead>\n<tbody>\n")
		for _, row := range a.results[1:] {
			out.WriteString("<tr>\n")
			for _, column := range row {
				fmt.Fprintf(&out, "<td>%s</td>\n", html.EscapeString(column))
			}
			out.WriteString("</tr>\n")
		}
		out.WriteString("</tbody>\n</table>\n")
	}
	fmt.Fprintf(&out, "<div>%s</div>\n  </body>\n</html>\n", html.EscapeString(a.summary))
	return out.String()
}
