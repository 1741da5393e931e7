package cmd

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

type ParsedDate struct {
	Date time.Time

	// Exactly one of these is set, recording the precision of the datestring.
	Year     bool
	Month    bool
	Day      bool
	Relative bool
}

var relativeDatePattern = regexp.MustCompile(`^(\d+)([dwmy])$`)

// parseDateRangeFromArgs returns zero times when no dates are given, meaning
// the whole history.
func parseDateRangeFromArgs(args []string) (start time.Time, end time.Time, err error) {
	switch len(args) {
	case 0:

	case 1:
		start, end, err = getImplicitDateRange(args[0])

	case 2:
		start, end, err = getExplicitDateRange(args[0], args[1])

	default:
		err = fmt.Errorf("Expected zero, one or two date arguments")
	}
	return
}

func getImplicitDateRange(ds string) (start time.Time, end time.Time, err error) {
	date, err := parseSingleDatestring(ds)
	if err != nil {
		return
	}

	start = date.Date
	switch {
	case date.Year:
		end = start.AddDate(1, 0, 0)

	case date.Month:
		end = start.AddDate(0, 1, 0)

	case date.Day:
		end = start.AddDate(0, 0, 1)

	case date.Relative:
		end = time.Now()

	default:
		err = fmt.Errorf("Invalid format: %q", ds)
	}

	return
}

func getExplicitDateRange(startString, endString string) (start time.Time, end time.Time, err error) {
	startParsed, err := parseSingleDatestring(startString)
	if err != nil {
		return
	}
	start = startParsed.Date

	endParsed, err := parseSingleDatestring(endString)
	if err != nil {
		return
	}
	end = endParsed.Date

	if !end.After(start) {
		err = fmt.Errorf("End date %q must be after start date %q", endString, startString)
	}
	return
}

func parseSingleDatestring(ds string) (date ParsedDate, err error) {
	if m := relativeDatePattern.FindStringSubmatch(ds); m != nil {
		amount, convErr := strconv.Atoi(m[1])
		if convErr != nil {
			err = fmt.Errorf("Parsing relative datestring: %w", convErr)
			return
		}
		now := time.Now()
		switch m[2] {
		case "d":
			date.Date = now.AddDate(0, 0, -amount)
		case "w":
			date.Date = now.AddDate(0, 0, -amount*7)
		case "m":
			date.Date = now.AddDate(0, -amount, 0)
		case "y":
			date.Date = now.AddDate(-amount, 0, 0)
		}
		date.Relative = true
		return
	}

	layouts := []struct {
		pattern string
		layout  string
		name    string
		flag    *bool
	}{
		{`^\d{4}$`, "2006", "year", &date.Year},
		{`^\d{4}-\d{2}$`, "2006-01", "month", &date.Month},
		{`^\d{4}-\d{2}-\d{2}$`, "2006-01-02", "day", &date.Day},
	}
	for _, l := range layouts {
		matched, matchErr := regexp.MatchString(l.pattern, ds)
		if matchErr != nil {
			err = fmt.Errorf("Parsing datestring as %s: %w", l.name, matchErr)
			return
		}
		if !matched {
			continue
		}
		date.Date, err = time.Parse(l.layout, ds)
		if err != nil {
			err = fmt.Errorf("Parsing datestring as %s: %w", l.name, err)
			return
		}
		*l.flag = true
		return
	}

	err = fmt.Errorf("Invalid format: %q", ds)
	return
}
