package gps

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	nmea "github.com/adrianmo/go-nmea"
)

// Fix is a single position/velocity fix extracted from an NMEA stream.
type Fix struct {
	Stamp      time.Time `json:"stamp"`
	Latitude   float64   `json:"lat"`         // decimal degrees
	Longitude  float64   `json:"lon"`         // decimal degrees
	SpeedKnots float64   `json:"speed_knots"` // speed over ground
	CourseDeg  float64   `json:"course_deg"`  // course over ground
	Validity   string    `json:"validity"`    // "A" (valid) / "V" (void)
}

// ReadFixes parses NMEA sentences from r and returns one Fix per RMC
// sentence that carries a usable date and time. Lines that fail to parse
// are skipped: receivers interleave sentence types and truncate lines.
func ReadFixes(r io.Reader) ([]Fix, error) {
	scanner := bufio.NewScanner(r)
	var fixes []Fix

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		// NMEA sentences start with '$'
		if !strings.HasPrefix(line, "$") {
			continue
		}

		sentence, err := nmea.Parse(line)
		if err != nil {
			continue
		}

		switch sentence.DataType() {
		case nmea.TypeRMC:
			m := sentence.(nmea.RMC)
			if !m.Time.Valid || !m.Date.Valid {
				continue
			}
			fixes = append(fixes, Fix{
				Stamp:      stampOf(m.Date, m.Time),
				Latitude:   m.Latitude,
				Longitude:  m.Longitude,
				SpeedKnots: m.Speed,
				CourseDeg:  m.Course,
				Validity:   m.Validity,
			})

		default:
			// ignore other sentence types (GGA, GSA, etc.)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("gps: read: %w", err)
	}
	return fixes, nil
}

// stampOf combines the RMC date and time fields into a UTC timestamp.
// Two-digit years below 80 are taken as 20xx.
func stampOf(d nmea.Date, t nmea.Time) time.Time {
	year := 1900 + d.YY
	if d.YY < 80 {
		year = 2000 + d.YY
	}
	return time.Date(year, time.Month(d.MM), d.DD,
		t.Hour, t.Minute, t.Second, t.Millisecond*int(time.Millisecond), time.UTC)
}
