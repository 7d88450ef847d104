package igc

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Fixed B-record layout: "B" HHMMSS DDMMmmmN DDDMMmmmE V PPPPP GGGGG
// where V is the validity flag and the altitude fields are either a
// signed four-digit or an unsigned five-digit integer (meters).
var fixRecordRE = regexp.MustCompile(
	`^B(\d{2})(\d{2})(\d{2})` + // time of day
		`(\d{2})(\d{2})(\d{3})([NS])` + // latitude block
		`(\d{3})(\d{2})(\d{3})([EW])` + // longitude block
		`([AV])` + // validity flag
		`(-\d{4}|\d{5})` + // pressure altitude
		`(-\d{4}|\d{5})`) // GPS altitude

// decodeFixRecord decodes a single B-record line into a Fix.
//
// The reference date supplies the calendar day for the fix's time-of-day.
// If the resulting instant is more than one hour earlier than the
// previously accepted instant, the day is advanced by one: fixes carry
// only time-of-day, so a flight crossing UTC midnight would otherwise
// jump backwards.
//
// A void record (validity flag "V") returns (nil, nil): it is valid input
// to be skipped, not an error. A line that does not match the layout, or
// whose numeric fields fail conversion, returns an error.
func decodeFixRecord(line string, activity, phase *string, refDate time.Time, prev *time.Time) (*Fix, error) {
	m := fixRecordRE.FindStringSubmatch(line)
	if m == nil {
		return nil, fmt.Errorf("line does not match B-record layout")
	}

	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])

	lat, err := decodeLatitude(m[4], m[5], m[6], m[7])
	if err != nil {
		return nil, err
	}
	lon, err := decodeLongitude(m[8], m[9], m[10], m[11])
	if err != nil {
		return nil, err
	}

	if m[12] == "V" {
		// Void GPS fix: the recorder had no 3D solution for this sample.
		return nil, nil
	}

	ts := time.Date(refDate.Year(), refDate.Month(), refDate.Day(),
		hours, minutes, seconds, 0, time.UTC)
	if prev != nil && prev.Sub(ts) > time.Hour {
		ts = ts.AddDate(0, 0, 1)
	}

	pressureAlt, err := decodeAltitude(m[13])
	if err != nil {
		return nil, fmt.Errorf("pressure altitude: %w", err)
	}
	gpsAlt, err := decodeAltitude(m[14])
	if err != nil {
		return nil, fmt.Errorf("gps altitude: %w", err)
	}

	return &Fix{
		Timestamp:        ts,
		Latitude:         lat,
		Longitude:        lon,
		PressureAltitude: pressureAlt,
		GPSAltitude:      gpsAlt,
		Activity:         activity,
		Phase:            phase,
	}, nil
}

// decodeAltitude converts an altitude field to meters. The literal
// "00000" means "altitude not available" in IGC files and maps to nil,
// never to zero meters.
func decodeAltitude(field string) (*int, error) {
	if field == "00000" {
		return nil, nil
	}
	v, err := strconv.Atoi(field)
	if err != nil {
		return nil, fmt.Errorf("bad altitude %q: %w", field, err)
	}
	return &v, nil
}
