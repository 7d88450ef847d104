package igc

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// The IGC format guarantees the header block lies within the leading
// lines of the file, so the decoder only inspects this window.
const headerWindow = 30

var (
	headerDateRE     = regexp.MustCompile(`(\d{2})(\d{2})(\d{2,3})`)
	headerAccuracyRE = regexp.MustCompile(`\d+`)
)

// decodeHeader scans the leading window of lines for H-records (and the
// flight-recorder A-record) and extracts the named metadata fields.
// Dispatch is on the fixed five-character key prefix. Unrecognized keys
// are ignored; a malformed value leaves the field absent rather than
// failing the whole header.
func decodeHeader(lines []string) FlightMetadata {
	var meta FlightMetadata

	limit := len(lines)
	if limit > headerWindow {
		limit = headerWindow
	}

	for _, line := range lines[:limit] {
		if !strings.HasPrefix(line, "H") && !strings.HasPrefix(line, "A") {
			continue
		}
		if len(line) < 5 {
			continue
		}
		key, rest := line[:5], line[5:]

		switch key {
		case "HFDTE":
			if d, ok := decodeHeaderDate(rest); ok {
				meta.Date = &d
			}
		case "HFFXA":
			if digits := headerAccuracyRE.FindString(rest); digits != "" {
				if v, err := strconv.Atoi(digits); err == nil {
					meta.FixAccuracy = &v
				}
			}
		default:
			field := headerField(&meta, key)
			if field == nil {
				continue
			}
			value := headerValue(rest)
			*field = &value
		}
	}

	return meta
}

// headerField maps a five-character header key to the metadata field it
// populates, or nil for keys the decoder does not recognize.
func headerField(meta *FlightMetadata, key string) **string {
	switch key {
	case "HFPLT":
		return &meta.Pilot
	case "HFCM2":
		return &meta.Copilot
	case "HFGTY":
		return &meta.GliderModel
	case "HFGID":
		return &meta.GliderID
	case "HFDTM":
		return &meta.GPSDatum
	case "HFRFW":
		return &meta.Firmware
	case "HFRHW":
		return &meta.Hardware
	case "HFFTY":
		return &meta.FlightRecorder
	case "HFGPS":
		return &meta.GPSReceiver
	case "HFPRS":
		return &meta.PressureSensor
	case "HFCID":
		return &meta.CompetitionID
	case "HFCCL":
		return &meta.CompetitionClass
	}
	return nil
}

// headerValue extracts the free-text value of a header line: the text
// after the last colon when one is present, otherwise the whole
// remainder after the key.
func headerValue(rest string) string {
	if idx := strings.LastIndex(rest, ":"); idx >= 0 {
		return strings.TrimSpace(rest[idx+1:])
	}
	return strings.TrimSpace(rest)
}

// decodeHeaderDate extracts a DDMMYY date group. The century is inferred
// as "20" when the year group has two digits and "19" otherwise; the
// format itself carries no century, so years outside that window are
// misread. Known format ambiguity, kept as-is.
func decodeHeaderDate(rest string) (time.Time, bool) {
	m := headerDateRE.FindStringSubmatch(rest)
	if m == nil {
		return time.Time{}, false
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])

	century := "19"
	if len(m[3]) == 2 {
		century = "20"
	}
	year, err := strconv.Atoi(century + m[3])
	if err != nil {
		return time.Time{}, false
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}
