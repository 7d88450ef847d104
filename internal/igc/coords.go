package igc

import (
	"fmt"
	"strconv"
)

// IGC coordinates are sexagesimal: integer degrees, then minutes with a
// three-digit fractional part (thousandths of a minute). The fraction is
// right-padded to four digits before conversion, matching the recorder
// field convention.

// decodeLatitude converts the latitude block of a B-record into signed
// decimal degrees. The hemisphere flag "S" negates.
func decodeLatitude(degrees, minutes, fraction, hemisphere string) (float64, error) {
	value, err := decodeSexagesimal(degrees, minutes, fraction)
	if err != nil {
		return 0, fmt.Errorf("latitude: %w", err)
	}
	if hemisphere == "S" {
		value = -value
	}
	return value, nil
}

// decodeLongitude converts the longitude block of a B-record into signed
// decimal degrees. The hemisphere flag "W" negates.
func decodeLongitude(degrees, minutes, fraction, hemisphere string) (float64, error) {
	value, err := decodeSexagesimal(degrees, minutes, fraction)
	if err != nil {
		return 0, fmt.Errorf("longitude: %w", err)
	}
	if hemisphere == "W" {
		value = -value
	}
	return value, nil
}

func decodeSexagesimal(degrees, minutes, fraction string) (float64, error) {
	deg, err := strconv.Atoi(degrees)
	if err != nil {
		return 0, fmt.Errorf("bad degrees %q: %w", degrees, err)
	}
	for len(fraction) < 4 {
		fraction += "0"
	}
	min, err := strconv.ParseFloat(minutes+"."+fraction, 64)
	if err != nil {
		return 0, fmt.Errorf("bad minutes %q.%q: %w", minutes, fraction, err)
	}
	return float64(deg) + min/60.0, nil
}
