// Package geojson projects an ordered IGC fix sequence into a GeoJSON
// LineString feature annotated with per-point timestamps, phase and
// activity labels, and vertical-speed deltas.
package geojson

import (
	"errors"
	"time"

	"github.com/yegors/flightlog/internal/igc"
)

// ErrEmptyTrack is returned when a projection is requested for a fix
// sequence with no points. An empty track is a precondition violation,
// never an empty feature.
var ErrEmptyTrack = errors.New("geojson: no track points to project")

// Feature is a GeoJSON Feature holding a single LineString.
type Feature struct {
	Type       string     `json:"type"`
	Geometry   Geometry   `json:"geometry"`
	Properties Properties `json:"properties"`
}

// Geometry is the LineString geometry: one [lon, lat, alt] triple per fix.
type Geometry struct {
	Type        string      `json:"type"`
	Coordinates [][]float64 `json:"coordinates"`
}

// Properties carries the per-point arrays, parallel to the coordinates.
type Properties struct {
	Timestamps     []string  `json:"timestamps"`
	Phases         []*string `json:"phases"`
	Activities     []*string `json:"activities"`
	VerticalSpeeds []float64 `json:"verticalSpeeds"`
}

// FromFixes builds the LineString feature for an ordered fix sequence.
//
// The projected altitude of each point is the pressure altitude when
// present, else the GPS altitude, else 0, shifted by altitudeOffset.
// Vertical speed is the altitude delta to the previous point, with index
// 0 fixed at 0; a constant offset therefore cancels out of every delta.
//
// The result is an immutable snapshot: projecting again with a different
// offset recomputes from scratch.
func FromFixes(fixes []igc.Fix, altitudeOffset float64) (*Feature, error) {
	if len(fixes) == 0 {
		return nil, ErrEmptyTrack
	}

	coordinates := make([][]float64, 0, len(fixes))
	timestamps := make([]string, 0, len(fixes))
	phases := make([]*string, 0, len(fixes))
	activities := make([]*string, 0, len(fixes))
	verticalSpeeds := make([]float64, 0, len(fixes))

	prevAltitude := 0.0
	for i, fix := range fixes {
		altitude := preferredAltitude(fix) + altitudeOffset

		coordinates = append(coordinates, []float64{fix.Longitude, fix.Latitude, altitude})
		timestamps = append(timestamps, fix.Timestamp.UTC().Format(time.RFC3339))
		phases = append(phases, fix.Phase)
		activities = append(activities, fix.Activity)

		if i == 0 {
			verticalSpeeds = append(verticalSpeeds, 0)
		} else {
			verticalSpeeds = append(verticalSpeeds, altitude-prevAltitude)
		}
		prevAltitude = altitude
	}

	return &Feature{
		Type: "Feature",
		Geometry: Geometry{
			Type:        "LineString",
			Coordinates: coordinates,
		},
		Properties: Properties{
			Timestamps:     timestamps,
			Phases:         phases,
			Activities:     activities,
			VerticalSpeeds: verticalSpeeds,
		},
	}, nil
}

// preferredAltitude selects the altitude used for the coordinate triple:
// pressure altitude wins over GPS altitude, absent values fall back to 0.
func preferredAltitude(fix igc.Fix) float64 {
	if fix.PressureAltitude != nil {
		return float64(*fix.PressureAltitude)
	}
	if fix.GPSAltitude != nil {
		return float64(*fix.GPSAltitude)
	}
	return 0
}
