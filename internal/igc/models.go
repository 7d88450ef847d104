package igc

import (
	"time"
)

// FlightMetadata holds the fields extracted from the IGC header block.
// Every field is optional: a nil pointer means the corresponding header
// line was never seen in the file. Built once from the header window and
// never mutated afterwards (except Security, which arrives with the
// trailing G-record).
type FlightMetadata struct {
	Date             *time.Time `json:"date,omitempty"`
	FixAccuracy      *int       `json:"fix_accuracy,omitempty"`
	Pilot            *string    `json:"pilot,omitempty"`
	Copilot          *string    `json:"copilot,omitempty"`
	GliderModel      *string    `json:"glider_model,omitempty"`
	GliderID         *string    `json:"glider_id,omitempty"`
	GPSDatum         *string    `json:"gps_datum,omitempty"`
	Firmware         *string    `json:"firmware,omitempty"`
	Hardware         *string    `json:"hardware,omitempty"`
	FlightRecorder   *string    `json:"flight_recorder,omitempty"`
	GPSReceiver      *string    `json:"gps_receiver,omitempty"`
	PressureSensor   *string    `json:"pressure_sensor,omitempty"`
	CompetitionID    *string    `json:"competition_id,omitempty"`
	CompetitionClass *string    `json:"competition_class,omitempty"`
	Security         *string    `json:"security,omitempty"`
}

// Fix is a single decoded B-record: one GPS position sample.
// Altitudes are optional because the IGC convention treats a literal
// "00000" altitude field as "not available", not zero meters. Activity
// and phase carry the most recent L-record markers seen before the fix.
type Fix struct {
	Timestamp        time.Time `json:"timestamp"`
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	PressureAltitude *int      `json:"pressure_altitude,omitempty"`
	GPSAltitude      *int      `json:"gps_altitude,omitempty"`
	Activity         *string   `json:"activity,omitempty"`
	Phase            *string   `json:"phase,omitempty"`
}

// Flight is the result of parsing one IGC file: the header metadata plus
// the time-ordered sequence of accepted fixes. VoidFixes counts B-records
// that carried the "V" validity flag and were skipped.
type Flight struct {
	Metadata  FlightMetadata `json:"metadata"`
	Fixes     []Fix          `json:"fixes"`
	VoidFixes int            `json:"void_fixes"`
}
