package sqlite

import (
	"time"

	"github.com/yegors/flightlog/internal/igc"
)

// FlightRecord is a stored flight: the header metadata plus bookkeeping
// columns. Optional metadata fields stay nil when the source file never
// carried them.
type FlightRecord struct {
	ID        int64              `json:"id"`
	Metadata  igc.FlightMetadata `json:"metadata"`
	FixCount  int                `json:"fix_count"`
	VoidFixes int                `json:"void_fixes"`
	CreatedAt time.Time          `json:"created_at"`
}
