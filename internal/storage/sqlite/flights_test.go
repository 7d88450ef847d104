package sqlite

import (
	"testing"
	"time"

	"github.com/yegors/flightlog/internal/igc"
	"github.com/yegors/flightlog/pkg/logger"
)

func intptr(i int) *int       { return &i }
func strptr(s string) *string { return &s }

func newTestStorage(t *testing.T) *FlightStorage {
	t.Helper()

	db, err := Open(":memory:", logger.Nop())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	storage, err := NewFlightStorage(db, logger.Nop())
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	return storage
}

func sampleFlight() *igc.Flight {
	date := time.Date(2024, time.June, 24, 0, 0, 0, 0, time.UTC)
	base := time.Date(2024, time.June, 24, 8, 44, 50, 0, time.UTC)

	return &igc.Flight{
		Metadata: igc.FlightMetadata{
			Date:        &date,
			FixAccuracy: intptr(35),
			Pilot:       strptr("Maria Muster"),
			GliderModel: strptr("ASW 27"),
			GliderID:    strptr("D-1234"),
			Security:    strptr("GSECURITYSIGNATURE"),
		},
		Fixes: []igc.Fix{
			{
				Timestamp:        base,
				Latitude:         46.856467,
				Longitude:        8.343217,
				PressureAltitude: intptr(1345),
				GPSAltitude:      intptr(1414),
				Activity:         strptr("fly"),
				Phase:            strptr("onGround"),
			},
			{
				Timestamp: base.Add(10 * time.Second),
				Latitude:  46.857,
				Longitude: 8.344,
				// All optional fields absent.
			},
		},
		VoidFixes: 1,
	}
}

func TestStoreAndGetFlight(t *testing.T) {
	storage := newTestStorage(t)

	id, err := storage.StoreFlight(sampleFlight())
	if err != nil {
		t.Fatalf("failed to store flight: %v", err)
	}
	if id == 0 {
		t.Fatal("expected non-zero flight id")
	}

	record, err := storage.GetFlightByID(id)
	if err != nil {
		t.Fatalf("failed to get flight: %v", err)
	}
	if record == nil {
		t.Fatal("expected flight record")
	}

	if record.FixCount != 2 {
		t.Errorf("fix count = %d, want 2", record.FixCount)
	}
	if record.VoidFixes != 1 {
		t.Errorf("void fixes = %d, want 1", record.VoidFixes)
	}
	if record.Metadata.Pilot == nil || *record.Metadata.Pilot != "Maria Muster" {
		t.Errorf("pilot = %v, want Maria Muster", record.Metadata.Pilot)
	}
	if record.Metadata.FixAccuracy == nil || *record.Metadata.FixAccuracy != 35 {
		t.Errorf("fix accuracy = %v, want 35", record.Metadata.FixAccuracy)
	}
	if record.Metadata.Date == nil || !record.Metadata.Date.Equal(time.Date(2024, time.June, 24, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date = %v, want 2024-06-24", record.Metadata.Date)
	}
	if record.Metadata.Copilot != nil {
		t.Errorf("copilot = %v, want absent", record.Metadata.Copilot)
	}
	if record.Metadata.Security == nil || *record.Metadata.Security != "GSECURITYSIGNATURE" {
		t.Errorf("security = %v, want GSECURITYSIGNATURE", record.Metadata.Security)
	}
	if record.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestGetFlightByID_NotFound(t *testing.T) {
	storage := newTestStorage(t)

	record, err := storage.GetFlightByID(999)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if record != nil {
		t.Fatalf("expected nil record, got %+v", record)
	}
}

func TestGetFixesByFlightID(t *testing.T) {
	storage := newTestStorage(t)

	id, err := storage.StoreFlight(sampleFlight())
	if err != nil {
		t.Fatal(err)
	}

	fixes, err := storage.GetFixesByFlightID(id)
	if err != nil {
		t.Fatalf("failed to get fixes: %v", err)
	}
	if len(fixes) != 2 {
		t.Fatalf("fix count = %d, want 2", len(fixes))
	}

	first, second := fixes[0], fixes[1]
	if !first.Timestamp.Before(second.Timestamp) {
		t.Error("fixes out of order")
	}
	if first.PressureAltitude == nil || *first.PressureAltitude != 1345 {
		t.Errorf("pressure altitude = %v, want 1345", first.PressureAltitude)
	}
	if first.Phase == nil || *first.Phase != "onGround" {
		t.Errorf("phase = %v, want onGround", first.Phase)
	}
	if second.PressureAltitude != nil || second.GPSAltitude != nil {
		t.Error("expected absent altitudes on second fix")
	}
	if second.Activity != nil || second.Phase != nil {
		t.Error("expected absent markers on second fix")
	}
}

func TestGetRecentFlights(t *testing.T) {
	storage := newTestStorage(t)

	for i := 0; i < 3; i++ {
		if _, err := storage.StoreFlight(sampleFlight()); err != nil {
			t.Fatal(err)
		}
	}

	flights, err := storage.GetRecentFlights(2)
	if err != nil {
		t.Fatalf("failed to get recent flights: %v", err)
	}
	if len(flights) != 2 {
		t.Errorf("flight count = %d, want 2", len(flights))
	}
}
