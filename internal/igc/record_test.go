package igc

import (
	"testing"
	"time"
)

var refDate = time.Date(2024, time.June, 24, 0, 0, 0, 0, time.UTC)

func strptr(s string) *string { return &s }

func TestDecodeFixRecord(t *testing.T) {
	activity := strptr("fly")
	phase := strptr("onGround")

	fix, err := decodeFixRecord("B0844504651388N00820593EA0134501414", activity, phase, refDate, nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if fix == nil {
		t.Fatal("expected a fix")
	}

	want := time.Date(2024, time.June, 24, 8, 44, 50, 0, time.UTC)
	if !fix.Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", fix.Timestamp, want)
	}
	if !almostEqual(fix.Latitude, 46.856467) {
		t.Errorf("latitude = %v, want 46.856467", fix.Latitude)
	}
	if !almostEqual(fix.Longitude, 8.343217) {
		t.Errorf("longitude = %v, want 8.343217", fix.Longitude)
	}
	if fix.PressureAltitude == nil || *fix.PressureAltitude != 1345 {
		t.Errorf("pressure altitude = %v, want 1345", fix.PressureAltitude)
	}
	if fix.GPSAltitude == nil || *fix.GPSAltitude != 1414 {
		t.Errorf("gps altitude = %v, want 1414", fix.GPSAltitude)
	}
	if fix.Activity == nil || *fix.Activity != "fly" {
		t.Errorf("activity = %v, want fly", fix.Activity)
	}
	if fix.Phase == nil || *fix.Phase != "onGround" {
		t.Errorf("phase = %v, want onGround", fix.Phase)
	}
}

func TestDecodeFixRecord_VoidIsNotAnError(t *testing.T) {
	fix, err := decodeFixRecord("B0844504651388N00820593EV0134501414", nil, nil, refDate, nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if fix != nil {
		t.Fatalf("expected no fix for void record, got %+v", fix)
	}
}

func TestDecodeFixRecord_StructuralMismatch(t *testing.T) {
	lines := []string{
		"",
		"B12345",
		"X0844504651388N00820593EA0134501414",
		"B0844504651388X00820593EA0134501414", // bad hemisphere
	}
	for _, line := range lines {
		if _, err := decodeFixRecord(line, nil, nil, refDate, nil); err == nil {
			t.Errorf("expected error for %q", line)
		}
	}
}

func TestDecodeFixRecord_ZeroAltitudeIsAbsent(t *testing.T) {
	fix, err := decodeFixRecord("B0844504651388N00820593EA0000001414", nil, nil, refDate, nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if fix.PressureAltitude != nil {
		t.Errorf("pressure altitude = %v, want absent", *fix.PressureAltitude)
	}
	if fix.GPSAltitude == nil || *fix.GPSAltitude != 1414 {
		t.Errorf("gps altitude = %v, want 1414", fix.GPSAltitude)
	}
}

func TestDecodeFixRecord_NegativeAltitude(t *testing.T) {
	fix, err := decodeFixRecord("B0844504651388N00820593EA-012301414", nil, nil, refDate, nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if fix.PressureAltitude == nil || *fix.PressureAltitude != -123 {
		t.Errorf("pressure altitude = %v, want -123", fix.PressureAltitude)
	}
}

func TestDecodeFixRecord_DayRollover(t *testing.T) {
	prev := time.Date(2024, time.June, 24, 23, 59, 30, 0, time.UTC)

	fix, err := decodeFixRecord("B0000104651388N00820593EA0134501414", nil, nil, refDate, &prev)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	want := time.Date(2024, time.June, 25, 0, 0, 10, 0, time.UTC)
	if !fix.Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v (day advanced)", fix.Timestamp, want)
	}
}

func TestDecodeFixRecord_NoRolloverWithinOneHour(t *testing.T) {
	// A fix only 30 minutes earlier than the previous one keeps its day:
	// the rollover heuristic triggers past one hour, not before.
	prev := time.Date(2024, time.June, 24, 8, 0, 0, 0, time.UTC)

	fix, err := decodeFixRecord("B0730004651388N00820593EA0134501414", nil, nil, refDate, &prev)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	want := time.Date(2024, time.June, 24, 7, 30, 0, 0, time.UTC)
	if !fix.Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v (same day)", fix.Timestamp, want)
	}
}
