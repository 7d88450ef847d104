package igc

import (
	"testing"
	"time"
)

func TestDecodeHeader_Date(t *testing.T) {
	meta := decodeHeader([]string{"HFDTE240624"})
	if meta.Date == nil {
		t.Fatal("expected date")
	}
	want := time.Date(2024, time.June, 24, 0, 0, 0, 0, time.UTC)
	if !meta.Date.Equal(want) {
		t.Errorf("date = %v, want %v", meta.Date, want)
	}
}

func TestDecodeHeader_DateWithSubkey(t *testing.T) {
	// Newer recorders write "HFDTEDATE:240624,01"; the digit groups are
	// found wherever they sit in the remainder.
	meta := decodeHeader([]string{"HFDTEDATE:240624,01"})
	if meta.Date == nil {
		t.Fatal("expected date")
	}
	want := time.Date(2024, time.June, 24, 0, 0, 0, 0, time.UTC)
	if !meta.Date.Equal(want) {
		t.Errorf("date = %v, want %v", meta.Date, want)
	}
}

func TestDecodeHeader_FixAccuracy(t *testing.T) {
	meta := decodeHeader([]string{"HFFXA035"})
	if meta.FixAccuracy == nil || *meta.FixAccuracy != 35 {
		t.Errorf("fix accuracy = %v, want 35", meta.FixAccuracy)
	}
}

func TestDecodeHeader_TextFields(t *testing.T) {
	meta := decodeHeader([]string{
		"HFPLTPILOTINCHARGE:Maria Muster",
		"HFGTYGLIDERTYPE:ASW 27",
		"HFGIDGLIDERID:D-1234",
		"HFDTM100GPSDATUM:WGS-1984",
		"HFRFWFIRMWAREVERSION:2.1",
		"HFRHWHARDWAREVERSION:1.0",
		"HFFTYFRTYPE:FLARM,LX",
		"HFGPSRECEIVER:uBlox",
		"HFPRSPRESSALTSENSOR:MS5534",
		"HFCIDCOMPETITIONID:XYZ",
		"HFCCLCOMPETITIONCLASS:Club",
	})

	checks := []struct {
		name string
		got  *string
		want string
	}{
		{"pilot", meta.Pilot, "Maria Muster"},
		{"glider model", meta.GliderModel, "ASW 27"},
		{"glider id", meta.GliderID, "D-1234"},
		{"gps datum", meta.GPSDatum, "WGS-1984"},
		{"firmware", meta.Firmware, "2.1"},
		{"hardware", meta.Hardware, "1.0"},
		{"flight recorder", meta.FlightRecorder, "FLARM,LX"},
		{"gps receiver", meta.GPSReceiver, "uBlox"},
		{"pressure sensor", meta.PressureSensor, "MS5534"},
		{"competition id", meta.CompetitionID, "XYZ"},
		{"competition class", meta.CompetitionClass, "Club"},
	}
	for _, c := range checks {
		if c.got == nil {
			t.Errorf("%s: absent, want %q", c.name, c.want)
			continue
		}
		if *c.got != c.want {
			t.Errorf("%s = %q, want %q", c.name, *c.got, c.want)
		}
	}
}

func TestDecodeHeader_ValueWithoutColon(t *testing.T) {
	meta := decodeHeader([]string{"HFGPSuBlox NEO-8"})
	if meta.GPSReceiver == nil || *meta.GPSReceiver != "uBlox NEO-8" {
		t.Errorf("gps receiver = %v, want whole remainder", meta.GPSReceiver)
	}
}

func TestDecodeHeader_IgnoresUnrecognizedAndMalformed(t *testing.T) {
	meta := decodeHeader([]string{
		"HFXXXSOMETHING:else", // unrecognized key
		"AFLA001",             // flight-recorder info line, no matching key
		"HFDTEgarbage",        // malformed date group
		"HFFXAnone",           // malformed accuracy
		"H",                   // too short for a key
	})
	if meta.Date != nil {
		t.Errorf("date = %v, want absent", meta.Date)
	}
	if meta.FixAccuracy != nil {
		t.Errorf("fix accuracy = %v, want absent", meta.FixAccuracy)
	}
	if meta.Pilot != nil {
		t.Errorf("pilot = %v, want absent", meta.Pilot)
	}
}

func TestDecodeHeader_WindowLimit(t *testing.T) {
	// A header line past the 30-line window is not consumed.
	lines := make([]string, 0, headerWindow+1)
	for i := 0; i < headerWindow; i++ {
		lines = append(lines, "LNOISE")
	}
	lines = append(lines, "HFPLTPILOTINCHARGE:Too Late")

	meta := decodeHeader(lines)
	if meta.Pilot != nil {
		t.Errorf("pilot = %q, want absent", *meta.Pilot)
	}
}
