package igc

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-5
}

func TestDecodeLatitude(t *testing.T) {
	cases := []struct {
		degrees, minutes, fraction, hemisphere string
		want                                   float64
	}{
		{"46", "51", "388", "N", 46.85647},
		{"23", "45", "678", "S", -23.76130},
		{"00", "00", "000", "N", 0},
	}

	for _, tc := range cases {
		got, err := decodeLatitude(tc.degrees, tc.minutes, tc.fraction, tc.hemisphere)
		if err != nil {
			t.Fatalf("decodeLatitude(%q,%q,%q,%q): unexpected err: %v",
				tc.degrees, tc.minutes, tc.fraction, tc.hemisphere, err)
		}
		if !almostEqual(got, tc.want) {
			t.Errorf("decodeLatitude(%q,%q,%q,%q) = %v, want %v",
				tc.degrees, tc.minutes, tc.fraction, tc.hemisphere, got, tc.want)
		}
	}
}

func TestDecodeLongitude(t *testing.T) {
	cases := []struct {
		degrees, minutes, fraction, hemisphere string
		want                                   float64
	}{
		{"008", "20", "593", "E", 8.343217},
		{"123", "45", "678", "W", -123.76130},
	}

	for _, tc := range cases {
		got, err := decodeLongitude(tc.degrees, tc.minutes, tc.fraction, tc.hemisphere)
		if err != nil {
			t.Fatalf("decodeLongitude(%q,%q,%q,%q): unexpected err: %v",
				tc.degrees, tc.minutes, tc.fraction, tc.hemisphere, err)
		}
		if !almostEqual(got, tc.want) {
			t.Errorf("decodeLongitude(%q,%q,%q,%q) = %v, want %v",
				tc.degrees, tc.minutes, tc.fraction, tc.hemisphere, got, tc.want)
		}
	}
}

func TestDecodeLatitude_BadDigits(t *testing.T) {
	if _, err := decodeLatitude("4x", "51", "388", "N"); err == nil {
		t.Fatal("expected error for non-numeric degrees")
	}
	if _, err := decodeLatitude("46", "5x", "388", "N"); err == nil {
		t.Fatal("expected error for non-numeric minutes")
	}
}
