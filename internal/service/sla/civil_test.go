package sla

import (
	"errors"
	"testing"
	"time"
)

func TestParseCivil(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("BRT", -3*3600)

	tests := []struct {
		name    string
		date    string
		clock   string
		want    time.Time
		wantErr bool
	}{
		{"hh:mm", "01/01/2025", "09:00", time.Date(2025, 1, 1, 9, 0, 0, 0, loc), false},
		{"hh:mm:ss", "15/03/2025", "14:05:09", time.Date(2025, 3, 15, 14, 5, 9, 0, loc), false},
		{"single digit parts", "5/3/2025", "9:07", time.Date(2025, 3, 5, 9, 7, 0, 0, loc), false},
		{"padded", " 01/01/2025 ", " 09:00 ", time.Date(2025, 1, 1, 9, 0, 0, 0, loc), false},
		{"empty date", "", "09:00", time.Time{}, true},
		{"empty time", "01/01/2025", "", time.Time{}, true},
		{"iso date", "2025-01-01", "09:00", time.Time{}, true},
		{"garbage", "not a date", "soon", time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseCivil(tt.date, tt.clock, loc)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCivil error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrUnparseable) {
					t.Errorf("error should wrap ErrUnparseable, got %v", err)
				}
				return
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseCivil = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeCompletion(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("BRT", -3*3600)
	created := time.Date(2025, 1, 1, 9, 0, 0, 0, loc)

	tests := []struct {
		name    string
		raw     string
		created time.Time
		want    time.Time
		wantErr bool
	}{
		{"rfc3339 utc", "2025-01-01T15:30:00Z", created, time.Date(2025, 1, 1, 12, 30, 0, 0, loc), false},
		{"rfc3339 nano", "2025-01-01T12:30:00.123-03:00", created, time.Date(2025, 1, 1, 12, 30, 0, 123000000, loc), false},
		{"iso without zone", "2025-01-02T08:15:00", created, time.Date(2025, 1, 2, 8, 15, 0, 0, loc), false},
		{"civil datetime", "02/01/2025 08:15:00", created, time.Date(2025, 1, 2, 8, 15, 0, 0, loc), false},
		{"civil datetime no seconds", "01/01/2025 12:30", created, time.Date(2025, 1, 1, 12, 30, 0, 0, loc), false},
		{"bare time same day", "12:30", created, time.Date(2025, 1, 1, 12, 30, 0, 0, loc), false},
		{"bare time with seconds", "12:30:15", created, time.Date(2025, 1, 1, 12, 30, 15, 0, loc), false},
		{"bare time without creation", "12:30", time.Time{}, time.Time{}, true},
		{"empty", "  ", created, time.Time{}, true},
		{"garbage", "yesterday", created, time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := NormalizeCompletion(tt.raw, tt.created, loc)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeCompletion error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("NormalizeCompletion(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFormatCivil_RoundTrip(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("BRT", -3*3600)
	ts := time.Date(2025, 7, 4, 18, 5, 7, 0, time.UTC)

	if got := FormatCivilDate(ts, loc); got != "04/07/2025" {
		t.Errorf("FormatCivilDate = %q", got)
	}
	if got := FormatCivilTime(ts, loc); got != "15:05:07" {
		t.Errorf("FormatCivilTime = %q", got)
	}

	back, err := NormalizeCompletion(FormatCivilDateTime(ts, loc), time.Time{}, loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !back.Equal(ts) {
		t.Errorf("round trip = %v, want %v", back, ts)
	}
}
