package clinictime

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseAcceptsCanonicalAndDateForms(t *testing.T) {
	cases := []struct {
		in   string
		want LocalTime
	}{
		{"2025-03-10T09:30:00", New(2025, time.March, 10, 9, 30)},
		{"2025-03-10", Date(2025, time.March, 10)},
		{"2025-03-10T09:30:00Z", New(2025, time.March, 10, 9, 30)},
		{"2025-03-10T09:30:00+03:00", New(2025, time.March, 10, 9, 30)},
	}
	for _, c := range cases {
		got, err := Parse(c.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", c.in, err)
		}
		if !got.Equal(c.want) {
			t.Errorf("Parse(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "tomorrow", "2025-13-40", "09:30"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", in)
		}
	}
}

func TestFromTimeStripsZone(t *testing.T) {
	loc := time.FixedZone("X", 3*3600)
	zoned := time.Date(2025, time.June, 1, 14, 45, 12, 999, loc)
	got := FromTime(zoned)
	want := New(2025, time.June, 1, 14, 45)
	if !got.Equal(want) {
		t.Errorf("FromTime = %v, want %v", got, want)
	}
}

func TestWeekdaySundayIsZero(t *testing.T) {
	// 2025-03-09 is a Sunday.
	if d := Date(2025, time.March, 9).Weekday(); d != 0 {
		t.Errorf("Weekday = %d, want 0", d)
	}
	if d := Date(2025, time.March, 10).Weekday(); d != 1 {
		t.Errorf("Weekday = %d, want 1", d)
	}
}

func TestAddDaysKeepsTimeOfDay(t *testing.T) {
	got := New(2025, time.January, 30, 9, 0).AddDays(7)
	want := New(2025, time.February, 6, 9, 0)
	if !got.Equal(want) {
		t.Errorf("AddDays(7) = %v, want %v", got, want)
	}
}

func TestAtHHMM(t *testing.T) {
	got, err := Date(2025, time.March, 10).AtHHMM("09:30")
	if err != nil {
		t.Fatalf("AtHHMM: %v", err)
	}
	if want := New(2025, time.March, 10, 9, 30); !got.Equal(want) {
		t.Errorf("AtHHMM = %v, want %v", got, want)
	}
	if _, err := Date(2025, time.March, 10).AtHHMM("9:30am"); err == nil {
		t.Error("AtHHMM accepted malformed input")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	in := New(2025, time.March, 10, 9, 30)
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2025-03-10T09:30:00"` {
		t.Errorf("marshal = %s", data)
	}
	var out LocalTime
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !out.Equal(in) {
		t.Errorf("round trip = %v, want %v", out, in)
	}
}

func TestJSONNull(t *testing.T) {
	var out LocalTime
	if err := json.Unmarshal([]byte("null"), &out); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if !out.IsZero() {
		t.Errorf("unmarshal null = %v, want zero", out)
	}
	data, err := json.Marshal(LocalTime{})
	if err != nil {
		t.Fatalf("marshal zero: %v", err)
	}
	if string(data) != "null" {
		t.Errorf("marshal zero = %s, want null", data)
	}
}

func TestMinutesOfDay(t *testing.T) {
	got, err := MinutesOfDay("13:45")
	if err != nil {
		t.Fatalf("MinutesOfDay: %v", err)
	}
	if got != 13*60+45 {
		t.Errorf("MinutesOfDay = %d", got)
	}
	if _, err := MinutesOfDay("25:00"); err == nil {
		t.Error("MinutesOfDay accepted 25:00")
	}
}
