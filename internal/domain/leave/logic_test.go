package leave

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWorkingDays(t *testing.T) {
	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  float64
	}{
		{"single weekday", date(2026, time.March, 2), date(2026, time.March, 2), 1},
		{"full week", date(2026, time.March, 2), date(2026, time.March, 8), 5},
		{"weekend only", date(2026, time.March, 7), date(2026, time.March, 8), 0},
		{"two weeks", date(2026, time.March, 2), date(2026, time.March, 15), 10},
		{"inverted range", date(2026, time.March, 8), date(2026, time.March, 2), 0},
	}
	for _, tc := range cases {
		if got := WorkingDays(tc.start, tc.end); got != tc.want {
			t.Fatalf("%s: WorkingDays = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestValidType(t *testing.T) {
	if !ValidType("annual") {
		t.Fatal("annual must be valid")
	}
	if ValidType("gardening") {
		t.Fatal("unknown type accepted")
	}
}
