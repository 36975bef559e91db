package slot

import (
	"errors"
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in   string
		want Clock
	}{
		{"00:00", 0},
		{"09:05", At(9, 5)},
		{"9:05", At(9, 5)},
		{"23:59:59", Clock(23*3600 + 59*60 + 59)},
		{" 12:30 ", At(12, 30)},
	}
	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if err != nil {
			t.Errorf("ParseClock(%q): unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseClock(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseClock_Errors(t *testing.T) {
	for _, in := range []string{"", "24:00", "12:60", "12", "12:5", "ab:cd", "12:00:61", "1:2:3:4", "123:00"} {
		if _, err := ParseClock(in); !errors.Is(err, ErrInvalidClock) {
			t.Errorf("ParseClock(%q): got %v, want ErrInvalidClock", in, err)
		}
	}
}

func TestClock_String(t *testing.T) {
	if got := At(7, 5).String(); got != "07:05" {
		t.Errorf("got %q, want 07:05", got)
	}
	if got := (At(7, 5) + 9).String(); got != "07:05:09" {
		t.Errorf("got %q, want 07:05:09", got)
	}
}

func TestClock_FromTimeAndOn(t *testing.T) {
	day := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	c := FromTime(time.Date(2025, 1, 1, 16, 45, 12, 999, time.UTC))
	if c.String() != "16:45:12" {
		t.Fatalf("FromTime: got %s", c)
	}
	got := c.On(day)
	want := time.Date(2025, 3, 14, 16, 45, 12, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("On: got %v, want %v", got, want)
	}
}
