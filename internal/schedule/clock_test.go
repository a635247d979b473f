package schedule

import "testing"

func TestParseClock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		want   ClockMinutes
		wantOK bool
	}{
		{name: "24-hour afternoon", input: "14:00", want: 840, wantOK: true},
		{name: "12-hour afternoon", input: "2:00 PM", want: 840, wantOK: true},
		{name: "12-hour midnight", input: "12:00 AM", want: 0, wantOK: true},
		{name: "12-hour noon", input: "12:00 PM", want: 720, wantOK: true},
		{name: "24-hour midnight", input: "00:00", want: 0, wantOK: true},
		{name: "lowercase meridiem", input: "7:30 am", want: 450, wantOK: true},
		{name: "no space before meridiem", input: "7:30PM", want: 1170, wantOK: true},
		{name: "leading zero 12-hour", input: "09:15 AM", want: 555, wantOK: true},
		{name: "end of day", input: "23:59", want: 1439, wantOK: true},
		{name: "surrounding whitespace", input: "  8:00  ", want: 480, wantOK: true},
		{name: "blank is absent", input: "", wantOK: false},
		{name: "whitespace is absent", input: "   ", wantOK: false},
		{name: "hour out of range 24h", input: "24:00", wantOK: false},
		{name: "hour out of range 12h", input: "13:00 PM", wantOK: false},
		{name: "zero hour 12h", input: "0:30 AM", wantOK: false},
		{name: "minutes out of range", input: "10:60", wantOK: false},
		{name: "no colon", input: "1000", wantOK: false},
		{name: "garbage", input: "lunch", wantOK: false},
		{name: "negative hour", input: "-1:00", wantOK: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseClock(tc.input)
			if ok != tc.wantOK {
				t.Fatalf("ParseClock(%q) ok = %v, want %v", tc.input, ok, tc.wantOK)
			}
			if ok && got != tc.want {
				t.Fatalf("ParseClock(%q) = %d, want %d", tc.input, got, tc.want)
			}
		})
	}
}

func TestClockFormatting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		minutes ClockMinutes
		want24  string
		want12  string
	}{
		{0, "00:00", "12:00 AM"},
		{450, "07:30", "7:30 AM"},
		{720, "12:00", "12:00 PM"},
		{840, "14:00", "2:00 PM"},
		{1439, "23:59", "11:59 PM"},
	}

	for _, tc := range tests {
		if got := tc.minutes.Format24Hour(); got != tc.want24 {
			t.Errorf("%d.Format24Hour() = %q, want %q", tc.minutes, got, tc.want24)
		}
		if got := tc.minutes.Format12Hour(); got != tc.want12 {
			t.Errorf("%d.Format12Hour() = %q, want %q", tc.minutes, got, tc.want12)
		}
	}
}

func TestClockFormatParseRoundTrip(t *testing.T) {
	t.Parallel()

	for m := ClockMinutes(0); m < MinutesPerDay; m += 17 {
		got, ok := ParseClock(m.Format12Hour())
		if !ok || got != m {
			t.Fatalf("12-hour round trip failed for %d: got %d ok=%v", m, got, ok)
		}
		got, ok = ParseClock(m.Format24Hour())
		if !ok || got != m {
			t.Fatalf("24-hour round trip failed for %d: got %d ok=%v", m, got, ok)
		}
	}
}
