package schedule

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ClockMinutes is a time of day as minutes since midnight, range [0, 1439].
// It is the canonical form for all schedule comparisons; textual times are
// parsed into it at the boundary and never compared as strings.
type ClockMinutes int

// MinutesPerDay bounds a valid ClockMinutes value.
const MinutesPerDay = 24 * 60

// ParseClock parses a clock string in either 24-hour ("14:00") or 12-hour
// ("2:00 PM") form. Blank and malformed input return ok=false; there is no
// zero sentinel, so a real midnight ("00:00" or "12:00 AM") is distinguishable
// from an absent value.
func ParseClock(text string) (ClockMinutes, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, false
	}

	upper := strings.ToUpper(s)
	meridiem := ""
	for _, m := range []string{"AM", "PM"} {
		if strings.HasSuffix(upper, m) {
			meridiem = m
			s = strings.TrimSpace(s[:len(s)-2])
			break
		}
	}

	hh, mm, ok := splitClock(s)
	if !ok {
		return 0, false
	}

	if meridiem != "" {
		if hh < 1 || hh > 12 {
			return 0, false
		}
		if meridiem == "AM" && hh == 12 {
			hh = 0
		} else if meridiem == "PM" && hh != 12 {
			hh += 12
		}
	} else if hh > 23 {
		return 0, false
	}

	return ClockMinutes(hh*60 + mm), true
}

func splitClock(s string) (hh, mm int, ok bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	hh, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || hh < 0 {
		return 0, 0, false
	}
	mm, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || mm < 0 || mm > 59 {
		return 0, 0, false
	}
	return hh, mm, true
}

// Format24Hour renders "HH:MM".
func (m ClockMinutes) Format24Hour() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// Format12Hour renders "H:MM AM|PM" for display. Not used in comparisons.
func (m ClockMinutes) Format12Hour() string {
	h := int(m) / 60
	period := "AM"
	if h >= 12 {
		period = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, int(m)%60, period)
}

// Valid reports whether the value lies within a single day.
func (m ClockMinutes) Valid() bool {
	return m >= 0 && m < MinutesPerDay
}

// MarshalJSON emits the 24-hour wire form.
func (m ClockMinutes) MarshalJSON() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("clock minutes %d out of range", int(m))
	}
	return json.Marshal(m.Format24Hour())
}

// UnmarshalJSON accepts any form ParseClock accepts.
func (m *ClockMinutes) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, ok := ParseClock(s)
	if !ok {
		return fmt.Errorf("invalid clock time %q", s)
	}
	*m = parsed
	return nil
}
