package schedule

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Day is a weekday. The persisted/wire form is the 3-letter abbreviation
// ("Mon".."Sun"); form input uses full names. Both vocabularies round-trip
// through ParseDay.
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var dayNames = [...]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// FullName returns the full weekday name, e.g. "Monday".
func (d Day) FullName() string {
	if d < Monday || d > Sunday {
		return fmt.Sprintf("Day(%d)", int(d))
	}
	return dayNames[d]
}

// Abbrev returns the 3-letter wire form, e.g. "Mon".
func (d Day) Abbrev() string {
	return d.FullName()[:3]
}

func (d Day) String() string {
	return d.FullName()
}

// ParseDay accepts either a full weekday name or its 3-letter abbreviation,
// case-insensitively.
func ParseDay(s string) (Day, bool) {
	s = strings.TrimSpace(s)
	for d, name := range dayNames {
		if strings.EqualFold(s, name) || strings.EqualFold(s, name[:3]) {
			return Day(d), true
		}
	}
	return 0, false
}

// MarshalJSON emits the abbreviated wire form.
func (d Day) MarshalJSON() ([]byte, error) {
	if d < Monday || d > Sunday {
		return nil, fmt.Errorf("invalid day %d", int(d))
	}
	return json.Marshal(d.Abbrev())
}

// UnmarshalJSON accepts either vocabulary.
func (d *Day) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, ok := ParseDay(s)
	if !ok {
		return fmt.Errorf("invalid day %q", s)
	}
	*d = parsed
	return nil
}
