package schedule

import (
	"errors"
	"fmt"
	"strings"
)

// Limits on a single class meeting. The daily window applies in wizard
// contexts only; direct storage writes (e.g. migrations, seeds) are not
// constrained by it.
const (
	MinMeetingMinutes              = 30
	WindowStart       ClockMinutes = 7 * 60  // 07:00
	WindowEnd         ClockMinutes = 20 * 60 // 20:00
)

// Draft is one schedule form row as typed by the user. Any field may be
// blank while the user is still filling the row.
type Draft struct {
	Day  string `json:"day"`
	From string `json:"from_time"`
	To   string `json:"to_time"`
}

func (d Draft) blank() bool {
	return strings.TrimSpace(d.Day) == "" &&
		strings.TrimSpace(d.From) == "" &&
		strings.TrimSpace(d.To) == ""
}

func (d Draft) complete() bool {
	return strings.TrimSpace(d.Day) != "" &&
		strings.TrimSpace(d.From) != "" &&
		strings.TrimSpace(d.To) != ""
}

// Entry is a validated weekly meeting. Invariants: From < To, duration at
// least MinMeetingMinutes, and no two entries for the same course share a day
// with overlapping [From, To) intervals.
type Entry struct {
	Day  Day          `json:"day"`
	From ClockMinutes `json:"from_time"`
	To   ClockMinutes `json:"to_time"`
}

// Overlaps reports whether two entries collide: same day and intersecting
// half-open intervals. Adjacent entries (a.To == b.From) do not overlap.
func (e Entry) Overlaps(other Entry) bool {
	return e.Day == other.Day && e.From < other.To && other.From < e.To
}

// Options controls validation strictness.
type Options struct {
	// EnforceWindow requires both endpoints within [WindowStart, WindowEnd].
	// On for wizard input, off elsewhere.
	EnforceWindow bool
}

// ErrNoCompleteEntry is returned when no draft row is fully filled in.
var ErrNoCompleteEntry = errors.New("at least one complete schedule is required")

// IncompleteError reports a row with some but not all fields filled.
type IncompleteError struct {
	Row int // 1-based form row
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("schedule row %d is only partially filled in", e.Row)
}

// EntryError reports a single invalid complete row.
type EntryError struct {
	Row    int
	Reason string
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("schedule row %d: %s", e.Row, e.Reason)
}

// OverlapError reports two rows that collide on the same day.
type OverlapError struct {
	FirstRow, SecondRow int
	Day                 Day
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("schedule rows %d and %d overlap on %s", e.FirstRow, e.SecondRow, e.Day.FullName())
}

// Validate checks a set of draft rows and returns the cleaned entries.
//
// Untouched rows (all fields blank) are ignored. It fails on, in order:
// zero complete rows, any partially-filled row, any complete row with an
// invalid day/time/duration/window, and finally any same-day pairwise
// overlap. Validation stops at the first failing category so the user is
// not flooded with cascading messages.
func Validate(drafts []Draft, opts Options) ([]Entry, error) {
	type completeRow struct {
		row   int
		entry Entry
	}

	var partials []int
	var complete []completeRow

	for i, d := range drafts {
		switch {
		case d.blank():
			// Untouched row, ignore.
		case d.complete():
			complete = append(complete, completeRow{row: i + 1})
		default:
			partials = append(partials, i+1)
		}
	}

	if len(complete) == 0 {
		return nil, ErrNoCompleteEntry
	}
	if len(partials) > 0 {
		return nil, &IncompleteError{Row: partials[0]}
	}

	for k := range complete {
		d := drafts[complete[k].row-1]

		day, ok := ParseDay(d.Day)
		if !ok {
			return nil, &EntryError{Row: complete[k].row, Reason: fmt.Sprintf("unknown day %q", d.Day)}
		}
		from, ok := ParseClock(d.From)
		if !ok {
			return nil, &EntryError{Row: complete[k].row, Reason: fmt.Sprintf("invalid start time %q", d.From)}
		}
		to, ok := ParseClock(d.To)
		if !ok {
			return nil, &EntryError{Row: complete[k].row, Reason: fmt.Sprintf("invalid end time %q", d.To)}
		}
		if from >= to {
			return nil, &EntryError{Row: complete[k].row, Reason: "start time must be before end time"}
		}
		if to-from < MinMeetingMinutes {
			return nil, &EntryError{
				Row:    complete[k].row,
				Reason: fmt.Sprintf("class must run at least %d minutes", MinMeetingMinutes),
			}
		}
		if opts.EnforceWindow && (from < WindowStart || to > WindowEnd) {
			return nil, &EntryError{
				Row: complete[k].row,
				Reason: fmt.Sprintf("times must fall between %s and %s",
					WindowStart.Format12Hour(), WindowEnd.Format12Hour()),
			}
		}

		complete[k].entry = Entry{Day: day, From: from, To: to}
	}

	for i := 0; i < len(complete); i++ {
		for j := i + 1; j < len(complete); j++ {
			if complete[i].entry.Overlaps(complete[j].entry) {
				return nil, &OverlapError{
					FirstRow:  complete[i].row,
					SecondRow: complete[j].row,
					Day:       complete[i].entry.Day,
				}
			}
		}
	}

	entries := make([]Entry, len(complete))
	for k, c := range complete {
		entries[k] = c.entry
	}
	return entries, nil
}
