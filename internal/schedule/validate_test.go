package schedule

import (
	"errors"
	"testing"
)

func draft(day, from, to string) Draft {
	return Draft{Day: day, From: from, To: to}
}

func TestValidateHappyPath(t *testing.T) {
	t.Parallel()

	entries, err := Validate([]Draft{
		draft("Monday", "8:00 AM", "9:30 AM"),
		draft("Wednesday", "13:00", "14:30"),
	}, Options{EnforceWindow: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Day != Monday || entries[0].From != 480 || entries[0].To != 570 {
		t.Errorf("entry 0 = %+v", entries[0])
	}
	if entries[0].Day.Abbrev() != "Mon" {
		t.Errorf("cleaned day abbrev = %q", entries[0].Day.Abbrev())
	}
}

func TestValidateIgnoresUntouchedRows(t *testing.T) {
	t.Parallel()

	entries, err := Validate([]Draft{
		draft("", "", ""),
		draft("Friday", "10:00", "11:00"),
		draft("", "", ""),
	}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].Day != Friday {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestValidateRequiresOneCompleteEntry(t *testing.T) {
	t.Parallel()

	if _, err := Validate(nil, Options{}); !errors.Is(err, ErrNoCompleteEntry) {
		t.Errorf("empty drafts: err = %v", err)
	}
	if _, err := Validate([]Draft{draft("", "", "")}, Options{}); !errors.Is(err, ErrNoCompleteEntry) {
		t.Errorf("all blank: err = %v", err)
	}
	// A lone partial row fails the completeness gate first.
	if _, err := Validate([]Draft{draft("Monday", "", "")}, Options{}); !errors.Is(err, ErrNoCompleteEntry) {
		t.Errorf("lone partial: err = %v", err)
	}
}

func TestValidatePartialRow(t *testing.T) {
	t.Parallel()

	_, err := Validate([]Draft{
		draft("Monday", "8:00", "9:00"),
		draft("Tuesday", "10:00", ""),
	}, Options{})

	var incomplete *IncompleteError
	if !errors.As(err, &incomplete) {
		t.Fatalf("err = %v, want IncompleteError", err)
	}
	if incomplete.Row != 2 {
		t.Errorf("row = %d, want 2", incomplete.Row)
	}
}

func TestValidateEntryBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		d    Draft
		opts Options
	}{
		{name: "unknown day", d: draft("Someday", "8:00", "9:00")},
		{name: "bad start time", d: draft("Monday", "8 o'clock", "9:00")},
		{name: "bad end time", d: draft("Monday", "8:00", "late")},
		{name: "reversed times", d: draft("Monday", "10:00", "9:00")},
		{name: "zero duration", d: draft("Monday", "9:00", "9:00")},
		{name: "under 30 minutes", d: draft("Monday", "9:00", "9:29")},
		{name: "before window", d: draft("Monday", "6:00", "8:00"), opts: Options{EnforceWindow: true}},
		{name: "after window", d: draft("Monday", "19:30", "20:30"), opts: Options{EnforceWindow: true}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Validate([]Draft{tc.d}, tc.opts)
			var entryErr *EntryError
			if !errors.As(err, &entryErr) {
				t.Fatalf("err = %v, want EntryError", err)
			}
		})
	}
}

func TestValidateWindowBoundariesAllowed(t *testing.T) {
	t.Parallel()

	// Endpoints exactly on the window edges are valid.
	if _, err := Validate([]Draft{draft("Monday", "7:00 AM", "8:00 PM")}, Options{EnforceWindow: true}); err != nil {
		t.Fatalf("full-window entry rejected: %v", err)
	}
	// Without the window option an early class is fine.
	if _, err := Validate([]Draft{draft("Monday", "6:00", "7:00")}, Options{}); err != nil {
		t.Fatalf("out-of-window entry rejected without window option: %v", err)
	}
}

func TestValidateOverlap(t *testing.T) {
	t.Parallel()

	_, err := Validate([]Draft{
		draft("Monday", "9:00", "11:00"),
		draft("Monday", "10:30", "12:00"),
	}, Options{})

	var overlap *OverlapError
	if !errors.As(err, &overlap) {
		t.Fatalf("err = %v, want OverlapError", err)
	}
	if overlap.FirstRow != 1 || overlap.SecondRow != 2 || overlap.Day != Monday {
		t.Errorf("overlap = %+v", overlap)
	}
}

func TestValidateNoOverlapAcrossDays(t *testing.T) {
	t.Parallel()

	// Identical times on different days never overlap.
	_, err := Validate([]Draft{
		draft("Monday", "9:00", "11:00"),
		draft("Tuesday", "9:00", "11:00"),
		draft("Wed", "9:00", "11:00"),
	}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateAdjacentEntriesDoNotOverlap(t *testing.T) {
	t.Parallel()

	// Half-open intervals: back-to-back classes are allowed.
	entries, err := Validate([]Draft{
		draft("Monday", "9:00", "10:30"),
		draft("Monday", "10:30", "12:00"),
	}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
}

func TestOverlapsSymmetry(t *testing.T) {
	t.Parallel()

	a := Entry{Day: Monday, From: 540, To: 660}
	b := Entry{Day: Monday, From: 600, To: 720}
	if !a.Overlaps(b) || !b.Overlaps(a) {
		t.Error("overlap should be symmetric")
	}

	c := Entry{Day: Tuesday, From: 540, To: 660}
	if a.Overlaps(c) {
		t.Error("different days must never overlap")
	}
}
