package schedule

import (
	"encoding/json"
	"testing"
)

func TestDayRoundTrip(t *testing.T) {
	t.Parallel()

	for d := Monday; d <= Sunday; d++ {
		if got, ok := ParseDay(d.FullName()); !ok || got != d {
			t.Errorf("ParseDay(%q) = %v, %v", d.FullName(), got, ok)
		}
		if got, ok := ParseDay(d.Abbrev()); !ok || got != d {
			t.Errorf("ParseDay(%q) = %v, %v", d.Abbrev(), got, ok)
		}
	}
}

func TestParseDayCaseInsensitive(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"monday", "MONDAY", "mon", "MON", " Monday "} {
		if got, ok := ParseDay(input); !ok || got != Monday {
			t.Errorf("ParseDay(%q) = %v, %v, want Monday", input, got, ok)
		}
	}
	if _, ok := ParseDay("Funday"); ok {
		t.Error("ParseDay accepted an unknown day")
	}
	if _, ok := ParseDay(""); ok {
		t.Error("ParseDay accepted an empty string")
	}
}

func TestDayJSONUsesAbbreviation(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Wednesday)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"Wed"` {
		t.Fatalf("marshal = %s, want \"Wed\"", data)
	}

	var d Day
	if err := json.Unmarshal([]byte(`"Wednesday"`), &d); err != nil || d != Wednesday {
		t.Fatalf("unmarshal full name: %v, %v", d, err)
	}
	if err := json.Unmarshal([]byte(`"Wed"`), &d); err != nil || d != Wednesday {
		t.Fatalf("unmarshal abbreviation: %v, %v", d, err)
	}
	if err := json.Unmarshal([]byte(`"Noday"`), &d); err == nil {
		t.Fatal("unmarshal accepted an unknown day")
	}
}
