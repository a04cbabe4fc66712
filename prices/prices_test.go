package prices

import (
	"slices"
	"testing"
)

func TestDefaultTable(t *testing.T) {
	table := Default()
	if table.Len() != 51 {
		t.Errorf("got %d entries, wanted 51", table.Len())
	}
	if got := table.Lookup("Alabama"); got != 0.1491 {
		t.Errorf("got Alabama %f, wanted 0.1491", got)
	}
	if got := table.Lookup("District of Columbia"); got != 0.1883 {
		t.Errorf("got DC %f, wanted 0.1883", got)
	}
	if got := table.Lookup(""); got != DefaultPrice {
		t.Errorf("got %f for unselected state, wanted %f", got, DefaultPrice)
	}
	if got := table.Lookup("Puerto Rico"); got != DefaultPrice {
		t.Errorf("got %f for unknown state, wanted %f", got, DefaultPrice)
	}
}

func TestStatesSorted(t *testing.T) {
	states := Default().States()
	if len(states) != 51 {
		t.Fatalf("got %d states, wanted 51", len(states))
	}
	names := make([]string, len(states))
	for i, s := range states {
		names[i] = s.State
		if s.Price <= 0 {
			t.Errorf("%s has non-positive price %f", s.State, s.Price)
		}
	}
	if !slices.IsSorted(names) {
		t.Errorf("states are not sorted: %v", names)
	}
	if names[0] != "Alabama" || names[len(names)-1] != "Wyoming" {
		t.Errorf("got first %q and last %q", names[0], names[len(names)-1])
	}
}

func TestOverrides(t *testing.T) {
	table := New(0.2, map[string]float64{"texas": 0.11, "Guam": 0.35, "Ohio": -1})
	if got := table.Lookup("Texas"); got != 0.11 {
		t.Errorf("got Texas %f, wanted override 0.11", got)
	}
	if got := table.Lookup("Guam"); got != 0.35 {
		t.Errorf("got Guam %f, wanted 0.35", got)
	}
	if got := table.Lookup("Ohio"); got != 0.1598 {
		t.Errorf("got Ohio %f, invalid override must be ignored", got)
	}
	if got := table.Lookup("Atlantis"); got != 0.2 {
		t.Errorf("got default %f, wanted 0.2", got)
	}
	if _, ok := table.Get("TEXAS"); !ok {
		t.Errorf("lookup must ignore case")
	}
	if table.Len() != 52 {
		t.Errorf("got %d entries, wanted 52", table.Len())
	}
	if Default().Has("Guam") {
		t.Errorf("overrides leaked into the built-in table")
	}
}
