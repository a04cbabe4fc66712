package prices

import (
	"maps"
	"slices"
	"strings"

	"github.com/icodeforyou/solarcalc-go/types"
)

// DefaultPrice in USD/kWh is used when a state has no entry.
const DefaultPrice = 0.13

// Residential electricity prices in USD/kWh, from ElectricChoice.com.
var statePrices = map[string]float64{
	"Alabama": 0.1491, "Alaska": 0.2238, "Arizona": 0.1520, "Arkansas": 0.1174,
	"California": 0.3055, "Colorado": 0.1516, "Connecticut": 0.2816,
	"Delaware": 0.1668, "Florida": 0.1420, "Georgia": 0.1349, "Hawaii": 0.4234,
	"Idaho": 0.1097, "Illinois": 0.1599, "Indiana": 0.1442, "Iowa": 0.1243,
	"Kansas": 0.1385, "Kentucky": 0.1328, "Louisiana": 0.1170, "Maine": 0.2629,
	"Maryland": 0.1815, "Massachusetts": 0.3122, "Michigan": 0.1841,
	"Minnesota": 0.1405, "Mississippi": 0.1344, "Missouri": 0.1157,
	"Montana": 0.1187, "Nebraska": 0.1078, "Nevada": 0.1488,
	"New Hampshire": 0.2362, "New Jersey": 0.1949, "New Mexico": 0.1426,
	"New York": 0.2437, "North Carolina": 0.1349, "North Dakota": 0.1021,
	"Ohio": 0.1598, "Oklahoma": 0.1152, "Oregon": 0.1412, "Pennsylvania": 0.1760,
	"Rhode Island": 0.2531, "South Carolina": 0.1387, "South Dakota": 0.1242,
	"Tennessee": 0.1304, "Texas": 0.1532, "Utah": 0.1102, "Vermont": 0.2229,
	"Virginia": 0.1446, "Washington": 0.1183, "West Virginia": 0.1451,
	"Wisconsin": 0.1631, "Wyoming": 0.1178, "District of Columbia": 0.1883,
}

// Table is a read-only price lookup. It is safe for concurrent use since it is
// never modified after New returns.
type Table struct {
	prices       map[string]float64
	names        map[string]string // lower case name to table name
	defaultPrice float64
}

var _ types.ElectricityPriceProvider = (*Table)(nil)

// New copies the built-in prices, applies overrides on top and uses
// defaultPrice for unknown states. A non-positive defaultPrice means DefaultPrice.
// Override keys match states case-insensitively, config loaders lower case them.
func New(defaultPrice float64, overrides map[string]float64) *Table {
	if defaultPrice <= 0 {
		defaultPrice = DefaultPrice
	}
	t := &Table{
		prices:       maps.Clone(statePrices),
		names:        make(map[string]string, len(statePrices)),
		defaultPrice: defaultPrice,
	}
	for state := range t.prices {
		t.names[strings.ToLower(state)] = state
	}
	for state, price := range overrides {
		if price <= 0 {
			continue
		}
		name, ok := t.names[strings.ToLower(state)]
		if !ok {
			name = state
			t.names[strings.ToLower(state)] = state
		}
		t.prices[name] = price
	}
	return t
}

func Default() *Table {
	return New(DefaultPrice, nil)
}

func (t *Table) Get(state string) (float64, bool) {
	if p, ok := t.prices[state]; ok {
		return p, true
	}
	if name, ok := t.names[strings.ToLower(state)]; ok {
		return t.prices[name], true
	}
	return 0, false
}

func (t *Table) Lookup(state string) float64 {
	if p, ok := t.Get(state); ok {
		return p
	}
	return t.defaultPrice
}

func (t *Table) Has(state string) bool {
	_, ok := t.Get(state)
	return ok
}

func (t *Table) Len() int {
	return len(t.prices)
}

func (t *Table) States() []types.StatePrice {
	names := slices.Sorted(maps.Keys(t.prices))
	out := make([]types.StatePrice, len(names))
	for i, n := range names {
		out[i] = types.StatePrice{State: n, Price: t.prices[n]}
	}
	return out
}
