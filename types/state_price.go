package types

// StatePrice is the year 1 retail electricity price of a US state.
type StatePrice struct {
	State string  `json:"state"`
	Price float64 `json:"price"` // Price in USD per kWh
}

// ElectricityPriceProvider resolves the electricity price used for a projection.
type ElectricityPriceProvider interface {
	// Lookup returns the price for state, or the provider's default when unknown.
	Lookup(state string) float64
	// States returns every known state sorted by name.
	States() []StatePrice
}
