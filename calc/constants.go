package calc

// Years is the projection horizon. A cash flow built by BuildCashFlow holds
// Years+1 entries, year 0 being the upfront outlay.
const Years = 25

// Constants are the model assumptions behind every projection.
type Constants struct {
	CostPerWatt     float64 // Installed cost in $/W
	GenerationPerKw float64 // Annual generation in kWh per installed kW-DC
	Escalation      float64 // Annual electricity price escalation, 0.025 = 2.5%
	OMCostPerKw     float64 // Operations and maintenance in $/kW/yr
	ITCRate         float64 // Investment tax credit, 0.30 = 30%
}

func DefaultConstants() Constants {
	return Constants{
		CostPerWatt:     2.5,
		GenerationPerKw: 1400,
		Escalation:      0.025,
		OMCostPerKw:     15,
		ITCRate:         0.30,
	}
}
