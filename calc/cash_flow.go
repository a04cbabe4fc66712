package calc

import (
	"math"

	"github.com/icodeforyou/solarcalc-go/slice"
)

// CashFlow is a nominal yearly cash flow in dollars, index 0 is year 0.
type CashFlow []float64

type YearRow struct {
	Year       int     `json:"year"`
	Annual     float64 `json:"annual"`
	Cumulative float64 `json:"cumulative"`
}

func Capex(sizeKwDc float64, c Constants) float64 {
	return sizeKwDc * 1000 * c.CostPerWatt
}

func TaxCredit(sizeKwDc float64, c Constants) float64 {
	return Capex(sizeKwDc, c) * c.ITCRate
}

func AnnualGeneration(sizeKwDc float64, c Constants) float64 {
	return sizeKwDc * c.GenerationPerKw
}

// PriceInYear is the escalated electricity price for operating year y (y >= 1).
func PriceInYear(pricePerKwh float64, y int, c Constants) float64 {
	return pricePerKwh * math.Pow(1+c.Escalation, float64(y-1))
}

// BuildCashFlow projects Years+1 yearly flows for a system of sizeKwDc
// selling at pricePerKwh in year 1. The caller guarantees sizeKwDc > 0.
func BuildCashFlow(sizeKwDc, pricePerKwh float64, c Constants) CashFlow {
	kWh := AnnualGeneration(sizeKwDc, c)
	capex := Capex(sizeKwDc, c)

	cf := make(CashFlow, Years+1)
	cf[0] = -capex + capex*c.ITCRate
	for y := 1; y <= Years; y++ {
		cf[y] = kWh*PriceInYear(pricePerKwh, y, c) - sizeKwDc*c.OMCostPerKw
	}
	return cf
}

// Rows pairs every year with its flow and the running total, ready for charting.
func (cf CashFlow) Rows() []YearRow {
	cum := slice.Scan(cf, 0.0, func(acc, f float64) float64 { return acc + f })
	rows := make([]YearRow, len(cf))
	for i, f := range cf {
		rows[i] = YearRow{Year: i, Annual: f, Cumulative: cum[i]}
	}
	return rows
}

// Finite reports whether every flow is a real number. Huge systems overflow
// the capex to +Inf and year 0 to NaN.
func (cf CashFlow) Finite() bool {
	for _, f := range cf {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

func (cf CashFlow) Total() float64 {
	sum := 0.0
	for _, f := range cf {
		sum += f
	}
	return sum
}
