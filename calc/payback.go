package calc

import (
	"math"
	"math/big"
	"strconv"

	"github.com/icodeforyou/solarcalc-go/types/maybe"
)

// BeyondHorizon is shown when the investment is not recovered within the projection.
const BeyondHorizon = ">25"

// PaybackResult holds the interpolated payback period in years.
// No value means the cumulative flow never turned non-negative.
type PaybackResult struct {
	years maybe.Maybe[float64]
}

// Years is the payback period as displayed, rounded to one decimal.
func (p PaybackResult) Years() (float64, bool) {
	if !p.years.IsValid() {
		return 0, false
	}
	y, err := strconv.ParseFloat(p.String(), 64)
	return y, err == nil
}

func (p PaybackResult) Recovered() bool {
	return p.years.IsValid()
}

// YearIndex is the whole part of the displayed payback, the year in which
// the investment is recovered. -1 when never recovered.
func (p PaybackResult) YearIndex() int {
	y, ok := p.Years()
	if !ok {
		return -1
	}
	return int(y)
}

func (p PaybackResult) String() string {
	return maybe.Map(p.years, OneDecimal).ValueOrDefault(BeyondHorizon)
}

func (p PaybackResult) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// OneDecimal formats v with one decimal from its exact binary value, so 0.35
// (stored as 0.3499...) gives "0.3". Exact halves such as 0.25 round up,
// where strconv would round them to even.
func OneDecimal(v float64) string {
	r := new(big.Rat).SetFloat64(v)
	if r == nil {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	twenty := r.Mul(r, big.NewRat(20, 1))
	if twenty.IsInt() && twenty.Num().Bit(0) == 1 {
		return strconv.FormatFloat((math.Floor(v*10)+1)/10, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// Payback walks the cumulative flow and interpolates linearly inside the
// year where it crosses zero. Crossing from a negative total implies
// flow[yr] >= -prev > 0, so the divisor is always positive.
func Payback(cf CashFlow) PaybackResult {
	never := PaybackResult{years: maybe.None[float64]()}
	if len(cf) == 0 {
		return never
	}
	if cf[0] >= 0 {
		return PaybackResult{years: maybe.Some(0.0)}
	}

	cum := cf[0]
	for yr := 1; yr < len(cf); yr++ {
		prev := cum
		cum += cf[yr]
		if cum >= 0 {
			fraction := -prev / cf[yr]
			return PaybackResult{years: maybe.Some(float64(yr-1) + fraction)}
		}
	}
	return never
}
