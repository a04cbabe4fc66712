package calc

import "math"

const (
	irrInitialGuess  = 0.10
	irrMaxIterations = 100
	irrTolerance     = 1e-4 // on NPV, not on the rate
	irrFloor         = -0.99
)

// IRRResult is the outcome of the Newton-Raphson search. Rate is always the
// last iterate, also when Converged is false.
type IRRResult struct {
	Rate       float64 `json:"rate"`
	Iterations int     `json:"iterations"`
	Converged  bool    `json:"converged"`
}

func (r IRRResult) Percent() float64 {
	return r.Rate * 100
}

func NPV(cf CashFlow, rate float64) float64 {
	npv := 0.0
	for t, f := range cf {
		npv += f / math.Pow(1+rate, float64(t))
	}
	return npv
}

// NPVDerivative is dNPV/dr = -Σ t·flow_t·(1+r)^(-t-1).
func NPVDerivative(cf CashFlow, rate float64) float64 {
	d := 0.0
	for t := 1; t < len(cf); t++ {
		d -= float64(t) * cf[t] / math.Pow(1+rate, float64(t+1))
	}
	return d
}

// IRR finds the rate that zeroes the NPV of cf. The search runs at most
// irrMaxIterations steps and never fails: a non-converged estimate is
// returned as is, flagged through Converged. A cash flow that is not
// finite gives a zero, non-converged rate.
func IRR(cf CashFlow) IRRResult {
	if !cf.Finite() {
		return IRRResult{}
	}
	r := irrInitialGuess
	for i := 0; i < irrMaxIterations; i++ {
		npv := NPV(cf, r)
		if math.Abs(npv) < irrTolerance {
			return IRRResult{Rate: r, Iterations: i, Converged: true}
		}

		d := NPVDerivative(cf, r)
		if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			return IRRResult{Rate: r, Iterations: i}
		}

		r -= npv / d
		if r <= -1 {
			r = irrFloor
		}
	}
	return IRRResult{Rate: r, Iterations: irrMaxIterations}
}
