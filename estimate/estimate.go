package estimate

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/icodeforyou/solarcalc-go/calc"
	"github.com/icodeforyou/solarcalc-go/types"
)

type OnResult func(res *Result)

// Summary holds the headline figures shown next to IRR and payback.
type Summary struct {
	SystemCost float64 `json:"systemCost"`
	AnnualKWh  float64 `json:"annualKWh"`
	TaxCredit  float64 `json:"taxCredit"`
	NetCost    float64 `json:"netCost"`
	NetProfit  float64 `json:"netProfit"` // Cumulative flow at the end of the projection
}

type Result struct {
	ID          string             `json:"id"`
	Spec        SystemSpec         `json:"spec"`
	PricePerKwh float64            `json:"pricePerKwh"`
	CashFlow    calc.CashFlow      `json:"cashFlow"`
	IRR         calc.IRRResult     `json:"irr"`
	IRRPercent  float64            `json:"irrPercent"`
	Payback     calc.PaybackResult `json:"payback"`
	Rows        []calc.YearRow     `json:"rows"`
	Summary     Summary            `json:"summary"`
	Degenerate  bool               `json:"degenerate"` // Projection overflowed, no figures available
}

// Estimator runs one projection per call and keeps no state between calls.
type Estimator struct {
	logger    *slog.Logger
	prices    types.ElectricityPriceProvider
	constants calc.Constants
	OnResult  OnResult
}

func New(logger *slog.Logger, prices types.ElectricityPriceProvider, constants calc.Constants) *Estimator {
	return &Estimator{
		logger:    logger,
		prices:    prices,
		constants: constants,
	}
}

func (e *Estimator) Constants() calc.Constants {
	return e.constants
}

func (e *Estimator) Prices() types.ElectricityPriceProvider {
	return e.prices
}

// Run validates in and computes the projection. The only error returned is *InputError.
func (e *Estimator) Run(in Input) (Result, error) {
	spec, err := Validate(in)
	if err != nil {
		e.logger.Debug("rejected input", slog.String("state", in.State), slog.String("size", in.SizeText), slog.Any("error", err))
		return Result{}, err
	}

	res := e.Estimate(spec)
	if e.OnResult != nil {
		e.OnResult(&res)
	}
	return res, nil
}

// Estimate computes the projection for an already validated spec.
func (e *Estimator) Estimate(spec SystemSpec) Result {
	c := e.constants
	price := e.prices.Lookup(spec.State)
	cf := calc.BuildCashFlow(spec.SizeKwDc, price, c)

	if !cf.Finite() {
		return e.degenerate(spec, price)
	}

	irr := calc.IRR(cf)
	payback := calc.Payback(cf)

	res := Result{
		ID:          uuid.New().String(),
		Spec:        spec,
		PricePerKwh: price,
		CashFlow:    cf,
		IRR:         irr,
		IRRPercent:  irr.Percent(),
		Payback:     payback,
		Rows:        cf.Rows(),
		Summary: Summary{
			SystemCost: calc.Capex(spec.SizeKwDc, c),
			AnnualKWh:  calc.AnnualGeneration(spec.SizeKwDc, c),
			TaxCredit:  calc.TaxCredit(spec.SizeKwDc, c),
			NetCost:    -cf[0],
			NetProfit:  cf.Total(),
		},
	}

	logger := e.logger.With(slog.String("id", res.ID))
	if !irr.Converged {
		logger.Warn("irr did not converge, using best effort estimate",
			slog.Float64("rate", irr.Rate),
			slog.Int("iterations", irr.Iterations))
	}
	logger.Debug("calculation done",
		slog.String("state", spec.State),
		slog.Float64("sizeKwDc", spec.SizeKwDc),
		slog.Float64("price", price),
		slog.Float64("irr", irr.Percent()),
		slog.String("payback", payback.String()))

	return res
}

// degenerate is the result for a spec whose projection does not fit in a
// float64. It carries no figures, the IRR is flagged as not converged and
// the payback lies beyond the horizon.
func (e *Estimator) degenerate(spec SystemSpec, price float64) Result {
	res := Result{
		ID:          uuid.New().String(),
		Spec:        spec,
		PricePerKwh: price,
		IRR:         calc.IRR(nil),
		Payback:     calc.Payback(nil),
		Degenerate:  true,
	}
	e.logger.Warn("projection is not finite",
		slog.String("id", res.ID),
		slog.String("state", spec.State),
		slog.Float64("sizeKwDc", spec.SizeKwDc))
	return res
}
