package calc

import (
	"math"
	"testing"
)

// bisect is an independent reference root finder for NPV.
func bisect(cf CashFlow, lo, hi float64) float64 {
	for i := 0; i < 200; i++ {
		mid := (lo + hi) / 2
		if NPV(cf, lo)*NPV(cf, mid) <= 0 {
			hi = mid
		} else {
			lo = mid
		}
	}
	return (lo + hi) / 2
}

func TestNPV(t *testing.T) {
	cf := CashFlow{-100, 110}
	if got := NPV(cf, 0.1); !almostEqual(got, 0) {
		t.Errorf("got NPV %f, wanted 0", got)
	}
	if got := NPV(cf, 0); !almostEqual(got, 10) {
		t.Errorf("got NPV %f, wanted 10", got)
	}
}

func TestNPVDerivativeMatchesFiniteDifference(t *testing.T) {
	cf := BuildCashFlow(5, 0.1491, DefaultConstants())
	const h = 1e-6
	for _, r := range []float64{-0.5, 0, 0.1, 0.35} {
		fd := (NPV(cf, r+h) - NPV(cf, r-h)) / (2 * h)
		d := NPVDerivative(cf, r)
		if math.Abs(fd-d) > 1e-4*math.Max(1, math.Abs(d)) {
			t.Errorf("rate %v: got derivative %f, finite difference %f", r, d, fd)
		}
	}
}

func TestIRRAlabama(t *testing.T) {
	cf := BuildCashFlow(5, 0.1491, DefaultConstants())
	res := IRR(cf)

	if !res.Converged {
		t.Fatalf("expected convergence, ran %d iterations", res.Iterations)
	}
	if npv := NPV(cf, res.Rate); math.Abs(npv) > 1e-3 {
		t.Errorf("got NPV %g at rate %f", npv, res.Rate)
	}
	ref := bisect(cf, 0, 1)
	if math.Abs(res.Rate-ref) > 1e-6 {
		t.Errorf("got rate %f, reference %f", res.Rate, ref)
	}
	if math.Abs(res.Percent()-12.65) > 0.01 {
		t.Errorf("got %f %%, wanted about 12.65 %%", res.Percent())
	}
}

func TestIRRSingleOutlayProperty(t *testing.T) {
	c := DefaultConstants()
	for _, size := range []float64{1, 5, 40} {
		for _, price := range []float64{0.1021, 0.13, 0.3055, 0.4234} {
			cf := BuildCashFlow(size, price, c)
			res := IRR(cf)
			npv := NPV(cf, res.Rate)
			if math.Abs(npv) >= 1e-3 && res.Iterations != 100 {
				t.Errorf("size %v price %v: NPV %g after %d iterations", size, price, npv, res.Iterations)
			}
		}
	}
}

func TestIRRClampsBelowMinusOne(t *testing.T) {
	// the first Newton step lands far below -1 and must be clamped to -0.99
	cf := CashFlow{-1000, 1, 1}
	res := IRR(cf)
	if !res.Converged {
		t.Fatalf("expected convergence, got rate %f after %d iterations", res.Rate, res.Iterations)
	}
	if res.Rate <= -1 || res.Rate >= 0 {
		t.Errorf("got rate %f, wanted within (-1, 0)", res.Rate)
	}
	ref := bisect(cf, -0.99, 0)
	if math.Abs(res.Rate-ref) > 1e-6 {
		t.Errorf("got rate %f, reference %f", res.Rate, ref)
	}
}

func TestIRRNoRootIsBestEffort(t *testing.T) {
	res := IRR(CashFlow{100, 100, 100})
	if res.Converged {
		t.Errorf("all positive flows can not converge, got rate %f", res.Rate)
	}
	if math.IsNaN(res.Rate) {
		t.Errorf("rate must never be NaN")
	}
	if res.Iterations > 100 {
		t.Errorf("got %d iterations, max is 100", res.Iterations)
	}
}

func TestIRRImmediateConvergence(t *testing.T) {
	res := IRR(CashFlow{-100, 110})
	if !res.Converged || res.Iterations != 0 {
		t.Errorf("got %+v, wanted convergence at the initial guess", res)
	}
	if !almostEqual(res.Rate, 0.1) {
		t.Errorf("got rate %f, wanted 0.1", res.Rate)
	}
}

func TestIRRNotFinite(t *testing.T) {
	cf := padded(math.NaN(), 1, 1)
	if cf.Finite() {
		t.Fatal("expected a non-finite cash flow")
	}
	got := IRR(cf)
	if got.Converged || got.Rate != 0 || got.Iterations != 0 {
		t.Errorf("got %+v, wanted zero non-converged rate", got)
	}
	if !padded(-1, math.MaxFloat64).Finite() {
		t.Error("expected a finite cash flow")
	}
}
