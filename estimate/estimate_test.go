package estimate

import (
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/icodeforyou/solarcalc-go/calc"
	"github.com/icodeforyou/solarcalc-go/prices"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEstimator() *Estimator {
	return New(slog.New(slog.DiscardHandler), prices.Default(), calc.DefaultConstants())
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"5", 5},
		{"5.00", 5},
		{" 12.5 ", 12.5},
		{"7.25kW", 7.25},
		{".5", 0.5},
		{"1e2", 100},
		{"", 0},
		{".", 0},
		{"abc", 0},
		{"-3", -3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseSize(tt.in), "ParseSize(%q)", tt.in)
	}
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "5.00", FormatSize("5"))
	assert.Equal(t, "12.35", FormatSize("12.346"))
	assert.Equal(t, "", FormatSize("."))
	assert.Equal(t, "", FormatSize(""))
	assert.Equal(t, "abc", FormatSize("abc"))
}

func TestValidate(t *testing.T) {
	_, err := Validate(Input{State: "", SizeText: "5"})
	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, MsgSelectState, inputErr.Message)

	for _, size := range []string{"0", "-1", "", ".", "x"} {
		_, err = Validate(Input{State: "Ohio", SizeText: size})
		require.ErrorAs(t, err, &inputErr, "size %q", size)
		assert.Equal(t, MsgSystemSize, inputErr.Message)
	}

	spec, err := Validate(Input{State: " Ohio ", SizeText: "4.2"})
	require.NoError(t, err)
	assert.Equal(t, SystemSpec{State: "Ohio", SizeKwDc: 4.2}, spec)
}

func TestRunRejectsWithoutResult(t *testing.T) {
	e := newEstimator()
	called := false
	e.OnResult = func(*Result) { called = true }

	res, err := e.Run(Input{State: "", SizeText: "5"})
	require.Error(t, err)
	assert.Empty(t, res.CashFlow)
	assert.False(t, called)
}

func TestRunAlabama(t *testing.T) {
	e := newEstimator()
	var published *Result
	e.OnResult = func(r *Result) { published = r }

	res, err := e.Run(Input{State: "Alabama", SizeText: "5"})
	require.NoError(t, err)

	assert.Len(t, res.CashFlow, 26)
	assert.Len(t, res.Rows, 26)
	assert.InDelta(t, -8750, res.CashFlow[0], 1e-9)
	assert.InDelta(t, 968.7, res.CashFlow[1], 1e-9)
	assert.Equal(t, 0.1491, res.PricePerKwh)
	assert.True(t, res.IRR.Converged)
	assert.InDelta(t, 12.65, res.IRRPercent, 0.01)
	assert.Equal(t, "8.2", res.Payback.String())

	assert.Equal(t, 12500.0, res.Summary.SystemCost)
	assert.Equal(t, 7000.0, res.Summary.AnnualKWh)
	assert.InDelta(t, 3750, res.Summary.TaxCredit, 1e-9)
	assert.InDelta(t, 8750, res.Summary.NetCost, 1e-9)
	assert.InDelta(t, res.Rows[25].Cumulative, res.Summary.NetProfit, 1e-6)

	assert.NotEmpty(t, res.ID)
	require.NotNil(t, published)
	assert.Equal(t, res.ID, published.ID)
}

func TestRunUnknownStateUsesDefaultPrice(t *testing.T) {
	res, err := newEstimator().Run(Input{State: "Atlantis", SizeText: "5"})
	require.NoError(t, err)
	assert.Equal(t, prices.DefaultPrice, res.PricePerKwh)
	assert.Equal(t, "9.3", res.Payback.String())
}

func TestRunIsIdempotent(t *testing.T) {
	e := newEstimator()
	in := Input{State: "Hawaii", SizeText: "8.5"}

	a, err := e.Run(in)
	require.NoError(t, err)
	b, err := e.Run(in)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	a.ID, b.ID = "", ""
	assert.Equal(t, a, b)
}

func TestRunOverflowingSize(t *testing.T) {
	e := newEstimator()
	published := false
	e.OnResult = func(*Result) { published = true }

	res, err := e.Run(Input{State: "Alabama", SizeText: "1e308"})
	require.NoError(t, err)

	assert.True(t, res.Degenerate)
	assert.Empty(t, res.CashFlow)
	assert.Empty(t, res.Rows)
	assert.False(t, res.IRR.Converged)
	assert.Zero(t, res.IRRPercent)
	assert.False(t, res.Payback.Recovered())
	assert.Equal(t, calc.BeyondHorizon, res.Payback.String())
	assert.Equal(t, 1e308, res.Spec.SizeKwDc)
	assert.True(t, published)

	_, err = json.Marshal(res)
	assert.NoError(t, err)
}
