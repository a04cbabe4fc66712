package www

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/icodeforyou/solarcalc-go/calc"
	"github.com/icodeforyou/solarcalc-go/estimate"
	"github.com/icodeforyou/solarcalc-go/slice"
	"github.com/icodeforyou/solarcalc-go/www/chartjs"
)

// NewCashFlowChart plots the annual and the cumulative cash flow per year.
func NewCashFlowChart(rows []calc.YearRow) chartjs.Chart {
	labels := slice.Map(rows, func(r calc.YearRow) string { return strconv.Itoa(r.Year) })
	chart := chartjs.NewChart("", labels)
	chart.AddBars("Annual", chartjs.ColorBlue, chartjs.ColorBlueFill,
		slice.Map(rows, func(r calc.YearRow) *float64 { return chartjs.FixedFloat64(r.Annual, 2) }))
	chart.AddLine("Cumulative", chartjs.ColorGreen,
		slice.Map(rows, func(r calc.YearRow) *float64 { return chartjs.FixedFloat64(r.Cumulative, 2) }))
	chart.Options.Scales["x"] = chart.Options.Scales["x"].WithTitle("Year")
	chart.Options.Scales["y"] = chart.Options.Scales["y"].WithTitle("Cash flow (USD)").WithZero()
	return chart
}

func NewChartHandler(logger *slog.Logger, est *estimate.Estimator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		in, err := readInput(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		// Validate + Estimate rather than Run, the chart is not a new calculation to publish
		spec, err := estimate.Validate(in)
		if inputErr, ok := asInputError(err); ok {
			_ = writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: inputErr.Message})
			return
		}

		res := est.Estimate(spec)
		if err := writeJSON(w, http.StatusOK, NewCashFlowChart(res.Rows)); err != nil {
			logger.Error("handling chart request", slog.Any("error", err))
		}
	}
}
