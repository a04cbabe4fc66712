package www

import (
	"log/slog"
	"net/http"

	"github.com/icodeforyou/solarcalc-go/calc"
	"github.com/icodeforyou/solarcalc-go/estimate"
)

type resultRow struct {
	calc.YearRow
	IsPayback bool
}

type resultView struct {
	estimate.Result
	CostPerWatt float64
	ITCPercent  float64
	Rows        []resultRow
}

func newResultView(res estimate.Result, c calc.Constants) resultView {
	paybackYear := res.Payback.YearIndex()
	rows := make([]resultRow, len(res.Rows))
	for i, row := range res.Rows {
		rows[i] = resultRow{YearRow: row, IsPayback: row.Year == paybackYear}
	}
	return resultView{
		Result:      res,
		CostPerWatt: c.CostPerWatt,
		ITCPercent:  c.ITCRate * 100,
		Rows:        rows,
	}
}

func NewCalculateHandler(logger *slog.Logger, est *estimate.Estimator, tm *TemplateManager, ss *SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		in, err := readInput(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		ss.SaveInput(w, r, in)

		res, err := est.Run(in)
		if inputErr, ok := asInputError(err); ok {
			if wantsJSON(r) {
				_ = writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: inputErr.Message})
				return
			}
			w.Header().Set("Content-Type", "text/html")
			w.WriteHeader(http.StatusUnprocessableEntity)
			if err := tm.ExecuteToWriter("input_error.html", inputErr.Message, w); err != nil {
				logger.Error("handling calculate request", slog.Any("error", err))
			}
			return
		}

		if wantsJSON(r) {
			if err := writeJSON(w, http.StatusOK, res); err != nil {
				logger.Error("handling calculate request", slog.Any("error", err))
			}
			return
		}

		buf, err := tm.Execute("result.html", newResultView(res, est.Constants()))
		if err != nil {
			logger.Error("handling calculate request", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = buf.WriteTo(w)
	}
}
