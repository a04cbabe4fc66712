package www

import (
	"log/slog"
	"net/http"

	"github.com/icodeforyou/solarcalc-go/estimate"
	"github.com/icodeforyou/solarcalc-go/types"
)

type indexView struct {
	States  []types.StatePrice
	Input   estimate.Input
	Version string
}

func NewIndexHandler(logger *slog.Logger, prices types.ElectricityPriceProvider, tm *TemplateManager, ss *SessionStore, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		in := ss.LastInput(r)
		in.SizeText = estimate.FormatSize(in.SizeText)

		w.Header().Set("Content-Type", "text/html")
		data := indexView{States: prices.States(), Input: in, Version: version}
		if err := tm.ExecuteToWriter("index.html", data, w); err != nil {
			logger.Error("handling index request", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}
