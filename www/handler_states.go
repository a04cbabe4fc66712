package www

import (
	"log/slog"
	"net/http"

	"github.com/icodeforyou/solarcalc-go/types"
)

func NewStatesHandler(logger *slog.Logger, prices types.ElectricityPriceProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := writeJSON(w, http.StatusOK, prices.States()); err != nil {
			logger.Error("handling states request", slog.Any("error", err))
		}
	}
}
