package www

import (
	"log/slog"
	"net/http"

	"github.com/icodeforyou/solarcalc-go/calc"
)

type SysInfo struct {
	Version      string
	Constants    calc.Constants
	Years        int
	DefaultPrice float64
	NoOfStates   int
}

func NewSysInfoHandler(logger *slog.Logger, tm *TemplateManager, sysInfo SysInfo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if wantsJSON(r) {
			if err := writeJSON(w, http.StatusOK, sysInfo); err != nil {
				logger.Error("handling sys_info request", slog.Any("error", err))
			}
			return
		}

		w.Header().Set("Content-Type", "text/html")
		if err := tm.ExecuteToWriter("sys_info.html", sysInfo, w); err != nil {
			logger.Error("handling sys_info request", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}
