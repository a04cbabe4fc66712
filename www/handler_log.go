package www

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/icodeforyou/solarcalc-go/database"
)

type logReader interface {
	GetLogEntries(ctx context.Context, f database.LogFilter, page, pageSize int) ([]database.LogEntryRow, error)
	LogModules(ctx context.Context) ([]string, error)
}

type logPage struct {
	Modules []string
	Filter  database.LogFilter
}

type logEntriesPage struct {
	NextPage int
	PageSize int
	Filter   database.LogFilter
	Entries  []database.LogEntryRow
	HasMore  bool
}

func logFilter(r *http.Request) database.LogFilter {
	f := database.LogFilter{MinLevel: slog.LevelDebug, Module: r.URL.Query().Get("module")}
	if lvl := r.URL.Query().Get("level"); lvl != "" {
		if err := f.MinLevel.UnmarshalText([]byte(lvl)); err != nil {
			f.MinLevel = slog.LevelDebug
		}
	}
	return f
}

// NewLogHandler serves the log page, with ?page=n it serves the rows of that page only.
func NewLogHandler(logger *slog.Logger, db logReader, tm *TemplateManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		w.Header().Set("Content-Type", "text/html")
		filter := logFilter(r)

		page := queryInt(r, "page", 0)
		if page == 0 {
			modules, err := db.LogModules(r.Context())
			if err != nil {
				logger.Error("handling log request", slog.Any("error", err))
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			if err := tm.ExecuteToWriter("log.html", logPage{Modules: modules, Filter: filter}, w); err != nil {
				logger.Error("handling log request", slog.Any("error", err))
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
			return
		}

		pageSize := min(queryInt(r, "pageSize", 25), 500)
		entries, err := db.GetLogEntries(r.Context(), filter, page, pageSize)
		if err != nil {
			logger.Error("handling log request", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		data := logEntriesPage{
			NextPage: page + 1,
			PageSize: pageSize,
			Filter:   filter,
			Entries:  entries,
			HasMore:  len(entries) == pageSize,
		}
		if err := tm.ExecuteToWriter("log_entries.html", data, w); err != nil {
			logger.Error("handling log request", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}
