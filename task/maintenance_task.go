package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/icodeforyou/solarcalc-go/config"
	"github.com/icodeforyou/solarcalc-go/database"
)

type maintainer interface {
	Backup(ctx context.Context) error
	PurgeBackups(ctx context.Context, retentionDays int) error
	PurgeLog(ctx context.Context, maxLogEntries int) error
	CountLogEntries(ctx context.Context) (int, error)
}

var _ maintainer = (*database.Database)(nil)

type maintenanceStep struct {
	name string
	run  func(ctx context.Context) error
}

// NewMaintenanceTask backs up the database and trims backups and the log.
// Every step runs even if an earlier one fails.
func NewMaintenanceTask(logger *slog.Logger, db maintainer, cnfg *config.AppConfig) func() {
	steps := []maintenanceStep{
		{"backup", db.Backup},
		{"purge backups", func(ctx context.Context) error {
			return db.PurgeBackups(ctx, cnfg.Database.GetBackupRetentionDays())
		}},
		{"purge log", func(ctx context.Context) error {
			return db.PurgeLog(ctx, cnfg.Logging.GetDbMaxEntries())
		}},
	}

	return func() {
		logger.Debug("running maintenance task...")
		start := time.Now()

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()

		failed := 0
		for _, step := range steps {
			if err := step.run(ctx); err != nil {
				failed++
				logger.Error("maintenance step failed", slog.String("step", step.name), slog.Any("error", err))
			}
		}

		n, err := db.CountLogEntries(ctx)
		if err != nil {
			logger.Warn("counting log entries failed", slog.Any("error", err))
		}

		logger.Info("maintenance task done",
			slog.Int("failedSteps", failed),
			slog.Int("logEntries", n),
			slog.Duration("elapsed", time.Since(start)))
	}
}
