package task

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/icodeforyou/solarcalc-go/config"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
)

type fakeDb struct {
	calls         []string
	retentionDays int
	maxEntries    int
	backupErr     error
}

func (f *fakeDb) Backup(ctx context.Context) error {
	f.calls = append(f.calls, "backup")
	return f.backupErr
}

func (f *fakeDb) PurgeBackups(ctx context.Context, retentionDays int) error {
	f.calls = append(f.calls, "purge_backups")
	f.retentionDays = retentionDays
	return nil
}

func (f *fakeDb) PurgeLog(ctx context.Context, maxLogEntries int) error {
	f.calls = append(f.calls, "purge_log")
	f.maxEntries = maxLogEntries
	return nil
}

func (f *fakeDb) CountLogEntries(ctx context.Context) (int, error) {
	f.calls = append(f.calls, "count_log")
	return f.maxEntries, nil
}

func TestMaintenanceTask(t *testing.T) {
	days, entries := 5, 200
	cnfg := &config.AppConfig{
		Database: config.AppConfigDatabase{BackupRetentionDays: &days},
		Logging:  config.AppConfigLogging{DbMaxEntries: &entries},
	}
	db := &fakeDb{backupErr: errors.New("disk full")}

	NewMaintenanceTask(slog.New(slog.DiscardHandler), db, cnfg)()

	// a failing backup must not stop the purges
	assert.Equal(t, []string{"backup", "purge_backups", "purge_log", "count_log"}, db.calls)
	assert.Equal(t, 5, db.retentionDays)
	assert.Equal(t, 200, db.maxEntries)
}

func TestTasksRejectInvalidSchedule(t *testing.T) {
	runAt := "not a cron spec"
	cnfg := &config.AppConfig{Maintenance: config.AppConfigMaintenance{RunAt: &runAt}}
	tasks := &Tasks{cron: cron.New(), cnfg: cnfg, MaintenanceTask: func() {}}
	assert.Error(t, tasks.Run())
}
