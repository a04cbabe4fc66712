package database

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

const backupTimeLayout = "20060102_150405"

var backupNameRe = regexp.MustCompile(`^(\d{8}_\d{6})_.+\.zip$`)

func (d *Database) backupDir() string {
	return filepath.Join(filepath.Dir(d.path), "backups")
}

// Backup writes a compacted copy of the database, zipped, to the backups
// directory next to the database file.
func (d *Database) Backup(ctx context.Context) error {
	dir := d.backupDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	name := fmt.Sprintf("%s_%s", time.Now().Format(backupTimeLayout), filepath.Base(d.path))
	snapshot := filepath.Join(dir, name)
	if _, err := d.write.ExecContext(ctx, "VACUUM INTO ?", snapshot); err != nil {
		return fmt.Errorf("vacuuming database into '%s': %w", snapshot, err)
	}
	defer func() {
		if err := os.Remove(snapshot); err != nil {
			d.logger.Warn("could not remove uncompressed backup", slog.Any("error", err))
		}
	}()

	zipPath := snapshot + ".zip"
	if err := zipFile(snapshot, zipPath, filepath.Base(d.path)); err != nil {
		os.Remove(zipPath)
		return err
	}

	d.logger.Info("database backup complete", slog.String("filename", zipPath))
	return nil
}

func zipFile(src, dst, entryName string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open backup for compression: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("get file info: %w", err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create zip file: %w", err)
	}
	defer out.Close()

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("create zip header: %w", err)
	}
	header.Name = entryName
	header.Method = zip.Deflate

	zw := zip.NewWriter(out)
	entry, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("create zip file entry: %w", err)
	}
	if _, err := io.Copy(entry, in); err != nil {
		return fmt.Errorf("write database to zip: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize zip file: %w", err)
	}
	return out.Close()
}

// PurgeBackups deletes backups older than retentionDays, zero or less keeps everything.
func (d *Database) PurgeBackups(ctx context.Context, retentionDays int) error {
	if retentionDays < 1 {
		return nil
	}
	cutoff := time.Now().Add(-time.Duration(retentionDays) * 24 * time.Hour)
	return d.purgeBackupsBefore(ctx, cutoff)
}

func (d *Database) purgeBackupsBefore(ctx context.Context, cutoff time.Time) error {
	dir := d.backupDir()
	d.logger.Debug("purging old backups", slog.String("dir", dir), slog.Time("cutoff", cutoff))

	files, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read backup directory: %w", err)
	}

	deleted := 0
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		created, ok := backupTime(file.Name())
		if !ok || !created.Before(cutoff) {
			continue
		}
		path := filepath.Join(dir, file.Name())
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove old backup '%s': %w", path, err)
		}
		deleted++
	}

	d.logger.Info("backup purge complete", slog.Int("deleted", deleted))
	return nil
}

// backupTime extracts the creation time from a backup file name, local time as written by Backup.
func backupTime(name string) (time.Time, bool) {
	m := backupNameRe.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(backupTimeLayout, m[1], time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
