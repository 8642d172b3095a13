package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"example.com/ferramentas/config"

	"github.com/pkg/errors"
)

// BackupDatabase copies the database file to a timestamped backup in
// the configured backup directory and returns the backup path. Only the
// sqlite driver stores the database as a single local file; postgres
// deployments back up server-side.
func BackupDatabase(dbCfg config.DatabaseConfig, exportCfg config.ExportConfig) (string, error) {
	if dbCfg.Driver == "postgres" {
		return "", errors.New("file backup is only supported for the sqlite driver")
	}

	src, err := os.Open(dbCfg.DSN)
	if err != nil {
		return "", errors.Wrap(err, "failed to open database file")
	}
	defer src.Close()

	timestamp := time.Now().Format("20060102_150405")
	backupPath := filepath.Join(exportCfg.BackupDir, fmt.Sprintf("backup_ferramentas_%s.db", timestamp))

	dst, err := os.Create(backupPath)
	if err != nil {
		return "", errors.Wrap(err, "failed to create backup file")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", errors.Wrap(err, "failed to copy database file")
	}

	return backupPath, nil
}
