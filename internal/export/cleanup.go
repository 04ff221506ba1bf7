package export

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SweepArchiveDir removes export archives in dir older than the
// retention window. Manager.Cleanup only sees jobs of the current
// process; this sweep also reclaims archives orphaned by a restart,
// whose jobs were lost with the in-memory registry.
func SweepArchiveDir(dir string, retention time.Duration, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cutoff := time.Now().Add(-retention)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "benji_") || !strings.HasSuffix(name, ".zip") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}

		path := filepath.Join(dir, name)
		if err := os.Remove(path); err != nil {
			logger.Warn("remove stale archive", "path", path, "error", err)
			continue
		}
		removed++
	}

	if removed > 0 {
		logger.Info("swept stale archives", "dir", dir, "removed", removed)
	}
	return removed, nil
}
