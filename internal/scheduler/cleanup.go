package scheduler

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/SeakMengs/BizCard/internal/config"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// PurgeOlderThan removes direct children of dir last modified before now-ttl.
// Returns the number of removed entries.
func PurgeOlderThan(dir string, ttl time.Duration, now time.Time) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := now.Add(-ttl)
	removed := 0
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			// Removed between ReadDir and Info
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", entry.Name(), err)
		}
		removed++
	}

	return removed, nil
}

// NewCleanupCron schedules the purge of generated cards and stale tmp dirs.
// The caller starts and stops the returned cron.
func NewCleanupCron(cfg config.CleanupConfig, dirs []string, logger *zap.SugaredLogger) (*cron.Cron, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	c := cron.New()
	_, err := c.AddFunc(cfg.Schedule, func() {
		for _, dir := range dirs {
			n, err := PurgeOlderThan(dir, cfg.TTL, time.Now())
			if err != nil {
				logger.Errorf("Cleanup of %s failed: %v", dir, err)
				continue
			}
			if n > 0 {
				logger.Infow("Cleaned up generated files", "dir", dir, "removed", n)
			}
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid cleanup schedule %q: %w", cfg.Schedule, err)
	}

	return c, nil
}
