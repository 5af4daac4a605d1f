package job

import (
	"context"
	"time"

	"github.com/chichamlab/chicham/internal/store"
	"github.com/sirupsen/logrus"
)

// UsageRetention prunes usage log entries older than the retention window.
// The application treats the log as append-only; this job is the one
// collaborator allowed to remove rows.
type UsageRetention struct {
	store     store.Store
	retention time.Duration
	schedule  string
}

func NewUsageRetention(store store.Store, retentionDays int) *UsageRetention {
	return &UsageRetention{
		store:     store,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		schedule:  "@daily",
	}
}

func (u *UsageRetention) Schedule() string {
	return u.schedule
}

func (u *UsageRetention) Run() {
	cutoff := time.Now().Add(-u.retention)

	removed, err := u.store.DeleteUsageBefore(context.Background(), cutoff)
	if err != nil {
		logrus.Errorf("usage retention failed: %v", err)
		return
	}
	if removed > 0 {
		logrus.Infof("usage retention removed %d entries older than %s", removed, cutoff.Format(time.RFC3339))
	}
}
