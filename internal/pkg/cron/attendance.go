package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// SessionCloser closes check-ins left open from earlier days.
type SessionCloser interface {
	CloseStaleSessions(ctx context.Context) (int, error)
}

type AttendanceJobs struct {
	closer   SessionCloser
	interval time.Duration
}

func NewAttendanceJobs(closer SessionCloser, interval time.Duration) *AttendanceJobs {
	return &AttendanceJobs{closer: closer, interval: interval}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("close_stale_sessions", j.interval, j.CloseStaleSessions)
}

func (j *AttendanceJobs) CloseStaleSessions(ctx context.Context) error {
	closed, err := j.closer.CloseStaleSessions(ctx)
	if err != nil {
		return fmt.Errorf("failed to close stale sessions: %w", err)
	}
	if closed > 0 {
		slog.Info("Cron: auto-closed stale sessions", "count", closed)
	}
	return nil
}
