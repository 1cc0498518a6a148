package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCloser struct {
	calls  atomic.Int32
	closed int
	err    error
}

func (f *fakeCloser) CloseStaleSessions(context.Context) (int, error) {
	f.calls.Add(1)
	return f.closed, f.err
}

func TestAttendanceJobs_CloseStaleSessions(t *testing.T) {
	tests := []struct {
		name    string
		closer  *fakeCloser
		wantErr bool
	}{
		{name: "nothing to close", closer: &fakeCloser{}},
		{name: "closes sessions", closer: &fakeCloser{closed: 3}},
		{name: "propagates errors", closer: &fakeCloser{err: errors.New("db down")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewAttendanceJobs(tt.closer, time.Hour).CloseStaleSessions(context.Background())
			if tt.wantErr {
				assert.ErrorContains(t, err, "db down")
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, int32(1), tt.closer.calls.Load())
		})
	}
}

func TestScheduler_RunsImmediatelyAndOnInterval(t *testing.T) {
	closer := &fakeCloser{}
	s := NewScheduler()
	NewAttendanceJobs(closer, 10*time.Millisecond).RegisterJobs(s)

	s.Start()
	require.Eventually(t, func() bool { return closer.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	s.Stop()

	after := closer.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, closer.calls.Load(), "no runs after Stop")
}

func TestScheduler_RunOnce(t *testing.T) {
	closer := &fakeCloser{err: errors.New("boom")}
	s := NewScheduler()
	NewAttendanceJobs(closer, time.Hour).RegisterJobs(s)

	s.RunOnce(context.Background())
	assert.Equal(t, int32(1), closer.calls.Load())
}
