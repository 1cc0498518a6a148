package worksession

import (
	"context"
	"sync"
	"time"
)

// Ticker is a cancellable periodic tick bound to an open session.
type Ticker struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// StartTicker calls fn every interval while state is CheckedIn. For any other
// state the returned Ticker is already stopped. The ticker stops when ctx is
// cancelled or Stop is called.
func StartTicker(ctx context.Context, state State, interval time.Duration, fn func(now time.Time)) *Ticker {
	t := &Ticker{done: make(chan struct{})}
	if state != CheckedIn || interval <= 0 {
		t.cancel = func() {}
		close(t.done)
		return t
	}

	ctx, t.cancel = context.WithCancel(ctx)
	go func() {
		defer close(t.done)
		tk := time.NewTicker(interval)
		defer tk.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-tk.C:
				fn(now)
			}
		}
	}()
	return t
}

// Stop cancels the ticker and waits for the tick loop to exit. Safe to call
// more than once and from multiple goroutines, but not from inside fn.
func (t *Ticker) Stop() {
	if t == nil {
		return
	}
	t.once.Do(t.cancel)
	<-t.done
}
