package server

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// progressInterval is how often a running request reports that it is still going.
const progressInterval = 5 * time.Second

// Elapsed tracks one request's running time. While running it logs a progress
// line every interval; Stop ends the ticker and is safe to call more than once.
type Elapsed struct {
	start  time.Time
	cancel context.CancelFunc
	done   chan struct{}

	once    sync.Once
	elapsed time.Duration
}

// StartElapsed begins tracking op. The ticker also stops when ctx ends.
func StartElapsed(ctx context.Context, logger *slog.Logger, op string, interval time.Duration) *Elapsed {
	ctx, cancel := context.WithCancel(ctx)
	e := &Elapsed{start: time.Now(), cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(e.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				logger.Info("request in progress", "op", op, "elapsed", time.Since(e.start).Round(time.Second))
			}
		}
	}()
	return e
}

// Stop halts the ticker and returns the time since start, fixed at the first call.
func (e *Elapsed) Stop() time.Duration {
	e.once.Do(func() {
		e.elapsed = time.Since(e.start)
		e.cancel()
		<-e.done
	})
	return e.elapsed
}
