package dataset

import (
	"context"
	"sync"
	"time"

	"github.com/verte-zerg/courtside/internal/logger"
)

// UpdateKind tells data updates from failed polls.
type UpdateKind string

const (
	UpdateData  UpdateKind = "data_update"
	UpdateError UpdateKind = "error"
)

// DefaultPollInterval is used when Poll gets a non-positive interval.
const DefaultPollInterval = 30 * time.Second

// Update is delivered once per poll.
type Update struct {
	Kind UpdateKind
	Data Data
	Err  error
	At   time.Time
}

// Watch polls the source without the cache every interval.
func (l *Loader) Watch(ctx context.Context, interval time.Duration, fn func(Update)) (stop func()) {
	return Poll(ctx, ProviderFunc(l.Refresh), interval, fn)
}

// Poll calls p.Load every interval and hands the outcome to fn. The first
// poll happens after one interval. The returned stop func cancels polling
// and waits for an in-flight poll to finish.
func Poll(ctx context.Context, p Provider, interval time.Duration, fn func(Update)) (stop func()) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	log := logger.WithComponent("watch")

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		log.WithField("interval", interval.String()).Debug("subscribed to updates")
		for {
			select {
			case <-ctx.Done():
				log.Debug("unsubscribed from updates")
				return
			case <-ticker.C:
				data, err := p.Load(ctx)
				if ctx.Err() != nil {
					return
				}
				if err != nil {
					log.WithError(err).Warn("poll failed")
					fn(Update{Kind: UpdateError, Err: err, At: time.Now()})
					continue
				}
				fn(Update{Kind: UpdateData, Data: data, At: time.Now()})
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}
