package alarm

import (
	"context"
	"sync"
	"time"
)

// DefaultPollInterval is how often the stored reminders are re-read.
const DefaultPollInterval = 15 * time.Second

// poller calls tick on a fixed interval until stopped.
type poller struct {
	mu       sync.Mutex
	tick     func()
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

func newPoller(interval time.Duration, tick func()) *poller {
	return &poller{interval: interval, tick: tick}
}

// Start begins the polling loop. Calling Start on a running poller is a
// no-op.
func (p *poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	ctx, p.cancel = context.WithCancel(ctx)
	done := make(chan struct{})
	p.done = done

	go func() {
		defer close(done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.tick()
			}
		}
	}()
}

// Stop ends the loop and waits for an in-flight tick to finish.
func (p *poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	done := p.done
	p.cancel = nil
	p.done = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (p *poller) running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}
