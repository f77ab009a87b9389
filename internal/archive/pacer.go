package archive

import (
	"sync"
	"time"
)

// pacer enforces a minimum interval between requests to one archive. Each
// client owns its own pacer; archives never share a pacing budget.
type pacer struct {
	interval time.Duration
	now      func() time.Time
	sleep    func(time.Duration)

	mu   sync.Mutex
	last time.Time
}

func newPacer(interval time.Duration) *pacer {
	return &pacer{
		interval: interval,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// Wait blocks until at least the configured interval has elapsed since the
// previous call on this pacer, then records the new request time.
func (p *pacer) Wait() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.last.IsZero() {
		elapsed := p.now().Sub(p.last)
		if elapsed < p.interval {
			p.sleep(p.interval - elapsed)
		}
	}
	p.last = p.now()
}
