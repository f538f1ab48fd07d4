package crawler

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// pacer keeps at least delay between the end of one fetch and the start of
// the next, however long the fetch itself took.
type pacer struct {
	delay   time.Duration
	limiter *rate.Limiter
}

func newPacer(delay time.Duration) *pacer {
	return &pacer{delay: delay, limiter: rate.NewLimiter(rate.Inf, 1)}
}

// wait blocks until the next fetch may start
func (p *pacer) wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// done restarts the pause from now. The fresh limiter's only token is spent
// immediately, so the next one becomes available after delay.
func (p *pacer) done() {
	if p.delay <= 0 {
		return
	}
	p.limiter = rate.NewLimiter(rate.Every(p.delay), 1)
	p.limiter.Allow()
}
