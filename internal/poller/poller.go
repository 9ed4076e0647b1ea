// Package poller implements the refresh scheduler (spec.md §4.7): an
// immediate first callback, then jittered-interval reschedules with
// exponential backoff on failure. The goroutine/select/closer-channel
// structure is grounded on events/event_publisher.go's flush loop (a ticker
// replaced here by a timer, since each interval's delay changes with the
// backoff state rather than staying fixed).
package poller

import (
	"math/rand"
	"sync"
	"time"

	"github.com/Eppo-exp/eppo-go-sdk/eppolog"
)

const defaultMaxConsecutiveFailures = 7

// Callback is invoked on every poll tick. A non-nil error counts as a
// failure toward the consecutive-failure backoff and stop threshold.
type Callback func() error

// Poller runs Callback on an immediate-then-jittered-interval schedule with
// exponential backoff on failure (spec.md §4.7).
type Poller struct {
	intervalMs             int64
	jitterMs               int64
	maxConsecutiveFailures int
	callback               Callback
	logger                 eppolog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	closer  chan struct{}
	stopped bool
	wg      sync.WaitGroup
}

// Option configures a Poller at construction.
type Option func(*Poller)

// WithMaxConsecutiveFailures overrides the default of 7 (spec.md §4.7).
func WithMaxConsecutiveFailures(n int) Option {
	return func(p *Poller) { p.maxConsecutiveFailures = n }
}

// WithLogger sets the Poller's operational logger.
func WithLogger(logger eppolog.Logger) Option {
	return func(p *Poller) { p.logger = logger }
}

// New builds a Poller with the given base interval, jitter bound, and
// callback. The poller does not start until Start is called.
func New(intervalMs, jitterMs int64, callback Callback, opts ...Option) *Poller {
	p := &Poller{
		intervalMs:             intervalMs,
		jitterMs:               jitterMs,
		maxConsecutiveFailures: defaultMaxConsecutiveFailures,
		callback:               callback,
		logger:                 eppolog.Noop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start fires the callback immediately, then schedules subsequent
// invocations at intervalMs + uniform_random(0, jitterMs), doubling the
// delay on failure and resetting to the base interval on success. It stops
// itself after maxConsecutiveFailures consecutive failures.
func (p *Poller) Start() {
	p.mu.Lock()
	if p.closer != nil {
		p.mu.Unlock()
		return
	}
	p.closer = make(chan struct{})
	closer := p.closer
	p.stopped = false
	p.mu.Unlock()

	p.wg.Add(1)
	go p.run(closer)
}

// Stop halts the polling loop. It is idempotent and safe to call from any
// goroutine, including concurrently with Start.
func (p *Poller) Stop() {
	p.mu.Lock()
	if p.closer == nil || p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.closer)
	if p.timer != nil {
		p.timer.Stop()
	}
	p.mu.Unlock()
	p.wg.Wait()

	p.mu.Lock()
	p.closer = nil
	p.mu.Unlock()
}

func (p *Poller) run(closer chan struct{}) {
	defer p.wg.Done()

	consecutiveFailures := 0
	nextDelay := time.Duration(p.intervalMs) * time.Millisecond

	for {
		if err := p.callback(); err != nil {
			consecutiveFailures++
			p.logger.Warnf("eppo: poll callback failed (%d consecutive): %v", consecutiveFailures, err)
			if consecutiveFailures >= p.maxConsecutiveFailures {
				p.logger.Errorf("eppo: poller stopping after %d consecutive failures", consecutiveFailures)
				return
			}
			nextDelay *= 2
		} else {
			consecutiveFailures = 0
			nextDelay = time.Duration(p.intervalMs) * time.Millisecond
		}

		wait := nextDelay + jitter(p.jitterMs)

		p.mu.Lock()
		if p.stopped {
			p.mu.Unlock()
			return
		}
		p.timer = time.NewTimer(wait)
		timer := p.timer
		p.mu.Unlock()

		select {
		case <-timer.C:
		case <-closer:
			timer.Stop()
			return
		}
	}
}

func jitter(jitterMs int64) time.Duration {
	if jitterMs <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(jitterMs)) * time.Millisecond
}
