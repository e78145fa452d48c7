// Package carousel drives the home-page hero rotation: a slide index
// advanced on a fixed interval, with manual navigation resetting the phase.
package carousel

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	// ErrNoSlides indicates construction with an unusable slide count.
	ErrNoSlides = errors.New("carousel: at least one slide is required")
	// ErrInvalidInterval indicates Start was given a non-positive period.
	ErrInvalidInterval = errors.New("carousel: interval must be positive")
	// ErrIndexOutOfRange indicates GoTo was given an index outside the
	// slide range. Callers build indexes from a known-size slide array,
	// so this is rejected rather than clamped.
	ErrIndexOutOfRange = errors.New("carousel: index out of range")
)

// Option configures a Carousel at construction.
type Option func(*Carousel)

// WithOnAdvance registers a callback observing every index change, manual
// or automatic. The callback runs outside the carousel lock.
func WithOnAdvance(fn func(index int)) Option {
	return func(c *Carousel) {
		c.onAdvance = fn
	}
}

// Carousel is a Stopped/Running state machine over a fixed slide count.
// All methods are safe for concurrent use.
type Carousel struct {
	mu        sync.Mutex
	count     int
	index     int
	running   bool
	interval  time.Duration
	ticker    *time.Ticker
	done      chan struct{}
	onAdvance func(int)
}

// New constructs a stopped carousel over count slides, positioned at 0.
func New(count int, opts ...Option) (*Carousel, error) {
	if count < 1 {
		return nil, ErrNoSlides
	}
	c := &Carousel{count: count}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Start begins periodic advancement. Calling Start while already running is
// a no-op so duplicate timers can never stack.
func (c *Carousel) Start(interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidInterval, interval)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	c.running = true
	c.interval = interval
	c.ticker = time.NewTicker(interval)
	c.done = make(chan struct{})

	go c.run(c.ticker, c.done)
	return nil
}

// Stop halts periodic advancement. It is idempotent and must run on every
// teardown path of the consumer.
func (c *Carousel) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return
	}
	c.running = false
	c.ticker.Stop()
	close(c.done)
	c.ticker = nil
	c.done = nil
}

// Next advances one slide, wrapping at the end. When running, the periodic
// phase restarts so a manual move never stacks with a near-simultaneous
// automatic one.
func (c *Carousel) Next() int {
	return c.moveBy(1)
}

// Prev moves one slide back, wrapping at the start.
func (c *Carousel) Prev() int {
	return c.moveBy(-1)
}

// GoTo jumps directly to the given slide.
func (c *Carousel) GoTo(index int) error {
	c.mu.Lock()
	if index < 0 || index >= c.count {
		c.mu.Unlock()
		return fmt.Errorf("%w: %d of %d slides", ErrIndexOutOfRange, index, c.count)
	}
	c.index = index
	c.resetPhaseLocked()
	cb := c.onAdvance
	c.mu.Unlock()

	if cb != nil {
		cb(index)
	}
	return nil
}

// Index returns the current slide position.
func (c *Carousel) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Running reports whether periodic advancement is active.
func (c *Carousel) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *Carousel) moveBy(delta int) int {
	c.mu.Lock()
	c.index = (c.index + delta + c.count) % c.count
	c.resetPhaseLocked()
	index := c.index
	cb := c.onAdvance
	c.mu.Unlock()

	if cb != nil {
		cb(index)
	}
	return index
}

func (c *Carousel) resetPhaseLocked() {
	if c.running && c.ticker != nil {
		c.ticker.Reset(c.interval)
	}
}

// run consumes ticks until the carousel is stopped. The ticker and done
// channel are captured per Start so a stale goroutine from a previous run
// can never advance a restarted carousel.
func (c *Carousel) run(ticker *time.Ticker, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			c.autoAdvance(done)
		}
	}
}

func (c *Carousel) autoAdvance(done chan struct{}) {
	c.mu.Lock()
	if !c.running || c.done != done {
		c.mu.Unlock()
		return
	}
	c.index = (c.index + 1) % c.count
	index := c.index
	cb := c.onAdvance
	c.mu.Unlock()

	if cb != nil {
		cb(index)
	}
}
