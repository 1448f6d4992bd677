// Package poller runs a fetch function on a fixed interval and keeps the
// latest result for readers.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/Giri-Aayush/sui-faucet-console/internal/metrics"
	"go.uber.org/zap"
)

// DefaultInterval is used when Options.Interval is not positive
const DefaultInterval = 30 * time.Second

// FetchFunc produces one snapshot
type FetchFunc[T any] func(ctx context.Context) (T, error)

// State is what readers see. Data survives failed cycles; HasData is false
// only until the first successful fetch.
type State[T any] struct {
	Data      T
	HasData   bool
	Loading   bool
	Err       error
	UpdatedAt time.Time
}

// Options configures a Poller
type Options struct {
	Name     string // feed label for logs and metrics
	Interval time.Duration
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
}

// Poller owns one goroutine that fetches on start, on every tick and on
// Refresh. Cycles never overlap.
type Poller[T any] struct {
	name     string
	interval time.Duration
	fetch    FetchFunc[T]
	logger   *zap.Logger
	metrics  *metrics.Metrics

	cycleMu sync.Mutex

	mu      sync.RWMutex
	state   State[T]
	subs    map[int]chan State[T]
	nextSub int
	cancel  context.CancelFunc
	done    chan struct{}

	refresh chan struct{}
}

// New creates a stopped poller
func New[T any](fetch FetchFunc[T], opts Options) *Poller[T] {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Name == "" {
		opts.Name = "poller"
	}

	return &Poller[T]{
		name:     opts.Name,
		interval: opts.Interval,
		fetch:    fetch,
		logger:   opts.Logger.With(zap.String("feed", opts.Name)),
		metrics:  opts.Metrics,
		subs:     make(map[int]chan State[T]),
		refresh:  make(chan struct{}, 1),
	}
}

// Start launches the polling loop. It is a no-op while already running.
func (p *Poller[T]) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})

	go p.run(ctx, p.done)
}

// Stop ends the loop and waits for it to exit. An in-flight fetch is
// cancelled through its context.
func (p *Poller[T]) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Refresh asks the loop for an out-of-band cycle without waiting for it.
// Requests made while one is already pending are merged.
func (p *Poller[T]) Refresh() {
	select {
	case p.refresh <- struct{}{}:
	default:
	}
}

// RunOnce runs a single cycle on the caller's goroutine and returns the
// resulting state
func (p *Poller[T]) RunOnce(ctx context.Context) State[T] {
	return p.cycle(ctx)
}

// State returns the current state
func (p *Poller[T]) State() State[T] {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Subscribe returns a channel that always holds the most recent state
// change. Slow readers skip intermediate states. Call the returned func to
// unsubscribe; it closes the channel.
func (p *Poller[T]) Subscribe() (<-chan State[T], func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextSub
	p.nextSub++
	ch := make(chan State[T], 1)
	p.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			delete(p.subs, id)
			close(ch)
		})
	}
}

func (p *Poller[T]) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.cycle(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.cycle(ctx)
		case <-p.refresh:
			p.cycle(ctx)
		}
	}
}

func (p *Poller[T]) cycle(ctx context.Context) State[T] {
	p.cycleMu.Lock()
	defer p.cycleMu.Unlock()

	p.update(func(s *State[T]) { s.Loading = true })

	start := time.Now()
	data, err := p.fetch(ctx)

	if err != nil && ctx.Err() != nil {
		// stopped mid-flight: keep the last settled state
		p.logger.Debug("Poll cycle cancelled", zap.Error(err))
		return p.update(func(s *State[T]) { s.Loading = false })
	}

	result := "success"
	if err != nil {
		result = "error"
		p.logger.Error("Poll cycle failed",
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
	} else {
		p.logger.Debug("Poll cycle completed", zap.Duration("duration", time.Since(start)))
	}
	if p.metrics != nil {
		p.metrics.PollCycles.WithLabelValues(p.name, result).Inc()
	}

	return p.update(func(s *State[T]) {
		s.Loading = false
		s.UpdatedAt = time.Now()
		if err != nil {
			s.Err = err
			return
		}
		s.Data = data
		s.HasData = true
		s.Err = nil
	})
}

// update mutates the state under lock and publishes the result
func (p *Poller[T]) update(fn func(s *State[T])) State[T] {
	p.mu.Lock()
	defer p.mu.Unlock()

	fn(&p.state)
	snapshot := p.state
	for _, ch := range p.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snapshot:
		default:
		}
	}
	return snapshot
}
