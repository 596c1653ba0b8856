package gamepads

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/doingharm/go-gamepad-latest/logger"
)

// PollerState is the lifecycle state of a Poller.
type PollerState int32

const (
	PollerIdle PollerState = iota
	PollerRunning
	PollerStopping
	PollerTerminated
)

func (s PollerState) String() string {
	switch s {
	case PollerIdle:
		return "idle"
	case PollerRunning:
		return "running"
	case PollerStopping:
		return "stopping"
	case PollerTerminated:
		return "terminated"
	}
	return "unknown"
}

// FilterFunc is used to filter events before they reach the registry. An event
// is dropped if any filter returns false.
type FilterFunc func(e Event) bool

// Options for a Poller and a Bus.
type Options struct {
	// FetchTimeout is passed to every Source.Fetch() call. A zero value blocks
	// until the source produces an event, which means a stopped poller only
	// notices the stop request once the next batch of events arrives. If the
	// source never produces another event the goroutine lives until the
	// process exits.
	FetchTimeout time.Duration

	// Verbose logs lifecycle changes and every ignored event.
	Verbose bool

	Filters []FilterFunc
}

// PollerStats counts what the poller has seen.
type PollerStats struct {
	Batches  uint64
	Tracked  uint64
	Ignored  uint64
	Filtered uint64
}

// Poller reads batches of events from a Source on its own goroutine. Events
// for tracked codes update the Registry and signal the Mailbox. Events for
// untracked codes are dropped.
type Poller struct {
	source   Source
	registry *Registry
	mailbox  *Mailbox[Signal]
	opts     Options
	perm     logger.Permission

	state   atomic.Int32
	stopped atomic.Bool
	done    chan struct{}

	errLock sync.Mutex
	err     error

	batches  atomic.Uint64
	tracked  atomic.Uint64
	ignored  atomic.Uint64
	filtered atomic.Uint64
}

// NewPoller creates a poller in the idle state.
func NewPoller(src Source, reg *Registry, mb *Mailbox[Signal], opts Options) *Poller {
	return &Poller{
		source:   src,
		registry: reg,
		mailbox:  mb,
		opts:     opts,
		perm:     logger.Verbose(opts.Verbose),
		done:     make(chan struct{}),
	}
}

// Start launches the polling goroutine and returns immediately. A poller can
// only be started once.
func (p *Poller) Start() error {
	if !p.state.CompareAndSwap(int32(PollerIdle), int32(PollerRunning)) {
		return ErrPollerStarted
	}
	p.stopped.Store(false)
	logger.Logf(p.perm, "poller", "started (fetch timeout %v)", p.opts.FetchTimeout)
	go p.run()
	return nil
}

// Stop requests that the polling goroutine ends. It does not interrupt a
// Fetch() that is already in progress, the request is noticed when the fetch
// returns. Use Wait() to join the goroutine.
func (p *Poller) Stop() error {
	if p.State() == PollerIdle {
		return ErrPollerNotStarted
	}
	p.stopped.Store(true)
	if p.state.CompareAndSwap(int32(PollerRunning), int32(PollerStopping)) {
		logger.Log(p.perm, "poller", "stop requested")
	}
	return nil
}

// Wait for the polling goroutine to end. A timeout of zero or less waits
// forever. Returns ErrJoinTimeout if the goroutine is still running when the
// timeout expires.
func (p *Poller) Wait(timeout time.Duration) error {
	if p.State() == PollerIdle {
		return ErrPollerNotStarted
	}

	if timeout <= 0 {
		<-p.done
		return nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-p.done:
		return nil
	case <-timer.C:
		return ErrJoinTimeout
	}
}

// Done is closed when the polling goroutine has ended.
func (p *Poller) Done() <-chan struct{} {
	return p.done
}

// State returns the current lifecycle state.
func (p *Poller) State() PollerState {
	return PollerState(p.state.Load())
}

// Err returns the error that ended the poller. It wraps ErrSourceLost. Nil
// if the poller is still running or was stopped normally.
func (p *Poller) Err() error {
	p.errLock.Lock()
	defer p.errLock.Unlock()
	return p.err
}

// Stats returns a snapshot of the poller's counters.
func (p *Poller) Stats() PollerStats {
	return PollerStats{
		Batches:  p.batches.Load(),
		Tracked:  p.tracked.Load(),
		Ignored:  p.ignored.Load(),
		Filtered: p.filtered.Load(),
	}
}

func (p *Poller) run() {
	defer close(p.done)
	defer p.state.Store(int32(PollerTerminated))

	for {
		if p.stopped.Load() {
			logger.Log(p.perm, "poller", "terminated")
			return
		}

		events, err := p.source.Fetch(p.opts.FetchTimeout)
		if err != nil {
			// an error after a stop request is the source being closed
			// underneath us and is not a loss
			if p.stopped.Load() {
				logger.Logf(p.perm, "poller", "terminated (%v)", err)
				return
			}
			p.lost(err)
			return
		}

		p.batches.Add(1)
		for _, e := range events {
			p.process(e)
		}
	}
}

func (p *Poller) process(e Event) {
	for _, f := range p.opts.Filters {
		if !f(e) {
			p.filtered.Add(1)
			return
		}
	}

	if !p.registry.Update(e.Code, e.State) {
		p.ignored.Add(1)
		logger.Logf(p.perm, "poller", "ignored %s (%d)", e.Code, e.State)
		return
	}

	p.tracked.Add(1)
	p.mailbox.Push(Signal{Code: e.Code})
}

func (p *Poller) lost(err error) {
	err = fmt.Errorf("%w: %w", ErrSourceLost, err)

	p.errLock.Lock()
	p.err = err
	p.errLock.Unlock()

	logger.Log(logger.Allow, "poller", err)
	p.mailbox.Push(Signal{Err: err})
}
