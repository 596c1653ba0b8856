package gamepads

import (
	"context"
	"errors"
	"time"

	"github.com/doingharm/go-gamepad-latest/logger"
)

// Handler is called with a command code and its current value.
type Handler func(code Code, value int)

// Input is the consumer side of a Bus, as used by the Dispatcher.
type Input interface {
	Next() (sig Signal, ok bool)
	Value(code Code) (value int, ok bool)
	Stop() (err error)
	Wait(timeout time.Duration) (err error)
}

// DispatcherOptions configure a Dispatcher.
type DispatcherOptions struct {
	// Interval between polls of the mailbox. A shorter interval lowers input
	// latency at the cost of CPU time. Defaults to DefaultInterval.
	Interval time.Duration

	// JoinTimeout bounds how long Run() waits for the poller to end after
	// stopping it. Zero does not wait at all.
	JoinTimeout time.Duration

	// Shutdown is the command that ends Run(). An empty code disables it.
	Shutdown Code

	Verbose bool
}

// DefaultInterval is the polling interval used when none is specified.
const DefaultInterval = 10 * time.Millisecond

// Dispatcher routes the most recently changed command to its handler.
//
// Handlers must be installed before Run() is called.
type Dispatcher struct {
	input    Input
	opts     DispatcherOptions
	perm     logger.Permission
	handlers map[Code]Handler
	fallback Handler
}

// NewDispatcher creates a dispatcher for input.
func NewDispatcher(input Input, opts DispatcherOptions) *Dispatcher {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	return &Dispatcher{
		input:    input,
		opts:     opts,
		perm:     logger.Verbose(opts.Verbose),
		handlers: make(map[Code]Handler),
	}
}

// Handle installs the handler for code, replacing any existing handler.
func (d *Dispatcher) Handle(code Code, h Handler) {
	d.handlers[code] = h
}

// HandleDefault installs the handler for codes with no specific handler.
func (d *Dispatcher) HandleDefault(h Handler) {
	d.fallback = h
}

// Run polls the input until the shutdown command arrives, the context is
// cancelled or the event source is lost. In each case the poller is stopped
// and joined, bounded by JoinTimeout.
//
// Returns the error that ended the poller if the source was lost, and
// ErrJoinTimeout if the poller did not end in time. Otherwise nil.
func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.opts.Interval)
	defer ticker.Stop()

	for {
		if sig, ok := d.input.Next(); ok {
			if sig.Lost() {
				logger.Log(logger.Allow, "dispatcher", sig.Err)
				_ = d.input.Stop()
				return sig.Err
			}

			if d.dispatch(sig.Code) {
				logger.Logf(d.perm, "dispatcher", "shutdown by %s", sig.Code)
				return d.stop()
			}
		}

		select {
		case <-ctx.Done():
			logger.Logf(d.perm, "dispatcher", "shutdown (%v)", ctx.Err())
			return d.stop()
		case <-ticker.C:
		}
	}
}

// dispatch calls the handler for code. Returns true if code is the shutdown
// command.
func (d *Dispatcher) dispatch(code Code) bool {
	v, ok := d.input.Value(code)
	if !ok {
		// unregistered since it was signalled
		logger.Logf(d.perm, "dispatcher", "%s no longer tracked", code)
		return false
	}

	if h, ok := d.handlers[code]; ok {
		h(code, v)
	} else if d.fallback != nil {
		d.fallback(code, v)
	}

	return d.opts.Shutdown != "" && code == d.opts.Shutdown
}

func (d *Dispatcher) stop() error {
	if err := d.input.Stop(); err != nil && !errors.Is(err, ErrPollerNotStarted) {
		return err
	}
	if d.opts.JoinTimeout <= 0 {
		return nil
	}
	err := d.input.Wait(d.opts.JoinTimeout)
	if errors.Is(err, ErrPollerNotStarted) {
		return nil
	}
	if errors.Is(err, ErrJoinTimeout) {
		logger.Log(logger.Allow, "dispatcher", "poller still blocked in fetch")
	}
	return err
}
