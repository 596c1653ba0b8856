package gamepads

import (
	"errors"
	"time"

	"github.com/doingharm/go-gamepad-latest/logger"
)

// Bus ties a Registry, a Mailbox and a Poller to a single Source.
//
// Commands are registered before Start(). From then on the poller keeps the
// registry current and Read() reports the most recently changed command.
type Bus interface {
	Register(code Code, def int) (err error)
	Unregister(code Code) (err error)
	Value(code Code) (value int, ok bool)
	Codes() (codes []Code)

	Start() (err error)
	Stop() (err error)
	Wait(timeout time.Duration) (err error)
	Err() (err error)
	Stats() (stats PollerStats)

	// Next takes the pending signal from the mailbox.
	Next() (sig Signal, ok bool)

	// Read takes the pending signal and returns the changed code and its
	// current value. ok is false if nothing changed since the last read or if
	// the source has been lost. Check Err() for the latter.
	Read() (code Code, value int, ok bool)
}

type bus struct {
	perm     logger.Permission
	registry *Registry
	mailbox  *Mailbox[Signal]
	poller   *Poller
}

// New creates a bus reading from src. The poller is not started.
func New(src Source, opts Options) Bus {
	b := &bus{
		perm:     logger.Verbose(opts.Verbose),
		registry: NewRegistry(),
		mailbox:  &Mailbox[Signal]{},
	}
	b.poller = NewPoller(src, b.registry, b.mailbox, opts)
	return b
}

func (b *bus) Register(code Code, def int) error {
	err := b.registry.Register(code, def)
	if errors.Is(err, ErrCommandExists) {
		logger.Logf(logger.Allow, "bus", "%s: %v", code, err)
	}
	return err
}

func (b *bus) Unregister(code Code) error {
	err := b.registry.Unregister(code)
	if errors.Is(err, ErrCommandNotFound) {
		logger.Logf(logger.Allow, "bus", "%s: %v", code, err)
	}
	return err
}

func (b *bus) Value(code Code) (int, bool) {
	return b.registry.Value(code)
}

func (b *bus) Codes() []Code {
	return b.registry.Codes()
}

func (b *bus) Start() error {
	logger.Logf(b.perm, "bus", "tracking %d commands", b.registry.Len())
	return b.poller.Start()
}

func (b *bus) Stop() error {
	return b.poller.Stop()
}

func (b *bus) Wait(timeout time.Duration) error {
	return b.poller.Wait(timeout)
}

func (b *bus) Err() error {
	return b.poller.Err()
}

func (b *bus) Stats() PollerStats {
	return b.poller.Stats()
}

func (b *bus) Next() (Signal, bool) {
	return b.mailbox.PopLatest()
}

func (b *bus) Read() (Code, int, bool) {
	sig, ok := b.mailbox.PopLatest()
	if !ok || sig.Lost() {
		return "", 0, false
	}
	v, ok := b.registry.Value(sig.Code)
	if !ok {
		return "", 0, false
	}
	return sig.Code, v, true
}
