// Package term reads key presses from a terminal and turns them into gamepad
// events. It is useful for driving a controller program without a gamepad.
package term

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	gamepads "github.com/doingharm/go-gamepad-latest"
	"github.com/doingharm/go-gamepad-latest/logger"
	"github.com/doingharm/go-gamepad-latest/source"
	"github.com/pkg/term"
)

// DefaultDevice is the controlling terminal.
const DefaultDevice = "/dev/tty"

// how often the reading goroutine wakes to check whether the source has been
// closed
const readTimeout = 100 * time.Millisecond

// Source is a gamepads.Source reading from a terminal in raw mode.
type Source struct {
	t      *term.Term
	pump   *source.Pump
	tr     *translator
	closed atomic.Bool
	buf    [64]byte
}

// Open the terminal device and put it into raw mode. The previous mode is
// restored by Close().
func Open(device string, bindings Bindings) (*Source, error) {
	t, err := term.Open(device, term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("term: %w", err)
	}
	if err := t.SetReadTimeout(readTimeout); err != nil {
		_ = t.Restore()
		_ = t.Close()
		return nil, fmt.Errorf("term: %w", err)
	}

	s := &Source{
		t:  t,
		tr: newTranslator(bindings),
	}
	s.pump = source.NewPump(s.readKeys)

	logger.Logf(logger.Allow, "term", "reading keys from %s", device)
	return s, nil
}

// Fetch implements the gamepads.Source interface.
func (s *Source) Fetch(timeout time.Duration) ([]gamepads.Event, error) {
	return s.pump.Fetch(timeout)
}

// readKeys blocks until a bound key is pressed.
func (s *Source) readKeys() ([]gamepads.Event, error) {
	for {
		if s.closed.Load() {
			return nil, source.ErrClosed
		}

		n, err := s.t.Read(s.buf[:])
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("term: %w", err)
		}
		if n == 0 {
			continue
		}

		events := s.tr.events(decodeKeys(s.buf[:n]))
		if len(events) > 0 {
			return events, nil
		}
	}
}

// Close restores the terminal mode and closes the device.
func (s *Source) Close() error {
	s.closed.Store(true)
	_ = s.pump.Close()
	err := s.t.Restore()
	if cerr := s.t.Close(); err == nil {
		err = cerr
	}
	return err
}
