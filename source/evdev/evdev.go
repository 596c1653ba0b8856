// Package evdev reads gamepad events from a Linux event device
// (/dev/input/event*). Events are collected until the kernel's SYN_REPORT and
// handed over as one batch.
package evdev

import (
	"fmt"
	"time"

	gamepads "github.com/doingharm/go-gamepad-latest"
	"github.com/doingharm/go-gamepad-latest/logger"
	"github.com/doingharm/go-gamepad-latest/source"
	evdev "github.com/holoplot/go-evdev"
)

// Source is a gamepads.Source backed by an evdev device.
type Source struct {
	dev  *evdev.InputDevice
	pump *source.Pump
	name string
	path string

	// batch being accumulated. only touched by the pump goroutine
	batch []gamepads.Event
}

// Open the event device at path. If grab is true the device is grabbed so
// that no other process receives its events.
func Open(path string, grab bool) (*Source, error) {
	dev, err := evdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("evdev: %w", err)
	}

	if grab {
		if err := dev.Grab(); err != nil {
			_ = dev.Close()
			return nil, fmt.Errorf("evdev: grab %s: %w", path, err)
		}
	}

	s := &Source{
		dev:  dev,
		path: path,
	}
	s.name, err = dev.Name()
	if err != nil {
		s.name = path
	}
	s.pump = source.NewPump(s.readBatch)

	logger.Logf(logger.Allow, "evdev", "opened %s (%s)", path, s.name)
	return s, nil
}

// Name of the device as reported by the kernel.
func (s *Source) Name() string {
	return s.name
}

// Fetch implements the gamepads.Source interface.
func (s *Source) Fetch(timeout time.Duration) ([]gamepads.Event, error) {
	return s.pump.Fetch(timeout)
}

// Close the device.
func (s *Source) Close() error {
	_ = s.pump.Close()
	return s.dev.Close()
}

func (s *Source) readBatch() ([]gamepads.Event, error) {
	for {
		e, err := s.dev.ReadOne()
		if err != nil {
			return nil, fmt.Errorf("evdev: %s: %w", s.path, err)
		}

		switch e.Type {
		case evdev.EV_SYN:
			switch e.Code {
			case evdev.SYN_REPORT:
				batch := s.batch
				s.batch = nil
				return batch, nil
			case evdev.SYN_DROPPED:
				// the kernel buffer overran. everything up to the next
				// SYN_REPORT is unreliable
				s.batch = s.batch[:0]
			}
		case evdev.EV_KEY, evdev.EV_ABS:
			s.batch = append(s.batch, gamepads.Event{
				Code:  source.Canonical(e.CodeName()),
				State: int(e.Value),
			})
		}
	}
}
