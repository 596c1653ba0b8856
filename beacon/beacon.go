// Package beacon switches an indicator on a GPIO pin to follow a command
// value. Any non-zero value drives the pin high.
package beacon

import (
	"fmt"
	"sync"

	gamepads "github.com/doingharm/go-gamepad-latest"
	"github.com/doingharm/go-gamepad-latest/logger"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Pin is the part of gpio.PinOut used by the beacon.
type Pin interface {
	Out(l gpio.Level) error
	Name() string
}

// Beacon drives a single output pin.
type Beacon struct {
	mu  sync.Mutex
	pin Pin
	on  bool
}

// Open initialises the host drivers and looks up the named pin, eg. "GPIO17".
func Open(name string) (*Beacon, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("beacon: %w", err)
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("beacon: no such pin (%s)", name)
	}
	return New(p)
}

// New returns a beacon for pin. The pin is driven low.
func New(pin Pin) (*Beacon, error) {
	if err := pin.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("beacon: %s: %w", pin.Name(), err)
	}
	return &Beacon{pin: pin}, nil
}

// On returns true if the beacon is lit.
func (b *Beacon) On() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.on
}

// Handle is a gamepads.Handler.
func (b *Beacon) Handle(code gamepads.Code, value int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	on := value != 0
	l := gpio.Low
	if on {
		l = gpio.High
	}
	if err := b.pin.Out(l); err != nil {
		logger.Logf(logger.Allow, "beacon", "%s: %v", b.pin.Name(), err)
		return
	}
	b.on = on
	logger.Logf(logger.Allow, "beacon", "%s -> %s (%s)", code, l, b.pin.Name())
}

// Close drives the pin low.
func (b *Beacon) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.on = false
	return b.pin.Out(gpio.Low)
}
