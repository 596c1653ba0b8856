// Package source contains helpers shared by the event source implementations
// in the sub-packages.
package source

import (
	"errors"
	"sync"
	"time"

	gamepads "github.com/doingharm/go-gamepad-latest"
)

// ErrClosed is returned by Fetch() once the pump has been closed.
var ErrClosed = errors.New("source closed")

// ReadFunc performs one blocking read and returns a batch of events.
type ReadFunc func() ([]gamepads.Event, error)

// Pump turns a blocking ReadFunc into a gamepads.Source that supports a fetch
// timeout. The ReadFunc runs on its own goroutine, started by the first call
// to Fetch(), and hands batches over on a channel. At most one batch is read
// ahead of the consumer.
type Pump struct {
	read    ReadFunc
	batches chan []gamepads.Event
	quit    chan struct{}
	done    chan struct{}

	start     sync.Once
	closeOnce sync.Once
	err       error
}

// NewPump returns a pump for read.
func NewPump(read ReadFunc) *Pump {
	return &Pump{
		read:    read,
		batches: make(chan []gamepads.Event),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (p *Pump) run() {
	defer close(p.done)
	for {
		batch, err := p.read()
		if err != nil {
			p.err = err
			return
		}
		select {
		case p.batches <- batch:
		case <-p.quit:
			p.err = ErrClosed
			return
		}
	}
}

// Fetch implements the gamepads.Source interface.
func (p *Pump) Fetch(timeout time.Duration) ([]gamepads.Event, error) {
	p.start.Do(func() {
		go p.run()
	})

	var expire <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expire = timer.C
	}

	select {
	case b := <-p.batches:
		return b, nil
	case <-p.done:
		return nil, p.err
	case <-p.quit:
		return nil, ErrClosed
	case <-expire:
		return nil, nil
	}
}

// Close stops handing over batches. A ReadFunc that is blocked is not
// interrupted; the owner of the underlying device should close it too.
func (p *Pump) Close() error {
	p.closeOnce.Do(func() {
		close(p.quit)
	})
	return nil
}
