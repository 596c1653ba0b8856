package source_test

import (
	"errors"
	"testing"
	"time"

	gamepads "github.com/doingharm/go-gamepad-latest"
	"github.com/doingharm/go-gamepad-latest/source"
	"github.com/doingharm/go-gamepad-latest/test"
)

type reader struct {
	batches chan []gamepads.Event
	err     error
}

func (r *reader) read() ([]gamepads.Event, error) {
	b, ok := <-r.batches
	if !ok {
		return nil, r.err
	}
	return b, nil
}

func TestPumpTimeout(t *testing.T) {
	r := &reader{batches: make(chan []gamepads.Event)}
	p := source.NewPump(r.read)

	b, err := p.Fetch(5 * time.Millisecond)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, len(b), 0)

	go func() {
		r.batches <- []gamepads.Event{{Code: "BTN_SOUTH", State: 1}}
	}()
	b, err = p.Fetch(0)
	test.ExpectSuccess(t, err)
	test.DemandEquality(t, len(b), 1)
	test.ExpectEquality(t, b[0], gamepads.Event{Code: "BTN_SOUTH", State: 1})
}

func TestPumpError(t *testing.T) {
	r := &reader{batches: make(chan []gamepads.Event), err: errors.New("no such device")}
	p := source.NewPump(r.read)
	close(r.batches)

	_, err := p.Fetch(0)
	test.ExpectEquality(t, err, r.err)

	// the error is sticky
	_, err = p.Fetch(time.Millisecond)
	test.ExpectEquality(t, err, r.err)
}

func TestPumpClose(t *testing.T) {
	r := &reader{batches: make(chan []gamepads.Event)}
	p := source.NewPump(r.read)

	result := make(chan error)
	go func() {
		_, err := p.Fetch(0)
		result <- err
	}()

	test.ExpectSuccess(t, p.Close())
	test.ExpectSuccess(t, errors.Is(<-result, source.ErrClosed))
	test.ExpectSuccess(t, p.Close())
}
