package gamepads_test

import (
	"errors"
	"time"

	gamepads "github.com/doingharm/go-gamepad-latest"
)

var errUnplugged = errors.New("device unplugged")

// scriptedSource delivers batches sent on its channel. Closing the channel
// makes Fetch() fail.
type scriptedSource struct {
	batches chan []gamepads.Event
	fetches chan struct{}
}

func newScriptedSource() *scriptedSource {
	return &scriptedSource{
		batches: make(chan []gamepads.Event),
		fetches: make(chan struct{}, 1000),
	}
}

func (s *scriptedSource) Fetch(timeout time.Duration) ([]gamepads.Event, error) {
	select {
	case s.fetches <- struct{}{}:
	default:
	}

	var expire <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expire = timer.C
	}

	select {
	case b, ok := <-s.batches:
		if !ok {
			return nil, errUnplugged
		}
		return b, nil
	case <-expire:
		return nil, nil
	}
}

// send blocks until the poller has taken the batch.
func (s *scriptedSource) send(events ...gamepads.Event) {
	s.batches <- events
}

func ev(code gamepads.Code, state int) gamepads.Event {
	return gamepads.Event{Code: code, State: state}
}
