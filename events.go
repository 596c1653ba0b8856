package gamepads

import "time"

// Code identifies a tracked axis or button, e.g. "ABS_X" or "BTN_SOUTH".
type Code string

// Event is a single raw input reading produced by a Source.
type Event struct {
	Code  Code `json:"code"`
	State int  `json:"state"`
}

// Source is a blocking provider of raw input events.
//
// Fetch blocks until at least one event is available. A zero timeout waits
// indefinitely. A positive timeout returns an empty batch and a nil error once
// it expires. Any error is treated as the loss of the source.
type Source interface {
	Fetch(timeout time.Duration) ([]Event, error)
}

// Signal is a mailbox entry. It names the code whose value changed, or carries
// the error that ended the poller.
type Signal struct {
	Code Code
	Err  error
}

// Lost returns true if the signal reports the loss of the event source.
func (s Signal) Lost() bool {
	return s.Err != nil
}
