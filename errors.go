package gamepads

import "errors"

var (
	ErrCommandExists    = errors.New("command already exists")
	ErrCommandNotFound  = errors.New("command not found")
	ErrPollerStarted    = errors.New("poller already started")
	ErrPollerNotStarted = errors.New("poller not started")
	ErrJoinTimeout      = errors.New("timed out waiting for poller to stop")
	ErrSourceLost       = errors.New("event source lost")
)
