// Package joystick reads events from the Linux joystick API (/dev/input/js*).
//
// Axis and button numbers are translated to evdev code names using the
// mapping reported by the driver, so that commands are named the same way
// regardless of which interface the gamepad is read through.
package joystick

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"
	"unsafe"

	gamepads "github.com/doingharm/go-gamepad-latest"
	"github.com/doingharm/go-gamepad-latest/logger"
	"github.com/doingharm/go-gamepad-latest/source"
	evdev "github.com/holoplot/go-evdev"
	"golang.org/x/sys/unix"
)

const (
	jsName       = 0x80006a13 + (128 << 16)
	jsAxes       = 0x80016a11 /* get number of axes */
	jsButtons    = 0x80016a12
	jsVersion    = 0x80046a01
	jsAxesMap    = 0x80406a32
	jsButtonsMap = 0x80406a34
)

// struct js_event
const eventSize = 8

const (
	eventButton = 0x01
	eventAxis   = 0x02
	eventInit   = 0x80
)

// ErrDisconnected is returned by Fetch() when the device goes away.
var ErrDisconnected = errors.New("joystick disconnected")

// Info describes an open joystick.
type Info struct {
	Path    string
	Model   string
	Version int32
	Axes    []gamepads.Code
	Buttons []gamepads.Code
}

// Source is a gamepads.Source backed by a joystick device.
type Source struct {
	fd   int
	info Info

	// set when the driver's initial state events should be forwarded
	initial bool

	buf [64 * eventSize]byte
}

// Open the joystick at path. If initial is true the synthetic events the
// driver sends on open, describing the state of every axis and button, are
// passed on like any other event.
func Open(path string, initial bool) (*Source, error) {
	fd, err := openPersistent(path)
	if err != nil {
		return nil, fmt.Errorf("joystick: %w", err)
	}

	s := &Source{
		fd:      fd,
		initial: initial,
	}
	s.info, err = probe(fd, path)
	if err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("joystick: %s: %w", path, err)
	}

	logger.Logf(logger.Allow, "joystick", "opened %s (%s, %d axes, %d buttons)",
		path, s.info.Model, len(s.info.Axes), len(s.info.Buttons))
	return s, nil
}

func probe(fd int, path string) (Info, error) {
	var (
		name       string
		axes       uint8
		buttons    uint8
		version    int32
		axesMap    [64]uint8
		buttonsMap [768]uint16
	)

	if err := ioctlStr(fd, jsName, &name); err != nil {
		return Info{}, err
	}
	if err := ioctl(fd, jsAxes, unsafe.Pointer(&axes)); err != nil {
		return Info{}, err
	}
	if err := ioctl(fd, jsButtons, unsafe.Pointer(&buttons)); err != nil {
		return Info{}, err
	}
	if err := ioctl(fd, jsVersion, unsafe.Pointer(&version)); err != nil {
		return Info{}, err
	}
	if err := ioctl(fd, jsAxesMap, unsafe.Pointer(&axesMap)); err != nil {
		return Info{}, err
	}
	if err := ioctl(fd, jsButtonsMap, unsafe.Pointer(&buttonsMap)); err != nil {
		return Info{}, err
	}

	info := Info{
		Path:    path,
		Model:   name,
		Version: version,
	}
	for _, a := range axesMap[:axes] {
		info.Axes = append(info.Axes, codeName(evdev.EV_ABS, uint16(a)))
	}
	for _, b := range buttonsMap[:buttons] {
		info.Buttons = append(info.Buttons, codeName(evdev.EV_KEY, b))
	}
	return info, nil
}

func codeName(t evdev.EvType, code uint16) gamepads.Code {
	e := evdev.InputEvent{Type: t, Code: evdev.EvCode(code)}
	return source.Canonical(e.CodeName())
}

// Info returns a description of the joystick.
func (s *Source) Info() Info {
	return s.info
}

// Fetch implements the gamepads.Source interface. The wait is done with
// poll(2) so a timeout does not need an extra goroutine.
func (s *Source) Fetch(timeout time.Duration) ([]gamepads.Event, error) {
	ms := -1
	if timeout > 0 {
		ms = max(1, int(timeout/time.Millisecond))
	}

	fds := []unix.PollFd{{Fd: int32(s.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, ms)
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return nil, nil
		}
		return nil, fmt.Errorf("joystick: poll: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	if fds[0].Revents&(unix.POLLERR|unix.POLLHUP|unix.POLLNVAL) != 0 {
		return nil, ErrDisconnected
	}

	n, err = unix.Read(s.fd, s.buf[:])
	if err != nil {
		if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
			return nil, nil
		}
		if errors.Is(err, unix.ENODEV) {
			return nil, ErrDisconnected
		}
		return nil, fmt.Errorf("joystick: read: %w", err)
	}
	if n == 0 {
		return nil, ErrDisconnected
	}

	return s.decode(s.buf[:n-n%eventSize]), nil
}

func (s *Source) decode(buf []byte) []gamepads.Event {
	events := make([]gamepads.Event, 0, len(buf)/eventSize)
	for ; len(buf) >= eventSize; buf = buf[eventSize:] {
		value := int16(binary.LittleEndian.Uint16(buf[4:6]))
		typ := buf[6]
		number := int(buf[7])

		if typ&eventInit != 0 && !s.initial {
			continue
		}

		var code gamepads.Code
		switch typ &^ eventInit {
		case eventButton:
			if number >= len(s.info.Buttons) {
				continue
			}
			code = s.info.Buttons[number]
		case eventAxis:
			if number >= len(s.info.Axes) {
				continue
			}
			code = s.info.Axes[number]
		default:
			continue
		}

		events = append(events, gamepads.Event{Code: code, State: int(value)})
	}
	return events
}

// Close the device.
func (s *Source) Close() error {
	return unix.Close(s.fd)
}
