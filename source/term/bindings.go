package term

import gamepads "github.com/doingharm/go-gamepad-latest"

// Binding is the event produced by a key. Terminals do not report key
// releases so a Toggle binding alternates between State and zero on every
// press instead.
type Binding struct {
	Code   gamepads.Code `toml:"code"`
	State  int           `toml:"state"`
	Toggle bool          `toml:"toggle"`
}

// Bindings map key names to the events they produce.
type Bindings map[string][]Binding

// DefaultBindings drive the robot controller from the keyboard. W/S set
// the speed, A/D steer, X stops and centres. Space fires, B toggles the
// beacon. Q, or ctrl+c, quits.
func DefaultBindings() Bindings {
	return Bindings{
		"w":      {{Code: "ABS_RZ", State: 255}},
		"s":      {{Code: "ABS_RZ", State: 0}},
		"a":      {{Code: "ABS_X", State: 0}},
		"d":      {{Code: "ABS_X", State: 255}},
		"x":      {{Code: "ABS_RZ", State: 127}, {Code: "ABS_X", State: 128}},
		"space":  {{Code: "BTN_SOUTH", State: 1, Toggle: true}},
		"b":      {{Code: "BTN_WEST", State: 1, Toggle: true}},
		"q":      {{Code: "BTN_START", State: 1}},
		"ctrl+c": {{Code: "BTN_START", State: 1}},
	}
}

// translator converts key names to events. It remembers the state of toggle
// bindings.
type translator struct {
	bindings Bindings
	toggled  map[gamepads.Code]bool
}

func newTranslator(bindings Bindings) *translator {
	return &translator{
		bindings: bindings,
		toggled:  make(map[gamepads.Code]bool),
	}
}

func (tr *translator) events(keys []string) []gamepads.Event {
	var events []gamepads.Event
	for _, k := range keys {
		for _, b := range tr.bindings[k] {
			state := b.State
			if b.Toggle {
				on := !tr.toggled[b.Code]
				tr.toggled[b.Code] = on
				if !on {
					state = 0
				}
			}
			events = append(events, gamepads.Event{Code: b.Code, State: state})
		}
	}
	return events
}
