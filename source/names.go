package source

import (
	"strings"

	gamepads "github.com/doingharm/go-gamepad-latest"
)

// several gamepad buttons share a key code. commands are always named with
// the positional names
var aliases = map[string]gamepads.Code{
	"BTN_A":       "BTN_SOUTH",
	"BTN_GAMEPAD": "BTN_SOUTH",
	"BTN_B":       "BTN_EAST",
	"BTN_X":       "BTN_NORTH",
	"BTN_Y":       "BTN_WEST",
}

// Canonical converts a kernel event code name to a command code. Names that
// list several aliases separated by a slash, and the face button aliases,
// are reduced to the positional button name.
func Canonical(name string) gamepads.Code {
	parts := strings.Split(name, "/")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	for _, p := range parts {
		switch p {
		case "BTN_SOUTH", "BTN_EAST", "BTN_NORTH", "BTN_WEST":
			return gamepads.Code(p)
		}
	}
	for _, p := range parts {
		if c, ok := aliases[p]; ok {
			return c
		}
	}
	return gamepads.Code(parts[0])
}
