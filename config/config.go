// Package config loads the settings of a controller program from a TOML
// file. Settings missing from the file keep their default values.
//
//	[dispatcher]
//	interval = "10ms"
//	join_timeout = "1s"
//	shutdown = "BTN_START"
//
//	[poller]
//	fetch_timeout = "100ms"
//	verbose = false
//
//	[commands]
//	ABS_X = 128
//	BTN_START = 0
//
//	[keys]
//	w = [{ code = "ABS_RZ", state = 255 }]
//	space = [{ code = "BTN_SOUTH", state = 1, toggle = true }]
package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	gamepads "github.com/doingharm/go-gamepad-latest"
	"github.com/doingharm/go-gamepad-latest/source/term"
)

// Dispatcher settings.
type Dispatcher struct {
	Interval    time.Duration `toml:"interval"`
	JoinTimeout time.Duration `toml:"join_timeout"`
	Shutdown    string        `toml:"shutdown"`
}

// Poller settings.
type Poller struct {
	FetchTimeout time.Duration `toml:"fetch_timeout"`
	Verbose      bool          `toml:"verbose"`
}

// Config is the complete configuration. Commands is the whitelist of tracked
// commands and their default values. Keys are the bindings used by the
// terminal source.
type Config struct {
	Dispatcher Dispatcher     `toml:"dispatcher"`
	Poller     Poller         `toml:"poller"`
	Commands   map[string]int `toml:"commands"`
	Keys       term.Bindings  `toml:"keys"`
}

// Default returns the configuration of the robot controller: drive with the
// right trigger and left stick, fire with the south button, switch the beacon
// with the west button and quit with start.
func Default() Config {
	return Config{
		Dispatcher: Dispatcher{
			Interval:    gamepads.DefaultInterval,
			JoinTimeout: time.Second,
			Shutdown:    "BTN_START",
		},
		Poller: Poller{
			FetchTimeout: 100 * time.Millisecond,
		},
		Commands: map[string]int{
			"ABS_X":     128,
			"ABS_RZ":    127,
			"BTN_SOUTH": 0,
			"BTN_WEST":  0,
			"BTN_START": 0,
		},
		Keys: term.DefaultBindings(),
	}
}

// Load reads the file at path over the default configuration. A [commands]
// or [keys] table in the file replaces the default table entirely.
func Load(path string) (Config, error) {
	cfg := Default()
	commands := cfg.Commands
	keys := cfg.Keys
	cfg.Commands = nil
	cfg.Keys = nil

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		s := make([]string, len(undecoded))
		for i, k := range undecoded {
			s[i] = k.String()
		}
		return Config{}, fmt.Errorf("config: %s: unknown settings: %s", path, strings.Join(s, ", "))
	}

	if cfg.Commands == nil {
		cfg.Commands = commands
	}
	if cfg.Keys == nil {
		cfg.Keys = keys
	}

	return cfg, cfg.Validate()
}

// Validate checks that the configuration is usable.
func (cfg Config) Validate() error {
	if cfg.Dispatcher.Interval <= 0 {
		return errors.New("config: dispatcher interval must be positive")
	}
	if cfg.Dispatcher.JoinTimeout < 0 {
		return errors.New("config: dispatcher join timeout must not be negative")
	}
	if cfg.Poller.FetchTimeout < 0 {
		return errors.New("config: poller fetch timeout must not be negative")
	}
	if len(cfg.Commands) == 0 {
		return errors.New("config: no commands")
	}
	if s := cfg.Dispatcher.Shutdown; s != "" {
		if _, ok := cfg.Commands[s]; !ok {
			return fmt.Errorf("config: shutdown command (%s) is not one of the commands", s)
		}
	}
	return nil
}

// Codes returns the command codes in sorted order.
func (cfg Config) Codes() []gamepads.Code {
	codes := make([]gamepads.Code, 0, len(cfg.Commands))
	for c := range cfg.Commands {
		codes = append(codes, gamepads.Code(c))
	}
	sort.Slice(codes, func(i, j int) bool {
		return codes[i] < codes[j]
	})
	return codes
}

// Registrar is anything commands can be registered with, such as a
// gamepads.Bus or a gamepads.Registry.
type Registrar interface {
	Register(code gamepads.Code, def int) error
}

// Register every command with its default value.
func (cfg Config) Register(r Registrar) error {
	for _, c := range cfg.Codes() {
		if err := r.Register(c, cfg.Commands[string(c)]); err != nil {
			return fmt.Errorf("config: %s: %w", c, err)
		}
	}
	return nil
}

// BusOptions returns the options for a gamepads.Bus.
func (cfg Config) BusOptions() gamepads.Options {
	return gamepads.Options{
		FetchTimeout: cfg.Poller.FetchTimeout,
		Verbose:      cfg.Poller.Verbose,
	}
}

// DispatcherOptions returns the options for a gamepads.Dispatcher.
func (cfg Config) DispatcherOptions() gamepads.DispatcherOptions {
	return gamepads.DispatcherOptions{
		Interval:    cfg.Dispatcher.Interval,
		JoinTimeout: cfg.Dispatcher.JoinTimeout,
		Shutdown:    gamepads.Code(cfg.Dispatcher.Shutdown),
		Verbose:     cfg.Poller.Verbose,
	}
}
