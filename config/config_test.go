package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	gamepads "github.com/doingharm/go-gamepad-latest"
	"github.com/doingharm/go-gamepad-latest/config"
	"github.com/doingharm/go-gamepad-latest/test"
)

func writeConfig(t *testing.T, s string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "controller.toml")
	test.DemandSuccess(t, os.WriteFile(path, []byte(s), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	test.ExpectSuccess(t, cfg.Validate())
	test.ExpectEquality(t, cfg.Dispatcher.Interval, 10*time.Millisecond)
	test.ExpectEquality(t, cfg.Dispatcher.Shutdown, "BTN_START")
	test.ExpectEquality(t, cfg.Commands["ABS_X"], 128)
	test.ExpectEquality(t, cfg.Commands["ABS_RZ"], 127)
	test.ExpectEquality(t, len(cfg.Codes()), 5)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[dispatcher]
interval = "20ms"
shutdown = "BTN_SELECT"

[poller]
verbose = true

[commands]
ABS_Y = 128
BTN_SELECT = 0

[keys]
k = [{ code = "ABS_Y", state = 0 }]
`)

	cfg, err := config.Load(path)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, cfg.Dispatcher.Interval, 20*time.Millisecond)
	test.ExpectEquality(t, cfg.Dispatcher.JoinTimeout, time.Second)
	test.ExpectEquality(t, cfg.Poller.FetchTimeout, 100*time.Millisecond)
	test.ExpectSuccess(t, cfg.Poller.Verbose)

	// commands replace the defaults rather than adding to them
	test.ExpectEquality(t, len(cfg.Commands), 2)
	_, ok := cfg.Commands["ABS_X"]
	test.ExpectFailure(t, ok)

	test.DemandEquality(t, len(cfg.Keys["k"]), 1)
	test.ExpectEquality(t, cfg.Keys["k"][0].Code, gamepads.Code("ABS_Y"))
	_, ok = cfg.Keys["w"]
	test.ExpectFailure(t, ok)

	opts := cfg.DispatcherOptions()
	test.ExpectEquality(t, opts.Shutdown, gamepads.Code("BTN_SELECT"))
}

func TestLoadKeepsDefaultTables(t *testing.T) {
	path := writeConfig(t, `
[poller]
fetch_timeout = "0s"
`)
	cfg, err := config.Load(path)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, cfg.Poller.FetchTimeout, time.Duration(0))
	test.ExpectEquality(t, len(cfg.Commands), 5)
	test.ExpectInequality(t, len(cfg.Keys), 0)
}

func TestLoadUnknown(t *testing.T) {
	path := writeConfig(t, `
[dispatcher]
intervall = "20ms"
`)
	_, err := config.Load(path)
	test.ExpectFailure(t, err)
}

func TestLoadInvalid(t *testing.T) {
	path := writeConfig(t, `
[dispatcher]
shutdown = "BTN_MODE"
`)
	_, err := config.Load(path)
	test.ExpectFailure(t, err)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	test.ExpectFailure(t, err)
}

func TestRegister(t *testing.T) {
	cfg := config.Default()
	reg := gamepads.NewRegistry()
	test.DemandSuccess(t, cfg.Register(reg))
	test.ExpectEquality(t, reg.Len(), 5)

	v, _ := reg.Value("ABS_RZ")
	test.ExpectEquality(t, v, 127)

	// registering twice reports the existing command
	err := cfg.Register(reg)
	test.ExpectSuccess(t, errors.Is(err, gamepads.ErrCommandExists))
}
