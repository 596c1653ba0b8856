package gamepads_test

import (
	"sync"
	"testing"

	gamepads "github.com/doingharm/go-gamepad-latest"
	"github.com/doingharm/go-gamepad-latest/test"
)

func TestMailboxEmpty(t *testing.T) {
	var m gamepads.Mailbox[gamepads.Code]

	c, ok := m.PopLatest()
	test.ExpectFailure(t, ok)
	test.ExpectEquality(t, c, gamepads.Code(""))
	test.ExpectFailure(t, m.Pending())
}

func TestMailboxLatest(t *testing.T) {
	var m gamepads.Mailbox[gamepads.Code]

	m.Push("ABS_X")
	m.Push("BTN_SOUTH")
	m.Push("ABS_RZ")
	test.ExpectSuccess(t, m.Pending())

	c, ok := m.PopLatest()
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, c, gamepads.Code("ABS_RZ"))

	_, ok = m.PopLatest()
	test.ExpectFailure(t, ok)
}

func TestMailboxScenario(t *testing.T) {
	var m gamepads.Mailbox[gamepads.Code]
	r := gamepads.NewRegistry()
	r.Register("A", 0)
	r.Register("B", 0)

	r.Update("A", 1)
	m.Push("A")
	r.Update("B", 2)
	m.Push("B")
	r.Update("A", 3)
	m.Push("A")

	c, ok := m.PopLatest()
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, c, gamepads.Code("A"))
	v, _ := r.Value(c)
	test.ExpectEquality(t, v, 3)

	// the change to B is never surfaced but is not lost from the registry
	_, ok = m.PopLatest()
	test.ExpectFailure(t, ok)
	v, _ = r.Value("B")
	test.ExpectEquality(t, v, 2)
}

func TestMailboxStress(t *testing.T) {
	var m gamepads.Mailbox[gamepads.Code]
	r := gamepads.NewRegistry()
	r.Register("A", 0)
	r.Register("B", 0)

	var last gamepads.Code
	for i := 0; i < 10000; i++ {
		last = "A"
		if i%2 == 1 {
			last = "B"
		}
		r.Update(last, i)
		m.Push(last)
	}

	c, ok := m.PopLatest()
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, c, last)
	_, ok = m.PopLatest()
	test.ExpectFailure(t, ok)

	a, _ := r.Value("A")
	b, _ := r.Value("B")
	test.ExpectEquality(t, a, 9998)
	test.ExpectEquality(t, b, 9999)
}

func TestMailboxConcurrent(t *testing.T) {
	const pushers = 8
	const pushes = 1000
	const poppers = 4

	var m gamepads.Mailbox[int]

	var pushWg sync.WaitGroup
	for p := 0; p < pushers; p++ {
		pushWg.Add(1)
		go func(p int) {
			defer pushWg.Done()
			for i := 0; i < pushes; i++ {
				m.Push(p*pushes + i)
			}
		}(p)
	}

	done := make(chan struct{})
	results := make(chan []int, poppers)
	for _i := 0; _i < poppers; _i++ {
		go func() {
			var popped []int
			for {
				select {
				case <-done:
					if v, ok := m.PopLatest(); ok {
						popped = append(popped, v)
					}
					results <- popped
					return
				default:
					if v, ok := m.PopLatest(); ok {
						popped = append(popped, v)
					}
				}
			}
		}()
	}

	pushWg.Wait()
	close(done)

	seen := make(map[int]bool)
	for _i := 0; _i < poppers; _i++ {
		for _, v := range <-results {
			// every value was pushed exactly once so it can be popped at most once
			test.ExpectFailure(t, seen[v], "duplicate", v)
			test.ExpectSuccess(t, v >= 0 && v < pushers*pushes, "fabricated", v)
			seen[v] = true
		}
	}
}
