// Package gamepads distributes input events from a blocking event source to a
// consumer loop.
//
// A Poller runs on its own goroutine. It fetches batches of events from a
// Source, keeps a Registry of the values of a whitelisted set of commands,
// and signals a Mailbox with the code of every command that changed. The
// Mailbox holds only the most recent signal, so a Dispatcher polling it sees
// "something changed, look at the registry" rather than an event log. Rapid
// changes between two polls are coalesced.
//
// Typical use:
//
//	b := gamepads.New(src, gamepads.Options{FetchTimeout: 100 * time.Millisecond})
//	b.Register("ABS_X", 128)
//	b.Register("BTN_START", 0)
//	b.Start()
//
//	d := gamepads.NewDispatcher(b, gamepads.DispatcherOptions{
//		Shutdown:    "BTN_START",
//		JoinTimeout: time.Second,
//	})
//	d.Handle("ABS_X", steer)
//	err := d.Run(ctx)
package gamepads
