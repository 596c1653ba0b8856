// Package remote receives gamepad events over a WebSocket. Every text message
// is one batch: a JSON array of {"code": ..., "state": ...} objects. A single
// object is accepted as a batch of one.
//
// Losing the connection is reported by Fetch() as an error. Reconnecting is
// left to the caller.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	gamepads "github.com/doingharm/go-gamepad-latest"
	"github.com/doingharm/go-gamepad-latest/logger"
	"github.com/doingharm/go-gamepad-latest/source"
	"github.com/gorilla/websocket"
)

// Source is a gamepads.Source reading batches from a WebSocket.
type Source struct {
	conn *websocket.Conn
	pump *source.Pump

	// serialises writes. only control frames are written
	mu   sync.Mutex
	done chan struct{}
	once sync.Once
}

// Dial connects to url. If pingEvery is positive a ping is sent at that
// interval and the connection is considered lost if no pong (or message)
// arrives within pongWait.
func Dial(ctx context.Context, url string, pingEvery, pongWait time.Duration) (*Source, error) {
	d := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
		NetDialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 15 * time.Second,
		}).DialContext,
	}

	conn, _, err := d.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("remote: %w", err)
	}
	conn.SetReadLimit(1 << 20)

	s := &Source{
		conn: conn,
		done: make(chan struct{}),
	}
	s.pump = source.NewPump(func() ([]gamepads.Event, error) {
		return s.read(pongWait)
	})

	if pingEvery > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(_ string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		go s.pingLoop(pingEvery)
	}

	logger.Logf(logger.Allow, "remote", "connected to %s", url)
	return s, nil
}

// Fetch implements the gamepads.Source interface.
func (s *Source) Fetch(timeout time.Duration) ([]gamepads.Event, error) {
	return s.pump.Fetch(timeout)
}

func (s *Source) read(pongWait time.Duration) ([]gamepads.Event, error) {
	for {
		typ, msg, err := s.conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("remote: %w", err)
		}
		if typ != websocket.TextMessage {
			continue
		}

		// any message proves the peer is alive
		if pongWait > 0 {
			_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
		}

		events, err := decode(msg)
		if err != nil {
			logger.Logf(logger.Allow, "remote", "discarding message: %v", err)
			continue
		}
		return events, nil
	}
}

func decode(msg []byte) ([]gamepads.Event, error) {
	msg = bytes.TrimSpace(msg)
	if len(msg) > 0 && msg[0] == '{' {
		var e gamepads.Event
		if err := json.Unmarshal(msg, &e); err != nil {
			return nil, err
		}
		return []gamepads.Event{e}, nil
	}

	var events []gamepads.Event
	if err := json.Unmarshal(msg, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *Source) pingLoop(pingEvery time.Duration) {
	t := time.NewTicker(pingEvery)
	defer t.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-t.C:
			s.mu.Lock()
			err := s.conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second))
			s.mu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

// Close sends a close frame and closes the connection.
func (s *Source) Close() error {
	s.once.Do(func() {
		close(s.done)
		_ = s.pump.Close()
		s.mu.Lock()
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		s.mu.Unlock()
	})
	return s.conn.Close()
}
