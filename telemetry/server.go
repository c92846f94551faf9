// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package telemetry

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"cogentcore.org/xyzar/base/errors"
	"cogentcore.org/xyzar/base/websocket"
)

// Server is an [http.Handler] that accepts WebSocket connections from
// robots and fans out the readings they send to its subscribers.
// It implements [Source].
type Server struct {

	// Buffer is the channel buffer of each subscription. It must be
	// set before the first call to Subscribe, and defaults to 1.
	Buffer int

	mu     sync.Mutex
	subs   map[chan Reading]struct{}
	closed bool

	received atomic.Int64
	dropped  atomic.Int64
	invalid  atomic.Int64
}

// NewServer returns a new server.
func NewServer() *Server {
	return &Server{Buffer: 1, subs: map[chan Reading]struct{}{}}
}

// Stats are counts of the messages a [Server] has handled.
type Stats struct {

	// Received is the number of valid readings received.
	Received int64

	// Dropped is the number of deliveries skipped because a
	// subscriber was not keeping up.
	Dropped int64

	// Invalid is the number of messages that could not be decoded.
	Invalid int64
}

// Stats returns the current message counts.
func (sv *Server) Stats() Stats {
	return Stats{Received: sv.received.Load(), Dropped: sv.dropped.Load(), Invalid: sv.invalid.Load()}
}

// ServeHTTP accepts a WebSocket connection and reads readings from it
// until it closes.
func (sv *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r)
	if errors.Log(err) != nil {
		return
	}
	slog.Info("telemetry connected", "remote", r.RemoteAddr)
	c.OnMessage(func(typ websocket.MessageTypes, msg []byte) {
		if typ != websocket.BinaryMessage {
			sv.invalid.Add(1)
			slog.Warn("telemetry: ignoring non-binary message", "remote", r.RemoteAddr)
			return
		}
		rd, err := Decode(msg)
		if errors.Log(err) != nil {
			sv.invalid.Add(1)
			return
		}
		sv.Publish(rd)
	})
	select {
	case <-c.Done():
	case <-r.Context().Done():
		c.Close()
		<-c.Done()
	}
	slog.Info("telemetry disconnected", "remote", r.RemoteAddr)
}

// Publish delivers the reading to every subscriber that has room
// for it, dropping it for the others.
func (sv *Server) Publish(rd Reading) {
	sv.received.Add(1)
	sv.mu.Lock()
	defer sv.mu.Unlock()
	for ch := range sv.subs {
		select {
		case ch <- rd:
		default:
			sv.dropped.Add(1)
		}
	}
}

// Subscribe returns a channel of the readings received from now on.
// The channel is closed when the context is done or the server is closed.
func (sv *Server) Subscribe(ctx context.Context) <-chan Reading {
	ch := make(chan Reading, max(sv.Buffer, 1))
	sv.mu.Lock()
	if sv.closed {
		sv.mu.Unlock()
		close(ch)
		return ch
	}
	sv.subs[ch] = struct{}{}
	sv.mu.Unlock()
	go func() {
		<-ctx.Done()
		sv.unsubscribe(ch)
	}()
	return ch
}

func (sv *Server) unsubscribe(ch chan Reading) {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	if _, ok := sv.subs[ch]; ok {
		delete(sv.subs, ch)
		close(ch)
	}
}

// NumSubscribers returns the number of active subscriptions.
func (sv *Server) NumSubscribers() int {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	return len(sv.subs)
}

// Close ends all subscriptions. Later subscriptions are closed
// immediately.
func (sv *Server) Close() {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	sv.closed = true
	for ch := range sv.subs {
		delete(sv.subs, ch)
		close(ch)
	}
}

var _ Source = (*Server)(nil)
