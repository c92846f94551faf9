// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package telemetry

import (
	"context"
	"fmt"

	"cogentcore.org/xyzar/base/websocket"
)

// Client sends readings to a [Server]. It is the robot side of the
// connection.
type Client struct {
	ws *websocket.Client
}

// Dial connects to the server at the given ws:// URL.
func Dial(ctx context.Context, url string) (*Client, error) {
	ws, err := websocket.Connect(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("telemetry: connecting to %s: %w", url, err)
	}
	ws.OnMessage(func(typ websocket.MessageTypes, msg []byte) {})
	return &Client{ws: ws}, nil
}

// Send sends one reading.
func (cl *Client) Send(rd Reading) error {
	return cl.ws.Send(websocket.BinaryMessage, rd.Encode())
}

// Done returns a channel that is closed when the connection is closed.
func (cl *Client) Done() <-chan struct{} {
	return cl.ws.Done()
}

// Close closes the connection.
func (cl *Client) Close() error {
	return cl.ws.Close()
}
