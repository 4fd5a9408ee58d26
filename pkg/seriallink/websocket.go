// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Workswell s.r.o.

package seriallink

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"github.com/workswell/weomlink/pkg/tcsi"
)

// WebSocketConfig describes a remote serial bridge endpoint.
type WebSocketConfig struct {
	// URL of the bridge, ws:// or wss://.
	URL string

	// Username and Password enable HTTP Basic auth when both are set.
	Username string
	Password string

	// InsecureSkipVerify disables TLS certificate verification (wss only).
	InsecureSkipVerify bool
}

// WebSocket is a tcsi.DataLink over a WebSocket serial bridge. Binary
// messages carry raw TCSI bytes; partial messages are buffered on the read
// side.
type WebSocket struct {
	conn *websocket.Conn
	buf  []byte
	off  int
	lost bool
}

// DialWebSocket connects to a remote serial bridge.
func DialWebSocket(config WebSocketConfig) (*WebSocket, error) {
	u, err := url.Parse(config.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	switch u.Scheme {
	case "ws", "wss":
	default:
		return nil, fmt.Errorf("unsupported URL scheme: %s (use ws:// or wss://)", u.Scheme)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	if u.Scheme == "wss" {
		dialer.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: config.InsecureSkipVerify,
		}
	}

	headers := http.Header{}
	if config.Username != "" && config.Password != "" {
		credentials := base64.StdEncoding.EncodeToString([]byte(config.Username + ":" + config.Password))
		headers.Set("Authorization", "Basic "+credentials)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	conn, resp, err := dialer.DialContext(ctx, config.URL, headers)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket connection failed (HTTP %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("websocket connection failed: %w", err)
	}

	return &WebSocket{conn: conn}, nil
}

// IsOpen reports whether the bridge connection is usable.
func (w *WebSocket) IsOpen() bool {
	return w.conn != nil && !w.lost
}

// Close releases the connection.
func (w *WebSocket) Close() error {
	if w.conn == nil {
		return nil
	}
	err := w.conn.Close()
	w.conn = nil
	return err
}

// MaxDataSize returns the upper bound of a single transfer.
func (w *WebSocket) MaxDataSize() int {
	return defaultMaxTransfer
}

// Read fills buf completely within timeout, consuming buffered bytes first.
func (w *WebSocket) Read(buf []byte, timeout time.Duration) error {
	if w.conn == nil || w.lost {
		return tcsi.ErrNoConnection
	}

	deadline := time.Now().Add(timeout)
	got := 0
	for got < len(buf) {
		if w.off < len(w.buf) {
			n := copy(buf[got:], w.buf[w.off:])
			w.off += n
			got += n
			continue
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return tcsi.ErrTimeout
		}
		w.conn.SetReadDeadline(time.Now().Add(remaining))

		messageType, data, err := w.conn.ReadMessage()
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				return tcsi.ErrTimeout
			}
			w.lost = true
			return tcsi.ErrNoConnection
		}
		if messageType != websocket.BinaryMessage {
			continue
		}

		w.buf = data
		w.off = 0
	}

	return nil
}

// Write sends buf as one binary message.
func (w *WebSocket) Write(buf []byte, timeout time.Duration) error {
	if w.conn == nil || w.lost {
		return tcsi.ErrNoConnection
	}

	w.conn.SetWriteDeadline(time.Now().Add(timeout))
	if err := w.conn.WriteMessage(websocket.BinaryMessage, buf); err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return tcsi.ErrTimeout
		}
		w.lost = true
		return tcsi.ErrNoConnection
	}
	return nil
}

// DropPending discards buffered received bytes.
func (w *WebSocket) DropPending() {
	w.buf = nil
	w.off = 0
}

// IsConnectionLost reports whether the bridge connection has failed.
func (w *WebSocket) IsConnectionLost() bool {
	return w.lost
}
