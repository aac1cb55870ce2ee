// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wsinput bridges pointer events from a remote client to the
// scene over a websocket. Each message is one JSON encoded
// [events.Event]; events with a Target go to the scene elements and
// the rest go to the camera rig. The bridge only enqueues events; they
// are applied at the next frame.
package wsinput

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"cogentcore.org/stage/base/errors"
	"cogentcore.org/stage/events"
	"github.com/gorilla/websocket"
)

// MaxMessageSize is the largest event message a client may send;
// a larger one closes the connection.
const MaxMessageSize = 4 << 10

// Sink receives events. Send must be safe to call from any goroutine.
type Sink interface {
	Send(ev *events.Event)
}

// Server is an http.Handler that upgrades to a websocket and reads events.
type Server struct {

	// Camera receives untargeted events.
	Camera Sink

	// Scene receives events with a Target.
	Scene Sink

	// Upgrader upgrades the connection.
	Upgrader websocket.Upgrader

	received atomic.Int64
	conns    atomic.Int32
}

// NewServer returns a new server sending events to the given sinks.
func NewServer(camera, scene Sink) *Server {
	return &Server{Camera: camera, Scene: scene, Upgrader: websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}}
}

// Received returns the number of events received so far.
func (s *Server) Received() int64 {
	return s.received.Load()
}

// Conns returns the number of open connections.
func (s *Server) Conns() int {
	return int(s.conns.Load())
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("wsinput: upgrade", "remote", r.RemoteAddr, "err", err)
		return
	}
	conn.SetReadLimit(MaxMessageSize)
	s.conns.Add(1)
	defer s.conns.Add(-1)
	defer conn.Close()
	slog.Info("wsinput: connected", "remote", r.RemoteAddr)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Info("wsinput: disconnected", "remote", r.RemoteAddr)
			} else {
				slog.Error("wsinput: read", "remote", r.RemoteAddr, "err", err)
			}
			return
		}
		ev := &events.Event{}
		if err := json.Unmarshal(msg, ev); err != nil {
			slog.Warn("wsinput: bad event", "remote", r.RemoteAddr, "err", err)
			continue
		}
		s.route(ev)
	}
}

func (s *Server) route(ev *events.Event) {
	if ev.Typ == events.UnknownType {
		slog.Warn("wsinput: event with no type")
		return
	}
	if ev.GenTime.IsZero() {
		ev.GenTime = time.Now()
	}
	s.received.Add(1)
	switch {
	case ev.Target != "" && s.Scene != nil:
		s.Scene.Send(ev)
	case ev.Target == "" && s.Camera != nil:
		s.Camera.Send(ev)
	}
}

// ListenAndServe serves websocket input at the given address under
// the path /input until the context is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/input", s)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	slog.Info("wsinput: listening", "addr", addr)
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	}
}

// Client sends events to a [Server].
type Client struct {
	conn *websocket.Conn
}

// Dial connects to the server at the given ws:// or wss:// URL.
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn}, nil
}

// Send sends the event.
func (c *Client) Send(ev *events.Event) error {
	return c.conn.WriteJSON(ev)
}

// Close closes the connection cleanly.
func (c *Client) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	err := c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return errors.Join(err, c.conn.Close())
}
