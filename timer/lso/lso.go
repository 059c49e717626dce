// This file is part of cdsplit.
//
// cdsplit is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// cdsplit is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with cdsplit.  If not, see <https://www.gnu.org/licenses/>.

// Package lso is a websocket server for LiveSplit One. LiveSplit One connects
// to the server as a client and then accepts commands from it.
//
// Commands are JSON objects with a "command" field. LiveSplit One replies to
// every command with an object containing either a "success" or an "error"
// field. It also sends objects with an "event" field whenever the timer
// changes, which are used to keep a copy of the timer state.
//
// Only one LiveSplit One connection is used at a time. A new connection
// replaces the existing one.
package lso

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cdsplit/cdsplit/curated"
	"github.com/cdsplit/cdsplit/logger"
	"github.com/cdsplit/cdsplit/timer"
)

// DefaultAddress of the websocket server.
const DefaultAddress = "localhost:9087"

// Sentinal error patterns
const (
	NotConnected = "lso: no connection from LiveSplit One"
	CommandError = "lso: %s: %v"
	ServerError  = "lso: server: %v"
)

// time to wait for a reply to a command
const timeout = time.Second

type command struct {
	Command string `json:"command"`
	Time    string `json:"time,omitempty"`
}

// message from LiveSplit One. a reply has either the Success or the Error
// field. an event has the Event field
type message struct {
	Success json.RawMessage `json:"success,omitempty"`
	Error   json.RawMessage `json:"error,omitempty"`
	Event   string          `json:"event,omitempty"`
}

type reply struct {
	success json.RawMessage
	err     error
}

// Server implements the timer.Timer interface for LiveSplit One.
type Server struct {
	upgrader websocket.Upgrader

	// protects conn and state
	crit  sync.Mutex
	conn  *websocket.Conn
	state timer.State

	// replies from the current connection
	replies chan reply

	// only one command is in flight at once
	cmdCrit sync.Mutex
}

// NewServer is the preferred method of initialisation for the Server type.
func NewServer() *Server {
	return &Server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		replies: make(chan reply, 1),
	}
}

// ListenAndServe accepts connections on the address until the context is
// cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddress
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: s,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	logger.Logf(logger.Allow, "lso", "listening on %s", addr)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return curated.Errorf(ServerError, err)
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Logf(logger.Allow, "lso", "upgrade failed: %v", err)
		return
	}

	logger.Logf(logger.Allow, "lso", "connection from %s", r.RemoteAddr)

	s.crit.Lock()
	if s.conn != nil {
		_ = s.conn.Close()
	}
	s.conn = conn
	s.state = timer.NotRunning
	s.crit.Unlock()

	s.read(conn)

	s.crit.Lock()
	if s.conn == conn {
		s.conn = nil
		s.state = timer.NotRunning
	}
	s.crit.Unlock()

	_ = conn.Close()
	logger.Logf(logger.Allow, "lso", "connection from %s closed", r.RemoteAddr)
}

// read messages from the connection until it fails
func (s *Server) read(conn *websocket.Conn) {
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg message
		if err := json.Unmarshal(payload, &msg); err != nil {
			logger.Logf(logger.Allow, "lso", "discarding malformed message: %v", err)
			continue
		}

		switch {
		case msg.Event != "":
			s.event(msg.Event)
		case msg.Error != nil:
			s.deliver(reply{err: errors.New(describeError(msg.Error))})
		default:
			s.deliver(reply{success: msg.Success})
		}
	}
}

// deliver a reply to a waiting command. a reply that nobody is waiting for is
// dropped
func (s *Server) deliver(r reply) {
	select {
	case s.replies <- r:
	default:
	}
}

// update the timer state from an event
func (s *Server) event(ev string) {
	s.crit.Lock()
	defer s.crit.Unlock()

	switch ev {
	case "Started", "Resumed":
		s.state = timer.Running
	case "Paused":
		s.state = timer.Paused
	case "Finished":
		s.state = timer.Ended
	case "Reset":
		s.state = timer.NotRunning
	case "SplitUndone":
		if s.state == timer.Ended {
			s.state = timer.Running
		}
	}
}

// errors from LiveSplit One are either a string or an object
func describeError(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var o struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &o); err == nil && (o.Code != "" || o.Message != "") {
		return strings.TrimSpace(o.Code + " " + o.Message)
	}
	return string(raw)
}

// send a command and wait for the reply
func (s *Server) send(cmd command) (json.RawMessage, error) {
	s.cmdCrit.Lock()
	defer s.cmdCrit.Unlock()

	s.crit.Lock()
	conn := s.conn
	s.crit.Unlock()

	if conn == nil {
		return nil, curated.Errorf(NotConnected)
	}

	// forget any stale reply
	select {
	case <-s.replies:
	default:
	}

	_ = conn.SetWriteDeadline(time.Now().Add(timeout))
	if err := conn.WriteJSON(cmd); err != nil {
		return nil, curated.Errorf(CommandError, cmd.Command, err)
	}

	select {
	case r := <-s.replies:
		if r.err != nil {
			return nil, curated.Errorf(CommandError, cmd.Command, r.err)
		}
		return r.success, nil
	case <-time.After(timeout):
		return nil, curated.Errorf(CommandError, cmd.Command, "no reply")
	}
}

// Connected returns true if LiveSplit One is connected.
func (s *Server) Connected() bool {
	s.crit.Lock()
	defer s.crit.Unlock()
	return s.conn != nil
}

// State implements the timer.Timer interface. The state is queried from
// LiveSplit One. If the query fails the most recent known state is returned.
func (s *Server) State() timer.State {
	success, err := s.send(command{Command: "getCurrentState"})
	if err == nil {
		if st, ok := parseState(success); ok {
			s.crit.Lock()
			s.state = st
			s.crit.Unlock()
			return st
		}
	} else if !curated.Is(err, NotConnected) {
		logger.Log(logger.Allow, "lso", err)
	}

	s.crit.Lock()
	defer s.crit.Unlock()
	return s.state
}

// the state is either a string or an object with a "state" field
func parseState(raw json.RawMessage) (timer.State, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		var o struct {
			State string `json:"state"`
		}
		if err := json.Unmarshal(raw, &o); err != nil {
			return timer.NotRunning, false
		}
		s = o.State
	}
	st, err := timer.ParseState(s)
	if err != nil {
		return timer.NotRunning, false
	}
	return st, true
}

func (s *Server) simple(name string) error {
	_, err := s.send(command{Command: name})
	return err
}

// Start implements the timer.Timer interface.
func (s *Server) Start() error {
	return s.simple("start")
}

// Split implements the timer.Timer interface.
func (s *Server) Split() error {
	return s.simple("split")
}

// Reset implements the timer.Timer interface.
func (s *Server) Reset() error {
	return s.simple("reset")
}

// PauseGameTime implements the timer.Timer interface.
func (s *Server) PauseGameTime() error {
	return s.simple("pauseGameTime")
}

// ResumeGameTime implements the timer.Timer interface.
func (s *Server) ResumeGameTime() error {
	return s.simple("resumeGameTime")
}

// SetGameTime implements the timer.Timer interface.
func (s *Server) SetGameTime(d time.Duration) error {
	_, err := s.send(command{Command: "setGameTime", Time: timer.FormatGameTime(d)})
	return err
}
