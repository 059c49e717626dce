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

// Package livesplit is a client for the LiveSplit Server component. The server
// accepts commands over a TCP connection, one command per line. Only the
// getcurrenttimerphase command has a reply.
//
// The connection is made on first use and remade after any failure, so the
// client can be created before LiveSplit is running and survives a restart of
// LiveSplit.
package livesplit

import (
	"bufio"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/cdsplit/cdsplit/curated"
	"github.com/cdsplit/cdsplit/logger"
	"github.com/cdsplit/cdsplit/timer"
)

// DefaultAddress of the LiveSplit Server component.
const DefaultAddress = "localhost:16834"

// Sentinal error patterns
const (
	ConnectError = "livesplit: connect: %v"
	CommandError = "livesplit: %s: %v"
)

// timeout for a single command
const timeout = time.Second

// Client implements the timer.Timer interface for LiveSplit Server.
type Client struct {
	crit sync.Mutex
	addr string
	conn net.Conn
	rd   *bufio.Reader

	// the most recent phase reported by LiveSplit. returned by State() when
	// the query fails
	phase timer.State
}

// NewClient is the preferred method of initialisation for the Client type. No
// connection is made until the first command.
func NewClient(addr string) *Client {
	if addr == "" {
		addr = DefaultAddress
	}
	return &Client{addr: addr}
}

func (c *Client) String() string {
	return "LiveSplit Server at " + c.addr
}

// must be called with the critical section
func (c *Client) connect() error {
	if c.conn != nil {
		return nil
	}
	conn, err := net.DialTimeout("tcp", c.addr, timeout)
	if err != nil {
		return curated.Errorf(ConnectError, err)
	}
	c.conn = conn
	c.rd = bufio.NewReader(conn)
	logger.Logf(logger.Allow, "livesplit", "connected to %s", c.addr)
	return nil
}

// must be called with the critical section
func (c *Client) disconnect() {
	if c.conn == nil {
		return
	}
	_ = c.conn.Close()
	c.conn = nil
	c.rd = nil
}

// must be called with the critical section
func (c *Client) write(cmd string) error {
	if err := c.connect(); err != nil {
		return err
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(timeout))
	if _, err := c.conn.Write([]byte(cmd + "\r\n")); err != nil {
		c.disconnect()
		return curated.Errorf(CommandError, cmd, err)
	}
	return nil
}

// send a command. if the command cannot be written the connection is remade
// and the command sent once more
func (c *Client) send(cmd string) error {
	c.crit.Lock()
	defer c.crit.Unlock()

	if err := c.write(cmd); err != nil {
		if curated.Is(err, ConnectError) {
			return err
		}
		return c.write(cmd)
	}
	return nil
}

// send a command and wait for the reply
func (c *Client) query(cmd string) (string, error) {
	c.crit.Lock()
	defer c.crit.Unlock()

	if err := c.write(cmd); err != nil {
		return "", err
	}

	_ = c.conn.SetReadDeadline(time.Now().Add(timeout))
	s, err := c.rd.ReadString('\n')
	if err != nil {
		c.disconnect()
		return "", curated.Errorf(CommandError, cmd, err)
	}

	return strings.TrimSpace(s), nil
}

// State implements the timer.Timer interface. If LiveSplit cannot be queried
// the most recently reported phase is returned. The phase is NotRunning if
// LiveSplit has never been reached.
func (c *Client) State() timer.State {
	s, err := c.query("getcurrenttimerphase")
	if err == nil {
		var st timer.State
		st, err = timer.ParseState(s)
		if err == nil {
			c.crit.Lock()
			c.phase = st
			c.crit.Unlock()
			return st
		}
	}

	logger.Log(logger.Allow, "livesplit", err)

	c.crit.Lock()
	defer c.crit.Unlock()
	return c.phase
}

// Start implements the timer.Timer interface. Game time is initialised
// immediately after the timer starts.
func (c *Client) Start() error {
	if err := c.send("starttimer"); err != nil {
		return err
	}
	return c.send("initgametime")
}

// Split implements the timer.Timer interface.
func (c *Client) Split() error {
	return c.send("split")
}

// Reset implements the timer.Timer interface.
func (c *Client) Reset() error {
	return c.send("reset")
}

// PauseGameTime implements the timer.Timer interface.
func (c *Client) PauseGameTime() error {
	return c.send("pausegametime")
}

// ResumeGameTime implements the timer.Timer interface.
func (c *Client) ResumeGameTime() error {
	return c.send("unpausegametime")
}

// SetGameTime implements the timer.Timer interface.
func (c *Client) SetGameTime(d time.Duration) error {
	return c.send("setgametime " + timer.FormatGameTime(d))
}

// Close the connection to LiveSplit.
func (c *Client) Close() error {
	c.crit.Lock()
	defer c.crit.Unlock()
	c.disconnect()
	return nil
}
