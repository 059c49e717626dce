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

package driver

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/bradleyjkemp/memviz"

	"github.com/cdsplit/cdsplit/acts"
	"github.com/cdsplit/cdsplit/addresses"
	"github.com/cdsplit/cdsplit/autosplitter"
	"github.com/cdsplit/cdsplit/curated"
	"github.com/cdsplit/cdsplit/logger"
	"github.com/cdsplit/cdsplit/process"
	"github.com/cdsplit/cdsplit/settings"
	"github.com/cdsplit/cdsplit/timer"
)

// DefaultRate is the default number of ticks per second.
const DefaultRate = 120

// DefaultRetry is the default time between attempts to attach to the game
// process or to resolve addresses.
const DefaultRetry = time.Second

// Sentinal error patterns
const (
	NotAttached = "driver: not attached to the game"
	ProcessLost = "driver: game process has closed"
)

// Process is an attached game process.
type Process interface {
	process.Module
	Name() string
	IsOpen() bool
	Close() error
}

// Config for a new Driver. The zero value is a valid configuration.
type Config struct {
	// ticks per second. DefaultRate if zero
	Rate int

	// time between attempts to attach and resolve. DefaultRetry if zero
	Retry time.Duration

	// log the state of the autosplitter every time the act changes
	Verbose bool

	// function used to find the game process. defaults to process.Attach()
	Attach func(names ...string) (Process, error)

	// function used to resolve addresses. defaults to addresses.Resolve()
	Resolve func(process.Module) (*addresses.Addresses, error)
}

// Driver is the link between the game process, the autosplitter and the host
// timer.
type Driver struct {
	crit sync.Mutex

	timer    timer.Timer
	settings *settings.Settings

	interval time.Duration
	retry    time.Duration
	verbose  *logger.Switch

	attach  func(names ...string) (Process, error)
	resolve func(process.Module) (*addresses.Addresses, error)

	// nil when not attached
	proc Process
	addr *addresses.Addresses

	watchers autosplitter.Watchers
}

// NewDriver is the preferred method of initialisation for the Driver type.
func NewDriver(tm timer.Timer, s *settings.Settings, cfg Config) *Driver {
	d := &Driver{
		timer:    tm,
		settings: s,
		interval: time.Second / DefaultRate,
		retry:    DefaultRetry,
		verbose:  &logger.Switch{On: cfg.Verbose},
		attach:   cfg.Attach,
		resolve:  cfg.Resolve,
	}

	if cfg.Rate > 0 {
		d.interval = time.Second / time.Duration(cfg.Rate)
	}
	if cfg.Retry > 0 {
		d.retry = cfg.Retry
	}
	if d.attach == nil {
		d.attach = func(names ...string) (Process, error) {
			p, err := process.Attach(names...)
			if err != nil {
				return nil, err
			}
			return p, nil
		}
	}
	if d.resolve == nil {
		d.resolve = addresses.Resolve
	}

	return d
}

// Attach blocks until the game process has been found and the addresses of
// the game variables resolved, or until the context is cancelled.
//
// The driver will be attached to the game process on a successful return.
func (d *Driver) Attach(ctx context.Context) error {
	for {
		p, err := d.attach(addresses.ProcessNames...)
		if err == nil {
			addr, err := d.resolveAddresses(ctx, p)
			if err == nil {
				d.crit.Lock()
				d.proc = p
				d.addr = addr
				d.watchers.Reset()
				d.crit.Unlock()

				logger.Logf(logger.Allow, "driver", "attached to %s: %s", p.Name(), addr)
				return nil
			}

			_ = p.Close()
			if !curated.Is(err, ProcessLost) {
				return err
			}
			logger.Log(logger.Allow, "driver", err)
		} else {
			logger.Log(logger.Allow, "driver", err)
		}

		if err := wait(ctx, d.retry); err != nil {
			return err
		}
	}
}

// try to resolve addresses for as long as the process is open
func (d *Driver) resolveAddresses(ctx context.Context, p Process) (*addresses.Addresses, error) {
	for {
		addr, err := d.resolve(p)
		if err == nil {
			return addr, nil
		}
		logger.Log(logger.Allow, "driver", err)

		if err := wait(ctx, d.retry); err != nil {
			return nil, err
		}

		if !p.IsOpen() {
			return nil, curated.Errorf(ProcessLost)
		}
	}
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Detach from the game process. All autosplitter state is discarded.
func (d *Driver) Detach() {
	d.crit.Lock()
	defer d.crit.Unlock()
	d.detach()
}

// must be called with the critical section
func (d *Driver) detach() {
	if d.proc == nil {
		return
	}
	logger.Logf(logger.Allow, "driver", "detached from %s", d.proc.Name())
	_ = d.proc.Close()
	d.proc = nil
	d.addr = nil
	d.watchers.Reset()
}

// Addresses returns the resolved addresses of the game variables. Returns nil
// if the driver is not attached.
func (d *Driver) Addresses() *addresses.Addresses {
	d.crit.Lock()
	defer d.crit.Unlock()
	return d.addr
}

// Run the driver until the context is cancelled. The driver attaches to the
// game process and ticks at the configured rate. When the process closes the
// driver detaches and waits for the game to start again.
//
// Returns nil when the context is cancelled.
func (d *Driver) Run(ctx context.Context) error {
	defer d.Detach()

	for {
		if err := d.Attach(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		ticker := time.NewTicker(d.interval)

	tickLoop:
		for {
			select {
			case <-ctx.Done():
				ticker.Stop()
				return nil
			case <-ticker.C:
				if err := d.Tick(); err != nil {
					logger.Log(logger.Allow, "driver", err)
					break tickLoop
				}
			}
		}

		ticker.Stop()
	}
}

// Tick performs one complete update of the autosplitter and sends any
// resulting commands to the host timer.
//
// Returns an error if the driver is not attached or if the game process has
// closed, in which case the driver will have detached.
func (d *Driver) Tick() error {
	d.crit.Lock()
	defer d.crit.Unlock()

	if d.proc == nil {
		return curated.Errorf(NotAttached)
	}

	if !d.proc.IsOpen() {
		d.detach()
		return curated.Errorf(ProcessLost)
	}

	d.refreshSettings()
	s := d.settings.Values()

	host := d.timer.State()

	prevAct, _ := d.watchers.Act.Get()
	autosplitter.Update(d.proc, d.addr, host, &d.watchers)
	if act, ok := d.watchers.Act.Get(); ok && act.Current != prevAct.Current {
		logger.Logf(d.verbose, "driver", "%s: %s", act.Current, &d.watchers)
	}

	switch host {
	case timer.Running, timer.Paused:
		d.loading(s)

		if t, ok := autosplitter.GameTime(&d.watchers, s, d.addr); ok {
			d.quiet(func() error { return d.timer.SetGameTime(t) })
		}

		if autosplitter.Reset(&d.watchers, s) {
			d.command("reset", d.timer.Reset)
		} else if autosplitter.Split(&d.watchers, s) {
			act, _ := d.watchers.Act.Get()
			if act.Old == acts.MetallicMadnessAct3 {
				d.command("split (end of game)", d.timer.Split)
			} else {
				d.command(fmt.Sprintf("split (%s)", act.Old), d.timer.Split)
			}
		}
	}

	if host == timer.NotRunning && autosplitter.Start(&d.watchers, s) {
		d.command("start", d.timer.Start)
		d.command("pause game time", d.timer.PauseGameTime)
		d.loading(s)
	}

	return nil
}

// RefreshSettings reloads the settings file if it has changed since it was
// last loaded. Tick() does this automatically but a host may also call it
// from any goroutine.
func (d *Driver) RefreshSettings() {
	d.crit.Lock()
	defer d.crit.Unlock()
	d.refreshSettings()
}

// must be called with the critical section
func (d *Driver) refreshSettings() {
	if err := d.settings.Refresh(); err != nil {
		logger.Log(logger.Allow, "settings", err)
	}
}

// pause or resume game time depending on the loading state
func (d *Driver) loading(s settings.Values) {
	loading, ok := autosplitter.IsLoading(&d.watchers, s)
	if !ok {
		return
	}
	if loading {
		d.quiet(d.timer.PauseGameTime)
	} else {
		d.quiet(d.timer.ResumeGameTime)
	}
}

// send a command to the timer and log it
func (d *Driver) command(name string, f func() error) {
	if err := f(); err != nil {
		logger.Logf(logger.Allow, "timer", "%s: %v", name, err)
		return
	}
	logger.Log(logger.Allow, "timer", name)
}

// send a command to the timer that is sent every tick. only errors are logged
func (d *Driver) quiet(f func() error) {
	if err := f(); err != nil {
		logger.Log(logger.Allow, "timer", err)
	}
}

// state of the driver as dumped by DumpState()
type dump struct {
	Process   string
	Addresses *addresses.Addresses
	Watchers  *autosplitter.Watchers
	Settings  settings.Values
	Log       []string
}

// number of log entries included by DumpState()
const dumpLogEntries = 10

// DumpState writes a graph of the driver state to w, in the DOT format. The
// most recent entries of the central log are included.
func (d *Driver) DumpState(w io.Writer) {
	d.crit.Lock()
	defer d.crit.Unlock()

	st := dump{
		Addresses: d.addr,
		Watchers:  &d.watchers,
		Settings:  d.settings.Values(),
	}
	if d.proc != nil {
		st.Process = d.proc.Name()
	}

	logger.BorrowLog(func(entries []logger.Entry) {
		for _, e := range entries[max(0, len(entries)-dumpLogEntries):] {
			st.Log = append(st.Log, strings.TrimSpace(e.String()))
		}
	})

	memviz.Map(w, &st)
}
