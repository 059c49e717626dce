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

package driver_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cdsplit/cdsplit/addresses"
	"github.com/cdsplit/cdsplit/curated"
	"github.com/cdsplit/cdsplit/driver"
	"github.com/cdsplit/cdsplit/process"
	"github.com/cdsplit/cdsplit/settings"
	"github.com/cdsplit/cdsplit/test"
	"github.com/cdsplit/cdsplit/timer"
)

// fakeTimer records every command
type fakeTimer struct {
	crit     sync.Mutex
	state    timer.State
	commands []string
}

func (f *fakeTimer) record(cmd string) error {
	f.crit.Lock()
	defer f.crit.Unlock()
	f.commands = append(f.commands, cmd)
	return nil
}

func (f *fakeTimer) State() timer.State {
	f.crit.Lock()
	defer f.crit.Unlock()
	return f.state
}

func (f *fakeTimer) setState(s timer.State) {
	f.crit.Lock()
	defer f.crit.Unlock()
	f.state = s
}

func (f *fakeTimer) Start() error {
	f.setState(timer.Running)
	return f.record("start")
}

func (f *fakeTimer) Split() error {
	return f.record("split")
}

func (f *fakeTimer) Reset() error {
	f.setState(timer.NotRunning)
	return f.record("reset")
}

func (f *fakeTimer) PauseGameTime() error {
	return f.record("pause")
}

func (f *fakeTimer) ResumeGameTime() error {
	return f.record("resume")
}

func (f *fakeTimer) SetGameTime(d time.Duration) error {
	return f.record("set " + timer.FormatGameTime(d))
}

// take all recorded commands
func (f *fakeTimer) take() string {
	f.crit.Lock()
	defer f.crit.Unlock()
	s := strings.Join(f.commands, ", ")
	f.commands = f.commands[:0]
	return s
}

// fakeProcess is a game process backed by a synthetic memory image. the
// process closes after a number of calls to IsOpen(). a negative life means
// the process never closes
type fakeProcess struct {
	*process.Image
	life    atomic.Int32
	forever bool
}

func (p *fakeProcess) Name() string {
	return "soniccd.exe"
}

func (p *fakeProcess) IsOpen() bool {
	if p.forever {
		return true
	}
	return p.life.Add(-1) >= 0
}

func (p *fakeProcess) Close() error {
	return nil
}

const base = 0x400000

var gameAddresses = addresses.Addresses{
	Version:         addresses.Decomp32v131,
	DemoMode:        base + 0x00,
	State:           base + 0x08,
	ScoreTallyState: base + 0x10,
	TimeBonus:       base + 0x18,
	BossHealthGood:  base + 0x20,
	BossHealthBad:   base + 0x28,
	LevelID:         base + 0x30,
	LevelIDType:     base + 0x38,
	TimerIsRunning:  base + 0x40,
	Seconds:         base + 0x48,
	Minutes:         base + 0x50,
	Centisecs:       base + 0x58,
}

func newProcess(life int32) *fakeProcess {
	p := &fakeProcess{
		Image:   process.NewImage(base, 0x1000),
		forever: life < 0,
	}
	p.life.Store(life)
	for a := gameAddresses.DemoMode; a <= gameAddresses.Centisecs; a++ {
		p.WriteU8(a, 0)
	}
	return p
}

func (p *fakeProcess) code(code uint32) {
	p.WriteU8(gameAddresses.LevelIDType, uint8(code/100))
	p.WriteU8(gameAddresses.LevelID, uint8(code%100))
}

func resolve(process.Module) (*addresses.Addresses, error) {
	a := gameAddresses
	return &a, nil
}

func newDriver(t *testing.T, proc *fakeProcess) (*driver.Driver, *fakeTimer, *settings.Settings) {
	t.Helper()

	tm := &fakeTimer{}
	s, err := settings.NewSettings("")
	test.DemandSuccess(t, err)

	d := driver.NewDriver(tm, s, driver.Config{
		Retry: time.Millisecond,
		Attach: func(names ...string) (driver.Process, error) {
			return proc, nil
		},
		Resolve: resolve,
	})

	test.DemandSuccess(t, d.Attach(context.Background()))
	return d, tm, s
}

func TestNotAttached(t *testing.T) {
	d := driver.NewDriver(&fakeTimer{}, nil, driver.Config{})
	err := d.Tick()
	test.ExpectSuccess(t, curated.Is(err, driver.NotAttached))
	test.ExpectEquality(t, d.Addresses(), (*addresses.Addresses)(nil))
}

func TestStart(t *testing.T) {
	p := newProcess(-1)
	d, tm, _ := newDriver(t, p)
	test.ExpectEquality(t, d.Addresses().Version, addresses.Decomp32v131)

	p.code(1)
	p.WriteU8(gameAddresses.State, 6)
	test.ExpectSuccess(t, d.Tick())
	test.ExpectSuccess(t, d.Tick())
	test.ExpectEquality(t, tm.take(), "")

	// start is followed by pausing game time and then the loading decision,
	// which for the default rules is to pause game time
	p.WriteU8(gameAddresses.State, 7)
	test.ExpectSuccess(t, d.Tick())
	test.ExpectEquality(t, tm.take(), "start, pause, pause")
	test.ExpectEquality(t, tm.State(), timer.Running)

	// running ticks keep game time paused and set the game time
	test.ExpectSuccess(t, d.Tick())
	test.ExpectEquality(t, tm.take(), "pause, set 0:00:00.000")
}

func TestStartDisabled(t *testing.T) {
	p := newProcess(-1)
	d, tm, s := newDriver(t, p)
	test.DemandSuccess(t, s.Start.Set(false))

	p.code(1)
	p.WriteU8(gameAddresses.State, 6)
	test.ExpectSuccess(t, d.Tick())
	test.ExpectSuccess(t, d.Tick())
	p.WriteU8(gameAddresses.State, 7)
	test.ExpectSuccess(t, d.Tick())
	test.ExpectEquality(t, tm.take(), "")
}

func TestRefreshSettings(t *testing.T) {
	pth := filepath.Join(t.TempDir(), "settings.cue")
	s, err := settings.NewSettings(pth)
	test.DemandSuccess(t, err)

	d := driver.NewDriver(&fakeTimer{}, s, driver.Config{})
	test.ExpectEquality(t, s.Values().Start, true)

	test.DemandSuccess(t, os.WriteFile(pth, []byte("start: false\n"), 0600))
	d.RefreshSettings()
	test.ExpectEquality(t, s.Values().Start, false)
	test.ExpectEquality(t, s.Values().Reset, true)
}

func TestSplitAndReset(t *testing.T) {
	p := newProcess(-1)
	d, tm, _ := newDriver(t, p)
	tm.setState(timer.Running)

	p.WriteU8(gameAddresses.TimerIsRunning, 1)
	p.WriteU8(gameAddresses.Minutes, 1)
	p.WriteU8(gameAddresses.Seconds, 30)
	p.code(100)

	// no baseline on the first tick. only the loading decision can be made
	test.ExpectSuccess(t, d.Tick())
	test.ExpectEquality(t, tm.take(), "pause")

	test.ExpectSuccess(t, d.Tick())
	test.ExpectEquality(t, tm.take(), "pause, set 0:01:30.000")

	p.code(104)
	test.ExpectSuccess(t, d.Tick())
	test.ExpectEquality(t, tm.take(), "pause, set 0:01:30.000, split")

	// reset takes precedence over split
	p.WriteU8(gameAddresses.State, 5)
	p.code(1)
	test.ExpectSuccess(t, d.Tick())
	test.ExpectEquality(t, tm.take(), "pause, set 0:01:30.000, reset")
	test.ExpectEquality(t, tm.State(), timer.NotRunning)
}

func TestAlternateTiming(t *testing.T) {
	p := newProcess(-1)
	d, tm, s := newDriver(t, p)
	test.DemandSuccess(t, s.AlternateTiming.Set(true))
	tm.setState(timer.Running)

	p.code(108)
	test.ExpectSuccess(t, d.Tick())
	test.ExpectSuccess(t, d.Tick())
	test.ExpectEquality(t, tm.take(), "resume")

	p.WriteU32(gameAddresses.TimeBonus, 5000)
	test.ExpectSuccess(t, d.Tick())
	p.WriteU32(gameAddresses.TimeBonus, 4000)
	test.ExpectSuccess(t, d.Tick())
	test.ExpectEquality(t, tm.take(), "resume, pause")
}

func TestEndedTimer(t *testing.T) {
	p := newProcess(-1)
	d, tm, _ := newDriver(t, p)
	tm.setState(timer.Ended)

	p.code(1)
	p.WriteU8(gameAddresses.State, 6)
	test.ExpectSuccess(t, d.Tick())
	test.ExpectSuccess(t, d.Tick())
	p.WriteU8(gameAddresses.State, 7)
	test.ExpectSuccess(t, d.Tick())

	// an ended timer is neither running nor waiting to start
	test.ExpectEquality(t, tm.take(), "")
}

func TestProcessLost(t *testing.T) {
	p := newProcess(1)
	d, _, _ := newDriver(t, p)

	test.ExpectSuccess(t, d.Tick())
	err := d.Tick()
	test.ExpectSuccess(t, curated.Is(err, driver.ProcessLost))
	test.ExpectEquality(t, d.Addresses(), (*addresses.Addresses)(nil))
	test.ExpectSuccess(t, curated.Is(d.Tick(), driver.NotAttached))
}

func TestRun(t *testing.T) {
	var attaches atomic.Int32
	var resolves atomic.Int32

	s, err := settings.NewSettings("")
	test.DemandSuccess(t, err)

	d := driver.NewDriver(&fakeTimer{}, s, driver.Config{
		Rate:  1000,
		Retry: time.Millisecond,
		Attach: func(names ...string) (driver.Process, error) {
			if attaches.Add(1)%2 == 1 {
				return nil, curated.Errorf(process.NotFound, names)
			}
			return newProcess(5), nil
		},
		Resolve: func(m process.Module) (*addresses.Addresses, error) {
			if resolves.Add(1)%2 == 1 {
				return nil, errors.New("not ready")
			}
			return resolve(m)
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		done <- d.Run(ctx)
	}()

	// the process closes after a few ticks. the driver attaches again
	deadline := time.Now().Add(5 * time.Second)
	for attaches.Load() < 6 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	test.ExpectSuccess(t, attaches.Load() >= 6)

	cancel()
	select {
	case err := <-done:
		test.ExpectSuccess(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return")
	}
	test.ExpectEquality(t, d.Addresses(), (*addresses.Addresses)(nil))
}

func TestDumpState(t *testing.T) {
	p := newProcess(-1)
	d, _, _ := newDriver(t, p)
	test.ExpectSuccess(t, d.Tick())

	w := &strings.Builder{}
	d.DumpState(w)
	test.ExpectSuccess(t, strings.Contains(w.String(), "digraph"))

	// the log entry made on attaching is in the dump
	test.ExpectSuccess(t, strings.Contains(w.String(), "attached"))
}
