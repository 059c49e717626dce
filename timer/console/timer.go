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

// Package console is a minimal speedrun timer for the terminal. It is useful
// when neither LiveSplit nor LiveSplit One is available, and for checking that
// the autosplitter behaves as expected.
//
// The Timer type is the timer itself and implements the timer.Timer
// interface. The Display type shows the timer on the terminal status line and
// takes commands from the keyboard:
//
//	r	reset the timer
//	p	pause or resume the timer
//	q	quit
package console

import (
	"fmt"
	"sync"
	"time"

	"github.com/cdsplit/cdsplit/acts"
	"github.com/cdsplit/cdsplit/curated"
	"github.com/cdsplit/cdsplit/timer"
)

// DefaultSegments is one segment for every zone act.
const DefaultSegments = acts.NumZoneActs

// Sentinal error patterns
const (
	InvalidCommand = "console: %s: timer is %v"
)

// Timer implements the timer.Timer interface. Real time and game time are
// kept separately, as they are in LiveSplit. Game time runs at the same rate as
// real time except when it is paused, and it can be set directly.
type Timer struct {
	crit sync.Mutex

	// source of the current time
	now func() time.Time

	segments int
	state    timer.State

	// real time. while paused the value in elapsed is the real time
	started time.Time
	elapsed time.Duration

	// game time. while running and not paused the game time is the value in
	// gameTime plus the time since gameTimeSet
	gameTime       time.Duration
	gameTimeSet    time.Time
	gameTimePaused bool

	// game time of every split made in the current run
	splits []time.Duration
}

// NewTimer is the preferred method of initialisation for the Timer type.
func NewTimer(segments int) *Timer {
	return newTimer(segments, time.Now)
}

func newTimer(segments int, now func() time.Time) *Timer {
	if segments <= 0 {
		segments = DefaultSegments
	}
	return &Timer{
		now:      now,
		segments: segments,
	}
}

// State implements the timer.Timer interface.
func (t *Timer) State() timer.State {
	t.crit.Lock()
	defer t.crit.Unlock()
	return t.state
}

// Start implements the timer.Timer interface.
func (t *Timer) Start() error {
	t.crit.Lock()
	defer t.crit.Unlock()

	if t.state != timer.NotRunning {
		return curated.Errorf(InvalidCommand, "start", t.state)
	}

	now := t.now()
	t.state = timer.Running
	t.started = now
	t.elapsed = 0
	t.gameTime = 0
	t.gameTimeSet = now
	t.gameTimePaused = false
	t.splits = t.splits[:0]

	return nil
}

// Split implements the timer.Timer interface. The final split ends the run.
func (t *Timer) Split() error {
	t.crit.Lock()
	defer t.crit.Unlock()

	if t.state != timer.Running {
		return curated.Errorf(InvalidCommand, "split", t.state)
	}

	now := t.now()
	t.splits = append(t.splits, t.gameTimeAt(now))
	if len(t.splits) >= t.segments {
		t.elapsed = now.Sub(t.started)
		t.gameTime = t.gameTimeAt(now)
		t.gameTimePaused = true
		t.state = timer.Ended
	}

	return nil
}

// Reset implements the timer.Timer interface.
func (t *Timer) Reset() error {
	t.crit.Lock()
	defer t.crit.Unlock()

	t.state = timer.NotRunning
	t.elapsed = 0
	t.gameTime = 0
	t.gameTimePaused = false
	t.splits = t.splits[:0]

	return nil
}

// Pause the timer if it is running or resume it if it is paused. Pausing the
// timer also pauses game time.
func (t *Timer) Pause() error {
	t.crit.Lock()
	defer t.crit.Unlock()

	now := t.now()

	switch t.state {
	case timer.Running:
		t.elapsed = now.Sub(t.started)
		t.gameTime = t.gameTimeAt(now)
		t.gameTimeSet = now
		t.state = timer.Paused
	case timer.Paused:
		t.started = now.Add(-t.elapsed)
		t.gameTimeSet = now
		t.state = timer.Running
	default:
		return curated.Errorf(InvalidCommand, "pause", t.state)
	}

	return nil
}

// PauseGameTime implements the timer.Timer interface.
func (t *Timer) PauseGameTime() error {
	t.crit.Lock()
	defer t.crit.Unlock()

	if !t.gameTimePaused {
		now := t.now()
		t.gameTime = t.gameTimeAt(now)
		t.gameTimeSet = now
		t.gameTimePaused = true
	}

	return nil
}

// ResumeGameTime implements the timer.Timer interface.
func (t *Timer) ResumeGameTime() error {
	t.crit.Lock()
	defer t.crit.Unlock()

	if t.gameTimePaused {
		t.gameTimeSet = t.now()
		t.gameTimePaused = false
	}

	return nil
}

// SetGameTime implements the timer.Timer interface.
func (t *Timer) SetGameTime(d time.Duration) error {
	t.crit.Lock()
	defer t.crit.Unlock()

	t.gameTime = d
	t.gameTimeSet = t.now()

	return nil
}

// must be called with the critical section
func (t *Timer) gameTimeAt(now time.Time) time.Duration {
	if t.gameTimePaused || t.state != timer.Running {
		return t.gameTime
	}
	return t.gameTime + now.Sub(t.gameTimeSet)
}

// RealTime returns the real time of the current run.
func (t *Timer) RealTime() time.Duration {
	t.crit.Lock()
	defer t.crit.Unlock()

	if t.state == timer.Running {
		return t.now().Sub(t.started)
	}
	return t.elapsed
}

// GameTime returns the game time of the current run.
func (t *Timer) GameTime() time.Duration {
	t.crit.Lock()
	defer t.crit.Unlock()
	return t.gameTimeAt(t.now())
}

// Splits returns the game time at each split of the current run.
func (t *Timer) Splits() []time.Duration {
	t.crit.Lock()
	defer t.crit.Unlock()
	return append([]time.Duration(nil), t.splits...)
}

// Status returns a single line summary of the timer.
func (t *Timer) Status() string {
	t.crit.Lock()
	defer t.crit.Unlock()

	now := t.now()

	rta := t.elapsed
	if t.state == timer.Running {
		rta = now.Sub(t.started)
	}

	segment := min(len(t.splits)+1, t.segments)

	return fmt.Sprintf("%-10s %2d/%d  RTA %s  IGT %s", t.state, segment, t.segments,
		timer.FormatGameTime(rta), timer.FormatGameTime(t.gameTimeAt(now)))
}
