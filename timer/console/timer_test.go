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

package console

import (
	"strings"
	"testing"
	"time"

	"github.com/cdsplit/cdsplit/curated"
	"github.com/cdsplit/cdsplit/test"
	"github.com/cdsplit/cdsplit/timer"
)

// clock is a manually advanced source of the current time
type clock struct {
	t time.Time
}

func (c *clock) now() time.Time {
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestTimer(segments int) (*Timer, *clock) {
	c := &clock{t: time.Date(1993, 9, 23, 0, 0, 0, 0, time.UTC)}
	return newTimer(segments, c.now), c
}

func TestStateMachine(t *testing.T) {
	tm, clk := newTestTimer(2)
	test.ExpectEquality(t, tm.State(), timer.NotRunning)

	// can't split or pause a timer that isn't running
	test.ExpectSuccess(t, curated.Is(tm.Split(), InvalidCommand))
	test.ExpectFailure(t, tm.Pause())

	test.ExpectSuccess(t, tm.Start())
	test.ExpectEquality(t, tm.State(), timer.Running)
	test.ExpectFailure(t, tm.Start())

	clk.advance(time.Second)
	test.ExpectSuccess(t, tm.Pause())
	test.ExpectEquality(t, tm.State(), timer.Paused)
	test.ExpectFailure(t, tm.Split())

	clk.advance(time.Hour)
	test.ExpectEquality(t, tm.RealTime(), time.Second)

	test.ExpectSuccess(t, tm.Pause())
	test.ExpectEquality(t, tm.State(), timer.Running)
	clk.advance(time.Second)
	test.ExpectEquality(t, tm.RealTime(), 2*time.Second)

	test.ExpectSuccess(t, tm.Split())
	test.ExpectEquality(t, tm.State(), timer.Running)
	test.ExpectSuccess(t, tm.Split())
	test.ExpectEquality(t, tm.State(), timer.Ended)

	// the run has ended. time no longer advances
	clk.advance(time.Minute)
	test.ExpectEquality(t, tm.RealTime(), 2*time.Second)
	test.ExpectEquality(t, len(tm.Splits()), 2)

	test.ExpectSuccess(t, tm.Reset())
	test.ExpectEquality(t, tm.State(), timer.NotRunning)
	test.ExpectEquality(t, tm.RealTime(), time.Duration(0))
	test.ExpectEquality(t, len(tm.Splits()), 0)
}

func TestGameTime(t *testing.T) {
	tm, clk := newTestTimer(0)
	test.ExpectSuccess(t, tm.Start())

	// game time runs with real time until paused
	clk.advance(2 * time.Second)
	test.ExpectEquality(t, tm.GameTime(), 2*time.Second)

	test.ExpectSuccess(t, tm.PauseGameTime())
	clk.advance(2 * time.Second)
	test.ExpectEquality(t, tm.GameTime(), 2*time.Second)
	test.ExpectEquality(t, tm.RealTime(), 4*time.Second)

	// set while paused
	test.ExpectSuccess(t, tm.SetGameTime(90*time.Second))
	clk.advance(time.Second)
	test.ExpectEquality(t, tm.GameTime(), 90*time.Second)

	// resume
	test.ExpectSuccess(t, tm.ResumeGameTime())
	clk.advance(time.Second)
	test.ExpectEquality(t, tm.GameTime(), 91*time.Second)

	// splits record game time
	test.ExpectSuccess(t, tm.Split())
	test.ExpectEquality(t, tm.Splits()[0], 91*time.Second)

	// pausing the timer pauses game time
	test.ExpectSuccess(t, tm.Pause())
	clk.advance(time.Second)
	test.ExpectEquality(t, tm.GameTime(), 91*time.Second)
	test.ExpectSuccess(t, tm.Pause())
	clk.advance(time.Second)
	test.ExpectEquality(t, tm.GameTime(), 92*time.Second)
}

func TestStatus(t *testing.T) {
	tm, clk := newTestTimer(21)
	test.ExpectEquality(t, tm.Status(), "NotRunning  1/21  RTA 0:00:00.000  IGT 0:00:00.000")

	test.ExpectSuccess(t, tm.Start())
	test.ExpectSuccess(t, tm.PauseGameTime())
	test.ExpectSuccess(t, tm.SetGameTime(75*time.Second+250*time.Millisecond))
	clk.advance(80 * time.Second)
	test.ExpectSuccess(t, tm.Split())

	s := tm.Status()
	test.ExpectSuccess(t, strings.HasPrefix(s, "Running "))
	test.ExpectSuccess(t, strings.HasSuffix(s, " 2/21  RTA 0:01:20.000  IGT 0:01:15.250"))
}
