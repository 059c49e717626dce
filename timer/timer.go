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

// Package timer defines the interface to the speedrun timer that the
// autosplitter drives. The timer itself is external. Its state is only
// observed, never decided, by the autosplitter.
//
// Implementations are found in the sub-packages: livesplit (LiveSplit Server
// over TCP), lso (LiveSplit One over a websocket) and console (a minimal timer
// in the terminal).
package timer

import (
	"fmt"
	"strings"
	"time"
)

// State of the timer.
type State int

// List of valid State values.
const (
	NotRunning State = iota
	Running
	Paused

	// the final split has been made. the timer must be reset before another
	// run can start
	Ended
)

func (s State) String() string {
	switch s {
	case NotRunning:
		return "NotRunning"
	case Running:
		return "Running"
	case Paused:
		return "Paused"
	case Ended:
		return "Ended"
	}
	return "unknown"
}

// ParseState is the inverse of State.String(). The match is case insensitive.
func ParseState(s string) (State, error) {
	for _, st := range []State{NotRunning, Running, Paused, Ended} {
		if strings.EqualFold(s, st.String()) {
			return st, nil
		}
	}
	return NotRunning, fmt.Errorf("timer: unknown state %q", s)
}

// Timer is implemented by host timers.
type Timer interface {
	// State returns the current state of the timer.
	State() State

	Start() error
	Split() error
	Reset() error
	PauseGameTime() error
	ResumeGameTime() error
	SetGameTime(time.Duration) error
}

// FormatGameTime returns the duration in the H:MM:SS.mmm format accepted by
// LiveSplit. Negative durations are formatted as zero.
func FormatGameTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	h := ms / 3600000
	m := ms / 60000 % 60
	s := ms / 1000 % 60
	ms %= 1000
	return fmt.Sprintf("%d:%02d:%02d.%03d", h, m, s, ms)
}
