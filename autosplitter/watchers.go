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

package autosplitter

import (
	"fmt"
	"time"

	"github.com/cdsplit/cdsplit/acts"
	"github.com/cdsplit/cdsplit/timer"
	"github.com/cdsplit/cdsplit/watcher"
)

// Watchers is the complete mutable state of the engine. The zero value is
// ready to use and is the state of a newly attached process.
type Watchers struct {
	// in-game time reconciliation. all three values are zero whenever the
	// host timer is not running
	AccumulatedIGT time.Duration
	BufferIGT      time.Duration
	IGTOffset      time.Duration

	// value of the time bonus counter when it last left zero
	TimeBonusStartValue uint32

	DemoMode        watcher.Watcher[bool]
	State           watcher.Watcher[uint8]
	TimeBonus       watcher.Watcher[uint32]
	FinalBossHealth watcher.Watcher[uint8]
	Act             watcher.Watcher[acts.Act]
	TimerIsRunning  watcher.Watcher[bool]
	IGT             watcher.Watcher[time.Duration]
	Centisecs       watcher.Watcher[time.Duration]
	HostState       watcher.Watcher[timer.State]
}

// Reset the aggregate to its zero value.
func (w *Watchers) Reset() {
	*w = Watchers{}
}

func (w *Watchers) String() string {
	act, ok := w.Act.Get()
	if !ok {
		return "no baseline"
	}
	igt, _ := w.IGT.Get()
	host, _ := w.HostState.Get()
	return fmt.Sprintf("%s igt=%s acc=%s buf=%s off=%s host=%s",
		act.Current, igt.Current, w.AccumulatedIGT, w.BufferIGT, w.IGTOffset, host.Current)
}
