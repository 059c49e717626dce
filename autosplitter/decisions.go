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
	"time"

	"github.com/cdsplit/cdsplit/acts"
	"github.com/cdsplit/cdsplit/addresses"
	"github.com/cdsplit/cdsplit/settings"
)

// raw state values
const (
	stateReset      = 5
	stateMenu       = 6
	stateMenuChosen = 7
)

// Start returns true if a new run has started. That is, an option has been
// chosen from the main menu.
func Start(w *Watchers, s settings.Values) bool {
	if !s.Start {
		return false
	}
	act, ok := w.Act.Get()
	if !ok {
		return false
	}
	state, ok := w.State.Get()
	if !ok {
		return false
	}
	return act.Current == acts.MainMenu && state.ChangedFromTo(stateMenu, stateMenuChosen)
}

// Reset returns true if the game has returned to the main menu in a way that
// should reset the timer.
func Reset(w *Watchers, s settings.Values) bool {
	if !s.Reset {
		return false
	}
	act, ok := w.Act.Get()
	if !ok {
		return false
	}
	state, ok := w.State.Get()
	if !ok {
		return false
	}
	return act.Current == acts.MainMenu && state.ChangedTo(stateReset)
}

// Split returns true if the act has just finished and the split for the act
// is enabled. The final act finishes when the final boss is defeated.
func Split(w *Watchers, s settings.Values) bool {
	act, ok := w.Act.Get()
	if !ok {
		return false
	}

	if !s.SplitEnabled(act.Old) {
		return false
	}

	if next, ok := acts.Next(act.Old); ok {
		return act.Current == next
	}

	if act.Old != acts.MetallicMadnessAct3 {
		return false
	}

	boss, ok := w.FinalBossHealth.Get()
	if !ok {
		return false
	}
	igt, ok := w.IGT.Get()
	if !ok {
		return false
	}

	if s.AlternateTiming {
		return (act.Current == acts.Credits || act.Current == acts.MainMenu) &&
			boss.Old == 0 && igt.Old != 0
	}

	return boss.ChangedFromTo(1, 0) && igt.Current != 0
}

// IsLoading returns whether game time should be paused. The second return
// value is false if no decision can be made this tick.
//
// With the default timing rules game time is always paused because it is set
// directly by GameTime(). With the alternate rules game time is real time,
// paused while the time bonus is being counted down.
func IsLoading(w *Watchers, s settings.Values) (bool, bool) {
	if !s.AlternateTiming {
		return true, true
	}
	bonus, ok := w.TimeBonus.Get()
	if !ok {
		return false, false
	}
	return w.TimeBonusStartValue != 0 && bonus.Current != w.TimeBonusStartValue, true
}

// GameTime returns the game time that should be set on the host timer. The
// second return value is false if the game time should not be set, either
// because the alternate timing rules are in use or because there is no value
// yet.
func GameTime(w *Watchers, s settings.Values, addr *addresses.Addresses) (time.Duration, bool) {
	if s.AlternateTiming {
		return 0, false
	}
	igt, ok := w.IGT.Get()
	if !ok {
		return 0, false
	}
	centisecs, ok := w.Centisecs.Get()
	if !ok {
		return 0, false
	}

	t := igt.Current + w.AccumulatedIGT - w.BufferIGT - w.IGTOffset
	if addr.HasCentisecsBug {
		t += centisecs.Current
	}
	return t, true
}
