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
	"github.com/cdsplit/cdsplit/process"
	"github.com/cdsplit/cdsplit/timer"
)

// boss health value used when the final boss is not on screen
const noBoss = 0xff

// CentisecsDuration converts the raw centiseconds counter to a duration. The
// counter counts frames at 60Hz and the conversion truncates, first to
// hundredths of a second and then to milliseconds.
func CentisecsDuration(raw uint8) time.Duration {
	cs := (uint64(raw) * 100) / 60
	return time.Duration(cs*10) * time.Millisecond
}

// Update the watchers with the current state of the game and the host timer.
// Failed memory reads are treated as zero, except for the raw state and the
// time bonus counter where a failed read leaves the watcher as it was.
//
// Steps that depend on a watcher that has no value yet end the update for this
// tick. The decision functions will see the partial update, which is safe
// because they defer any decision until the values they need are present.
func Update(mem process.Reader, addr *addresses.Addresses, host timer.State, w *Watchers) {
	_, hadHost := w.HostState.Get()
	hostState := w.HostState.Set(host)
	if !hadHost {
		return
	}

	// standard values
	demo := w.DemoMode.Set(process.ReadU8OrZero(mem, addr.DemoMode) > 0)
	state, err := process.ReadU8(mem, addr.State)
	w.State.Update(state, err == nil)
	running := w.TimerIsRunning.Set(process.ReadU8OrZero(mem, addr.TimerIsRunning) > 0)

	// current act and the health of the final boss
	if process.ReadU8OrZero(mem, addr.ScoreTallyState) == 0 {
		code := acts.Code(process.ReadU8OrZero(mem, addr.LevelIDType), process.ReadU8OrZero(mem, addr.LevelID))

		prev, havePrev := w.Act.Get()
		w.Act.Set(acts.Classify(code, prev.Current, havePrev))

		switch code {
		case acts.FinalBossGoodCode:
			w.FinalBossHealth.Set(process.ReadU8OrZero(mem, addr.BossHealthGood))
		case acts.FinalBossBadCode:
			w.FinalBossHealth.Set(process.ReadU8OrZero(mem, addr.BossHealthBad))
		default:
			w.FinalBossHealth.Set(noBoss)
		}
	} else {
		// the level ID is not reliable while the score is being tallied
		prev, ok := w.Act.Get()
		if ok {
			w.Act.Set(prev.Current)
		} else {
			w.Act.Set(acts.Default)
		}
		w.FinalBossHealth.Set(noBoss)
	}

	// in-game time
	centisecs := w.Centisecs.Set(CentisecsDuration(process.ReadU8OrZero(mem, addr.Centisecs)))

	var igt time.Duration
	switch {
	case demo.Current || demo.Old || hostState.Current == timer.NotRunning:
		igt = 0
	case !running.Old && !running.Current:
		if prev, ok := w.IGT.Get(); ok {
			igt = prev.Current
		}
	default:
		mins := time.Duration(process.ReadU8OrZero(mem, addr.Minutes))
		secs := time.Duration(process.ReadU8OrZero(mem, addr.Seconds))
		igt = mins*time.Minute + secs*time.Second
		if !addr.HasCentisecsBug {
			igt += centisecs.Current
		}
	}
	final := w.IGT.Set(igt)

	if hostState.Current == timer.NotRunning {
		w.AccumulatedIGT = 0
		w.BufferIGT = 0
		w.IGTOffset = 0
	} else if final.Current < final.Old {
		// the game's timer has gone backwards. keep the time that has been
		// lost
		w.AccumulatedIGT += final.Old - w.BufferIGT
		w.BufferIGT = final.Current
	}

	// the game's centiseconds counter isn't reset at the start of a run in
	// builds with the bug. remember the value so it can be subtracted from
	// the game time
	if addr.HasCentisecsBug && hostState.ChangedFromTo(timer.NotRunning, timer.Running) {
		w.IGTOffset = centisecs.Current
	}

	// time bonus
	v, err := process.ReadU32(mem, addr.TimeBonus)
	if err != nil {
		return
	}
	bonus := w.TimeBonus.Set(v)
	if bonus.ChangedFrom(0) {
		w.TimeBonusStartValue = bonus.Current
	} else if bonus.Current == 0 {
		w.TimeBonusStartValue = 0
	}
}
