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

package autosplitter_test

import (
	"testing"
	"time"

	"github.com/cdsplit/cdsplit/acts"
	"github.com/cdsplit/cdsplit/addresses"
	"github.com/cdsplit/cdsplit/autosplitter"
	"github.com/cdsplit/cdsplit/process"
	"github.com/cdsplit/cdsplit/settings"
	"github.com/cdsplit/cdsplit/test"
	"github.com/cdsplit/cdsplit/timer"
)

// game is a scripted game process. every game variable is at its own address
// in a synthetic memory image
type game struct {
	img  *process.Image
	addr *addresses.Addresses
	w    autosplitter.Watchers
}

func newGame(bug bool) *game {
	const base = 0x400000

	g := &game{
		img: process.NewImage(base, 0x1000),
		addr: &addresses.Addresses{
			Version:         addresses.Retail,
			HasCentisecsBug: bug,
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
		},
	}

	for _, a := range []process.Address{
		g.addr.DemoMode, g.addr.State, g.addr.ScoreTallyState,
		g.addr.BossHealthGood, g.addr.BossHealthBad,
		g.addr.LevelID, g.addr.LevelIDType, g.addr.TimerIsRunning,
		g.addr.Seconds, g.addr.Minutes, g.addr.Centisecs,
	} {
		g.img.WriteU8(a, 0)
	}
	g.img.WriteU32(g.addr.TimeBonus, 0)

	return g
}

func (g *game) level(levelType uint8, levelID uint8) {
	g.img.WriteU8(g.addr.LevelIDType, levelType)
	g.img.WriteU8(g.addr.LevelID, levelID)
}

// set the level from a level code
func (g *game) code(code uint32) {
	g.level(uint8(code/100), uint8(code%100))
}

func (g *game) clock(mins uint8, secs uint8, centisecs uint8) {
	g.img.WriteU8(g.addr.Minutes, mins)
	g.img.WriteU8(g.addr.Seconds, secs)
	g.img.WriteU8(g.addr.Centisecs, centisecs)
}

func (g *game) tick(host timer.State) {
	autosplitter.Update(g.img, g.addr, host, &g.w)
}

func (g *game) act() acts.Act {
	p, _ := g.w.Act.Get()
	return p.Current
}

func TestFirstTickAborts(t *testing.T) {
	g := newGame(false)
	g.code(1)

	g.tick(timer.NotRunning)
	_, ok := g.w.HostState.Get()
	test.ExpectSuccess(t, ok)
	_, ok = g.w.Act.Get()
	test.ExpectFailure(t, ok)
	_, ok = g.w.IGT.Get()
	test.ExpectFailure(t, ok)

	// no decision can be made without a baseline
	s := settings.Defaults()
	test.ExpectFailure(t, autosplitter.Start(&g.w, s))
	test.ExpectFailure(t, autosplitter.Split(&g.w, s))
	_, ok = autosplitter.GameTime(&g.w, s, g.addr)
	test.ExpectFailure(t, ok)

	g.tick(timer.NotRunning)
	test.ExpectEquality(t, g.act(), acts.MainMenu)
}

func TestCentisecsDuration(t *testing.T) {
	test.ExpectEquality(t, autosplitter.CentisecsDuration(0), time.Duration(0))
	test.ExpectEquality(t, autosplitter.CentisecsDuration(1), 10*time.Millisecond)
	test.ExpectEquality(t, autosplitter.CentisecsDuration(30), 500*time.Millisecond)
	test.ExpectEquality(t, autosplitter.CentisecsDuration(59), 980*time.Millisecond)
	test.ExpectEquality(t, autosplitter.CentisecsDuration(255), 4250*time.Millisecond)
}

func TestStart(t *testing.T) {
	g := newGame(false)
	g.code(1)
	s := settings.Defaults()

	g.img.WriteU8(g.addr.State, 6)
	g.tick(timer.NotRunning)
	g.tick(timer.NotRunning)
	test.ExpectFailure(t, autosplitter.Start(&g.w, s))

	g.img.WriteU8(g.addr.State, 7)
	g.tick(timer.NotRunning)
	test.ExpectSuccess(t, autosplitter.Start(&g.w, s))

	// disabled start
	s.Start = false
	test.ExpectFailure(t, autosplitter.Start(&g.w, s))
	s.Start = true

	// state remains at 7
	g.tick(timer.NotRunning)
	test.ExpectFailure(t, autosplitter.Start(&g.w, s))

	// 6 -> 7 outside of the main menu
	g.img.WriteU8(g.addr.State, 6)
	g.tick(timer.NotRunning)
	g.code(2)
	g.img.WriteU8(g.addr.State, 7)
	g.tick(timer.NotRunning)
	test.ExpectFailure(t, autosplitter.Start(&g.w, s))
}

func TestReset(t *testing.T) {
	g := newGame(false)
	g.code(1)
	s := settings.Defaults()

	g.img.WriteU8(g.addr.State, 3)
	g.tick(timer.Running)
	g.tick(timer.Running)
	test.ExpectFailure(t, autosplitter.Reset(&g.w, s))

	g.img.WriteU8(g.addr.State, 5)
	g.tick(timer.Running)
	test.ExpectSuccess(t, autosplitter.Reset(&g.w, s))

	s.Reset = false
	test.ExpectFailure(t, autosplitter.Reset(&g.w, s))
	s.Reset = true

	g.tick(timer.Running)
	test.ExpectFailure(t, autosplitter.Reset(&g.w, s))
}

func TestFailedStateRead(t *testing.T) {
	g := newGame(false)
	g.code(1)

	g.img.WriteU8(g.addr.State, 6)
	g.tick(timer.NotRunning)
	g.tick(timer.NotRunning)

	g.img.Forget(g.addr.State, 1)
	g.tick(timer.NotRunning)
	p, ok := g.w.State.Get()
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, p.Old, uint8(6))
	test.ExpectEquality(t, p.Current, uint8(6))
}

func TestSplitChain(t *testing.T) {
	s := settings.Defaults()

	for i := range acts.NumZoneActs - 1 {
		from, _ := acts.FromIndex(i)
		to, _ := acts.Next(from)

		g := newGame(false)
		g.code(100 + uint32(i/3)*10 + uint32(i%3)*4)
		g.tick(timer.Running)
		g.tick(timer.Running)
		test.DemandEquality(t, g.act(), from)

		g.code(100 + uint32((i+1)/3)*10 + uint32((i+1)%3)*4)
		g.tick(timer.Running)
		test.DemandEquality(t, g.act(), to)
		test.ExpectSuccess(t, autosplitter.Split(&g.w, s), from)

		// toggle for the act
		d := s
		d.Splits[i] = false
		test.ExpectFailure(t, autosplitter.Split(&g.w, d), from)

		// no split on the following tick
		g.tick(timer.Running)
		test.ExpectFailure(t, autosplitter.Split(&g.w, s), from)
	}
}

func TestSplitPalmtreePanic(t *testing.T) {
	g := newGame(false)
	g.code(100)
	g.tick(timer.Running)
	g.tick(timer.Running)

	g.code(104)
	g.tick(timer.Running)

	s := settings.Defaults()
	test.ExpectSuccess(t, autosplitter.Split(&g.w, s))

	s.Splits[0] = false
	test.ExpectFailure(t, autosplitter.Split(&g.w, s))
}

func TestNoSplitOnOtherTransitions(t *testing.T) {
	s := settings.Defaults()

	for _, c := range []struct {
		from uint32
		to   uint32
	}{
		{104, 100}, // reverse
		{100, 108}, // skipped act
		{100, 1},   // to the main menu
		{1, 100},   // from the main menu
		{158, 150}, // reverse over a zone
		{120, 120}, // no change
	} {
		g := newGame(false)
		g.code(c.from)
		g.tick(timer.Running)
		g.tick(timer.Running)
		g.code(c.to)
		g.tick(timer.Running)
		test.ExpectFailure(t, autosplitter.Split(&g.w, s), c.from, c.to)
	}
}

func TestScoreTallyHoldsAct(t *testing.T) {
	g := newGame(false)
	g.code(134)
	g.tick(timer.Running)
	g.tick(timer.Running)
	test.ExpectEquality(t, g.act(), acts.QuartzQuadrantAct2)

	// level ID reads as zero during the tally. without the tally check this
	// would be the title screen
	g.img.WriteU8(g.addr.ScoreTallyState, 1)
	g.code(0)
	g.tick(timer.Running)
	test.ExpectEquality(t, g.act(), acts.QuartzQuadrantAct2)
	test.ExpectFailure(t, autosplitter.Split(&g.w, settings.Defaults()))

	p, _ := g.w.FinalBossHealth.Get()
	test.ExpectEquality(t, p.Current, uint8(0xff))

	// tally on the very first update defaults to the first act
	g = newGame(false)
	g.img.WriteU8(g.addr.ScoreTallyState, 1)
	g.tick(timer.Running)
	g.tick(timer.Running)
	test.ExpectEquality(t, g.act(), acts.PalmtreePanicAct1)
}

func TestUnrecognisedCode(t *testing.T) {
	g := newGame(false)
	g.code(154)
	g.tick(timer.Running)
	g.tick(timer.Running)

	g.code(99)
	g.tick(timer.Running)
	test.ExpectEquality(t, g.act(), acts.StardustSpeedwayAct2)
}

// scripted boss fight in the final boss stage. returns the game and the
// address of the boss health counter for the stage
func bossFight(t *testing.T, good bool) (*game, process.Address) {
	t.Helper()

	g := newGame(false)
	code := uint32(acts.FinalBossBadCode)
	health := g.addr.BossHealthBad
	if good {
		code = acts.FinalBossGoodCode
		health = g.addr.BossHealthGood
	}

	g.img.WriteU8(g.addr.TimerIsRunning, 1)
	g.clock(10, 15, 0)
	g.code(code)
	g.img.WriteU8(health, 2)
	g.tick(timer.Running)
	g.tick(timer.Running)
	test.DemandEquality(t, g.act(), acts.MetallicMadnessAct3)

	g.img.WriteU8(health, 1)
	g.tick(timer.Running)
	return g, health
}

func TestFinalSplitDefaultRules(t *testing.T) {
	s := settings.Defaults()

	for _, good := range []bool{true, false} {
		g, health := bossFight(t, good)
		test.ExpectFailure(t, autosplitter.Split(&g.w, s))

		g.img.WriteU8(health, 0)
		g.tick(timer.Running)
		test.ExpectSuccess(t, autosplitter.Split(&g.w, s), good)

		// toggle for the final act
		d := s
		d.Splits[acts.NumZoneActs-1] = false
		test.ExpectFailure(t, autosplitter.Split(&g.w, d), good)

		// health stays at zero
		g.tick(timer.Running)
		test.ExpectFailure(t, autosplitter.Split(&g.w, s), good)
	}
}

func TestFinalSplitNeedsGameTime(t *testing.T) {
	g, health := bossFight(t, true)

	// the host timer isn't running so the in-game time is zero
	g.img.WriteU8(health, 0)
	g.tick(timer.NotRunning)
	test.ExpectFailure(t, autosplitter.Split(&g.w, settings.Defaults()))
}

func TestFinalSplitAlternateRules(t *testing.T) {
	s := settings.Defaults()
	s.AlternateTiming = true

	g, health := bossFight(t, true)

	// default rule does not apply
	g.img.WriteU8(health, 0)
	g.tick(timer.Running)
	test.ExpectFailure(t, autosplitter.Split(&g.w, s))

	// boss health was zero on the previous tick and the game goes to the
	// credits
	g.code(8)
	g.tick(timer.Running)
	test.ExpectEquality(t, g.act(), acts.Credits)
	test.ExpectSuccess(t, autosplitter.Split(&g.w, s))

	// same with the main menu
	g, health = bossFight(t, false)
	g.img.WriteU8(health, 0)
	g.tick(timer.Running)
	g.code(1)
	g.tick(timer.Running)
	test.ExpectSuccess(t, autosplitter.Split(&g.w, s))

	// boss not defeated
	g, _ = bossFight(t, true)
	g.code(1)
	g.tick(timer.Running)
	test.ExpectFailure(t, autosplitter.Split(&g.w, s))
}

func TestGameTimeRoundTrip(t *testing.T) {
	g := newGame(false)
	g.code(100)
	g.img.WriteU8(g.addr.TimerIsRunning, 1)
	g.clock(1, 30, 0)

	g.tick(timer.NotRunning)
	g.tick(timer.NotRunning)
	g.tick(timer.Running)

	gt, ok := autosplitter.GameTime(&g.w, settings.Defaults(), g.addr)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, gt, 90*time.Second)
	test.ExpectEquality(t, g.w.AccumulatedIGT, time.Duration(0))
	test.ExpectEquality(t, g.w.BufferIGT, time.Duration(0))
	test.ExpectEquality(t, g.w.IGTOffset, time.Duration(0))

	// centiseconds are included in builds without the bug
	g.clock(1, 30, 30)
	g.tick(timer.Running)
	gt, _ = autosplitter.GameTime(&g.w, settings.Defaults(), g.addr)
	test.ExpectEquality(t, gt, 90*time.Second+500*time.Millisecond)

	// no game time with the alternate rules
	s := settings.Defaults()
	s.AlternateTiming = true
	_, ok = autosplitter.GameTime(&g.w, s, g.addr)
	test.ExpectFailure(t, ok)
}

func TestGameTimeHeld(t *testing.T) {
	g := newGame(false)
	g.code(100)
	g.img.WriteU8(g.addr.TimerIsRunning, 1)
	g.clock(0, 40, 0)
	g.tick(timer.Running)
	g.tick(timer.Running)

	// the in-game timer has stopped. the clock values are ignored
	g.img.WriteU8(g.addr.TimerIsRunning, 0)
	g.tick(timer.Running)
	g.clock(0, 0, 0)
	g.tick(timer.Running)

	p, _ := g.w.IGT.Get()
	test.ExpectEquality(t, p.Current, 40*time.Second)
}

func TestDemoMode(t *testing.T) {
	g := newGame(false)
	g.code(100)
	g.img.WriteU8(g.addr.TimerIsRunning, 1)
	g.clock(0, 20, 0)
	g.tick(timer.Running)
	g.tick(timer.Running)

	g.img.WriteU8(g.addr.DemoMode, 1)
	g.tick(timer.Running)
	p, _ := g.w.IGT.Get()
	test.ExpectEquality(t, p.Current, time.Duration(0))

	// demo mode on the previous tick still zeroes the time
	g.img.WriteU8(g.addr.DemoMode, 0)
	g.tick(timer.Running)
	p, _ = g.w.IGT.Get()
	test.ExpectEquality(t, p.Current, time.Duration(0))

	g.tick(timer.Running)
	p, _ = g.w.IGT.Get()
	test.ExpectEquality(t, p.Current, 20*time.Second)
}

func TestAccumulatedGameTime(t *testing.T) {
	g := newGame(false)
	g.code(100)
	g.img.WriteU8(g.addr.TimerIsRunning, 1)
	g.clock(1, 30, 0)
	g.tick(timer.NotRunning)
	g.tick(timer.Running)

	var accumulated time.Duration
	check := func(expected time.Duration) {
		t.Helper()
		test.ExpectSuccess(t, g.w.AccumulatedIGT >= accumulated)
		accumulated = g.w.AccumulatedIGT
		gt, ok := autosplitter.GameTime(&g.w, settings.Defaults(), g.addr)
		test.ExpectSuccess(t, ok)
		test.ExpectEquality(t, gt, expected)
	}

	check(90 * time.Second)

	// the game's clock goes back (a new act)
	g.clock(0, 10, 0)
	g.tick(timer.Running)
	test.ExpectEquality(t, g.w.AccumulatedIGT, 90*time.Second)
	test.ExpectEquality(t, g.w.BufferIGT, 10*time.Second)
	check(90 * time.Second)

	g.clock(0, 20, 0)
	g.tick(timer.Running)
	check(100 * time.Second)

	g.clock(0, 5, 0)
	g.tick(timer.Running)
	test.ExpectEquality(t, g.w.AccumulatedIGT, 100*time.Second)
	check(100 * time.Second)

	// pausing the host timer doesn't reset anything
	g.tick(timer.Paused)
	check(100 * time.Second)

	// the host timer has been reset
	g.tick(timer.NotRunning)
	test.ExpectEquality(t, g.w.AccumulatedIGT, time.Duration(0))
	test.ExpectEquality(t, g.w.BufferIGT, time.Duration(0))
	test.ExpectEquality(t, g.w.IGTOffset, time.Duration(0))
}

func TestCentisecsBug(t *testing.T) {
	g := newGame(true)
	g.code(100)
	g.img.WriteU8(g.addr.TimerIsRunning, 1)
	g.clock(1, 30, 30)

	g.tick(timer.NotRunning)
	g.tick(timer.NotRunning)
	test.ExpectEquality(t, g.w.IGTOffset, time.Duration(0))

	g.tick(timer.Running)
	test.ExpectEquality(t, g.w.IGTOffset, 500*time.Millisecond)

	// the centiseconds counter isn't part of the in-game time but is added
	// to the game time
	p, _ := g.w.IGT.Get()
	test.ExpectEquality(t, p.Current, 90*time.Second)
	gt, _ := autosplitter.GameTime(&g.w, settings.Defaults(), g.addr)
	test.ExpectEquality(t, gt, 90*time.Second)

	g.clock(1, 30, 36)
	g.tick(timer.Running)
	gt, _ = autosplitter.GameTime(&g.w, settings.Defaults(), g.addr)
	test.ExpectEquality(t, gt, 90*time.Second+100*time.Millisecond)

	// resuming from a pause does not capture the offset again
	g.tick(timer.Paused)
	g.tick(timer.Running)
	test.ExpectEquality(t, g.w.IGTOffset, 500*time.Millisecond)
}

func TestTimeBonus(t *testing.T) {
	s := settings.Defaults()
	s.AlternateTiming = true

	g := newGame(false)
	g.code(108)

	g.tick(timer.Running)
	_, ok := autosplitter.IsLoading(&g.w, s)
	test.ExpectFailure(t, ok)

	g.tick(timer.Running)
	loading, ok := autosplitter.IsLoading(&g.w, s)
	test.ExpectSuccess(t, ok)
	test.ExpectFailure(t, loading)

	// time bonus leaves zero
	g.img.WriteU32(g.addr.TimeBonus, 5000)
	g.tick(timer.Running)
	test.ExpectEquality(t, g.w.TimeBonusStartValue, uint32(5000))
	loading, _ = autosplitter.IsLoading(&g.w, s)
	test.ExpectFailure(t, loading)

	// counting down
	g.img.WriteU32(g.addr.TimeBonus, 4900)
	g.tick(timer.Running)
	test.ExpectEquality(t, g.w.TimeBonusStartValue, uint32(5000))
	loading, _ = autosplitter.IsLoading(&g.w, s)
	test.ExpectSuccess(t, loading)

	// failed read leaves the time bonus alone
	g.img.Forget(g.addr.TimeBonus, 4)
	g.tick(timer.Running)
	p, _ := g.w.TimeBonus.Get()
	test.ExpectEquality(t, p.Current, uint32(4900))
	g.img.WriteU32(g.addr.TimeBonus, 4900)

	// finished
	g.img.WriteU32(g.addr.TimeBonus, 0)
	g.tick(timer.Running)
	test.ExpectEquality(t, g.w.TimeBonusStartValue, uint32(0))
	loading, _ = autosplitter.IsLoading(&g.w, s)
	test.ExpectFailure(t, loading)

	// default rules always pause game time
	loading, ok = autosplitter.IsLoading(&g.w, settings.Defaults())
	test.ExpectSuccess(t, ok)
	test.ExpectSuccess(t, loading)
}

func TestWatchersReset(t *testing.T) {
	g := newGame(false)
	g.code(100)
	g.tick(timer.Running)
	g.tick(timer.Running)
	g.w.AccumulatedIGT = time.Second

	g.w.Reset()
	test.ExpectEquality(t, g.w.AccumulatedIGT, time.Duration(0))
	_, ok := g.w.Act.Get()
	test.ExpectFailure(t, ok)
	test.ExpectEquality(t, g.w.String(), "no baseline")
}
