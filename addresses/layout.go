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

package addresses

// pointerPath describes how to find a variable from the pointer table. see
// resolver.follow() for how the fields are interpreted.
type pointerPath struct {
	offset1  uint64
	offset2  uint64
	offset3  uint64
	absolute bool
}

// layout of the pointer paths for a build of the game.
type layout struct {
	demoMode        pointerPath
	levelIDType     pointerPath
	levelID         pointerPath
	timerIsRunning  pointerPath
	state           pointerPath
	scoreTallyState pointerPath
	timeBonus       pointerPath
	bossHealthGood  pointerPath
	bossHealthBad   pointerPath
}

var layouts = map[GameVersion]layout{
	Retail: {
		demoMode:        pointerPath{0x4 * 11, 16, 0x1ac, true},
		levelIDType:     pointerPath{0x4 * 119, 12, 0, true},
		levelID:         pointerPath{0x4 * 120, 12, 0, true},
		timerIsRunning:  pointerPath{0x4 * 121, 11, 0, true},
		state:           pointerPath{0x4 * 19, 18, 0x1078, true},
		scoreTallyState: pointerPath{0x4 * 19, 18, 0x7f8, true},
		timeBonus:       pointerPath{0x4 * 37, 18, 0x7f8, true},
		bossHealthGood:  pointerPath{0x4 * 32, 18, 0x37c8, true},
		bossHealthBad:   pointerPath{0x4 * 32, 18, 0x380c, true},
	},
	Decomp32v100: {
		demoMode:        pointerPath{0x4 * 11, 10, 0x1ac, true},
		levelIDType:     pointerPath{0x4 * 119, 8, 0, true},
		levelID:         pointerPath{0x4 * 120, 8, 0, true},
		timerIsRunning:  pointerPath{0x4 * 121, 11, 0, true},
		state:           pointerPath{0x4 * 19, 17, 0x1078, true},
		scoreTallyState: pointerPath{0x4 * 19, 17, 0x7f8, true},
		timeBonus:       pointerPath{0x4 * 37, 17, 0x7f8, true},
		bossHealthGood:  pointerPath{0x4 * 32, 17, 0x37c8, true},
		bossHealthBad:   pointerPath{0x4 * 32, 17, 0x380c, true},
	},
	Decomp32v131: {
		demoMode:        pointerPath{0x4 * 11, 10, 0x1ac, true},
		levelIDType:     pointerPath{0x4 * 119, 9, 0, true},
		levelID:         pointerPath{0x4 * 120, 9, 0, true},
		timerIsRunning:  pointerPath{0x4 * 121, 11, 0, true},
		state:           pointerPath{0x4 * 19, 17, 0x1078, true},
		scoreTallyState: pointerPath{0x4 * 19, 17, 0x7f8, true},
		timeBonus:       pointerPath{0x4 * 37, 17, 0x7f8, true},
		bossHealthGood:  pointerPath{0x4 * 32, 17, 0x37c8, true},
		bossHealthBad:   pointerPath{0x4 * 32, 17, 0x380c, true},
	},
}

// the two 64 bit builds share a layout. an offset1 of zero means the variable
// is found relative to the LEA anchor.
var layout64 = layout{
	demoMode:        pointerPath{0x4 * 11, 15, 0x1ac, true},
	levelIDType:     pointerPath{0x4 * 119, 10, 0, false},
	levelID:         pointerPath{0x4 * 120, 10, 0, false},
	timerIsRunning:  pointerPath{0x4 * 121, 12, 0, false},
	state:           pointerPath{0, 0, 0x10b2, false},
	scoreTallyState: pointerPath{0, 0, 0x832, false},
	timeBonus:       pointerPath{0, 0, 0x814, false},
	bossHealthGood:  pointerPath{0, 0, 0x37d0, false},
	bossHealthBad:   pointerPath{0, 0, 0x3814, false},
}

func init() {
	layouts[Decomp64v100] = layout64
	layouts[Decomp64v131] = layout64
}

// offsets from the start of the timer signature to the operands that hold the
// addresses of the centiseconds, seconds and minutes counters.
type timerOperands struct {
	centisecs uint64
	seconds   uint64
	minutes   uint64
}

var (
	timerRetail     = timerOperands{1, 35, 69}
	timerDecomp32   = timerOperands{2, 29, 51}
	timerDecomp64   = timerOperands{2, 29, 54}
	timerDecomp64V2 = timerOperands{2, 31, 57}
)
