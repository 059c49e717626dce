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

package acts

// Level codes of the two final boss stages. Which one is loaded depends on
// whether the player is on course for the good or the bad ending.
const (
	FinalBossGoodCode = 168
	FinalBossBadCode  = 169
)

// Code returns the numeric level code for the level type and level id bytes.
func Code(levelType uint8, levelID uint8) uint32 {
	return uint32(levelType)*100 + uint32(levelID)
}

// lookup maps a level code to an act. The second return value is false if the
// code is not recognised.
func lookup(code uint32) (Act, bool) {
	switch code {
	case 0:
		return TitleScreen, true
	case 1:
		return MainMenu, true
	case 2:
		return TimeAttack, true
	case 8:
		return Credits, true
	}

	if code < 100 || code > 169 {
		return 0, false
	}

	// each zone occupies ten codes: 0-3 act one, 4-7 act two, 8-9 act three
	z := Act((code - 100) / 10)
	var n Act
	switch (code - 100) % 10 {
	case 0, 1, 2, 3:
		n = 0
	case 4, 5, 6, 7:
		n = 1
	default:
		n = 2
	}

	return PalmtreePanicAct1 + z*3 + n, true
}

// Classify the level code. An unrecognised code results in the previous act.
// If there is no previous act (havePrev is false) then the Default act is
// returned.
func Classify(code uint32, prev Act, havePrev bool) Act {
	if a, ok := lookup(code); ok {
		return a
	}
	if havePrev {
		return prev
	}
	return Default
}
