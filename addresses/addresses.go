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

// Package addresses identifies which build of the game is running and
// resolves the addresses of the variables that the autosplitter watches.
//
// Resolution happens once per attachment. The resulting Addresses value is
// never changed. If the process is lost the Addresses value must be discarded
// and resolved again for the new process.
package addresses

import (
	"fmt"
	"io"

	"github.com/cdsplit/cdsplit/process"
)

// ProcessNames are the executable names of every known build of the game.
var ProcessNames = []string{
	"soniccd.exe",
	"RSDKv3.exe",
	"RSDKv3_64.exe",
	"RSDKv3_HW.exe",
	"RSDKv3_HW_64.exe",
	"Sonic CD.exe",
	"Sonic CD_64.exe",
	"Restored.exe",
	"Legacy.exe",
}

// GameVersion identifies the build of the game.
type GameVersion int

// List of valid GameVersion values.
const (
	// the 2011 retail release
	Retail GameVersion = iota

	// the RSDKv3 decompilation up to v1.3.0
	Decomp32v100

	// the RSDKv3 decompilation from v1.3.1
	Decomp32v131

	// 64 bit builds of the decompilation
	Decomp64v100
	Decomp64v131
)

func (v GameVersion) String() string {
	switch v {
	case Retail:
		return "retail"
	case Decomp32v100:
		return "decompilation (32 bit, v1.0.0)"
	case Decomp32v131:
		return "decompilation (32 bit, v1.3.1)"
	case Decomp64v100:
		return "decompilation (64 bit, v1.0.0)"
	case Decomp64v131:
		return "decompilation (64 bit, v1.3.1)"
	}
	return "unknown"
}

// Is64Bit returns true if the build is a 64 bit executable.
func (v GameVersion) Is64Bit() bool {
	return v == Decomp64v100 || v == Decomp64v131
}

// Addresses of the game variables.
type Addresses struct {
	Version GameVersion

	// the centiseconds counter in some builds does not reset correctly at the
	// beginning of a run
	HasCentisecsBug bool

	DemoMode        process.Address
	State           process.Address
	ScoreTallyState process.Address
	TimeBonus       process.Address
	BossHealthGood  process.Address
	BossHealthBad   process.Address
	LevelID         process.Address
	LevelIDType     process.Address
	TimerIsRunning  process.Address
	Seconds         process.Address
	Minutes         process.Address
	Centisecs       process.Address
}

func (a *Addresses) String() string {
	return fmt.Sprintf("%s (centiseconds bug: %v)", a.Version, a.HasCentisecsBug)
}

// Write a list of all addresses to w.
func (a *Addresses) Write(w io.Writer) {
	fmt.Fprintf(w, "build:             %s\n", a.Version)
	fmt.Fprintf(w, "centiseconds bug:  %v\n", a.HasCentisecsBug)
	for _, f := range []struct {
		name string
		addr process.Address
	}{
		{"demo mode", a.DemoMode},
		{"state", a.State},
		{"score tally state", a.ScoreTallyState},
		{"time bonus", a.TimeBonus},
		{"boss health (good)", a.BossHealthGood},
		{"boss health (bad)", a.BossHealthBad},
		{"level id", a.LevelID},
		{"level id type", a.LevelIDType},
		{"timer is running", a.TimerIsRunning},
		{"seconds", a.Seconds},
		{"minutes", a.Minutes},
		{"centiseconds", a.Centisecs},
	} {
		fmt.Fprintf(w, "%-19s%v\n", f.name+":", f.addr)
	}
}
