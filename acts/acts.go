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

// Package acts defines the logical locations of the game and the
// classification of the raw level code into those locations.
//
// The raw level code is formed from two bytes in game memory: the level type
// and the level id. The code is level_type*100 + level_id. Menus and the
// credits have single codes. Each zone has ten codes, split into four for act
// one, four for act two and two for act three (act three is the boss act).
package acts

// Act is a logical game location.
type Act int

// List of valid Act values.
const (
	TitleScreen Act = iota
	MainMenu
	TimeAttack
	PalmtreePanicAct1
	PalmtreePanicAct2
	PalmtreePanicAct3
	CollisionChaosAct1
	CollisionChaosAct2
	CollisionChaosAct3
	TidalTempestAct1
	TidalTempestAct2
	TidalTempestAct3
	QuartzQuadrantAct1
	QuartzQuadrantAct2
	QuartzQuadrantAct3
	WackyWorkbenchAct1
	WackyWorkbenchAct2
	WackyWorkbenchAct3
	StardustSpeedwayAct1
	StardustSpeedwayAct2
	StardustSpeedwayAct3
	MetallicMadnessAct1
	MetallicMadnessAct2
	MetallicMadnessAct3
	Credits

	// the number of Act values
	NumActs int = iota
)

// Default is the act used when the level code is not recognised and there is
// no previous act to fall back on.
const Default = PalmtreePanicAct1

// the zones in the order they are played.
var zones = [...]struct {
	name string
	key  string
}{
	{name: "Palmtree Panic", key: "palmtree_panic"},
	{name: "Collision Chaos", key: "collision_chaos"},
	{name: "Tidal Tempest", key: "tidal_tempest"},
	{name: "Quartz Quadrant", key: "quartz_quadrant"},
	{name: "Wacky Workbench", key: "wacky_workbench"},
	{name: "Stardust Speedway", key: "stardust_speedway"},
	{name: "Metallic Madness", key: "metallic_madness"},
}

// NumZoneActs is the number of playable zone acts. Seven zones of three acts.
const NumZoneActs = len(zones) * 3

// IsZoneAct returns true if the act is one of the playable zone acts.
func (a Act) IsZoneAct() bool {
	return a >= PalmtreePanicAct1 && a <= MetallicMadnessAct3
}

// Zone returns the zone index (zero based) and the act number (one based) of
// a zone act. Returns false if the act is not a zone act.
func (a Act) Zone() (zone int, act int, ok bool) {
	if !a.IsZoneAct() {
		return 0, 0, false
	}
	i := int(a - PalmtreePanicAct1)
	return i / 3, i%3 + 1, true
}

// Index returns the position of the act in the split chain, from zero for
// PalmtreePanicAct1 to NumZoneActs-1 for MetallicMadnessAct3. Returns false
// for any other act.
func (a Act) Index() (int, bool) {
	if !a.IsZoneAct() {
		return 0, false
	}
	return int(a - PalmtreePanicAct1), true
}

// FromIndex is the inverse of Index().
func FromIndex(i int) (Act, bool) {
	if i < 0 || i >= NumZoneActs {
		return 0, false
	}
	return PalmtreePanicAct1 + Act(i), true
}

// Key returns a short identifier suitable for use in settings files. For
// example, "palmtree_panic_1". Returns the empty string for acts that are not
// zone acts.
func (a Act) Key() string {
	z, n, ok := a.Zone()
	if !ok {
		return ""
	}
	return zones[z].key + "_" + string(rune('0'+n))
}

func (a Act) String() string {
	switch a {
	case TitleScreen:
		return "Title Screen"
	case MainMenu:
		return "Main Menu"
	case TimeAttack:
		return "Time Attack"
	case Credits:
		return "Credits"
	}

	z, n, ok := a.Zone()
	if !ok {
		return "unknown act"
	}
	return zones[z].name + " - Act " + string(rune('0'+n))
}

// Next returns the act that follows a in the split chain. The final act,
// MetallicMadnessAct3, has no successor because the split from that act is
// decided by the final boss and not by a change of level.
func Next(a Act) (Act, bool) {
	if !a.IsZoneAct() || a == MetallicMadnessAct3 {
		return 0, false
	}
	return a + 1, true
}
