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

package settings_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cdsplit/cdsplit/acts"
	"github.com/cdsplit/cdsplit/curated"
	"github.com/cdsplit/cdsplit/prefs"
	"github.com/cdsplit/cdsplit/settings"
	"github.com/cdsplit/cdsplit/test"
)

func writeFile(t *testing.T, pth string, content string, mod time.Time) {
	t.Helper()
	test.DemandSuccess(t, os.WriteFile(pth, []byte(content), 0600))
	test.DemandSuccess(t, os.Chtimes(pth, mod, mod))
}

func TestDefaults(t *testing.T) {
	s, err := settings.NewSettings("")
	test.DemandSuccess(t, err)

	v := s.Values()
	test.ExpectEquality(t, v, settings.Defaults())
	test.ExpectSuccess(t, v.Start)
	test.ExpectSuccess(t, v.Reset)
	test.ExpectFailure(t, v.AlternateTiming)
	test.ExpectSuccess(t, v.SplitEnabled(acts.PalmtreePanicAct1))
	test.ExpectSuccess(t, v.SplitEnabled(acts.MetallicMadnessAct3))
	test.ExpectFailure(t, v.SplitEnabled(acts.MainMenu))
	test.ExpectFailure(t, v.SplitEnabled(acts.Credits))

	keys := s.Keys()
	test.ExpectEquality(t, len(keys), acts.NumZoneActs+3)
	test.ExpectEquality(t, keys[0], "start")
	test.ExpectEquality(t, keys[3], "palmtree_panic_1")
	test.ExpectEquality(t, keys[len(keys)-1], "metallic_madness_3")

	test.ExpectEquality(t, s.Label("alternate_timing"), "TIMING --> Use All Time Stones timing rules (RTA-TB)")
	test.ExpectEquality(t, s.Label("quartz_quadrant_2"), "Quartz Quadrant - Act 2")
	test.ExpectEquality(t, s.Label("nonsense"), "")
}

func TestLoadAndRefresh(t *testing.T) {
	pth := filepath.Join(t.TempDir(), "settings.cue")
	mod := time.Now().Add(-time.Hour)

	writeFile(t, pth, "start: false\ntidal_tempest_2: false\n", mod)

	s, err := settings.NewSettings(pth)
	test.DemandSuccess(t, err)

	v := s.Values()
	test.ExpectFailure(t, v.Start)
	test.ExpectSuccess(t, v.Reset)
	test.ExpectFailure(t, v.SplitEnabled(acts.TidalTempestAct2))
	test.ExpectSuccess(t, v.SplitEnabled(acts.TidalTempestAct3))

	// file changed. values not in the file return to their defaults
	writeFile(t, pth, "alternate_timing: true\n", mod.Add(time.Minute))
	test.ExpectSuccess(t, s.Refresh())

	v = s.Values()
	test.ExpectSuccess(t, v.Start)
	test.ExpectSuccess(t, v.AlternateTiming)
	test.ExpectSuccess(t, v.SplitEnabled(acts.TidalTempestAct2))

	// invalid file. current values are retained
	writeFile(t, pth, "alternate_timing: 10\n", mod.Add(2*time.Minute))
	err = s.Refresh()
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, settings.SchemaError))
	test.ExpectSuccess(t, s.Values().AlternateTiming)

	// unknown keys are rejected
	writeFile(t, pth, "palmtree_panic_4: false\n", mod.Add(3*time.Minute))
	test.ExpectFailure(t, s.Refresh())

	// file removed
	test.DemandSuccess(t, os.Remove(pth))
	test.ExpectSuccess(t, s.Refresh())
	test.ExpectEquality(t, s.Values(), settings.Defaults())
}

func TestOverrides(t *testing.T) {
	pth := filepath.Join(t.TempDir(), "settings.cue")
	writeFile(t, pth, "reset: true\ncollision_chaos_1: true\n", time.Now().Add(-time.Hour))

	prefs.PushCommandLineStack("reset::false; collision_chaos_1::false; foo::bar")
	s, err := settings.NewSettings(pth)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "foo::bar")

	v := s.Values()
	test.ExpectFailure(t, v.Reset)
	test.ExpectFailure(t, v.SplitEnabled(acts.CollisionChaosAct1))

	// overrides survive a reload
	writeFile(t, pth, "reset: true\n", time.Now())
	test.ExpectSuccess(t, s.Refresh())
	test.ExpectFailure(t, s.Values().Reset)

	// bad override value
	prefs.PushCommandLineStack("start::perhaps")
	_, err = settings.NewSettings("")
	test.ExpectSuccess(t, curated.Is(err, settings.BadOverride))
	prefs.PopCommandLineStack()
}

func TestSaveAndReload(t *testing.T) {
	pth := filepath.Join(t.TempDir(), "settings.cue")

	s, err := settings.NewSettings(pth)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, s.Splits[4].Set(false))
	test.DemandSuccess(t, s.AlternateTiming.Set(true))
	test.DemandSuccess(t, s.Save())

	b, err := os.ReadFile(pth)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, strings.Contains(string(b), "// Collision Chaos - Act 2\ncollision_chaos_2: false\n"))

	// a second instance reads the saved file
	r, err := settings.NewSettings(pth)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, r.Values(), s.Values())
}
