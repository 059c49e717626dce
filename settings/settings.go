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

package settings

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/cdsplit/cdsplit/acts"
	"github.com/cdsplit/cdsplit/curated"
	"github.com/cdsplit/cdsplit/logger"
	"github.com/cdsplit/cdsplit/prefs"
)

// keys that are not split toggles
const (
	KeyStart           = "start"
	KeyReset           = "reset"
	KeyAlternateTiming = "alternate_timing"
)

// Sentinal error patterns
const (
	BadOverride = "settings: command line value for %s: %v"
)

type entry struct {
	key   string
	label string
	value *prefs.Bool
	def   bool
}

// Settings is the live set of user settings.
type Settings struct {
	crit sync.Mutex

	Start           prefs.Bool
	Reset           prefs.Bool
	AlternateTiming prefs.Bool
	Splits          [acts.NumZoneActs]prefs.Bool

	entries []entry

	// values taken from the command line. reapplied after every load
	overrides map[string]prefs.Value

	// the settings file and its modification time when last loaded. a zero
	// modTime means the file has not been loaded
	path    string
	modTime time.Time
}

// NewSettings is the preferred method of initialisation for the Settings type.
//
// The path argument is the location of the settings file. It can be empty, in
// which case the settings are never loaded from disk. A missing file is not an
// error.
func NewSettings(path string) (*Settings, error) {
	s := &Settings{
		path:      path,
		overrides: make(map[string]prefs.Value),
	}

	s.entries = append(s.entries,
		entry{key: KeyStart, label: "START --> Enable auto start", value: &s.Start, def: true},
		entry{key: KeyReset, label: "RESET --> Enable auto reset", value: &s.Reset, def: true},
		entry{key: KeyAlternateTiming, label: "TIMING --> Use All Time Stones timing rules (RTA-TB)", value: &s.AlternateTiming},
	)
	for i := range s.Splits {
		a, _ := acts.FromIndex(i)
		s.entries = append(s.entries, entry{key: a.Key(), label: a.String(), value: &s.Splits[i], def: true})
	}

	s.defaults()

	// command line values are removed from the prefs stack as they are
	// retrieved. the remaining (unused) values can be reported by the caller
	// with prefs.PopCommandLineStack()
	for _, e := range s.entries {
		if ok, v := prefs.GetCommandLinePref(e.key); ok {
			if err := e.value.Set(v); err != nil {
				return nil, curated.Errorf(BadOverride, e.key, err)
			}
			s.overrides[e.key] = v
		}
	}

	if err := s.Refresh(); err != nil {
		logger.Log(logger.Allow, "settings", err)
	}

	return s, nil
}

func (s *Settings) defaults() {
	for _, e := range s.entries {
		_ = e.value.Set(e.def)
	}
}

func (s *Settings) applyOverrides() {
	for _, e := range s.entries {
		if v, ok := s.overrides[e.key]; ok {
			_ = e.value.Set(v)
		}
	}
}

func (s *Settings) lookup(key string) *prefs.Bool {
	for _, e := range s.entries {
		if e.key == key {
			return e.value
		}
	}
	return nil
}

// Keys returns the settings keys in the order they are written to the
// settings file.
func (s *Settings) Keys() []string {
	k := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		k = append(k, e.key)
	}
	return k
}

// Label returns the description of the setting. Returns the empty string if
// the key is not recognised.
func (s *Settings) Label(key string) string {
	for _, e := range s.entries {
		if e.key == key {
			return e.label
		}
	}
	return ""
}

// Values returns a snapshot of the current settings.
func (s *Settings) Values() Values {
	v := Values{
		Start:           s.Start.Value(),
		Reset:           s.Reset.Value(),
		AlternateTiming: s.AlternateTiming.Value(),
	}
	for i := range s.Splits {
		v.Splits[i] = s.Splits[i].Value()
	}
	return v
}

// Write the settings to w in the format of the settings file. Each value is
// preceded by its label as a comment.
func (s *Settings) Write(w io.Writer) error {
	if _, err := io.WriteString(w, "// cdsplit settings\n"); err != nil {
		return err
	}
	for _, e := range s.entries {
		if _, err := fmt.Fprintf(w, "\n// %s\n%s: %s\n", e.label, e.key, e.value); err != nil {
			return err
		}
	}
	return nil
}

func (s *Settings) String() string {
	return fmt.Sprintf("start=%s reset=%s alternate_timing=%s", &s.Start, &s.Reset, &s.AlternateTiming)
}
