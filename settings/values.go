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
	"github.com/cdsplit/cdsplit/acts"
)

// Values is a snapshot of the settings. It is a plain value and safe to pass
// between goroutines.
type Values struct {
	Start           bool
	Reset           bool
	AlternateTiming bool

	// one entry for every zone act, indexed by acts.Act.Index(). an entry
	// says whether the transition from that act to the next should split
	Splits [acts.NumZoneActs]bool
}

// Defaults returns the default values: start and reset enabled, default timing
// rules and every split enabled.
func Defaults() Values {
	v := Values{
		Start: true,
		Reset: true,
	}
	for i := range v.Splits {
		v.Splits[i] = true
	}
	return v
}

// SplitEnabled returns true if the split on leaving the act is enabled. Always
// false for acts that are not zone acts.
func (v Values) SplitEnabled(a acts.Act) bool {
	i, ok := a.Index()
	if !ok {
		return false
	}
	return v.Splits[i]
}
