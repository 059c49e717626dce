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

// Package signature finds byte patterns in the memory of a process. Patterns
// are written as a string of hex bytes separated by spaces, with "??" as a
// wildcard for a byte that can take any value:
//
//	FF 24 85 ?? ?? ?? ?? 8B 4D F0
//
// Signatures are used to identify which build of the game is running and to
// find the instructions that reference the variables we want to watch.
package signature

import (
	"strconv"
	"strings"

	"github.com/cdsplit/cdsplit/curated"
)

// Sentinal error patterns
const (
	BadPattern = "signature: %q: %v"
)

// Signature is a parsed pattern.
type Signature struct {
	pattern string
	bytes   []byte
	mask    []bool
}

// Parse a pattern string.
func Parse(pattern string) (Signature, error) {
	sig := Signature{pattern: pattern}

	for _, f := range strings.Fields(pattern) {
		if f == "??" || f == "?" {
			sig.bytes = append(sig.bytes, 0)
			sig.mask = append(sig.mask, false)
			continue
		}

		v, err := strconv.ParseUint(f, 16, 8)
		if err != nil {
			return Signature{}, curated.Errorf(BadPattern, pattern, err)
		}
		sig.bytes = append(sig.bytes, byte(v))
		sig.mask = append(sig.mask, true)
	}

	if len(sig.bytes) == 0 {
		return Signature{}, curated.Errorf(BadPattern, pattern, "empty pattern")
	}

	return sig, nil
}

// MustParse is like Parse but panics if the pattern is invalid. It is intended
// for package level signature definitions.
func MustParse(pattern string) Signature {
	sig, err := Parse(pattern)
	if err != nil {
		panic(err)
	}
	return sig
}

func (sig Signature) String() string {
	return sig.pattern
}

// Len returns the number of bytes in the pattern.
func (sig Signature) Len() int {
	return len(sig.bytes)
}

// match returns true if the pattern matches data at offset i.
func (sig Signature) match(data []byte, i int) bool {
	for j, b := range sig.bytes {
		if sig.mask[j] && data[i+j] != b {
			return false
		}
	}
	return true
}

// Scan data for the first occurrence of the pattern. Returns the offset of the
// match.
func (sig Signature) Scan(data []byte) (int, bool) {
	for i := 0; i+len(sig.bytes) <= len(data); i++ {
		if sig.match(data, i) {
			return i, true
		}
	}
	return 0, false
}
