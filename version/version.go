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

// Package version reports the version of cdsplit. The version number is set
// at link time for release builds:
//
//	go build -ldflags "-X github.com/cdsplit/cdsplit/version.number=v1.0.0"
//
// Otherwise the version is derived from the VCS information embedded in the
// binary by the Go toolchain.
package version

import (
	"fmt"
	"runtime/debug"
)

// ApplicationName is the name of the program as it should appear in user
// facing output.
const ApplicationName = "cdsplit"

// GameName is the game the autosplitter supports.
const GameName = "Sonic CD (2011)"

// set by the linker for release builds.
var number string

var (
	revision string
	version  string
)

// Version returns the version string, the revision string and whether this
// is a release build.
func Version() (string, string, bool) {
	return version, revision, number != "" && version == number
}

// Banner returns a single line describing the program and version.
func Banner() string {
	return fmt.Sprintf("%s %s (%s) for %s", ApplicationName, version, revision, GameName)
}

func fromBuildInfo(info *debug.BuildInfo, ok bool) (string, string) {
	var vcs bool
	var vcsRevision string
	var vcsModified bool

	if ok {
		for _, v := range info.Settings {
			switch v.Key {
			case "vcs":
				vcs = true
			case "vcs.revision":
				vcsRevision = v.Value
			case "vcs.modified":
				vcsModified = v.Value == "true"
			}
		}
	}

	rev := "no revision information"
	if vcsRevision != "" {
		rev = vcsRevision
		if vcsModified {
			rev = fmt.Sprintf("%s+dirty", rev)
		}
	}

	if number != "" {
		return number, rev
	}
	if vcs {
		return "unreleased", rev
	}
	return "local", rev
}

func init() {
	version, revision = fromBuildInfo(debug.ReadBuildInfo())
}
