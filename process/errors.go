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

package process

// Patterns for curated errors returned by this package.
const (
	NotFound       = "process: no running process named %v"
	ReadError      = "process: read %d bytes at %v: %v"
	ShortRead      = "process: short read at %v (%d of %d bytes)"
	ModuleNotFound = "process: main module of %s not found"
	BadImage       = "process: main module at %v: %v"
	MalformedStat  = "process: malformed stat for pid %d"
)
