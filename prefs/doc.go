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

// Package prefs implements preference values that can be safely read and
// written from more than one goroutine, and a stack of preference overrides
// taken from the command line.
//
// Preference values are loaded from and saved to disk by the package that owns
// them. The settings package, for example, keeps its values in a CUE file.
//
// Command line overrides are specified as a single string of key/value pairs:
//
//	"start::false; palmtree_panic_1::false"
//
// The string is added to the stack with PushCommandLineStack() and individual
// values retrieved with GetCommandLinePref(). A value is removed from the
// stack when it is retrieved, which means that PopCommandLineStack() returns
// only the values that were never used. This is useful for warning the user
// about misspelled keys.
package prefs
