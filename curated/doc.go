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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface.
//
// Curated errors are created with the Errorf() function. This is similar to
// the Errorf() function in the fmt package. It takes a formatting pattern,
// placeholder values and returns an error.
//
// The pattern is what identifies a curated error. Patterns should be stored as
// a const string in the package that creates the error, suitably named. For
// example, the process package defines:
//
//	const NotFound = "process: no running process named %v"
//
// and callers can test for that condition with:
//
//	if curated.Is(err, process.NotFound) {
//		// try again later
//	}
//
// The Has() function is similar but checks if a pattern occurs somewhere in
// the error chain.
//
//	e := curated.Errorf(process.NotFound, names)
//	f := curated.Errorf("driver: %v", e)
//
//	curated.Has(f, process.NotFound) // true
//	curated.Is(f, process.NotFound)  // false
//
// The IsAny() function answers whether the error was created by
// curated.Errorf(). We can think of the difference as being 'expected' and
// 'unexpected' errors.
//
// The Error() function implementation for curated errors ensures that the
// error chain is normalised. Specifically, that the chain does not begin with
// duplicate adjacent parts. This means that wrapping an error with the same
// prefix more than once is harmless:
//
//	curated.Errorf("settings: %v", curated.Errorf("settings: file not found"))
//
// prints as "settings: file not found". Chain parts are separated by the
// sub-string ": ".
//
// Curated errors also work with errors.Is() and errors.As() from the standard
// library. Any error value given to Errorf() is unwrapped.
package curated
