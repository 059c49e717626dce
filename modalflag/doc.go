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

// Package modalflag is a wrapper for the flag package in the Go standard
// library. It provides a convenient method of handling program modes and
// allows different flags for each mode.
//
// Whereas, with flag.FlagSet you call Parse() with the array of strings as the
// only argument, with modalflag you first call NewArgs() with the array of
// arguments and then Parse() with no arguments:
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("RUN", "RESOLVE", "SETTINGS")
//	p, err := md.Parse()
//
// The first sub-mode in the list is the default. If the first argument after
// the flags is not one of the sub-modes then the default mode is selected and
// the argument is left for the next call to Parse(). Sub-mode comparisons are
// case insensitive.
//
// Once the mode has been decided, the flags for that mode are added after a
// call to NewMode() and the arguments are parsed again:
//
//	switch md.Mode() {
//	case "RUN":
//		md.NewMode()
//		rate := md.AddInt("rate", 120, "ticks per second")
//		p, err := md.Parse()
//		if err != nil || p != modalflag.ParseContinue {
//			return err
//		}
//		run(*rate, md.RemainingArgs())
//	}
//
// Help messages are printed by Parse() when the -help flag is given. The help
// message lists the flags and sub-modes of the current mode.
package modalflag
