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

package addresses

import "github.com/cdsplit/cdsplit/signature"

// signatures that identify the build of the game. the wildcard bytes are the
// operands that lead to the table of pointers to the game's variables.
var (
	sig32Retail    = signature.MustParse("FF 24 85 ?? ?? ?? ?? 8B 4D F0 8B 14 8D")
	sig32Decomp100 = signature.MustParse("FF 24 85 ?? ?? ?? ?? 8B 04 B5")
	sig32Decomp131 = signature.MustParse("FF 24 8D ?? ?? ?? ?? 8B 0C 85")
	sig64Decomp100 = signature.MustParse("41 8B 8C 8C ?? ?? ?? ?? 49 03 CC")
	sig64Decomp131 = signature.MustParse("41 8B 94 95 ?? ?? ?? ?? 49")

	// RIP-relative LEA of the object entity list in 64 bit builds
	sig64DecompLEA = signature.MustParse("4C 8D 35 ?? ?? ?? ?? 44 8B 1D")
)

// signatures of the code that updates the in-game timer.
var (
	sig32RetailCentisecs   = signature.MustParse("A2 ?? ?? ?? ?? 0F B6 0D ?? ?? ?? ?? 83 F9 3C")
	sig32DecompCentisecs   = signature.MustParse("89 0D ?? ?? ?? ?? 3B CE")
	sig64DecompCentisecs   = signature.MustParse("89 0D ?? ?? ?? ?? 41 3B C8 75 3A")
	sig64DecompCentisecsV2 = signature.MustParse("89 0D ?? ?? ?? ?? 41 3B C8 75 3E")
)

// signatures of the fixed timer reset code. builds of the decompilation that
// contain this code do not have the centiseconds bug.
var (
	sig32DecompTimerFix = signature.MustParse("C6 05 ?? ?? ?? ?? 00 C6 05 ?? ?? ?? ?? 00 C7 05 ?? ?? ?? ?? 00 00 00 00 C7 05 ?? ?? ?? ?? 00 00 00 00")
	sig64DecompTimerFix = signature.MustParse("89 15 ?? ?? ?? ?? E8 ?? ?? ?? ?? 48 63 15")
)
