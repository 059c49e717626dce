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

// Package driver runs the autosplitter. It finds the game process, resolves
// the addresses of the game variables and then, once per tick, updates the
// autosplitter state and sends commands to the host timer.
//
// All state is protected by a single mutex which is held for the duration of
// a tick. This means that Tick() can be called by a host on its own schedule,
// from any goroutine, as an alternative to Run().
package driver
