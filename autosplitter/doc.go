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

// Package autosplitter is the state inference engine of cdsplit. Every tick the
// Update() function reads the game's memory and updates the Watchers
// aggregate. The decision functions Start(), Split(), Reset(), IsLoading() and
// GameTime() then look at the aggregate and say what the host timer should do.
//
// The decision functions are pure. They never read memory and never change the
// aggregate, which means they can be called in any order and as often as
// required during a tick.
//
// A Watchers instance is owned by the caller and passed explicitly to every
// function. The package has no global state. The driver package holds the
// instance for an attached process and protects it with a mutex.
package autosplitter
