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

// Package settings holds the user settings of the autosplitter: whether the
// timer is started and reset automatically, which timing rules are used and
// which act transitions cause a split.
//
// Settings are backed by prefs.Bool values and loaded from a CUE file. The
// file is checked for changes every time Refresh() is called, which the driver
// does once per tick, so that settings can be edited while the game is being
// played. Values taken from the command line (see the prefs package) override
// the file and survive a reload.
//
// The autosplitter decision functions never see a Settings instance. They are
// given a Values snapshot taken at the start of the tick.
package settings
