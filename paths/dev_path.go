//go:build !release

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

package paths

import (
	"os"
	"path/filepath"
)

const cdsplitConfigDir = ".cdsplit"

// the development version of getBasePath() prefers a config directory in the
// current working directory
func getBasePath() (string, error) {
	if _, err := os.Stat(cdsplitConfigDir); err == nil {
		return cdsplitConfigDir, nil
	}

	cnf, err := os.UserConfigDir()
	if err != nil {
		return cdsplitConfigDir, nil
	}

	return filepath.Join(cnf, cdsplitConfigDir[1:]), nil
}
