//go:build windows

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

package console

import (
	"context"
	"os"

	"github.com/cdsplit/cdsplit/curated"
)

// NoDisplay is returned by NewDisplay on platforms without a terminal display.
const NoDisplay = "console: display not supported on this platform"

// Display is not available on Windows.
type Display struct{}

// NewDisplay always returns an error on Windows.
func NewDisplay(t *Timer, input *os.File, output *os.File) (*Display, error) {
	return nil, curated.Errorf(NoDisplay)
}

// Run returns immediately.
func (d *Display) Run(ctx context.Context, quit func()) {
}
