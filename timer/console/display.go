//go:build !windows

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
	"time"

	"github.com/cdsplit/cdsplit/easyterm"
	"github.com/cdsplit/cdsplit/logger"
)

// refresh rate of the status line
const refresh = 50 * time.Millisecond

// Display shows a Timer on the terminal.
type Display struct {
	easyterm.Terminal
	timer *Timer
}

// NewDisplay is the preferred method of initialisation for the Display type.
func NewDisplay(t *Timer, input *os.File, output *os.File) (*Display, error) {
	d := &Display{timer: t}
	if err := d.Initialise(input, output); err != nil {
		return nil, err
	}
	return d, nil
}

// Run the display until the context is cancelled or the user quits. The quit
// function is called when the user presses 'q' or interrupts the program.
func (d *Display) Run(ctx context.Context, quit func()) {
	d.CBreakMode()
	defer func() {
		d.Print("\n")
		d.CleanUp()
	}()

	keys := make(chan byte)
	go func() {
		for {
			k, err := d.ReadKey()
			if err != nil {
				close(keys)
				return
			}
			select {
			case keys <- k:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(refresh)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case k, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			switch k {
			case 'q', 'Q', easyterm.KeyInterrupt:
				quit()
				return
			case 'r', 'R':
				_ = d.timer.Reset()
			case 'p', 'P':
				if err := d.timer.Pause(); err != nil {
					logger.Log(logger.Allow, "console", err)
				}
			}
		case <-ticker.C:
		}
		d.draw()
	}
}

func (d *Display) draw() {
	s := d.timer.Status()
	if w := int(d.Geometry().Cols); w > 0 && len(s) >= w {
		s = s[:w-1]
	}
	d.Print("%s%s", easyterm.ClearLine, s)
}
