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

package signature

import (
	"github.com/cdsplit/cdsplit/process"
)

// memory is read in pages of this size. a page that cannot be read is
// skipped.
const pageSize = 0x1000

// ScanRange searches memory from base for size bytes. Returns the address of
// the first match.
//
// Memory is read one page at a time. Matches that cross a page boundary are
// found because the tail of each page is carried over to the next. A page that
// cannot be read breaks the carry.
func (sig Signature) ScanRange(r process.Reader, base process.Address, size uint64) (process.Address, bool) {
	if len(sig.bytes) == 0 {
		return 0, false
	}

	overlap := len(sig.bytes) - 1
	page := make([]byte, pageSize)

	// window holds the carried tail of the previous page followed by the
	// current page
	window := make([]byte, 0, overlap+pageSize)

	// address of window[0]
	var windowAddr process.Address

	end := base + process.Address(size)
	for addr := base; addr < end; addr += pageSize {
		n := pageSize
		if rem := uint64(end - addr); rem < pageSize {
			n = int(rem)
		}

		if err := r.ReadMemory(addr, page[:n]); err != nil {
			window = window[:0]
			continue
		}

		if len(window) == 0 {
			windowAddr = addr
		}
		window = append(window, page[:n]...)

		if i, ok := sig.Scan(window); ok {
			return windowAddr + process.Address(i), true
		}

		// carry the tail of the window
		if len(window) > overlap {
			tail := window[len(window)-overlap:]
			windowAddr += process.Address(len(window) - overlap)
			window = append(window[:0], tail...)
		}
	}

	return 0, false
}

// ScanModule searches the main module of the process.
func (sig Signature) ScanModule(m process.Module) (process.Address, bool) {
	base, size, err := m.MainModule()
	if err != nil {
		return 0, false
	}
	return sig.ScanRange(m, base, size)
}
