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

//go:build windows

package process

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/cdsplit/cdsplit/curated"
	"golang.org/x/sys/windows"
)

// exit code of a process that is still running.
const stillActive = 259

// Process is an attached process.
type Process struct {
	pid    uint32
	name   string
	handle windows.Handle
}

// Attach to the first running process whose executable name matches one of
// names. The match is case insensitive.
func Attach(names ...string) (*Process, error) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return nil, curated.Errorf(NotFound, names)
	}
	defer windows.CloseHandle(snap)

	var e windows.ProcessEntry32
	e.Size = uint32(unsafe.Sizeof(e))

	for err = windows.Process32First(snap, &e); err == nil; err = windows.Process32Next(snap, &e) {
		exe := windows.UTF16ToString(e.ExeFile[:])
		for _, n := range names {
			if !strings.EqualFold(exe, n) {
				continue
			}

			h, err := windows.OpenProcess(windows.PROCESS_VM_READ|windows.PROCESS_QUERY_LIMITED_INFORMATION, false, e.ProcessID)
			if err != nil {
				continue
			}

			return &Process{pid: e.ProcessID, name: n, handle: h}, nil
		}
	}

	return nil, curated.Errorf(NotFound, names)
}

func (p *Process) String() string {
	return fmt.Sprintf("%s (pid %d)", p.name, p.pid)
}

// Name returns the name that was used to attach to the process.
func (p *Process) Name() string {
	return p.name
}

// IsOpen returns false once the process has exited.
func (p *Process) IsOpen() bool {
	var code uint32
	if err := windows.GetExitCodeProcess(p.handle, &code); err != nil {
		return false
	}
	return code == stillActive
}

// Close the handle to the process. The process itself is unaffected.
func (p *Process) Close() error {
	return windows.CloseHandle(p.handle)
}

// ReadMemory implements the Reader interface.
func (p *Process) ReadMemory(addr Address, b []byte) error {
	if len(b) == 0 {
		return nil
	}

	var n uintptr
	err := windows.ReadProcessMemory(p.handle, uintptr(addr), &b[0], uintptr(len(b)), &n)
	if err != nil {
		return curated.Errorf(ReadError, len(b), addr, err)
	}
	if int(n) != len(b) {
		return curated.Errorf(ShortRead, addr, n, len(b))
	}
	return nil
}

// MainModule implements the Module interface.
func (p *Process) MainModule() (Address, uint64, error) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPMODULE|windows.TH32CS_SNAPMODULE32, p.pid)
	if err != nil {
		return 0, 0, curated.Errorf(ModuleNotFound, p.name)
	}
	defer windows.CloseHandle(snap)

	var e windows.ModuleEntry32
	e.Size = uint32(unsafe.Sizeof(e))

	for err = windows.Module32First(snap, &e); err == nil; err = windows.Module32Next(snap, &e) {
		if !strings.EqualFold(windows.UTF16ToString(e.Module[:]), p.name) {
			continue
		}

		base := Address(e.ModBaseAddr)
		size, err := ReadSizeOfImage(p, base)
		if err != nil {
			return 0, 0, err
		}
		return base, uint64(size), nil
	}

	return 0, 0, curated.Errorf(ModuleNotFound, p.name)
}
