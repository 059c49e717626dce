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

//go:build linux

package process

import (
	"bufio"
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/cdsplit/cdsplit/curated"
	"golang.org/x/sys/unix"
)

// Process is an attached process.
type Process struct {
	pid  int
	name string

	// start time of the process in clock ticks since boot. used to detect
	// that the pid has been reused by a different process
	started uint64
}

// Attach to the first running process whose name matches one of names. The
// match is case insensitive. Both the kernel's name for the process and the
// base name of the first command line argument are checked. The latter is
// required for Wine processes whose kernel name is truncated.
func Attach(names ...string) (*Process, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, curated.Errorf(NotFound, names)
	}

	for _, e := range entries {
		pid, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}

		n, ok := matchName(pid, names)
		if !ok {
			continue
		}

		started, err := startTime(pid)
		if err != nil {
			continue
		}

		return &Process{pid: pid, name: n, started: started}, nil
	}

	return nil, curated.Errorf(NotFound, names)
}

// matchName returns the entry in names that matches the process.
func matchName(pid int, names []string) (string, bool) {
	var candidates []string

	if comm, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", pid)); err == nil {
		candidates = append(candidates, strings.TrimSpace(string(comm)))
	}

	if cmdline, err := os.ReadFile(fmt.Sprintf("/proc/%d/cmdline", pid)); err == nil {
		argv0, _, _ := strings.Cut(string(cmdline), "\x00")
		argv0 = strings.ReplaceAll(argv0, `\`, "/")
		candidates = append(candidates, path.Base(argv0))
	}

	for _, c := range candidates {
		for _, n := range names {
			if strings.EqualFold(c, n) {
				return n, true
			}
		}
	}

	return "", false
}

// startTime returns field 22 of /proc/pid/stat.
func startTime(pid int) (uint64, error) {
	stat, err := os.ReadFile(fmt.Sprintf("/proc/%d/stat", pid))
	if err != nil {
		return 0, err
	}
	return parseStartTime(pid, stat)
}

func parseStartTime(pid int, stat []byte) (uint64, error) {
	// the second field is the command name in parenthesis and may contain
	// spaces. the remaining fields follow the last closing parenthesis
	s := string(stat)
	i := strings.LastIndexByte(s, ')')
	if i < 0 {
		return 0, curated.Errorf(MalformedStat, pid)
	}
	fields := strings.Fields(s[i+1:])

	// fields now begins at field 3 (state)
	const idx = 22 - 3
	if len(fields) <= idx {
		return 0, curated.Errorf(MalformedStat, pid)
	}
	v, err := strconv.ParseUint(fields[idx], 10, 64)
	if err != nil {
		return 0, curated.Errorf(MalformedStat, pid)
	}
	return v, nil
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
	started, err := startTime(p.pid)
	return err == nil && started == p.started
}

// Close releases resources associated with the process. The process itself is
// unaffected.
func (p *Process) Close() error {
	return nil
}

// ReadMemory implements the Reader interface.
func (p *Process) ReadMemory(addr Address, b []byte) error {
	if len(b) == 0 {
		return nil
	}

	local := []unix.Iovec{{Base: &b[0]}}
	local[0].SetLen(len(b))
	remote := []unix.RemoteIovec{{Base: uintptr(addr), Len: len(b)}}

	n, err := unix.ProcessVMReadv(p.pid, local, remote, 0)
	if err != nil {
		return curated.Errorf(ReadError, len(b), addr, err)
	}
	if n != len(b) {
		return curated.Errorf(ShortRead, addr, n, len(b))
	}
	return nil
}

// MainModule implements the Module interface. The base address is the lowest
// mapping of the executable file named after the process.
func (p *Process) MainModule() (Address, uint64, error) {
	f, err := os.Open(fmt.Sprintf("/proc/%d/maps", p.pid))
	if err != nil {
		return 0, 0, curated.Errorf(ModuleNotFound, p.name)
	}
	defer f.Close()

	var base Address
	var found bool

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		// address perms offset dev inode pathname
		fields := strings.Fields(scanner.Text())
		if len(fields) < 6 {
			continue
		}

		pth := strings.Join(fields[5:], " ")
		if !strings.EqualFold(path.Base(pth), p.name) {
			continue
		}

		start, _, _ := strings.Cut(fields[0], "-")
		v, err := strconv.ParseUint(start, 16, 64)
		if err != nil {
			continue
		}
		if !found || Address(v) < base {
			base = Address(v)
			found = true
		}
	}

	if !found {
		return 0, 0, curated.Errorf(ModuleNotFound, p.name)
	}

	size, err := ReadSizeOfImage(p, base)
	if err != nil {
		return 0, 0, err
	}

	return base, uint64(size), nil
}
