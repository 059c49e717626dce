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

// Package process attaches to a running process by name and reads its memory.
// The target process is never written to.
//
// The Reader interface is the only thing the rest of the module needs for
// reading memory. The ReadU8(), ReadU32() and ReadAddress32() helper
// functions decode little-endian values from any Reader.
//
// On linux memory is read with process_vm_readv(2). This covers games running
// under Wine or Proton, where the process name is the name of the Windows
// executable. On windows memory is read with ReadProcessMemory().
package process

import (
	"encoding/binary"
	"fmt"
)

// Address is a location in the memory of the target process.
type Address uint64

func (a Address) String() string {
	return fmt.Sprintf("%#x", uint64(a))
}

// Reader is implemented by anything that can read memory from the target
// process.
type Reader interface {
	// ReadMemory fills p with the bytes at address addr. Partial reads are
	// errors.
	ReadMemory(addr Address, p []byte) error
}

// Module is a Reader that can also locate the main executable module of the
// process.
type Module interface {
	Reader

	// MainModule returns the base address and the size in bytes of the main
	// executable module.
	MainModule() (Address, uint64, error)
}

// ReadU8 reads a single byte.
func ReadU8(r Reader, addr Address) (uint8, error) {
	var b [1]byte
	if err := r.ReadMemory(addr, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU32 reads a little-endian 32 bit value.
func ReadU32(r Reader, addr Address) (uint32, error) {
	var b [4]byte
	if err := r.ReadMemory(addr, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

// ReadAddress32 reads a 32 bit pointer.
func ReadAddress32(r Reader, addr Address) (Address, error) {
	v, err := ReadU32(r, addr)
	return Address(v), err
}

// ReadU8OrZero reads a single byte. A failed read is returned as zero.
func ReadU8OrZero(r Reader, addr Address) uint8 {
	v, _ := ReadU8(r, addr)
	return v
}

// ReadU32OrZero reads a little-endian 32 bit value. A failed read is returned
// as zero.
func ReadU32OrZero(r Reader, addr Address) uint32 {
	v, _ := ReadU32(r, addr)
	return v
}
