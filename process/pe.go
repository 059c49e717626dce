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

package process

import (
	"bytes"
	"debug/pe"
	"encoding/binary"

	"github.com/cdsplit/cdsplit/curated"
)

// offset of e_lfanew in the DOS header.
const dosLfanew = 0x3c

// offset of SizeOfImage in the optional header. it is the same in the 32 bit
// and the 64 bit variants of the header.
const optSizeOfImage = 56

// ReadSizeOfImage reads the PE headers of the module loaded at base and
// returns the SizeOfImage field of the optional header. The headers of a
// loaded image are mapped at the base address so file offsets in the headers
// are also offsets from base.
func ReadSizeOfImage(r Reader, base Address) (uint32, error) {
	var mz [2]byte
	if err := r.ReadMemory(base, mz[:]); err != nil {
		return 0, curated.Errorf(BadImage, base, err)
	}
	if !bytes.Equal(mz[:], []byte("MZ")) {
		return 0, curated.Errorf(BadImage, base, "no DOS header")
	}

	lfanew, err := ReadU32(r, base+dosLfanew)
	if err != nil {
		return 0, curated.Errorf(BadImage, base, err)
	}

	nt := base + Address(lfanew)
	var sig [4]byte
	if err := r.ReadMemory(nt, sig[:]); err != nil {
		return 0, curated.Errorf(BadImage, base, err)
	}
	if !bytes.Equal(sig[:], []byte("PE\x00\x00")) {
		return 0, curated.Errorf(BadImage, base, "no PE signature")
	}

	var fh pe.FileHeader
	b := make([]byte, binary.Size(fh))
	if err := r.ReadMemory(nt+4, b); err != nil {
		return 0, curated.Errorf(BadImage, base, err)
	}
	if _, err := binary.Decode(b, binary.LittleEndian, &fh); err != nil {
		return 0, curated.Errorf(BadImage, base, err)
	}

	opt := nt + 4 + Address(len(b))

	var magic [2]byte
	if err := r.ReadMemory(opt, magic[:]); err != nil {
		return 0, curated.Errorf(BadImage, base, err)
	}
	switch binary.LittleEndian.Uint16(magic[:]) {
	case 0x10b, 0x20b:
	default:
		return 0, curated.Errorf(BadImage, base, "unknown optional header")
	}

	if int(fh.SizeOfOptionalHeader) < optSizeOfImage+4 {
		return 0, curated.Errorf(BadImage, base, "optional header too small")
	}

	size, err := ReadU32(r, opt+optSizeOfImage)
	if err != nil {
		return 0, curated.Errorf(BadImage, base, err)
	}
	return size, nil
}
