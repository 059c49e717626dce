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
	"encoding/binary"

	"github.com/cdsplit/cdsplit/curated"
)

// Image is a synthetic memory image. It implements the Module interface and
// is used to exercise the address resolver and the update loop without a
// running game.
//
// Only bytes that have been explicitly written can be read. A read that
// touches an unwritten byte fails in the same way as a read from an unmapped
// page in a real process.
type Image struct {
	mem  map[Address]byte
	base Address
	size uint64
}

// NewImage returns an empty image whose main module is at base with the
// specified size.
func NewImage(base Address, size uint64) *Image {
	return &Image{
		mem:  make(map[Address]byte),
		base: base,
		size: size,
	}
}

// MainModule implements the Module interface.
func (img *Image) MainModule() (Address, uint64, error) {
	return img.base, img.size, nil
}

// ReadMemory implements the Reader interface.
func (img *Image) ReadMemory(addr Address, p []byte) error {
	for i := range p {
		b, ok := img.mem[addr+Address(i)]
		if !ok {
			return curated.Errorf(ShortRead, addr, i, len(p))
		}
		p[i] = b
	}
	return nil
}

// Write bytes to the image.
func (img *Image) Write(addr Address, p ...byte) {
	for i, b := range p {
		img.mem[addr+Address(i)] = b
	}
}

// WriteU8 writes a single byte to the image.
func (img *Image) WriteU8(addr Address, v uint8) {
	img.mem[addr] = v
}

// WriteU32 writes a little-endian 32 bit value to the image.
func (img *Image) WriteU32(addr Address, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	img.Write(addr, b[:]...)
}

// Forget removes bytes from the image so that reads from that address fail.
func (img *Image) Forget(addr Address, n int) {
	for i := range n {
		delete(img.mem, addr+Address(i))
	}
}
