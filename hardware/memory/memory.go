// This file is part of xqemu.
//
// xqemu is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// xqemu is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with xqemu.  If not, see <https://www.gnu.org/licenses/>.

// Package memory provides a plain guest RAM implementation of the
// bus.Memory interface, with page-granular dirty tracking. The real host is
// expected to supply its own guest address space; this implementation is
// what the test harness and the standalone binary run against.
package memory

import (
	"encoding/binary"
)

// PageSize is the granularity of dirty tracking.
const PageSize = 4096

// RAM is a flat guest memory region.
type RAM struct {
	data  []byte
	dirty []bool
}

// NewRAM is the preferred method of initialisation for the RAM type. Size is
// rounded up to a whole number of pages.
func NewRAM(size uint32) *RAM {
	pages := (size + PageSize - 1) / PageSize
	return &RAM{
		data:  make([]byte, pages*PageSize),
		dirty: make([]bool, pages),
	}
}

// ReadBytes implements the bus.Memory interface. Accesses beyond the region
// are silently truncated.
func (r *RAM) ReadBytes(addr uint32, p []byte) {
	if addr >= uint32(len(r.data)) {
		return
	}
	copy(p, r.data[addr:])
}

// WriteBytes implements the bus.Memory interface. Accesses beyond the region
// are silently truncated.
func (r *RAM) WriteBytes(addr uint32, p []byte) {
	if addr >= uint32(len(r.data)) {
		return
	}
	copy(r.data[addr:], p)
}

// MarkDirty implements the bus.Memory interface.
func (r *RAM) MarkDirty(addr uint32, length uint32) {
	if length == 0 {
		return
	}
	for page := addr / PageSize; page <= (addr+length-1)/PageSize; page++ {
		if page >= uint32(len(r.dirty)) {
			return
		}
		r.dirty[page] = true
	}
}

// Size implements the bus.Memory interface.
func (r *RAM) Size() uint32 {
	return uint32(len(r.data))
}

// IsDirty returns whether the page containing addr has been marked dirty.
func (r *RAM) IsDirty(addr uint32) bool {
	page := addr / PageSize
	if page >= uint32(len(r.dirty)) {
		return false
	}
	return r.dirty[page]
}

// ClearDirty resets the dirty state of every page.
func (r *RAM) ClearDirty() {
	for i := range r.dirty {
		r.dirty[i] = false
	}
}

// Peek32 reads a little-endian 32bit word. For test and harness convenience;
// the device emulation goes through ReadBytes.
func (r *RAM) Peek32(addr uint32) uint32 {
	var b [4]byte
	r.ReadBytes(addr, b[:])
	return binary.LittleEndian.Uint32(b[:])
}

// Poke32 writes a little-endian 32bit word. For test and harness
// convenience; the device emulation goes through WriteBytes.
func (r *RAM) Poke32(addr uint32, val uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], val)
	r.WriteBytes(addr, b[:])
}
