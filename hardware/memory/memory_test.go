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

package memory_test

import (
	"testing"

	"github.com/b438-dev/xqemu/hardware/memory"
	"github.com/b438-dev/xqemu/test"
)

func TestRAM(t *testing.T) {
	ram := memory.NewRAM(memory.PageSize + 1)

	// size is rounded up to a whole number of pages
	test.Equate(t, ram.Size(), 2*memory.PageSize)

	ram.Poke32(0x10, 0x12345678)
	test.Equate(t, ram.Peek32(0x10), 0x12345678)

	// little-endian byte order
	var b [4]byte
	ram.ReadBytes(0x10, b[:])
	test.Equate(t, int(b[0]), 0x78)
	test.Equate(t, int(b[3]), 0x12)

	// out-of-range accesses are silently ignored
	ram.Poke32(ram.Size(), 0xFFFFFFFF)
	test.Equate(t, ram.Peek32(ram.Size()), 0)
}

func TestDirtyTracking(t *testing.T) {
	ram := memory.NewRAM(4 * memory.PageSize)

	// plain writes do not dirty a page; only MarkDirty does. the device
	// decides which of its writes a host needs to know about
	ram.Poke32(0x10, 1)
	test.Equate(t, ram.IsDirty(0x10), false)

	ram.MarkDirty(0x10, 4)
	test.Equate(t, ram.IsDirty(0x10), true)
	test.Equate(t, ram.IsDirty(memory.PageSize), false)

	// a range straddling a page boundary dirties both pages
	ram.ClearDirty()
	ram.MarkDirty(memory.PageSize-2, 4)
	test.Equate(t, ram.IsDirty(0), true)
	test.Equate(t, ram.IsDirty(memory.PageSize), true)

	ram.ClearDirty()
	test.Equate(t, ram.IsDirty(0), false)

	// zero-length marks and marks beyond the region are no-ops
	ram.MarkDirty(0, 0)
	test.Equate(t, ram.IsDirty(0), false)
	ram.MarkDirty(ram.Size(), 4)
}
