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

package dma_test

import (
	"testing"

	"github.com/b438-dev/xqemu/curated"
	"github.com/b438-dev/xqemu/hardware/mcpx/dma"
	"github.com/b438-dev/xqemu/hardware/memory"
	"github.com/b438-dev/xqemu/test"
)

const sgeBase = 0x1000

// buildTable maps numPages logical pages onto physical pages in reverse
// order, so that a transfer crossing a page boundary necessarily touches
// discontiguous physical memory.
func buildTable(ram *memory.RAM, numPages uint32, physBase uint32) {
	for i := uint32(0); i < numPages; i++ {
		phys := physBase + (numPages-1-i)*dma.PageSize
		ram.Poke32(sgeBase+i*8, phys)
	}
}

func TestTransferRoundTrip(t *testing.T) {
	ram := memory.NewRAM(1024 * 1024)
	buildTable(ram, 4, 0x10000)

	// a transfer that starts mid-page and spans three pages
	src := make([]byte, dma.PageSize*2+100)
	for i := range src {
		src[i] = byte(i)
	}

	err := dma.Transfer(ram, sgeBase, 3, src, 0x800, dma.ToGuest)
	test.ExpectedSuccess(t, err)

	// the scatter-gather translation must be transparent: reading the same
	// logical range returns the same bytes regardless of the physical layout
	dst := make([]byte, len(src))
	err = dma.Transfer(ram, sgeBase, 3, dst, 0x800, dma.FromGuest)
	test.ExpectedSuccess(t, err)

	for i := range src {
		if src[i] != dst[i] {
			t.Fatalf("round trip mismatch at offset %d", i)
		}
	}

	// the physical pages really are discontiguous. logical page 0 is the
	// last physical page
	test.Equate(t, ram.Peek32(0x10000+3*dma.PageSize+0x800), uint32(0x03020100))
}

func TestTransferChunking(t *testing.T) {
	ram := memory.NewRAM(1024 * 1024)
	buildTable(ram, 4, 0x10000)

	src := make([]byte, dma.PageSize)
	for i := range src {
		src[i] = byte(i % 251)
	}

	// one call of length N and two calls summing to N at the same starting
	// offset must be indistinguishable
	err := dma.Transfer(ram, sgeBase, 3, src, 0xE00, dma.ToGuest)
	test.ExpectedSuccess(t, err)

	whole := make([]byte, len(src))
	err = dma.Transfer(ram, sgeBase, 3, whole, 0xE00, dma.FromGuest)
	test.ExpectedSuccess(t, err)

	split := make([]byte, len(src))
	err = dma.Transfer(ram, sgeBase, 3, split[:0x300], 0xE00, dma.FromGuest)
	test.ExpectedSuccess(t, err)
	err = dma.Transfer(ram, sgeBase, 3, split[0x300:], 0xE00+0x300, dma.FromGuest)
	test.ExpectedSuccess(t, err)

	for i := range whole {
		if whole[i] != split[i] {
			t.Fatalf("chunking mismatch at offset %d", i)
		}
	}
}

func TestTransferMarksDirty(t *testing.T) {
	ram := memory.NewRAM(1024 * 1024)
	buildTable(ram, 4, 0x10000)

	err := dma.Transfer(ram, sgeBase, 3, make([]byte, 16), 0, dma.ToGuest)
	test.ExpectedSuccess(t, err)
	test.Equate(t, ram.IsDirty(0x10000+3*dma.PageSize), true)

	// reads never dirty the page
	ram.ClearDirty()
	err = dma.Transfer(ram, sgeBase, 3, make([]byte, 16), 0, dma.FromGuest)
	test.ExpectedSuccess(t, err)
	test.Equate(t, ram.IsDirty(0x10000+3*dma.PageSize), false)
}

func TestDescriptorOverflow(t *testing.T) {
	ram := memory.NewRAM(1024 * 1024)
	buildTable(ram, 2, 0x10000)

	// the transfer runs off the end of a two-page table
	buf := make([]byte, dma.PageSize+1)
	err := dma.Transfer(ram, sgeBase, 1, buf, dma.PageSize, dma.ToGuest)
	test.ExpectedFailure(t, err)
	test.Equate(t, curated.Is(err, dma.DescriptorOverflow), true)

	// one byte shorter and the transfer fits
	err = dma.Transfer(ram, sgeBase, 1, buf[:dma.PageSize], dma.PageSize, dma.ToGuest)
	test.ExpectedSuccess(t, err)
}

func TestTransferOutOfBounds(t *testing.T) {
	ram := memory.NewRAM(64 * 1024)

	// descriptor pointing past the end of guest memory
	ram.Poke32(sgeBase, ram.Size())

	err := dma.Transfer(ram, sgeBase, 0, make([]byte, 16), 0, dma.ToGuest)
	test.ExpectedFailure(t, err)
	test.Equate(t, curated.Is(err, dma.TransferOutOfBounds), true)
}

func TestCircularTransferWrap(t *testing.T) {
	ram := memory.NewRAM(1024 * 1024)
	buildTable(ram, 1, 0x10000)

	const base = 0x100
	const end = 0x200

	// write more than the circular range holds in one go. the transfer wraps
	// at end and the trailing bytes overwrite the leading ones. the fill
	// pattern has a period longer than the range so the overwrite is
	// observable
	src := make([]byte, (end-base)+0x40)
	for i := range src {
		src[i] = byte(i % 251)
	}

	cur, err := dma.CircularTransfer(ram, sgeBase, 0, src, base, end, base, dma.ToGuest)
	test.ExpectedSuccess(t, err)
	test.Equate(t, cur, uint32(base+0x40))

	// the bytes that wrapped overwrote the start of the range
	dst := make([]byte, 0x40)
	err = dma.Transfer(ram, sgeBase, 0, dst, base, dma.FromGuest)
	test.ExpectedSuccess(t, err)
	for i := range dst {
		if dst[i] != byte(((end-base)+i)%251) {
			t.Fatalf("wrapped byte mismatch at offset %d", i)
		}
	}
}

func TestCircularTransferExactWrap(t *testing.T) {
	ram := memory.NewRAM(1024 * 1024)
	buildTable(ram, 1, 0x10000)

	const base = 0x100
	const end = 0x200

	// filling the range exactly must leave the cursor back at base, never
	// resting on end
	buf := make([]byte, end-base)
	cur, err := dma.CircularTransfer(ram, sgeBase, 0, buf, base, end, base, dma.ToGuest)
	test.ExpectedSuccess(t, err)
	test.Equate(t, cur, uint32(base))
}

func TestCircularTransferCursorOutOfRange(t *testing.T) {
	ram := memory.NewRAM(1024 * 1024)
	buildTable(ram, 1, 0x10000)

	buf := make([]byte, 16)

	_, err := dma.CircularTransfer(ram, sgeBase, 0, buf, 0x100, 0x200, 0x200, dma.ToGuest)
	test.ExpectedFailure(t, err)
	test.Equate(t, curated.Is(err, dma.FIFOCursorOutOfRange), true)

	_, err = dma.CircularTransfer(ram, sgeBase, 0, buf, 0x100, 0x200, 0x80, dma.ToGuest)
	test.ExpectedFailure(t, err)
	test.Equate(t, curated.Is(err, dma.FIFOCursorOutOfRange), true)
}
