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

// Package dma implements the audio processor's scatter-gather DMA engine
// and the circular FIFO transfer built on top of it.
//
// A scatter-gather descriptor table is an array in guest memory, indexed by
// logical page number, mapping each page-sized chunk of a logical buffer to
// a guest physical page. The engine translates a logical offset through the
// table one page at a time, so a single transfer may touch several
// discontiguous physical runs.
//
// All faults raised by this package indicate malformed guest state (a
// mis-programmed descriptor table or FIFO register set) and are not
// recoverable by the emulation.
package dma

import (
	"encoding/binary"

	"github.com/b438-dev/xqemu/curated"
	"github.com/b438-dev/xqemu/hardware/bus"
)

// PageSize is the logical page size used by descriptor table indexing.
const PageSize = 4096

// each descriptor is two words: the physical page base and a control word.
// the control word is not interpreted by this engine.
const descriptorStride = 8

// Direction of a transfer, relative to guest memory.
type Direction bool

// List of valid Direction values.
const (
	FromGuest Direction = false
	ToGuest   Direction = true
)

// Sentinel errors raised by the dma package.
const (
	// descriptor index needed by a transfer exceeds the table's maximum
	DescriptorOverflow = "dma: descriptor index %d exceeds table maximum %d"

	// translated physical run does not fit inside guest memory
	TransferOutOfBounds = "dma: %d bytes at physical address %#08x is outside guest memory"

	// FIFO cursor found outside the configured [base, end) range
	FIFOCursorOutOfRange = "dma: fifo cursor %#08x outside range [%#08x, %#08x)"
)

// Transfer copies len(buf) bytes between buf and guest memory, translating
// the logical offset addr through the scatter-gather descriptor table at
// sgeBase. maxSGE is the largest valid descriptor index for the table.
//
// A ToGuest transfer marks the touched physical ranges dirty.
func Transfer(mem bus.Memory, sgeBase uint32, maxSGE uint32, buf []byte, addr uint32, dir Direction) error {
	pageEntry := addr / PageSize
	offsetInPage := addr % PageSize
	bytesToCopy := uint32(PageSize - offsetInPage)

	for len(buf) > 0 {
		if pageEntry > maxSGE {
			return curated.Errorf(DescriptorOverflow, pageEntry, maxSGE)
		}

		var d [4]byte
		mem.ReadBytes(sgeBase+pageEntry*descriptorStride, d[:])
		paddr := binary.LittleEndian.Uint32(d[:]) + offsetInPage

		if bytesToCopy > uint32(len(buf)) {
			bytesToCopy = uint32(len(buf))
		}

		if uint64(paddr)+uint64(bytesToCopy) >= uint64(mem.Size()) {
			return curated.Errorf(TransferOutOfBounds, bytesToCopy, paddr)
		}

		if dir == ToGuest {
			mem.WriteBytes(paddr, buf[:bytesToCopy])
			mem.MarkDirty(paddr, bytesToCopy)
		} else {
			mem.ReadBytes(paddr, buf[:bytesToCopy])
		}

		buf = buf[bytesToCopy:]

		// after the first iteration, we are page aligned
		pageEntry++
		bytesToCopy = PageSize
		offsetInPage = 0
	}

	return nil
}

// CircularTransfer copies len(buf) bytes between buf and the circular
// logical range [base, end), starting at cur and wrapping back to base
// exactly when the cursor reaches end. Every chunk is translated through
// the descriptor table by Transfer().
//
// The returned cursor is the position after the transfer and must be
// written back to the channel's current register by the caller.
//
// The cursor is required to lie in [base, end) before every chunk. The DSP
// hangs on real hardware if the current register ever holds the end value,
// so the wrap must never be left pending.
func CircularTransfer(mem bus.Memory, sgeBase uint32, maxSGE uint32, buf []byte, base uint32, end uint32, cur uint32, dir Direction) (uint32, error) {
	for len(buf) > 0 {
		if cur < base || cur >= end {
			return cur, curated.Errorf(FIFOCursorOutOfRange, cur, base, end)
		}

		bytesToCopy := end - cur
		if bytesToCopy > uint32(len(buf)) {
			bytesToCopy = uint32(len(buf))
		}

		err := Transfer(mem, sgeBase, maxSGE, buf[:bytesToCopy], cur, dir)
		if err != nil {
			return cur, err
		}

		buf = buf[bytesToCopy:]

		cur += bytesToCopy
		if cur == end {
			cur = base
		}
	}

	return cur, nil
}
