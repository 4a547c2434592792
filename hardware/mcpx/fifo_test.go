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

package mcpx_test

import (
	"testing"

	"github.com/b438-dev/xqemu/curated"
	"github.com/b438-dev/xqemu/hardware/mcpx"
	"github.com/b438-dev/xqemu/hardware/mcpx/dma"
	"github.com/b438-dev/xqemu/hardware/mcpx/registers"
	"github.com/b438-dev/xqemu/test"
)

const (
	fifoSGEBase = 0x8000
	fifoPhys    = 0x20000
	fifoPages   = 4
)

// setupFIFO programs the GP FIFO descriptor table with an identity-style
// page mapping and points output FIFO channel 1 at the range [0x100, 0x200).
func setupFIFO(t *testing.T, f *fixture) {
	t.Helper()

	for i := uint32(0); i < fifoPages; i++ {
		f.ram.Poke32(fifoSGEBase+i*8, fifoPhys+i*dma.PageSize)
	}
	f.write(t, registers.GPFADDR, fifoSGEBase)
	f.write(t, registers.GPFMAXSGE, fifoPages-1)

	bank := uint32(registers.GPOFBASE0 + 1*registers.FIFORegStride)
	f.write(t, bank, registers.SetMask(0, registers.FIFOBaseValue, 0x100))
	f.write(t, bank+4, registers.SetMask(0, registers.FIFOEndValue, 0x200))
	f.write(t, bank+8, registers.SetMask(0, registers.FIFOCurValue, 0x100))
}

func TestFIFOCursorAdvance(t *testing.T) {
	f := newFixture(t)
	setupFIFO(t, f)

	curReg := uint32(registers.GPOFCUR0 + 1*registers.FIFORegStride)

	err := f.apu.GPFIFORW(make([]byte, 0x40), 1, dma.ToGuest)
	test.ExpectedSuccess(t, err)
	test.Equate(t, registers.GetMask(f.apu.Read(curReg), registers.FIFOCurValue), 0x140)

	// a write that lands exactly on the end of the range wraps the cursor
	// back to base
	err = f.apu.GPFIFORW(make([]byte, 0xC0), 1, dma.ToGuest)
	test.ExpectedSuccess(t, err)
	test.Equate(t, registers.GetMask(f.apu.Read(curReg), registers.FIFOCurValue), 0x100)
}

func TestFIFOCursorClamp(t *testing.T) {
	f := newFixture(t)
	setupFIFO(t, f)

	curReg := uint32(registers.GPOFCUR0 + 1*registers.FIFORegStride)

	// a cursor below base is clamped up to base before the transfer
	f.write(t, curReg, registers.SetMask(0, registers.FIFOCurValue, 0x40))
	err := f.apu.GPFIFORW(make([]byte, 0x10), 1, dma.ToGuest)
	test.ExpectedSuccess(t, err)
	test.Equate(t, registers.GetMask(f.apu.Read(curReg), registers.FIFOCurValue), 0x110)

	// a cursor at or beyond end would hang the DSP on real hardware. it is a
	// fault here
	f.write(t, curReg, registers.SetMask(0, registers.FIFOCurValue, 0x200))
	err = f.apu.GPFIFORW(make([]byte, 0x10), 1, dma.ToGuest)
	test.ExpectedFailure(t, err)
	test.Equate(t, curated.Is(err, dma.FIFOCursorOutOfRange), true)
}

func TestFIFOChannelRange(t *testing.T) {
	f := newFixture(t)
	setupFIFO(t, f)

	// four output channels, two input channels
	err := f.apu.GPFIFORW(make([]byte, 4), registers.OutputFIFOCount, dma.ToGuest)
	test.ExpectedFailure(t, err)
	test.Equate(t, curated.Is(err, mcpx.InvalidFIFOChannel), true)

	err = f.apu.EPFIFORW(make([]byte, 4), registers.InputFIFOCount, dma.FromGuest)
	test.ExpectedFailure(t, err)
	test.Equate(t, curated.Is(err, mcpx.InvalidFIFOChannel), true)

	err = f.apu.GPFIFORW(make([]byte, 4), -1, dma.ToGuest)
	test.ExpectedFailure(t, err)
}

func TestFIFOReadBack(t *testing.T) {
	f := newFixture(t)
	setupFIFO(t, f)

	// the input bank shares the descriptor table with the output bank, so a
	// value written through an output channel can be read back through an
	// input channel covering the same logical range
	inBank := uint32(registers.GPIFBASE0)
	f.write(t, inBank, registers.SetMask(0, registers.FIFOBaseValue, 0x100))
	f.write(t, inBank+4, registers.SetMask(0, registers.FIFOEndValue, 0x200))
	f.write(t, inBank+8, registers.SetMask(0, registers.FIFOCurValue, 0x100))

	src := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	test.ExpectedSuccess(t, f.apu.GPFIFORW(src, 1, dma.ToGuest))

	dst := make([]byte, 4)
	test.ExpectedSuccess(t, f.apu.GPFIFORW(dst, 0, dma.FromGuest))

	for i := range src {
		if src[i] != dst[i] {
			t.Fatalf("fifo read back mismatch at offset %d", i)
		}
	}
}

func TestScratchTransfer(t *testing.T) {
	f := newFixture(t)

	// the scratch space uses its own descriptor table
	const scratchSGE = 0x9000
	const scratchPhys = 0x30000
	f.ram.Poke32(scratchSGE, scratchPhys)
	f.write(t, registers.GPSADDR, scratchSGE)
	f.write(t, registers.GPSMAXSGE, 0)

	src := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	test.ExpectedSuccess(t, f.apu.GPScratchRW(src, 0x20, dma.ToGuest))
	test.Equate(t, f.ram.Peek32(scratchPhys+0x20), 0x04030201)

	dst := make([]byte, 8)
	test.ExpectedSuccess(t, f.apu.GPScratchRW(dst, 0x20, dma.FromGuest))
	for i := range src {
		if src[i] != dst[i] {
			t.Fatalf("scratch read back mismatch at offset %d", i)
		}
	}

	// a transfer past the single-page table faults
	err := f.apu.GPScratchRW(make([]byte, 8), dma.PageSize, dma.ToGuest)
	test.ExpectedFailure(t, err)
	test.Equate(t, curated.Is(err, dma.DescriptorOverflow), true)
}
