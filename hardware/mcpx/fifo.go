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

package mcpx

import (
	"github.com/b438-dev/xqemu/curated"
	"github.com/b438-dev/xqemu/hardware/mcpx/dma"
	"github.com/b438-dev/xqemu/hardware/mcpx/registers"
)

// The DSP cores reach guest memory through two kinds of channel: a linear
// scratch space and a set of circular FIFOs. Both are translated through
// per-coprocessor scatter-gather descriptor tables. The methods in this
// file are the access points an instruction-level DSP core would be wired
// to; the tests and the harness call them directly.

// GPScratchRW transfers between buf and the GP's scratch space at the given
// logical offset.
func (ap *APU) GPScratchRW(buf []byte, addr uint32, dir dma.Direction) error {
	return dma.Transfer(ap.mem,
		ap.peek(registers.GPSADDR), ap.peek(registers.GPSMAXSGE),
		buf, addr, dir)
}

// EPScratchRW transfers between buf and the EP's scratch space at the given
// logical offset.
func (ap *APU) EPScratchRW(buf []byte, addr uint32, dir dma.Direction) error {
	return dma.Transfer(ap.mem,
		ap.peek(registers.EPSADDR), ap.peek(registers.EPSMAXSGE),
		buf, addr, dir)
}

// GPFIFORW transfers between buf and one of the GP's circular FIFOs. A
// ToGuest direction selects the output FIFO bank, FromGuest the input bank.
func (ap *APU) GPFIFORW(buf []byte, index int, dir dma.Direction) error {
	return ap.fifoRW("gp", buf, index, dir,
		registers.GPOFBASE0, registers.GPIFBASE0,
		registers.GPFADDR, registers.GPFMAXSGE)
}

// EPFIFORW transfers between buf and one of the EP's circular FIFOs. A
// ToGuest direction selects the output FIFO bank, FromGuest the input bank.
func (ap *APU) EPFIFORW(buf []byte, index int, dir dma.Direction) error {
	return ap.fifoRW("ep", buf, index, dir,
		registers.EPOFBASE0, registers.EPIFBASE0,
		registers.EPFADDR, registers.EPFMAXSGE)
}

func (ap *APU) fifoRW(name string, buf []byte, index int, dir dma.Direction,
	outBank uint32, inBank uint32, sgeAddrReg uint32, sgeMaxReg uint32) error {

	var bank uint32
	if dir == dma.ToGuest {
		if index < 0 || index >= registers.OutputFIFOCount {
			return curated.Errorf(InvalidFIFOChannel, name, index)
		}
		bank = outBank
	} else {
		if index < 0 || index >= registers.InputFIFOCount {
			return curated.Errorf(InvalidFIFOChannel, name, index)
		}
		bank = inBank
	}

	baseReg := bank + uint32(index)*registers.FIFORegStride
	endReg := baseReg + 4
	curReg := baseReg + 8

	base := registers.GetMask(ap.peek(baseReg), registers.FIFOBaseValue)
	end := registers.GetMask(ap.peek(endReg), registers.FIFOEndValue)
	cur := registers.GetMask(ap.peek(curReg), registers.FIFOCurValue)

	// the DSP hangs if current >= end; but forces current >= base
	if cur >= end {
		return curated.Errorf(dma.FIFOCursorOutOfRange, cur, base, end)
	}
	if cur < base {
		cur = base
	}

	cur, err := dma.CircularTransfer(ap.mem,
		ap.peek(sgeAddrReg), ap.peek(sgeMaxReg),
		buf, base, end, cur, dir)
	if err != nil {
		return err
	}

	ap.poke(curReg, registers.SetMask(ap.peek(curReg), registers.FIFOCurValue, cur))
	return nil
}
