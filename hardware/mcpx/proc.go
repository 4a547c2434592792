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
	"github.com/b438-dev/xqemu/hardware/bus"
	"github.com/b438-dev/xqemu/hardware/mcpx/registers"
	"github.com/b438-dev/xqemu/logger"
)

// dspWindow routes a sub-range of a coprocessor MMIO window to one of the
// DSP core's memory spaces.
type dspWindow struct {
	base  uint32 // byte offset of the sub-range inside the window
	words uint32 // extent in words
	space bus.MemorySpace
	delta uint32 // added to the word address inside the DSP space
}

// Proc is one of the two DSP coprocessors (GP or EP). Each has its own
// register bank, its own DSP core and its own window layout.
type Proc struct {
	name    string
	dsp     bus.DSP
	regs    []uint32
	windows []dspWindow
	rstAddr uint32
}

// newGPProc builds the global processor. The GP carries the mix buffer
// alias window on top of its X memory.
func newGPProc(dsp bus.DSP) *Proc {
	return &Proc{
		name: "gp",
		dsp:  dsp,
		regs: make([]uint32, registers.ProcWindowSize/4),
		windows: []dspWindow{
			{registers.GPXMem, registers.GPXMemSize, bus.SpaceX, 0},
			{registers.GPMixBuf, registers.MixBufSize, bus.SpaceX, registers.MixBufBase},
			{registers.GPYMem, registers.GPYMemSize, bus.SpaceY, 0},
			{registers.GPPMem, registers.GPPMemSize, bus.SpaceP, 0},
		},
		rstAddr: registers.GPRst,
	}
}

// newEPProc builds the encode processor. Same structure as the GP but with
// smaller memory spaces and no mix buffer alias.
func newEPProc(dsp bus.DSP) *Proc {
	return &Proc{
		name: "ep",
		dsp:  dsp,
		regs: make([]uint32, registers.ProcWindowSize/4),
		windows: []dspWindow{
			{registers.EPXMem, registers.EPXMemSize, bus.SpaceX, 0},
			{registers.EPYMem, registers.EPYMemSize, bus.SpaceY, 0},
			{registers.EPPMem, registers.EPPMemSize, bus.SpaceP, 0},
		},
		rstAddr: registers.EPRst,
	}
}

func (p *Proc) reset() {
	for i := range p.regs {
		p.regs[i] = 0
	}
}

// DSP returns the coprocessor's DSP core.
func (p *Proc) DSP() bus.DSP {
	return p.dsp
}

// window returns the routing entry covering addr, or nil for a plain
// register address.
func (p *Proc) window(addr uint32) *dspWindow {
	for i := range p.windows {
		w := &p.windows[i]
		if addr >= w.base && addr < w.base+w.words*4 {
			return w
		}
	}
	return nil
}

// Read returns the value of a coprocessor window register, routing the DSP
// memory sub-ranges to the core. Addresses outside the window read as zero.
func (p *Proc) Read(addr uint32) uint32 {
	if w := p.window(addr); w != nil {
		return p.dsp.ReadMemory(w.space, w.delta+(addr-w.base)/4)
	}

	if addr < registers.ProcWindowSize {
		return p.regs[addr>>2]
	}

	return 0
}

// Write stores a value to a coprocessor window register, routing the DSP
// memory sub-ranges to the core. A write to the reset register runs the
// reset edge analysis before the value is stored. Addresses outside the
// window are silently ignored.
func (p *Proc) Write(addr uint32, val uint32) {
	if w := p.window(addr); w != nil {
		p.dsp.WriteMemory(w.space, w.delta+(addr-w.base)/4, val)
		return
	}

	if addr >= registers.ProcWindowSize {
		return
	}

	if addr == p.rstAddr {
		p.resetEdge(p.regs[addr>>2], val)
	}

	p.regs[addr>>2] = val
}

// resetEdge analyses a write to the reset register. Deasserting either the
// reset or DSP-reset bit holds the core in reset; asserting both on a
// rising edge from a state where at least one was deasserted bootstraps the
// core.
func (p *Proc) resetEdge(oldval uint32, val uint32) {
	const both = registers.RstRst | registers.RstDSPRst

	if val&both != both {
		logger.Logf("mcpx", "%s: dsp reset", p.name)
		p.dsp.Reset()
	} else if oldval&both != both {
		logger.Logf("mcpx", "%s: dsp bootstrap", p.name)
		p.dsp.Bootstrap()
	}
}

// running returns whether the coprocessor is out of reset and allowed to
// execute.
func (p *Proc) running() bool {
	const both = registers.RstRst | registers.RstDSPRst
	return p.regs[p.rstAddr>>2]&both == both
}
