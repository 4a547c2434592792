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
	"encoding/binary"

	"github.com/b438-dev/xqemu/hardware/bus"
	"github.com/b438-dev/xqemu/hardware/mcpx/registers"
	"github.com/b438-dev/xqemu/logger"
)

// Sentinel errors raised by the mcpx package. All of them are fatal
// guest-state faults: the guest has broken an invariant the hardware relies
// on and the emulation cannot guess a recovery.
const (
	// voice handle is the reserved "no voice" value or larger
	InvalidVoiceHandle = "mcpx: voice handle %#04x is not addressable"

	// voice-on in inherit mode with no antecedent voice latched
	InvalidAntecedent = "mcpx: voice-on with no antecedent voice"

	// method value not in the front-end opcode set
	UnknownMethod = "mcpx: unknown front-end method %#04x"

	// idle voice notification raised while FETFORCE1 has it disabled
	UnexpectedIdleVoice = "mcpx: idle voice notification while force-idle is disabled"

	// FIFO channel index out of range for the direction
	InvalidFIFOChannel = "mcpx: %s: no such fifo channel %d"
)

// APU is the MCPX audio processing unit. The host dispatches MMIO accesses
// for the three device windows to Read/Write (top-level), GP.Read/GP.Write
// and EP.Read/EP.Write, and advances the frame timer it supplied at
// creation.
//
// All state lives in this one instance; multiple independent devices can
// coexist, which the tests rely on.
type APU struct {
	mem bus.Memory
	irq bus.InterruptLine
	tmr bus.FrameTimer

	regs [registers.TopWindowSize / 4]uint32

	// the two programmable DSP coprocessors
	GP *Proc
	EP *Proc

	// per-voice mix contribution hook. may be nil
	mixer Mixer

	// fault raised by a frame tick, latched until Reset()
	fault error
}

// NewAPU is the preferred method of initialisation for the APU type. The
// gp and ep arguments are the DSP cores for the global and encode
// processors.
func NewAPU(mem bus.Memory, irq bus.InterruptLine, tmr bus.FrameTimer, gp bus.DSP, ep bus.DSP) *APU {
	ap := &APU{
		mem: mem,
		irq: irq,
		tmr: tmr,
	}
	ap.GP = newGPProc(gp)
	ap.EP = newEPProc(ep)
	return ap
}

// Reset restores the power-on state of the device. Both coprocessor
// register banks are cleared, which leaves the DSP cores held in reset.
func (ap *APU) Reset() {
	ap.regs = [registers.TopWindowSize / 4]uint32{}
	ap.GP.reset()
	ap.EP.reset()
	ap.tmr.Disarm()
	ap.irq.Deassert()
	ap.fault = nil
}

// Fault returns the fault latched by a frame tick, or nil. MMIO faults are
// returned directly from Write() and are not latched here.
func (ap *APU) Fault() error {
	return ap.fault
}

// SetMixer registers the per-voice mixer invoked for every active voice
// visited by the frame scheduler. A nil mixer leaves the mix buffer silent.
func (ap *APU) SetMixer(m Mixer) {
	ap.mixer = m
}

// peek and poke are unchecked register accesses. callers guarantee the
// address is inside the top-level window.
func (ap *APU) peek(addr uint32) uint32 {
	return ap.regs[addr>>2]
}

func (ap *APU) poke(addr uint32, val uint32) {
	ap.regs[addr>>2] = val
}

// Read returns the value of a top-level window register. Addresses outside
// the window read as zero.
func (ap *APU) Read(addr uint32) uint32 {
	switch addr {
	case registers.XGSCNT:
		// free-running counter, in 100ns units of the virtual clock
		return uint32(ap.tmr.Now() / 100)
	case registers.PIOFree:
		// the front-end command queue is not emulated; report it empty so
		// the guest never waits for space
		return 0x80
	}

	if addr < registers.TopWindowSize {
		return ap.peek(addr)
	}

	return 0
}

// Write stores a value to a top-level window register, running any side
// effect attached to the address. Addresses outside the window are silently
// ignored.
//
// The returned error is always a fatal guest-state fault; there are no
// recoverable errors on this path.
func (ap *APU) Write(addr uint32, val uint32) error {
	if h, ok := topWriteHandlers[addr]; ok {
		return h(ap, val)
	}

	if addr < registers.TopWindowSize {
		ap.poke(addr, val)
	}

	return nil
}

// topWriteHandlers maps the top-level window addresses that have write side
// effects. every other in-window address is a plain store.
var topWriteHandlers = map[uint32]func(*APU, uint32) error{
	registers.ISTS:      (*APU).writeISTS,
	registers.SECTL:     (*APU).writeSECTL,
	registers.FEMEMDATA: (*APU).writeFEMEMDATA,

	// front-end methods arrive as writes to the PIO addresses
	registers.PIOSetAntecedentVoice: feWrite(registers.PIOSetAntecedentVoice),
	registers.PIOVoiceOn:            feWrite(registers.PIOVoiceOn),
	registers.PIOVoiceOff:           feWrite(registers.PIOVoiceOff),
	registers.PIOVoicePause:         feWrite(registers.PIOVoicePause),
	registers.PIOSetCurrentVoice:    feWrite(registers.PIOSetCurrentVoice),
}

// feWrite binds a PIO address to the front-end command processor.
func feWrite(method uint32) func(*APU, uint32) error {
	return func(ap *APU, val uint32) error {
		return ap.feMethod(method, val)
	}
}

// the bits of the interrupts to clear are written.
func (ap *APU) writeISTS(val uint32) error {
	ap.poke(registers.ISTS, ap.peek(registers.ISTS)&^val)
	ap.updateIRQ()
	return nil
}

// the counter mode sub-field arms or disarms the frame timer.
func (ap *APU) writeSECTL(val uint32) error {
	if registers.GetMask(val, registers.SECTLXCntMode) == registers.SECTLXCntModeOff {
		ap.tmr.Disarm()
	} else {
		ap.tmr.Arm(FrameInterval, ap.frame)
	}
	ap.poke(registers.SECTL, val)
	return nil
}

// 'magic write'. the value is expected to appear at the guest address in
// FEMEMADDR on completion of a notify. the hardware does it in the same
// cycle, and so do we, echoing the value into the register as well.
func (ap *APU) writeFEMEMDATA(val uint32) error {
	ap.writePhys32(ap.peek(registers.FEMEMADDR), val)
	ap.poke(registers.FEMEMDATA, val)
	return nil
}

func (ap *APU) updateIRQ() {
	ists := ap.peek(registers.ISTS)
	ien := ap.peek(registers.IEN)

	if ien&registers.IstsGIntSts != 0 && (ists&^registers.IstsGIntSts)&ien != 0 {
		ap.poke(registers.ISTS, ists|registers.IstsGIntSts)
		logger.Log("mcpx", "irq raise")
		ap.irq.Assert()
	} else {
		ap.poke(registers.ISTS, ists&^registers.IstsGIntSts)
		ap.irq.Deassert()
	}
}

// readPhys32 and writePhys32 are little-endian word accesses to guest
// memory. writes are marked dirty for the host's page tracking.
func (ap *APU) readPhys32(addr uint32) uint32 {
	var b [4]byte
	ap.mem.ReadBytes(addr, b[:])
	return binary.LittleEndian.Uint32(b[:])
}

func (ap *APU) writePhys32(addr uint32, val uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], val)
	ap.mem.WriteBytes(addr, b[:])
	ap.mem.MarkDirty(addr, 4)
}
