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

// Package mcpx emulates the register-level behaviour of the MCPX audio
// processing unit: the front-end command sequencer, the voice list
// machinery, the scatter-gather DMA and FIFO channels shared with the two
// DSP coprocessors, and the 10ms frame scheduler.
//
// The device is driven entirely by its host: MMIO accesses arrive through
// the Read/Write functions of the APU type and its two Proc fields, and
// time advances only through the bus.FrameTimer supplied at creation. There
// is no internal concurrency; the host guarantees that MMIO dispatch and
// timer callbacks never overlap.
//
// The DSP instruction cores, the guest address space, the interrupt line
// and the timer are all collaborators behind the interfaces in the bus
// package.
//
// Error handling is strictly two-class. Accesses to undefined register
// addresses are benign: writes are dropped and reads return zero.
// Everything else that can go wrong is a malformed-guest-state fault,
// reported as a curated error against one of the sentinel patterns defined
// in this package and in the dma package; the device makes no attempt to
// recover from these.
package mcpx
