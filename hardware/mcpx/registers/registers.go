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

// Package registers defines the register map of the MCPX audio processor.
// All addresses are byte offsets into the relevant MMIO window and are
// 32bit aligned. Field masks are applied with the GetMask() and SetMask()
// helper functions.
package registers

import "math/bits"

// Top-level window. 0x20000 bytes of word registers.
const TopWindowSize = 0x20000

// Interrupt status and enable.
const (
	ISTS = 0x1000
	IEN  = 0x1004
)

// ISTS bits. GIntSts is the global summary bit, maintained by the device.
const (
	IstsGIntSts   = 1 << 0
	IstsFETIntSts = 1 << 4
)

// Front-end control and decode registers.
const (
	FECTL      = 0x1100
	FECV       = 0x1110
	FEAV       = 0x1118
	FEDECMETH  = 0x1300
	FEDECPARAM = 0x1304
	FEMEMADDR  = 0x1324
	FEMEMDATA  = 0x1334
	FETFORCE0  = 0x1500
	FETFORCE1  = 0x1504
)

// FECTL fields.
const (
	FECTLMethMode            = 0x000000E0
	FECTLMethModeFreeRunning = 0x00000000
	FECTLMethModeHalted      = 0x00000080
	FECTLMethModeTrapped     = 0x000000E0

	FECTLTrapReason          = 0x00000F00
	FECTLTrapReasonRequested = 0x00000F00
)

// FEAV fields.
const (
	FEAVValue = 0x0000FFFF
	FEAVList  = 0x00030000
)

// FETFORCE1 bits.
const FETForce1SE2FEIdleVoice = 1 << 15

// Setup engine.
const (
	SECTL  = 0x2000
	XGSCNT = 0x200C
)

// SECTL fields.
const (
	SECTLXCntMode    = 0x00000018
	SECTLXCntModeOff = 0
)

// Voice processor and scatter-gather descriptor table bases.
const (
	VPVADDR = 0x202C
	GPSADDR = 0x2040
	GPFADDR = 0x2044
	EPSADDR = 0x2048
	EPFADDR = 0x204C
)

// Voice list registers. top/current/next triple per list.
const (
	TVL2D = 0x2054
	CVL2D = 0x2058
	NVL2D = 0x205C
	TVL3D = 0x2060
	CVL3D = 0x2064
	NVL3D = 0x2068
	TVLMP = 0x206C
	CVLMP = 0x2070
	NVLMP = 0x2074
)

// Maximum descriptor index per scatter-gather table.
const (
	GPSMAXSGE = 0x20D4
	GPFMAXSGE = 0x20D8
	EPSMAXSGE = 0x20DC
	EPFMAXSGE = 0x20E0
)

// FIFO channel registers. Each channel is a base/end/current triple at a
// stride of FIFORegStride from channel 0.
const (
	GPOFBASE0 = 0x3024
	GPOFEND0  = 0x3028
	GPOFCUR0  = 0x302C
	GPIFBASE0 = 0x3064
	GPIFEND0  = 0x3068
	GPIFCUR0  = 0x306C

	EPOFBASE0 = 0x4024
	EPOFEND0  = 0x4028
	EPOFCUR0  = 0x402C
	EPIFBASE0 = 0x4064
	EPIFEND0  = 0x4068
	EPIFCUR0  = 0x406C

	FIFORegStride = 0x10
)

// FIFO register fields. The base and end fields hold bits 8-23 of the
// logical offset; the current field holds a word-aligned offset.
const (
	FIFOBaseValue = 0x00FFFF00
	FIFOEndValue  = 0x00FFFF00
	FIFOCurValue  = 0x00FFFFFC
)

// Number of FIFO channels per coprocessor, by direction.
const (
	OutputFIFOCount = 4
	InputFIFOCount  = 2
)

// Front-end methods. These arrive as writes to the PIO addresses of the
// audio processor object.
const (
	PIOFree                = 0x0010
	PIOSetAntecedentVoice  = 0x0120
	PIOVoiceOn             = 0x0124
	PIOVoiceOff            = 0x0128
	PIOVoicePause          = 0x0140
	PIOSetCurrentVoice     = 0x02F8
	SE2FEIdleVoice         = 0x8000
)

// Method argument fields.
const (
	VoiceHandleMask = 0x0000FFFF
	PauseAction     = 1 << 18
)

// Values of the FEAV list selector field.
const (
	ListInherit = 0
	List2DTop   = 1
	List3DTop   = 2
	ListMPTop   = 3
)

// Voice structure. One record of VoiceSize bytes per handle, based at the
// address in VPVADDR. Only the masked sub-fields below are ever touched by
// the device; everything else in the record belongs to the voice processor.
const (
	VoiceSize = 0x80

	VoiceParState        = 0x54
	VoiceStatePaused     = 1 << 18
	VoiceStateActive     = 1 << 21

	VoiceTarPitchLink    = 0x7C
	VoiceLinkNextHandle  = 0x0000FFFF
)

// NoVoice is the reserved handle value meaning "no voice". Voice handles
// must always be less than this value.
const NoVoice = 0xFFFF

// GP/EP window. 0x10000 bytes each, most of which routes to DSP memory.
const ProcWindowSize = 0x10000

// GP window layout. Offsets are byte addresses; sizes are in words.
const (
	GPXMem     = 0x0000
	GPXMemSize = 0x1000
	GPMixBuf   = 0x5000
	GPYMem     = 0x6000
	GPYMemSize = 0x800
	GPPMem     = 0xA000
	GPPMemSize = 0x1000
	GPRst      = 0xFFFC
)

// EP window layout.
const (
	EPXMem     = 0x0000
	EPXMemSize = 0xC00
	EPYMem     = 0x6000
	EPYMemSize = 0x100
	EPPMem     = 0xA000
	EPPMemSize = 0x1000
	EPRst      = 0xFFFC
)

// Reset register bits. Common to GPRst and EPRst.
const (
	RstRst    = 1 << 0
	RstDSPRst = 1 << 1
	RstNMI    = 1 << 2
	RstAbort  = 1 << 3
)

// MixBufBase is the word address of the mix buffer inside the GP's X memory
// space. The GPMixBuf window is an alias onto this region.
const MixBufBase = 0x1400

// MixBufSize is the extent of the mix buffer window in words.
const MixBufSize = 0x400

// GetMask extracts the field identified by mask from the register value v,
// shifted down to bit 0.
func GetMask(v uint32, mask uint32) uint32 {
	return (v & mask) >> uint(bits.TrailingZeros32(mask))
}

// SetMask returns v with the field identified by mask replaced by val.
func SetMask(v uint32, mask uint32, val uint32) uint32 {
	return (v &^ mask) | ((val << uint(bits.TrailingZeros32(mask))) & mask)
}
