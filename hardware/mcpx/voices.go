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
	"github.com/b438-dev/xqemu/hardware/mcpx/registers"
)

// VoiceList identifies one of the three voice lists maintained by the
// device.
type VoiceList int

// List of valid VoiceList values.
const (
	List2D VoiceList = iota
	List3D
	ListMP
)

func (l VoiceList) String() string {
	switch l {
	case List2D:
		return "2D"
	case List3D:
		return "3D"
	case ListMP:
		return "MP"
	}
	panic("unknown voice list")
}

// the top/current/next register triple for each voice list.
var voiceListRegs = [3]struct {
	top     uint32
	current uint32
	next    uint32
}{
	{registers.TVL2D, registers.CVL2D, registers.NVL2D},
	{registers.TVL3D, registers.CVL3D, registers.NVL3D},
	{registers.TVLMP, registers.CVLMP, registers.NVLMP},
}

// voiceAddr translates a voice handle to the guest physical address of its
// voice structure. the voice structures are an array based at VPVADDR, one
// fixed-size record per handle.
func (ap *APU) voiceAddr(handle uint32) uint32 {
	return ap.peek(registers.VPVADDR) + handle*registers.VoiceSize
}

// voiceGetMask reads a masked sub-field of a voice structure word. The
// device never looks at any part of a voice structure outside the declared
// masks; the rest of the record belongs to the voice processor.
func (ap *APU) voiceGetMask(handle uint32, offset uint32, mask uint32) (uint32, error) {
	if handle >= registers.NoVoice {
		return 0, curated.Errorf(InvalidVoiceHandle, handle)
	}
	return registers.GetMask(ap.readPhys32(ap.voiceAddr(handle)+offset), mask), nil
}

// voiceSetMask writes a masked sub-field of a voice structure word, leaving
// all bits outside the mask untouched.
func (ap *APU) voiceSetMask(handle uint32, offset uint32, mask uint32, val uint32) error {
	if handle >= registers.NoVoice {
		return curated.Errorf(InvalidVoiceHandle, handle)
	}
	addr := ap.voiceAddr(handle) + offset
	ap.writePhys32(addr, registers.SetMask(ap.readPhys32(addr), mask, val))
	return nil
}

// insertVoiceAtHead links a voice in at the top of a list. The previous head
// becomes the voice's next link.
func (ap *APU) insertVoiceAtHead(list VoiceList, handle uint32) error {
	top := voiceListRegs[list].top
	err := ap.voiceSetMask(handle,
		registers.VoiceTarPitchLink, registers.VoiceLinkNextHandle,
		ap.peek(top))
	if err != nil {
		return err
	}
	ap.poke(top, handle)
	return nil
}

// insertVoiceAfter links a voice in immediately after the antecedent voice,
// wherever in whichever list the antecedent currently sits.
func (ap *APU) insertVoiceAfter(antecedent uint32, handle uint32) error {
	if antecedent == registers.NoVoice {
		return curated.Errorf(InvalidAntecedent)
	}

	next, err := ap.voiceGetMask(antecedent,
		registers.VoiceTarPitchLink, registers.VoiceLinkNextHandle)
	if err != nil {
		return err
	}
	err = ap.voiceSetMask(handle,
		registers.VoiceTarPitchLink, registers.VoiceLinkNextHandle, next)
	if err != nil {
		return err
	}
	return ap.voiceSetMask(antecedent,
		registers.VoiceTarPitchLink, registers.VoiceLinkNextHandle, handle)
}

// setVoiceActive sets or clears the active flag in the voice's state word.
func (ap *APU) setVoiceActive(handle uint32, active bool) error {
	var v uint32
	if active {
		v = 1
	}
	return ap.voiceSetMask(handle,
		registers.VoiceParState, registers.VoiceStateActive, v)
}

// setVoicePaused sets or clears the paused flag in the voice's state word.
func (ap *APU) setVoicePaused(handle uint32, paused bool) error {
	var v uint32
	if paused {
		v = 1
	}
	return ap.voiceSetMask(handle,
		registers.VoiceParState, registers.VoiceStatePaused, v)
}

// Voices returns the handles currently linked into a list, in traversal
// order. This is a debugging accessor; the frame scheduler performs its own
// walk through the current/next registers so that the look-ahead semantics
// of the hardware are preserved.
func (ap *APU) Voices(list VoiceList) ([]uint16, error) {
	handles := make([]uint16, 0, 8)

	cur := ap.peek(voiceListRegs[list].top)
	for cur != registers.NoVoice {
		// a list longer than the handle space means the guest has linked a
		// cycle. the hardware would spin; the debugging accessor stops
		if len(handles) >= registers.NoVoice {
			break
		}

		handles = append(handles, uint16(cur))

		next, err := ap.voiceGetMask(cur,
			registers.VoiceTarPitchLink, registers.VoiceLinkNextHandle)
		if err != nil {
			return handles, err
		}
		cur = next
	}

	return handles, nil
}
