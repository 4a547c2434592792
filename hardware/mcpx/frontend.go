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
	"github.com/b438-dev/xqemu/logger"
)

// feMethod runs one front-end method. Guest-issued methods arrive through
// the PIO write addresses; the SE2FEIdleVoice method is internal and is only
// ever raised by the frame scheduler.
//
// Every method latches its (method, argument) pair into the decode
// registers before dispatch, so the host can inspect the last decoded
// method even after a trap.
func (ap *APU) feMethod(method uint32, argument uint32) error {
	logger.Logf("mcpx: fe", "method %#04x argument %#08x", method, argument)

	ap.poke(registers.FEDECMETH, method)
	ap.poke(registers.FEDECPARAM, argument)

	switch method {
	case registers.PIOSetAntecedentVoice:
		ap.poke(registers.FEAV, argument)

	case registers.PIOVoiceOn:
		handle := argument & registers.VoiceHandleMask
		list := registers.GetMask(ap.peek(registers.FEAV), registers.FEAVList)
		if list != registers.ListInherit {
			// voice is added to the top of the selected list
			if err := ap.insertVoiceAtHead(VoiceList(list-1), handle); err != nil {
				return err
			}
		} else {
			// voice is added after the antecedent voice
			antecedent := registers.GetMask(ap.peek(registers.FEAV), registers.FEAVValue)
			if err := ap.insertVoiceAfter(antecedent, handle); err != nil {
				return err
			}
		}
		return ap.setVoiceActive(handle, true)

	case registers.PIOVoiceOff:
		return ap.setVoiceActive(argument&registers.VoiceHandleMask, false)

	case registers.PIOVoicePause:
		return ap.setVoicePaused(argument&registers.VoiceHandleMask,
			argument&registers.PauseAction != 0)

	case registers.PIOSetCurrentVoice:
		ap.poke(registers.FECV, argument)

	case registers.SE2FEIdleVoice:
		if ap.peek(registers.FETFORCE1)&registers.FETForce1SE2FEIdleVoice == 0 {
			// the scheduler only raises this method when the trap is
			// enabled. reaching here means the guest changed FETFORCE1
			// mid-frame, which the hardware does not support
			return curated.Errorf(UnexpectedIdleVoice)
		}

		// trap the front-end with reason "requested" and flag the
		// interrupt
		fectl := ap.peek(registers.FECTL)
		fectl = (fectl &^ registers.FECTLMethMode) | registers.FECTLMethModeTrapped
		fectl = (fectl &^ registers.FECTLTrapReason) | registers.FECTLTrapReasonRequested
		ap.poke(registers.FECTL, fectl)

		ap.poke(registers.ISTS, ap.peek(registers.ISTS)|registers.IstsFETIntSts)
		ap.updateIRQ()

	default:
		return curated.Errorf(UnknownMethod, method)
	}

	return nil
}
