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
	"time"

	"github.com/b438-dev/xqemu/hardware/bus"
	"github.com/b438-dev/xqemu/hardware/mcpx/registers"
	"github.com/b438-dev/xqemu/logger"
)

// NumMixBins is the number of accumulation channels in the mix buffer.
const NumMixBins = 32

// NumSamplesPerFrame is the number of samples per mix bin per frame.
const NumSamplesPerFrame = 32

// FrameInterval is the period of the frame tick while the setup engine
// counter is enabled.
const FrameInterval = 10 * time.Millisecond

// number of DSP cycles granted to the GP after each frame start.
const gpFrameCycles = 1000

// MixBuffer accumulates per-voice contributions for one frame. It exists
// only for the duration of a single frame tick, after which its contents
// have been published to the GP's X memory.
type MixBuffer [NumMixBins][NumSamplesPerFrame]int32

// Mixer is the per-voice mix contribution hook. The signal processing that
// fills the mix buffer belongs to the voice processor, which is outside the
// scope of this repository; implementations are expected to side-effect
// only the mix buffer.
type Mixer interface {
	ProcessVoice(handle uint16, mix *MixBuffer)
}

// frame is the timer callback. A fault raised during a frame is latched on
// the device rather than returned, because there is no caller on this path
// to return it to.
func (ap *APU) frame() {
	if err := ap.runFrame(); err != nil {
		ap.fault = err
		logger.Logf("mcpx: frame", "fault: %v", err)
	}
}

func (ap *APU) runFrame() error {
	// re-arm before anything else so that a long frame does not stretch the
	// period. a SECTL write during the frame can still disarm the schedule
	ap.tmr.Arm(FrameInterval, ap.frame)

	// buffer for all mixbins for this frame
	mix := MixBuffer{}

	// process all voices, mixing each into the affected mixbins. the next
	// handle is captured into the look-ahead register before the current
	// voice is touched: idle retirement may alter the node but must not
	// corrupt the walk
	for list := range voiceListRegs {
		current := voiceListRegs[list].current
		next := voiceListRegs[list].next

		ap.poke(current, ap.peek(voiceListRegs[list].top))
		for ap.peek(current) != registers.NoVoice {
			handle := ap.peek(current)

			n, err := ap.voiceGetMask(handle,
				registers.VoiceTarPitchLink, registers.VoiceLinkNextHandle)
			if err != nil {
				return err
			}
			ap.poke(next, n)

			active, err := ap.voiceGetMask(handle,
				registers.VoiceParState, registers.VoiceStateActive)
			if err != nil {
				return err
			}

			if active == 0 {
				// an inactive voice still linked into a list is reported
				// back to the front-end as an idle voice
				if err := ap.feMethod(registers.SE2FEIdleVoice, handle); err != nil {
					return err
				}
			} else if ap.mixer != nil {
				ap.mixer.ProcessVoice(uint16(handle), &mix)
			}

			ap.poke(current, ap.peek(next))
		}
	}

	// publish the mix buffer into the GP's X memory
	for mixbin := 0; mixbin < NumMixBins; mixbin++ {
		for sample := 0; sample < NumSamplesPerFrame; sample++ {
			ap.GP.dsp.WriteMemory(bus.SpaceX,
				registers.MixBufBase+uint32(mixbin*0x20+sample),
				uint32(mix[mixbin][sample])&0xFFFFFF)
		}
	}

	// kick off DSP processing on whichever coprocessors are out of reset
	if ap.GP.running() {
		ap.GP.dsp.StartFrame()
		ap.GP.dsp.Run(gpFrameCycles)
	}
	if ap.EP.running() {
		ap.EP.dsp.StartFrame()
	}

	return nil
}
