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

package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/b438-dev/xqemu/hardware/dsp"
	"github.com/b438-dev/xqemu/hardware/mcpx"
	"github.com/b438-dev/xqemu/hardware/mcpx/dma"
	"github.com/b438-dev/xqemu/hardware/mcpx/registers"
	"github.com/b438-dev/xqemu/hardware/memory"
	"github.com/b438-dev/xqemu/hardware/vclock"
	"github.com/b438-dev/xqemu/logger"
	"github.com/b438-dev/xqemu/monitor"
	"github.com/b438-dev/xqemu/pcmdata"
	"github.com/b438-dev/xqemu/statsview"
	"github.com/b438-dev/xqemu/wavwriter"
)

// guest memory layout used by the harness. these are choices a kernel
// driver would make; the device only ever sees them through its registers
// and descriptor tables.
const (
	guestRAMSize = 64 * 1024 * 1024

	// voice structure array
	vpBase = 0x00010000

	// GP FIFO scatter-gather descriptor table
	fifoSGEBase = 0x00008000

	// pages backing the FIFO logical space
	payloadBase  = 0x00100000
	payloadPages = 16

	// extent of GP input FIFO channel 0's circular range
	fifoLen = 0x4000
)

// DSP memory space sizes, in words. The GP's X space must reach past the
// mix buffer at MixBufBase.
const (
	gpXSize = int(registers.MixBufBase + registers.MixBufSize)
	gpYSize = int(registers.GPYMemSize)
	gpPSize = int(registers.GPPMemSize)
	epXSize = int(registers.EPXMemSize)
	epYSize = int(registers.EPYMemSize)
	epPSize = int(registers.EPPMemSize)
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	md := flag.NewFlagSet("xqemu", flag.ExitOnError)
	frames := md.Int("frames", 100, "number of 10ms frames to run")
	wavFile := md.String("wav", "", "capture mix bins 0 and 1 to WAV file")
	pcmFile := md.String("pcm", "", "WAV or MP3 file to seed the guest sample payload (sine sweep if empty)")
	stats := md.Bool("stats", false, "launch statistics server")
	mon := md.Bool("monitor", false, "run the interactive monitor instead of a batch run")
	echo := md.Bool("log", false, "echo log entries to stderr as they arrive")

	if err := md.Parse(args); err != nil {
		return 2
	}

	if *echo {
		logger.SetEcho(os.Stderr)
	}

	if *stats {
		statsview.Launch(os.Stdout)
	}

	h, err := newHarness(*pcmFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "xqemu: %v\n", err)
		return 1
	}

	if *mon {
		m, err := monitor.NewMonitor(h.apu, func() {
			h.clk.Advance(mcpx.FrameInterval)
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "xqemu: %v\n", err)
			return 1
		}
		if err := m.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "xqemu: %v\n", err)
			return 1
		}
		return 0
	}

	if err := h.runFrames(*frames, *wavFile); err != nil {
		fmt.Fprintf(os.Stderr, "xqemu: %v\n", err)
		logger.Tail(os.Stderr, 10)
		return 1
	}

	fmt.Printf("%d frames run, %d irq raises, counter at %#08x\n",
		h.gp.FrameCount, h.irq.raises, h.apu.Read(registers.XGSCNT))

	return 0
}

// irqPin is the host end of the device's interrupt line.
type irqPin struct {
	asserted bool
	raises   int
}

func (p *irqPin) Assert() {
	if !p.asserted {
		p.raises++
	}
	p.asserted = true
}

func (p *irqPin) Deassert() {
	p.asserted = false
}

// harness is a complete device instance with guest RAM prepared the way the
// kernel driver would prepare it: voice array, descriptor tables, FIFO
// ranges and a sample payload for the mixer to stream.
type harness struct {
	ram *memory.RAM
	clk *vclock.Clock
	irq *irqPin
	gp  *dsp.Core
	ep  *dsp.Core
	apu *mcpx.APU
}

func newHarness(pcmFile string) (*harness, error) {
	h := &harness{
		ram: memory.NewRAM(guestRAMSize),
		clk: vclock.NewClock(),
		irq: &irqPin{},
		gp:  dsp.NewCore("gp", gpXSize, gpYSize, gpPSize),
		ep:  dsp.NewCore("ep", epXSize, epYSize, epPSize),
	}
	h.apu = mcpx.NewAPU(h.ram, h.irq, h.clk, h.gp, h.ep)
	h.apu.Reset()

	if err := h.seedPayload(pcmFile); err != nil {
		return nil, err
	}
	if err := h.programDevice(); err != nil {
		return nil, err
	}

	h.apu.SetMixer(&streamMixer{apu: h.apu})

	return h, nil
}

// seedPayload fills the FIFO's logical space with 16bit mono samples, looped
// to cover the whole circular range.
func (h *harness) seedPayload(pcmFile string) error {
	var data []byte

	if pcmFile != "" {
		p, err := pcmdata.Load(pcmFile)
		if err != nil {
			return err
		}
		data = p.Bytes()
	} else {
		// no payload file. synthesise a 440Hz tone at the output sample rate
		p := pcmdata.PCM{SampleRate: wavwriter.SampleFreq}
		for i := 0; i < fifoLen/2; i++ {
			p.Data = append(p.Data,
				float32(0.5*math.Sin(2*math.Pi*440*float64(i)/p.SampleRate)))
		}
		data = p.Bytes()
	}

	if len(data) == 0 {
		data = make([]byte, 2)
	}

	buf := make([]byte, fifoLen)
	for i := range buf {
		buf[i] = data[i%len(data)]
	}
	h.ram.WriteBytes(payloadBase, buf)

	return nil
}

// programDevice performs the register setup a guest driver does at boot:
// descriptor tables, voice array base, list heads, FIFO ranges, interrupt
// enables and finally the counter mode that starts the frame schedule.
func (h *harness) programDevice() error {
	// descriptor table mapping the FIFO logical space onto the payload pages
	for i := uint32(0); i < payloadPages; i++ {
		h.ram.Poke32(fifoSGEBase+i*8, payloadBase+i*dma.PageSize)
	}

	w := func(addr uint32, val uint32) error {
		return h.apu.Write(addr, val)
	}

	setup := []struct {
		addr uint32
		val  uint32
	}{
		{registers.VPVADDR, vpBase},
		{registers.GPFADDR, fifoSGEBase},
		{registers.GPFMAXSGE, payloadPages - 1},

		// empty voice lists
		{registers.TVL2D, registers.NoVoice},
		{registers.TVL3D, registers.NoVoice},
		{registers.TVLMP, registers.NoVoice},

		// GP input FIFO channel 0 covers [0, fifoLen)
		{registers.GPIFBASE0, registers.SetMask(0, registers.FIFOBaseValue, 0)},
		{registers.GPIFEND0, registers.SetMask(0, registers.FIFOEndValue, fifoLen)},
		{registers.GPIFCUR0, registers.SetMask(0, registers.FIFOCurValue, 0)},

		{registers.IEN, registers.IstsGIntSts | registers.IstsFETIntSts},
		{registers.FETFORCE1, registers.FETForce1SE2FEIdleVoice},
	}
	for _, s := range setup {
		if err := w(s.addr, s.val); err != nil {
			return err
		}
	}

	// two voices at the top of the 2D list
	if err := w(registers.PIOSetAntecedentVoice,
		registers.SetMask(0, registers.FEAVList, registers.List2DTop)); err != nil {
		return err
	}
	if err := w(registers.PIOVoiceOn, 0x0041); err != nil {
		return err
	}
	if err := w(registers.PIOVoiceOn, 0x0040); err != nil {
		return err
	}

	// take the GP out of reset
	h.apu.GP.Write(registers.GPRst, registers.RstRst|registers.RstDSPRst)

	// start the frame schedule
	return w(registers.SECTL, registers.SetMask(0, registers.SECTLXCntMode, 1))
}

// runFrames advances the virtual clock one frame at a time, reading the
// published mix buffer back through the GP window after each frame.
func (h *harness) runFrames(frames int, wavFile string) error {
	var wav *wavwriter.WavWriter
	if wavFile != "" {
		wav = wavwriter.New(wavFile)
	}

	for f := 0; f < frames; f++ {
		h.clk.Advance(mcpx.FrameInterval)

		if err := h.apu.Fault(); err != nil {
			return err
		}

		if wav != nil {
			var left, right [mcpx.NumSamplesPerFrame]int32
			for i := 0; i < mcpx.NumSamplesPerFrame; i++ {
				left[i] = signExtend24(h.apu.GP.Read(registers.GPMixBuf + uint32(i*4)))
				right[i] = signExtend24(h.apu.GP.Read(registers.GPMixBuf + uint32((0x20+i)*4)))
			}
			wav.AddFrame(left, right)
		}
	}

	if wav != nil {
		return wav.End()
	}
	return nil
}

// signExtend24 widens a 24bit mix buffer cell to a signed 32bit value.
func signExtend24(v uint32) int32 {
	return int32(v<<8) >> 8
}

// streamMixer is a stand-in for the voice processor's signal path. For every
// active voice it streams one frame's worth of 16bit samples from the GP
// input FIFO into mix bins 0 and 1.
type streamMixer struct {
	apu *mcpx.APU
}

func (m *streamMixer) ProcessVoice(handle uint16, mix *mcpx.MixBuffer) {
	buf := make([]byte, mcpx.NumSamplesPerFrame*2)
	if err := m.apu.GPFIFORW(buf, 0, dma.FromGuest); err != nil {
		logger.Logf("mixer", "voice %#04x: %v", handle, err)
		return
	}

	for i := 0; i < mcpx.NumSamplesPerFrame; i++ {
		s := int32(int16(uint16(buf[i*2]) | uint16(buf[i*2+1])<<8))
		mix[0][i] += s << 8
		mix[1][i] += s << 8
	}
}
