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

// Package wavwriter allows writing of captured mix-buffer output to disk as
// a WAV file. Note that audio data is buffered in memory in its entirety
// and written to disk on End(). It is therefore probably only suitable for
// testing purposes.
package wavwriter

import (
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/b438-dev/xqemu/curated"
	"github.com/b438-dev/xqemu/hardware/mcpx"
	"github.com/b438-dev/xqemu/logger"
)

// SampleFreq is the sample rate of the captured output: 1500 frames per
// second of 32 samples each.
const SampleFreq = 48000

// bit depth of the encoded file. mix buffer cells are 24bit accumulators
// but 16bit is plenty for monitoring purposes.
const bitDepth = 16

// WavWriter accumulates one stereo sample pair per mix-buffer sample cell.
type WavWriter struct {
	filename string

	// interleaved stereo samples
	data []int
}

// New is the preferred method of initialisation for the WavWriter type.
func New(filename string) *WavWriter {
	return &WavWriter{
		filename: filename,
		data:     make([]int, 0, SampleFreq),
	}
}

// AddFrame appends one frame of output. The left and right arguments are
// two mix bins of a published frame, as 24bit sign-extended values.
func (aw *WavWriter) AddFrame(left [mcpx.NumSamplesPerFrame]int32, right [mcpx.NumSamplesPerFrame]int32) {
	for i := 0; i < mcpx.NumSamplesPerFrame; i++ {
		aw.data = append(aw.data, int(left[i]>>8), int(right[i]>>8))
	}
}

// End writes the buffered samples to disk.
func (aw *WavWriter) End() (rerr error) {
	f, err := os.Create(aw.filename)
	if err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = curated.Errorf("wavwriter: %v", err)
		}
	}()

	enc := wav.NewEncoder(f, SampleFreq, bitDepth, 2, 1)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 2,
			SampleRate:  SampleFreq,
		},
		Data:           aw.data,
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}
	if err := enc.Close(); err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}

	logger.Logf("wavwriter", "%d samples written to %s", len(aw.data)/2, aw.filename)
	return nil
}
