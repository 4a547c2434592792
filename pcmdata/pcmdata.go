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

// Package pcmdata loads PCM sample data from WAV and MP3 files. It is used
// by the standalone harness to seed guest memory with a realistic audio
// payload for the DMA and FIFO channels to move around.
package pcmdata

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"

	"github.com/b438-dev/xqemu/curated"
	"github.com/b438-dev/xqemu/logger"
)

// PCM is mono sample data (taken from the left channel in the case of
// stereo source files).
type PCM struct {
	SampleRate float64
	Data       []float32
}

// Load reads sample data from a WAV or MP3 file, chosen by file extension.
func Load(filename string) (PCM, error) {
	p := PCM{
		Data: make([]float32, 0),
	}

	f, err := os.Open(filename)
	if err != nil {
		return p, curated.Errorf("pcmdata: %v", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".wav":
		dec := wav.NewDecoder(f)
		if dec == nil {
			return p, curated.Errorf("pcmdata: wav: error decoding")
		}

		if !dec.IsValidFile() {
			return p, curated.Errorf("pcmdata: wav: not a valid wav file")
		}

		logger.Logf("pcmdata", "loading from wav file %s", filename)

		// load all data at once
		buf, err := dec.FullPCMBuffer()
		if err != nil {
			return p, curated.Errorf("pcmdata: wav: %v", err)
		}
		floatBuf := buf.AsFloat32Buffer()

		// copy first channel only of the data stream
		p.Data = make([]float32, 0, len(floatBuf.Data)/int(dec.NumChans))
		for i := 0; i < len(floatBuf.Data); i += int(dec.NumChans) {
			p.Data = append(p.Data, floatBuf.Data[i])
		}

		p.SampleRate = float64(dec.SampleRate)

	case ".mp3":
		dec, err := mp3.NewDecoder(f)
		if err != nil {
			return p, curated.Errorf("pcmdata: mp3: %v", err)
		}

		logger.Logf("pcmdata", "loading from mp3 file %s", filename)

		p.SampleRate = float64(dec.SampleRate())

		// the mp3 decoder produces a stream of interleaved stereo 16bit
		// samples. take the left channel
		frame := make([]byte, 4)
		for {
			if _, err := io.ReadFull(dec, frame); err != nil {
				break
			}
			v := int16(binary.LittleEndian.Uint16(frame))
			p.Data = append(p.Data, float32(v)/32768.0)
		}

	default:
		return p, curated.Errorf("pcmdata: unsupported file type (%s)", filepath.Ext(filename))
	}

	logger.Logf("pcmdata", "%d samples at %.0fHz", len(p.Data), p.SampleRate)
	return p, nil
}

// Bytes renders the sample data as little-endian signed 16bit mono, ready
// to be copied into guest memory.
func (p PCM) Bytes() []byte {
	b := make([]byte, 0, len(p.Data)*2)
	for _, s := range p.Data {
		if s > 1.0 {
			s = 1.0
		} else if s < -1.0 {
			s = -1.0
		}
		v := int16(s * 32767)
		b = binary.LittleEndian.AppendUint16(b, uint16(v))
	}
	return b
}
