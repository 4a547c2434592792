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

// Package monitor is a small single-key terminal monitor for the device
// harness. It puts the controlling terminal into cbreak mode (wrapping
// "github.com/pkg/term/termios") and offers frame stepping and state
// inspection, including a graphviz dump of the device state via
// "github.com/bradleyjkemp/memviz".
package monitor

import (
	"fmt"
	"os"

	"github.com/bradleyjkemp/memviz"
	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"

	"github.com/b438-dev/xqemu/curated"
	"github.com/b438-dev/xqemu/hardware/mcpx"
	"github.com/b438-dev/xqemu/hardware/mcpx/registers"
	"github.com/b438-dev/xqemu/logger"
)

// filename of the graphviz dump produced by the 'v' command.
const vizFilename = "xqemu-state.dot"

// Monitor is an interactive, single-key front-end to a device instance.
type Monitor struct {
	apu *mcpx.APU

	// step advances the harness by one frame interval
	step func()

	input  *os.File
	output *os.File

	canAttr    unix.Termios
	cbreakAttr unix.Termios
}

// NewMonitor is the preferred method of initialisation for the Monitor
// type. The step function is called for every frame-step request and is
// expected to advance the harness clock by one frame interval.
func NewMonitor(apu *mcpx.APU, step func()) (*Monitor, error) {
	m := &Monitor{
		apu:    apu,
		step:   step,
		input:  os.Stdin,
		output: os.Stdout,
	}

	// prepare the attributes for the terminal modes we'll be using
	if err := termios.Tcgetattr(m.input.Fd(), &m.canAttr); err != nil {
		return nil, curated.Errorf("monitor: %v", err)
	}
	m.cbreakAttr = m.canAttr
	termios.Cfmakecbreak(&m.cbreakAttr)

	return m, nil
}

func (m *Monitor) print(s string, a ...interface{}) {
	m.output.WriteString(fmt.Sprintf(s, a...))
}

// Run takes over the terminal until the quit key is pressed. The terminal
// is restored to canonical mode on return.
func (m *Monitor) Run() error {
	if err := termios.Tcsetattr(m.input.Fd(), termios.TCIFLUSH, &m.cbreakAttr); err != nil {
		return curated.Errorf("monitor: %v", err)
	}
	defer termios.Tcsetattr(m.input.Fd(), termios.TCIFLUSH, &m.canAttr)

	m.print("[space] step frame, [r] registers, [l] log, [v] viz, [f] fault, [q] quit\n")

	b := make([]byte, 1)
	for {
		if _, err := m.input.Read(b); err != nil {
			return curated.Errorf("monitor: %v", err)
		}

		switch b[0] {
		case ' ':
			m.step()
			m.print("frame stepped (counter %d)\n", m.apu.Read(registers.XGSCNT))

		case 'r':
			m.printRegisters()

		case 'l':
			logger.Tail(m.output, 10)

		case 'v':
			if err := m.visualise(); err != nil {
				m.print("%v\n", err)
			} else {
				m.print("state written to %s\n", vizFilename)
			}

		case 'f':
			if err := m.apu.Fault(); err != nil {
				m.print("latched fault: %v\n", err)
			} else {
				m.print("no fault\n")
			}

		case 'q':
			return nil
		}
	}
}

func (m *Monitor) printRegisters() {
	for _, addr := range []uint32{
		registers.ISTS, registers.IEN, registers.FECTL, registers.FECV,
		registers.FEAV, registers.SECTL,
		registers.TVL2D, registers.TVL3D, registers.TVLMP,
	} {
		m.print("%-10s %#08x\n", registers.Symbol(addr), m.apu.Read(addr))
	}
}

func (m *Monitor) visualise() error {
	f, err := os.Create(vizFilename)
	if err != nil {
		return curated.Errorf("monitor: %v", err)
	}
	defer f.Close()

	memviz.Map(f, m.apu)
	return nil
}
