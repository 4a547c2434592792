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

package registers_test

import (
	"testing"

	"github.com/b438-dev/xqemu/hardware/mcpx/registers"
	"github.com/b438-dev/xqemu/test"
)

func TestMaskHelpers(t *testing.T) {
	// the field value is shifted down to bit 0 on extraction
	test.Equate(t, registers.GetMask(0x00012300, registers.FIFOBaseValue), 0x123)

	// insertion shifts the value up into the field, leaving the rest of the
	// register untouched
	v := registers.SetMask(0xFF000001, registers.FIFOBaseValue, 0x123)
	test.Equate(t, v, 0xFF012301)

	// values wider than the field are truncated
	v = registers.SetMask(0, registers.FIFOBaseValue, 0xFFFFFFFF)
	test.Equate(t, registers.GetMask(v, registers.FIFOBaseValue), 0xFFFF)

	// round trip through a field whose mask does not start at a byte
	// boundary
	v = registers.SetMask(0, registers.FIFOCurValue, 0x140)
	test.Equate(t, registers.GetMask(v, registers.FIFOCurValue), 0x140)

	// single-bit fields behave as booleans
	test.Equate(t, registers.GetMask(registers.FETForce1SE2FEIdleVoice,
		registers.FETForce1SE2FEIdleVoice), 1)
}

func TestSymbol(t *testing.T) {
	test.Equate(t, registers.Symbol(registers.ISTS), "ISTS")
	test.Equate(t, registers.Symbol(registers.TVLMP), "TVLMP")

	// unnamed addresses render as hex
	test.Equate(t, registers.Symbol(0x1FF00), "0x01ff00")
}
