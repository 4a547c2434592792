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

// Package hardware is the base package for the device emulation. The mcpx
// sub-package is the audio processor itself; the bus sub-package defines
// the interfaces between the device and its host collaborators; the
// memory, dsp and vclock sub-packages are host-side implementations of
// those interfaces, suitable for headless operation and for the tests.
package hardware
