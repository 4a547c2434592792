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

package registers

import "fmt"

// Symbols lists the canonical names of the top-level window registers. Used
// for monitor display and log readability; the emulation itself never
// consults this table.
var Symbols = map[uint32]string{
	ISTS:       "ISTS",
	IEN:        "IEN",
	FECTL:      "FECTL",
	FECV:       "FECV",
	FEAV:       "FEAV",
	FEDECMETH:  "FEDECMETH",
	FEDECPARAM: "FEDECPARAM",
	FEMEMADDR:  "FEMEMADDR",
	FEMEMDATA:  "FEMEMDATA",
	FETFORCE0:  "FETFORCE0",
	FETFORCE1:  "FETFORCE1",
	SECTL:      "SECTL",
	XGSCNT:     "XGSCNT",
	VPVADDR:    "VPVADDR",
	GPSADDR:    "GPSADDR",
	GPFADDR:    "GPFADDR",
	EPSADDR:    "EPSADDR",
	EPFADDR:    "EPFADDR",
	TVL2D:      "TVL2D",
	CVL2D:      "CVL2D",
	NVL2D:      "NVL2D",
	TVL3D:      "TVL3D",
	CVL3D:      "CVL3D",
	NVL3D:      "NVL3D",
	TVLMP:      "TVLMP",
	CVLMP:      "CVLMP",
	NVLMP:      "NVLMP",
	GPSMAXSGE:  "GPSMAXSGE",
	GPFMAXSGE:  "GPFMAXSGE",
	EPSMAXSGE:  "EPSMAXSGE",
	EPFMAXSGE:  "EPFMAXSGE",
	GPOFBASE0:  "GPOFBASE0",
	GPOFEND0:   "GPOFEND0",
	GPOFCUR0:   "GPOFCUR0",
	GPIFBASE0:  "GPIFBASE0",
	GPIFEND0:   "GPIFEND0",
	GPIFCUR0:   "GPIFCUR0",
	EPOFBASE0:  "EPOFBASE0",
	EPOFEND0:   "EPOFEND0",
	EPOFCUR0:   "EPOFCUR0",
	EPIFBASE0:  "EPIFBASE0",
	EPIFEND0:   "EPIFEND0",
	EPIFCUR0:   "EPIFCUR0",
}

// Symbol returns the canonical name for a top-level window address, or a
// hex rendering if the address has no name.
func Symbol(addr uint32) string {
	if s, ok := Symbols[addr]; ok {
		return s
	}
	return fmt.Sprintf("%#08x", addr)
}
