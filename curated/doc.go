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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface.
//
// Curated errors are created with the Errorf() function. It takes a
// formatting pattern and placeholder values, like fmt.Errorf(), but the
// pattern string doubles as the identity of the error. The Is() function
// checks whether an error was created with a specific pattern:
//
//	e := curated.Errorf("dma: bad descriptor %d", idx)
//
//	if curated.Is(e, "dma: bad descriptor %d") {
//		...
//	}
//
// The Has() function is similar but checks if a pattern occurs somewhere in
// the error chain, which is useful once errors have been wrapped by callers
// further up the stack.
//
// Sentinel patterns should be stored as const strings, suitably named and
// commented, in the package that creates them. The hardware emulation
// packages use this to distinguish fatal guest-state faults, which a host
// can match on without string comparison of the formatted message.
//
// The Error() function normalises the message chain by removing duplicate
// adjacent parts. Parts are separated by the sub-string ": ".
package curated
