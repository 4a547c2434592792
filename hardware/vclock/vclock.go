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

// Package vclock implements the bus.FrameTimer interface over a virtual
// clock that only moves when the host advances it. This is the QEMU virtual
// clock model: device timers fire deterministically as a side effect of
// Advance(), never from a goroutine.
package vclock

import "time"

// Clock is a manually advanced virtual clock with a single one-shot timer.
type Clock struct {
	now    int64
	armed  bool
	due    int64
	onFire func()
}

// NewClock is the preferred method of initialisation for the Clock type.
func NewClock() *Clock {
	return &Clock{}
}

// Arm implements the bus.FrameTimer interface.
func (c *Clock) Arm(delay time.Duration, onFire func()) {
	c.armed = true
	c.due = c.now + int64(delay)
	c.onFire = onFire
}

// Disarm implements the bus.FrameTimer interface.
func (c *Clock) Disarm() {
	c.armed = false
}

// Now implements the bus.FrameTimer interface.
func (c *Clock) Now() int64 {
	return c.now
}

// Advance moves the clock forward, firing the timer as it falls due. A
// callback may re-arm the timer; the new schedule is honoured within the
// same Advance if it also falls inside the window.
func (c *Clock) Advance(d time.Duration) {
	target := c.now + int64(d)
	for c.armed && c.due <= target {
		c.now = c.due
		c.armed = false
		if c.onFire != nil {
			c.onFire()
		}
	}
	c.now = target
}
