// Package keys implements per-device key/button bookkeeping: a
// "currently down" bitmap used to drop releases that were never pressed,
// and a press counter per code used to collapse repeated press/release
// pairs (duplicate down events from a noisy matrix, overlapping report
// descriptors, and the like) into a single outbound notification.
package keys

import "go.uber.org/zap"

// maxCounter is the threshold for a recoverable "stuck key" warning.
// Crossing it never blocks the event.
const maxCounter = 32

// Counter tracks down-state and press counts for every evdev key/button
// code on one device. The zero value is ready to use.
type Counter struct {
	down  map[uint16]bool
	count map[uint16]uint32
}

// NewCounter returns a ready Counter.
func NewCounter() *Counter {
	return &Counter{
		down:  make(map[uint16]bool),
		count: make(map[uint16]uint32),
	}
}

// IsDown reports whether code is currently marked pressed.
func (c *Counter) IsDown(code uint16) bool {
	return c.down[code]
}

// Press records a press of code. The counter increments on every press,
// even one that arrives while the code is already down: a single
// physical press can be reported more than once by flaky hardware, and
// the counter exists precisely to absorb that without re-emitting. Press
// reports whether this particular event should be propagated upstream —
// true when the resulting count lands on 0 or 1, the two counts that
// represent a genuine state change rather than a still-held key.
func (c *Counter) Press(code uint16, log *zap.Logger) bool {
	c.down[code] = true
	c.count[code]++
	n := c.count[code]

	if n > maxCounter && log != nil {
		log.Warn("key press counter exceeded threshold",
			zap.Uint16("code", code),
			zap.Uint32("count", n),
		)
	}

	return n == 0 || n == 1
}

// Release records a release of code. If the code was never marked down
// (no matching press observed), the release is dropped as a protocol
// violation: Release returns emit=false, violation=true and does not
// touch the counter. Otherwise it decrements and reports, via the same
// 0-or-1 rule as Press, whether this release should be propagated.
func (c *Counter) Release(code uint16) (emit bool, violation bool) {
	if !c.down[code] {
		return false, true
	}

	c.count[code]--
	n := c.count[code]
	if n == 0 {
		c.down[code] = false
	}

	return n == 0 || n == 1, false
}

// DownCodes returns every code currently marked down, used by device
// lifecycle teardown to synthesize release events before a device is
// removed.
func (c *Counter) DownCodes() []uint16 {
	codes := make([]uint16, 0, len(c.down))
	for code, isDown := range c.down {
		if isDown {
			codes = append(codes, code)
		}
	}
	return codes
}
