package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPressReleaseDebounce(t *testing.T) {
	c := NewCounter()

	require.True(t, c.Press(0x110, nil), "first press (count 0->1) is a state change")
	require.False(t, c.Press(0x110, nil), "second press while still down (count 1->2) is swallowed")

	emit, violation := c.Release(0x110)
	assert.True(t, emit, "release that brings a doubled count down to 1 still reports the state change")
	assert.False(t, violation)
	assert.True(t, c.IsDown(0x110), "count is still nonzero, code remains down")

	emit, violation = c.Release(0x110)
	assert.True(t, emit, "final release (count 1->0) reports the state change")
	assert.False(t, violation)
	assert.False(t, c.IsDown(0x110))
}

func TestReleaseWithoutPressIsDropped(t *testing.T) {
	c := NewCounter()

	emit, violation := c.Release(0x111)
	assert.False(t, emit)
	assert.True(t, violation)
	assert.False(t, c.IsDown(0x111))
}

func TestDownCodesAfterPress(t *testing.T) {
	c := NewCounter()
	c.Press(30, nil)
	c.Press(31, nil)
	c.Release(30)

	assert.ElementsMatch(t, []uint16{31}, c.DownCodes())
}

func TestAutorepeatIsCallerFiltered(t *testing.T) {
	// Autorepeat (EV_KEY value 2) never reaches Press/Release: the
	// pending-event state machine drops it before bookkeeping sees it.
	// This test documents that Counter itself has no notion of value 2.
	c := NewCounter()
	require.True(t, c.Press(30, nil))
	require.False(t, c.Press(30, nil))
}

func TestCounterOverflowKeepsCounting(t *testing.T) {
	c := NewCounter()
	var code uint16 = 44

	for i := 0; i < maxCounter; i++ {
		c.Press(code, nil)
	}
	// Count is now maxCounter (> 1), further presses keep incrementing
	// and logging, but Press never blocks the underlying bookkeeping.
	require.False(t, c.Press(code, nil))
	assert.Equal(t, uint32(maxCounter+1), c.count[code])
}
