package device

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"seatinput/evcodes"
	"seatinput/evdevio"
)

func TestProtocolAConverterAssignsSlotsAndLiftsOnShrink(t *testing.T) {
	c := newProtocolAConverter()

	// Frame 1: two contacts reported as two unslotted position pairs.
	var out []evdevio.Event
	out = append(out, c.Convert(evdevio.Event{Type: evcodes.EvAbs, Code: evcodes.AbsMTPositionX, Value: 100, TimeMS: 10})...)
	out = append(out, c.Convert(evdevio.Event{Type: evcodes.EvAbs, Code: evcodes.AbsMTPositionY, Value: 200, TimeMS: 10})...)
	out = append(out, c.Convert(evdevio.Event{Type: evcodes.EvAbs, Code: evcodes.AbsMTPositionX, Value: 300, TimeMS: 10})...)
	out = append(out, c.Convert(evdevio.Event{Type: evcodes.EvAbs, Code: evcodes.AbsMTPositionY, Value: 400, TimeMS: 10})...)
	out = append(out, c.Convert(evdevio.Event{Type: evcodes.EvSyn, Code: evcodes.SynReport, TimeMS: 10})...)

	assert.Equal(t, []evdevio.Event{
		{Type: evcodes.EvAbs, Code: evcodes.AbsMTSlot, Value: 0, TimeMS: 10},
		{Type: evcodes.EvAbs, Code: evcodes.AbsMTTrackingID, Value: 0, TimeMS: 10},
		{Type: evcodes.EvAbs, Code: evcodes.AbsMTPositionX, Value: 100, TimeMS: 10},
		{Type: evcodes.EvAbs, Code: evcodes.AbsMTPositionY, Value: 200, TimeMS: 10},
		{Type: evcodes.EvAbs, Code: evcodes.AbsMTSlot, Value: 1, TimeMS: 10},
		{Type: evcodes.EvAbs, Code: evcodes.AbsMTTrackingID, Value: 1, TimeMS: 10},
		{Type: evcodes.EvAbs, Code: evcodes.AbsMTPositionX, Value: 300, TimeMS: 10},
		{Type: evcodes.EvAbs, Code: evcodes.AbsMTPositionY, Value: 400, TimeMS: 10},
		{Type: evcodes.EvSyn, Code: evcodes.SynReport, TimeMS: 10},
	}, out)

	// Frame 2: only one contact remains — the converter must synthesize a
	// TRACKING_ID -1 for the dropped second slot at the frame's
	// SYN_REPORT, after the remaining contact's position update, since
	// protocol A carries no per-contact up event of its own.
	out = nil
	out = append(out, c.Convert(evdevio.Event{Type: evcodes.EvAbs, Code: evcodes.AbsMTPositionX, Value: 105, TimeMS: 20})...)
	out = append(out, c.Convert(evdevio.Event{Type: evcodes.EvAbs, Code: evcodes.AbsMTPositionY, Value: 205, TimeMS: 20})...)
	out = append(out, c.Convert(evdevio.Event{Type: evcodes.EvSyn, Code: evcodes.SynReport, TimeMS: 20})...)

	assert.Equal(t, []evdevio.Event{
		{Type: evcodes.EvAbs, Code: evcodes.AbsMTSlot, Value: 0, TimeMS: 20},
		{Type: evcodes.EvAbs, Code: evcodes.AbsMTPositionX, Value: 105, TimeMS: 20},
		{Type: evcodes.EvAbs, Code: evcodes.AbsMTPositionY, Value: 205, TimeMS: 20},
		{Type: evcodes.EvAbs, Code: evcodes.AbsMTSlot, Value: 1, TimeMS: 20},
		{Type: evcodes.EvAbs, Code: evcodes.AbsMTTrackingID, Value: -1, TimeMS: 20},
		{Type: evcodes.EvSyn, Code: evcodes.SynReport, TimeMS: 20},
	}, out)
}

func TestProtocolAConverterPassesThroughNonPositionEvents(t *testing.T) {
	c := newProtocolAConverter()

	ev := evdevio.Event{Type: evcodes.EvKey, Code: evcodes.BtnMiscStart, Value: 1, TimeMS: 5}
	assert.Equal(t, []evdevio.Event{ev}, c.Convert(ev))
}
