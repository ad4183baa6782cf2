package device

import (
	"seatinput/evcodes"
	"seatinput/evdevio"
)

// MTConverter bridges a legacy MT-protocol-A decoder into the
// protocol-B event shape (ABS_MT_SLOT + ABS_MT_TRACKING_ID +
// ABS_MT_POSITION_X/Y) the pending-event state machine understands. It
// is the pluggable hook for protocol-A hardware, the same way
// CalibratingDispatcher is an optional capability layered on top of
// Dispatcher: Device calls it, if installed, on every raw event before
// the event ever reaches the dispatcher.
type MTConverter interface {
	// Convert translates one decoder-reported event into zero or more
	// protocol-B-shaped events, in the order they should be processed.
	// It is called for every event on a protocol-A device and must
	// itself track SYN_REPORT frame boundaries to know when a contact
	// sequence restarts.
	Convert(ev evdevio.Event) []evdevio.Event
}

// protocolAConverter implements MTConverter for legacy MT protocol A:
// repeated ABS_MT_POSITION_X/Y pairs, one pair per contact, in report
// order, with no ABS_MT_SLOT/ABS_MT_TRACKING_ID of its own. It assigns
// slot N to the Nth position pair seen since the last SYN_REPORT, and
// infers a lifted contact when a frame reports fewer contacts than the
// previous frame did — protocol A carries no explicit per-contact up
// event, only the shrinking list.
//
// This assumes a stable append/truncate report order: a newly placed
// finger is always the last entry and a lifted finger is always the
// highest-numbered slot, never a middle one. Hardware that reorders
// contacts between frames will misattribute slots; proper identity-
// preserving matching (closest-position pairing across frames, the way
// the kernel's own legacy MT bridging in input-mt.c does it) is out of
// scope for this minimal converter.
type protocolAConverter struct {
	slotsThisFrame int
	slotsLastFrame int
	liveSlot       map[int]bool
	nextTrackingID int32
}

func newProtocolAConverter() *protocolAConverter {
	return &protocolAConverter{liveSlot: make(map[int]bool)}
}

// Convert implements MTConverter.
func (c *protocolAConverter) Convert(ev evdevio.Event) []evdevio.Event {
	if ev.Type == evcodes.EvSyn && ev.Code == evcodes.SynReport {
		out := c.liftDroppedSlots(ev.TimeMS)
		c.slotsLastFrame = c.slotsThisFrame
		c.slotsThisFrame = 0
		return append(out, ev)
	}

	if ev.Type != evcodes.EvAbs {
		return []evdevio.Event{ev}
	}

	switch ev.Code {
	case evcodes.AbsMTPositionX:
		slot := c.slotsThisFrame
		c.slotsThisFrame++

		out := []evdevio.Event{{Type: evcodes.EvAbs, Code: evcodes.AbsMTSlot, Value: int32(slot), TimeMS: ev.TimeMS}}
		if !c.liveSlot[slot] {
			out = append(out, evdevio.Event{
				Type: evcodes.EvAbs, Code: evcodes.AbsMTTrackingID, Value: c.allocTrackingID(), TimeMS: ev.TimeMS,
			})
			c.liveSlot[slot] = true
		}
		out = append(out, evdevio.Event{Type: evcodes.EvAbs, Code: evcodes.AbsMTPositionX, Value: ev.Value, TimeMS: ev.TimeMS})
		return out

	case evcodes.AbsMTPositionY:
		// The preceding AbsMTPositionX already selected this slot via a
		// synthetic AbsMTSlot event; Y just carries the position.
		return []evdevio.Event{{Type: evcodes.EvAbs, Code: evcodes.AbsMTPositionY, Value: ev.Value, TimeMS: ev.TimeMS}}
	}

	return []evdevio.Event{ev}
}

// liftDroppedSlots synthesizes a TRACKING_ID -1 for every slot that was
// live last frame but absent this frame.
func (c *protocolAConverter) liftDroppedSlots(timeMS uint64) []evdevio.Event {
	var out []evdevio.Event
	for slot := c.slotsThisFrame; slot < c.slotsLastFrame; slot++ {
		if !c.liveSlot[slot] {
			continue
		}
		out = append(out,
			evdevio.Event{Type: evcodes.EvAbs, Code: evcodes.AbsMTSlot, Value: int32(slot), TimeMS: timeMS},
			evdevio.Event{Type: evcodes.EvAbs, Code: evcodes.AbsMTTrackingID, Value: -1, TimeMS: timeMS},
		)
		delete(c.liveSlot, slot)
	}
	return out
}

func (c *protocolAConverter) allocTrackingID() int32 {
	id := c.nextTrackingID
	c.nextTrackingID++
	return id
}

var _ MTConverter = (*protocolAConverter)(nil)
