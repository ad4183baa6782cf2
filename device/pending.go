package device

import (
	"go.uber.org/zap"

	"seatinput/evcodes"
	"seatinput/evdevio"
	"seatinput/sink"
)

// seatSlotInactive and seatSlotTakenWithoutSeat are the two "no valid
// seat identity" states a slot can be in. Inactive means no touch is in
// progress. TakenWithoutSeat means a touch is physically down but the
// seat was saturated at MT-down time: it emits nothing until its
// matching up, same as if it were inactive, but must still be tracked so
// the up event is consumed rather than mis-attributed to a later touch
// reusing the slot index.
const (
	seatSlotInactive         = -1
	seatSlotTakenWithoutSeat = -2
)

func (d *Device) handleRelative(ev evdevio.Event, timeMS uint64) {
	switch ev.Code {
	case evcodes.RelX:
		d.flushIfNot(PendingRelativeMotion, timeMS)
		d.rel.dx += float64(ev.Value)
		d.pending = PendingRelativeMotion
	case evcodes.RelY:
		d.flushIfNot(PendingRelativeMotion, timeMS)
		d.rel.dy += float64(ev.Value)
		d.pending = PendingRelativeMotion
	case evcodes.RelWheel:
		d.flush(timeMS)
		step := float64(ev.Value) * d.config.AxisStepDistance
		d.sink.PointerNotifyAxis(d, timeMS, sink.VScroll, -step)
	case evcodes.RelHWheel:
		d.flush(timeMS)
		if ev.Value != 1 && ev.Value != -1 {
			// Multi-step horizontal wheel reports are rare; values outside
			// +-1 are ignored rather than guessed at.
			return
		}
		step := float64(ev.Value) * d.config.AxisStepDistance
		d.sink.PointerNotifyAxis(d, timeMS, sink.HScroll, step)
	}
}

func (d *Device) flushIfNot(want PendingEvent, timeMS uint64) {
	if d.pending != want {
		d.flush(timeMS)
	}
}

func (d *Device) handleAbsolute(ev evdevio.Event, timeMS uint64) {
	if d.mt.isMT {
		d.handleAbsoluteMT(ev, timeMS)
		return
	}

	switch ev.Code {
	case evcodes.AbsX:
		d.abs.x = ev.Value
		if d.pending == PendingNone {
			d.pending = PendingAbsoluteMotion
		}
	case evcodes.AbsY:
		d.abs.y = ev.Value
		if d.pending == PendingNone {
			d.pending = PendingAbsoluteMotion
		}
	}
}

func (d *Device) handleAbsoluteMT(ev evdevio.Event, timeMS uint64) {
	switch ev.Code {
	case evcodes.AbsMTSlot:
		d.flush(timeMS)
		d.mt.currentSlot = int(ev.Value)
		d.ensureSlot(d.mt.currentSlot)
	case evcodes.AbsMTTrackingID:
		if d.pending != PendingNone && d.pending != PendingAbsoluteMTMotion {
			d.flush(timeMS)
		}
		if ev.Value >= 0 {
			d.pending = PendingAbsoluteMTDown
		} else {
			d.pending = PendingAbsoluteMTUp
		}
	case evcodes.AbsMTPositionX:
		d.ensureSlot(d.mt.currentSlot)
		d.mt.slots[d.mt.currentSlot].x = ev.Value
		if d.pending == PendingNone {
			d.pending = PendingAbsoluteMTMotion
		}
	case evcodes.AbsMTPositionY:
		d.ensureSlot(d.mt.currentSlot)
		d.mt.slots[d.mt.currentSlot].y = ev.Value
		if d.pending == PendingNone {
			d.pending = PendingAbsoluteMTMotion
		}
	}
}

func (d *Device) ensureSlot(idx int) {
	if idx < 0 {
		return
	}
	for len(d.mt.slots) <= idx {
		d.mt.slots = append(d.mt.slots, slotRecord{seatSlot: seatSlotInactive})
	}
}

func (d *Device) handleKey(ev evdevio.Event, timeMS uint64) {
	if ev.Value == 2 {
		// Kernel autorepeat never produces an outbound event.
		return
	}

	if ev.Code == evcodes.BtnTouch && !d.mt.isMT {
		d.handleTouchBoundary(ev, timeMS)
		return
	}

	d.flush(timeMS)

	if ev.Value == 0 {
		emit, violation := d.keys.Release(ev.Code)
		if violation {
			if d.logger != nil {
				d.logger.Warn("release of key never observed as pressed",
					zap.Uint16("code", ev.Code))
			}
			return
		}
		if emit {
			d.emitKeyOrButton(ev.Code, timeMS, sink.Released)
		}
		return
	}

	if d.keys.Press(ev.Code, d.logger) {
		d.emitKeyOrButton(ev.Code, timeMS, sink.Pressed)
	}
}

func (d *Device) emitKeyOrButton(code uint16, timeMS uint64, state sink.ButtonState) {
	switch evcodes.Classify(code) {
	case evcodes.Key:
		d.sink.KeyboardNotifyKey(d, timeMS, code, state)
	case evcodes.Button:
		d.sink.PointerNotifyButton(d, timeMS, code, state)
	}
}

func (d *Device) handleTouchBoundary(ev evdevio.Event, timeMS uint64) {
	if d.pending != PendingAbsoluteMotion {
		d.flush(timeMS)
	}
	if ev.Value != 0 {
		d.pending = PendingAbsoluteTouchDown
	} else {
		d.pending = PendingAbsoluteTouchUp
	}
}

func (d *Device) handleSyn(ev evdevio.Event, timeMS uint64) {
	if ev.Code != evcodes.SynReport {
		return
	}

	wasTouchClass := d.isTouchClassPending()
	d.flush(timeMS)

	if d.caps.Has(CapTouch) && wasTouchClass {
		d.sink.TouchNotifyFrame(d, timeMS)
	}
}

func (d *Device) isTouchClassPending() bool {
	switch d.pending {
	case PendingAbsoluteMTDown, PendingAbsoluteMTMotion, PendingAbsoluteMTUp,
		PendingAbsoluteTouchDown, PendingAbsoluteTouchUp:
		return true
	default:
		return false
	}
}

// flush translates the currently-pending event class into at most one
// outbound notification, then resets pending to None.
func (d *Device) flush(timeMS uint64) {
	switch d.pending {
	case PendingNone:
		return

	case PendingRelativeMotion:
		dx, dy := d.rel.dx, d.rel.dy
		d.rel.dx, d.rel.dy = 0, 0
		if d.filter != nil {
			d.filter.Apply(&dx, &dy, timeMS)
		}
		if dx != 0 || dy != 0 {
			d.sink.PointerNotifyMotion(d, timeMS, dx, dy)
		}

	case PendingAbsoluteMotion:
		d.flushAbsoluteMotion(timeMS)

	case PendingAbsoluteMTDown:
		d.flushMTDown(timeMS)

	case PendingAbsoluteMTUp:
		d.flushMTUp(timeMS)

	case PendingAbsoluteMTMotion:
		d.flushMTMotion(timeMS)

	case PendingAbsoluteTouchDown:
		d.flushTouchDown(timeMS)

	case PendingAbsoluteTouchUp:
		d.flushTouchUp(timeMS)
	}

	d.pending = PendingNone
}

func (d *Device) flushAbsoluteMotion(timeMS uint64) {
	x, y := d.abs.x, d.abs.y
	if d.calib != nil {
		x, y = d.calib.Apply(x, y)
	}

	switch {
	case d.caps.Has(CapTouch):
		if d.abs.seatSlot < 0 {
			return
		}
		d.sink.TouchNotifyMotion(d, timeMS, seatSlotInactive, d.abs.seatSlot, x, y)
	case d.caps.Has(CapPointer):
		d.sink.PointerNotifyMotionAbsolute(d, timeMS, x, y)
	}
}

func (d *Device) flushMTDown(timeMS uint64) {
	d.ensureSlot(d.mt.currentSlot)
	slot := &d.mt.slots[d.mt.currentSlot]

	if slot.seatSlot != seatSlotInactive {
		if d.logger != nil {
			d.logger.Warn("protocol violation: ABS_MT_TRACKING_ID down on an already-down slot",
				zap.Int("slot", d.mt.currentSlot))
		}
		return
	}

	seatSlot := d.seat.Alloc()
	if seatSlot < 0 {
		slot.seatSlot = seatSlotTakenWithoutSeat
		return
	}

	slot.seatSlot = seatSlot
	x, y := slot.x, slot.y
	if d.calib != nil {
		x, y = d.calib.Apply(x, y)
	}
	d.sink.TouchNotifyDown(d, timeMS, d.mt.currentSlot, seatSlot, x, y)
}

func (d *Device) flushMTUp(timeMS uint64) {
	d.ensureSlot(d.mt.currentSlot)
	slot := &d.mt.slots[d.mt.currentSlot]

	seatSlot := slot.seatSlot
	slot.seatSlot = seatSlotInactive

	if seatSlot < 0 {
		return
	}
	d.seat.Free(seatSlot)
	d.sink.TouchNotifyUp(d, timeMS, d.mt.currentSlot, seatSlot)
}

func (d *Device) flushMTMotion(timeMS uint64) {
	d.ensureSlot(d.mt.currentSlot)
	slot := d.mt.slots[d.mt.currentSlot]

	if slot.seatSlot < 0 {
		return
	}

	x, y := slot.x, slot.y
	if d.calib != nil {
		x, y = d.calib.Apply(x, y)
	}
	d.sink.TouchNotifyMotion(d, timeMS, d.mt.currentSlot, slot.seatSlot, x, y)
}

func (d *Device) flushTouchDown(timeMS uint64) {
	if d.abs.seatSlot != seatSlotInactive {
		if d.logger != nil {
			d.logger.Warn("protocol violation: BTN_TOUCH down while already down")
		}
		return
	}

	seatSlot := d.seat.Alloc()
	if seatSlot < 0 {
		d.abs.seatSlot = seatSlotTakenWithoutSeat
		return
	}
	d.abs.seatSlot = seatSlot

	x, y := d.abs.x, d.abs.y
	if d.calib != nil {
		x, y = d.calib.Apply(x, y)
	}
	d.sink.TouchNotifyDown(d, timeMS, seatSlotInactive, seatSlot, x, y)
}

func (d *Device) flushTouchUp(timeMS uint64) {
	seatSlot := d.abs.seatSlot
	d.abs.seatSlot = seatSlotInactive

	if seatSlot < 0 {
		return
	}
	d.seat.Free(seatSlot)
	d.sink.TouchNotifyUp(d, timeMS, seatSlotInactive, seatSlot)
}
