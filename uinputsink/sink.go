// Package uinputsink implements sink.NotificationSink on top of
// github.com/bendahl/uinput: it projects normalized pointer, keyboard, and
// touch notifications onto virtual /dev/uinput devices so that a real
// desktop session sees ordinary mouse, keyboard, and touchpad input.
//
// bendahl/uinput's TouchPad is single-contact: it has no concept of
// multiple simultaneous slots. A multi-touch source is therefore
// projected onto one virtual contact — the first slot to go down owns the
// touchpad until it lifts, and any other slot active at the same time is
// silently dropped rather than fought over. Gesture-level semantics
// (two-finger scroll, pinch) are out of scope here; they belong in a
// collaborator above this sink, not in the projection itself.
package uinputsink

import (
	"sync"

	"github.com/bendahl/uinput"
	"go.uber.org/zap"

	"seatinput/sink"
)

const virtualDeviceName = "seatinput virtual device"

// touchExtent bounds the virtual touchpad's absolute coordinate space.
// bendahl/uinput requires fixed min/max bounds at creation time, so
// NewSink takes them up front; Sink never widens them afterwards.
type touchExtent struct {
	minX, maxX, minY, maxY int32
}

// Sink lazily creates each virtual device kind on first use and tears
// them all down on Close. All notification methods may be called
// concurrently and re-entrantly, per the sink package's contract.
type Sink struct {
	logger *zap.Logger
	touch  touchExtent

	mu       sync.Mutex
	mouse    uinput.Mouse
	keyboard uinput.Keyboard
	pad      uinput.TouchPad

	activeSlot    int
	haveActiveContact bool
}

// NewSink returns a Sink whose virtual touchpad accepts absolute
// coordinates within the given bounds (typically the widest calibrated
// extent among the touch devices this process will attach).
func NewSink(logger *zap.Logger, minX, maxX, minY, maxY int32) *Sink {
	return &Sink{
		logger: logger,
		touch:  touchExtent{minX: minX, maxX: maxX, minY: minY, maxY: maxY},
	}
}

// Close releases every virtual device this sink has created.
func (s *Sink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mouse != nil {
		s.mouse.Close()
		s.mouse = nil
	}
	if s.keyboard != nil {
		s.keyboard.Close()
		s.keyboard = nil
	}
	if s.pad != nil {
		s.pad.Close()
		s.pad = nil
	}
}

func (s *Sink) ensureMouse() uinput.Mouse {
	if s.mouse == nil {
		m, err := uinput.CreateMouse("/dev/uinput", []byte(virtualDeviceName))
		if err != nil {
			s.warn("create virtual mouse", err)
			return nil
		}
		s.mouse = m
	}
	return s.mouse
}

func (s *Sink) ensureKeyboard() uinput.Keyboard {
	if s.keyboard == nil {
		k, err := uinput.CreateKeyboard("/dev/uinput", []byte(virtualDeviceName))
		if err != nil {
			s.warn("create virtual keyboard", err)
			return nil
		}
		s.keyboard = k
	}
	return s.keyboard
}

func (s *Sink) ensureTouchPad() uinput.TouchPad {
	if s.pad == nil {
		p, err := uinput.CreateTouchPad("/dev/uinput", []byte(virtualDeviceName),
			s.touch.minX, s.touch.maxX, s.touch.minY, s.touch.maxY)
		if err != nil {
			s.warn("create virtual touchpad", err)
			return nil
		}
		s.pad = p
	}
	return s.pad
}

func (s *Sink) warn(action string, err error) {
	if s.logger != nil {
		s.logger.Warn("uinputsink: "+action+" failed", zap.Error(err))
	}
}

// PointerNotifyMotion implements sink.NotificationSink.
func (s *Sink) PointerNotifyMotion(dev sink.Device, timeMS uint64, dx, dy float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.ensureMouse()
	if m == nil {
		return
	}

	ix, iy := int32(dx), int32(dy)
	switch {
	case ix > 0:
		m.MoveRight(ix)
	case ix < 0:
		m.MoveLeft(-ix)
	}
	switch {
	case iy > 0:
		m.MoveDown(iy)
	case iy < 0:
		m.MoveUp(-iy)
	}
}

// PointerNotifyMotionAbsolute implements sink.NotificationSink by
// projecting onto the virtual touchpad's absolute surface — an absolute
// pointer (a digitizer tablet, say) has no dedicated uinput device kind
// of its own here.
func (s *Sink) PointerNotifyMotionAbsolute(dev sink.Device, timeMS uint64, x, y int32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.ensureTouchPad()
	if p == nil {
		return
	}
	if err := p.MoveTo(x, y); err != nil {
		s.warn("touchpad move", err)
	}
}

// Raw evdev button codes, matching evcodes' own values — kept local
// rather than imported to avoid a dependency cycle (evcodes carries no
// uinput awareness of its own).
const (
	btnLeft   = 0x110
	btnRight  = 0x111
	btnMiddle = 0x112
)

// PointerNotifyButton implements sink.NotificationSink. Only the three
// physical mouse buttons the virtual mouse exposes are forwarded; any
// other BTN_* code (a touchpad's BTN_TOOL_* state bits, say) is not a
// button this sink knows how to project and is silently ignored.
func (s *Sink) PointerNotifyButton(dev sink.Device, timeMS uint64, button uint16, state sink.ButtonState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.ensureMouse()
	if m == nil {
		return
	}

	var err error
	switch button {
	case btnLeft:
		if state == sink.Pressed {
			err = m.LeftPress()
		} else {
			err = m.LeftRelease()
		}
	case btnMiddle:
		if state == sink.Pressed {
			err = m.MiddlePress()
		} else {
			err = m.MiddleRelease()
		}
	case btnRight:
		if state == sink.Pressed {
			err = m.RightPress()
		} else {
			err = m.RightRelease()
		}
	default:
		return
	}
	if err != nil {
		s.warn("pointer button", err)
	}
}

// PointerNotifyAxis implements sink.NotificationSink.
func (s *Sink) PointerNotifyAxis(dev sink.Device, timeMS uint64, axis sink.Axis, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.ensureMouse()
	if m == nil {
		return
	}
	if err := m.Wheel(axis == sink.HScroll, int32(value)); err != nil {
		s.warn("wheel", err)
	}
}

// KeyboardNotifyKey implements sink.NotificationSink.
func (s *Sink) KeyboardNotifyKey(dev sink.Device, timeMS uint64, code uint16, state sink.ButtonState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := s.ensureKeyboard()
	if k == nil {
		return
	}

	var err error
	if state == sink.Pressed {
		err = k.KeyDown(int(code))
	} else {
		err = k.KeyUp(int(code))
	}
	if err != nil {
		s.warn("keyboard key", err)
	}
}

// TouchNotifyDown implements sink.NotificationSink. Per the package doc,
// only the first slot to go down claims the single virtual contact;
// later concurrent slots are dropped.
func (s *Sink) TouchNotifyDown(dev sink.Device, timeMS uint64, slot, seatSlot int, x, y int32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.haveActiveContact {
		return
	}

	p := s.ensureTouchPad()
	if p == nil {
		return
	}
	if err := p.MoveTo(x, y); err != nil {
		s.warn("touch down move", err)
		return
	}
	if err := p.TouchDown(); err != nil {
		s.warn("touch down", err)
		return
	}
	s.haveActiveContact = true
	s.activeSlot = seatSlot
}

// TouchNotifyMotion implements sink.NotificationSink.
func (s *Sink) TouchNotifyMotion(dev sink.Device, timeMS uint64, slot, seatSlot int, x, y int32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.haveActiveContact || s.activeSlot != seatSlot || s.pad == nil {
		return
	}
	if err := s.pad.MoveTo(x, y); err != nil {
		s.warn("touch motion", err)
	}
}

// TouchNotifyUp implements sink.NotificationSink.
func (s *Sink) TouchNotifyUp(dev sink.Device, timeMS uint64, slot, seatSlot int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.haveActiveContact || s.activeSlot != seatSlot || s.pad == nil {
		return
	}
	if err := s.pad.TouchUp(); err != nil {
		s.warn("touch up", err)
	}
	s.haveActiveContact = false
}

// TouchNotifyFrame implements sink.NotificationSink. The virtual touchpad
// has no separate frame-commit primitive; each motion/down/up call above
// already takes effect immediately.
func (s *Sink) TouchNotifyFrame(dev sink.Device, timeMS uint64) {}

// NotifyAddedDevice implements sink.NotificationSink.
func (s *Sink) NotifyAddedDevice(dev sink.Device) {
	if s.logger != nil {
		s.logger.Info("uinputsink: device attached", zap.String("path", dev.SysPath()), zap.String("name", dev.DeviceName()))
	}
}

// NotifyRemovedDevice implements sink.NotificationSink.
func (s *Sink) NotifyRemovedDevice(dev sink.Device) {
	if s.logger != nil {
		s.logger.Info("uinputsink: device removed", zap.String("path", dev.SysPath()), zap.String("name", dev.DeviceName()))
	}
}

var _ sink.NotificationSink = (*Sink)(nil)
