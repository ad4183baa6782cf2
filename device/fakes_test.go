package device

import (
	"os"
	"syscall"

	"seatinput/evdevio"
	"seatinput/sink"
)

// fakeBroker opens /dev/null regardless of the requested path, standing
// in for a privileged helper in tests that only care about the gate
// succeeding or failing.
type fakeBroker struct {
	failOpen bool
}

func (b *fakeBroker) OpenRestricted(path string, flags int) (*os.File, error) {
	if b.failOpen {
		return nil, os.ErrPermission
	}
	return os.OpenFile(os.DevNull, os.O_RDWR, 0)
}

func (b *fakeBroker) CloseRestricted(f *os.File) {
	_ = f.Close()
}

// fakeDecoder is a scripted evdevio.Decoder: Read/Resync pop one entry
// off a queue per call, returning syscall.EAGAIN once both are
// exhausted, the same terminal condition a real non-blocking fd read
// gives Dispatch.
type fakeDecoder struct {
	name, path string

	absInfo map[uint16]evdevio.AbsInfo
	codes   map[uint16]map[uint16]bool
	slots   int
	isMT    bool

	reads  []readResult
	resync []resyncResult
	writes [][]evdevio.Event

	closed  bool
	grabbed bool
}

type readResult struct {
	events []evdevio.Event
	ok     bool
}

type resyncResult struct {
	events []evdevio.Event
	more   bool
}

func newFakeDecoder(name, path string) *fakeDecoder {
	return &fakeDecoder{
		name:    name,
		path:    path,
		absInfo: make(map[uint16]evdevio.AbsInfo),
		codes:   make(map[uint16]map[uint16]bool),
	}
}

func (f *fakeDecoder) withCode(evType, code uint16) *fakeDecoder {
	if f.codes[evType] == nil {
		f.codes[evType] = make(map[uint16]bool)
	}
	f.codes[evType][code] = true
	return f
}

func (f *fakeDecoder) withAbsInfo(code uint16, info evdevio.AbsInfo) *fakeDecoder {
	f.absInfo[code] = info
	return f
}

func (f *fakeDecoder) Name() string { return f.name }
func (f *fakeDecoder) Path() string { return f.path }

func (f *fakeDecoder) Read() ([]evdevio.Event, bool, error) {
	if len(f.reads) == 0 {
		return nil, false, syscall.EAGAIN
	}
	next := f.reads[0]
	f.reads = f.reads[1:]
	return next.events, next.ok, nil
}

func (f *fakeDecoder) Resync() ([]evdevio.Event, bool, error) {
	if len(f.resync) == 0 {
		return nil, false, nil
	}
	next := f.resync[0]
	f.resync = f.resync[1:]
	return next.events, next.more, nil
}

func (f *fakeDecoder) AbsInfo(code uint16) (evdevio.AbsInfo, bool) {
	info, ok := f.absInfo[code]
	return info, ok
}

func (f *fakeDecoder) HasEventCode(evType, code uint16) bool {
	return f.codes[evType][code]
}

func (f *fakeDecoder) SlotCount() int     { return f.slots }
func (f *fakeDecoder) IsMultiTouch() bool { return f.isMT }

func (f *fakeDecoder) Write(events []evdevio.Event) error {
	f.writes = append(f.writes, events)
	return nil
}

func (f *fakeDecoder) Grab() error    { f.grabbed = true; return nil }
func (f *fakeDecoder) Release() error { f.grabbed = false; return nil }
func (f *fakeDecoder) Close() error   { f.closed = true; return nil }

var _ evdevio.Decoder = (*fakeDecoder)(nil)

// touchCall is the argument detail recorded for one touch down/motion/up
// notification — the stringly-typed calls list alone can't distinguish
// which slot/seat/coordinate a given "touch-down" belongs to.
type touchCall struct {
	slot, seatSlot int
	x, y           int32
}

// fakeSink records every notification it receives, in order, as a
// stringly-typed call list — enough for assertions without a mock
// framework the pack doesn't otherwise use.
type fakeSink struct {
	calls []string

	touchDowns, touchMotions []touchCall
	touchUps                 []touchCall

	added, removed []sink.Device
}

func (s *fakeSink) PointerNotifyMotion(dev sink.Device, timeMS uint64, dx, dy float64) {
	s.calls = append(s.calls, "pointer-motion")
}

func (s *fakeSink) PointerNotifyMotionAbsolute(dev sink.Device, timeMS uint64, x, y int32) {
	s.calls = append(s.calls, "pointer-motion-abs")
}

func (s *fakeSink) PointerNotifyButton(dev sink.Device, timeMS uint64, button uint16, state sink.ButtonState) {
	s.calls = append(s.calls, "button")
}

func (s *fakeSink) PointerNotifyAxis(dev sink.Device, timeMS uint64, axis sink.Axis, value float64) {
	s.calls = append(s.calls, "axis")
}

func (s *fakeSink) KeyboardNotifyKey(dev sink.Device, timeMS uint64, code uint16, state sink.ButtonState) {
	s.calls = append(s.calls, "key")
}

func (s *fakeSink) TouchNotifyDown(dev sink.Device, timeMS uint64, slot, seatSlot int, x, y int32) {
	s.calls = append(s.calls, "touch-down")
	s.touchDowns = append(s.touchDowns, touchCall{slot: slot, seatSlot: seatSlot, x: x, y: y})
}

func (s *fakeSink) TouchNotifyMotion(dev sink.Device, timeMS uint64, slot, seatSlot int, x, y int32) {
	s.calls = append(s.calls, "touch-motion")
	s.touchMotions = append(s.touchMotions, touchCall{slot: slot, seatSlot: seatSlot, x: x, y: y})
}

func (s *fakeSink) TouchNotifyUp(dev sink.Device, timeMS uint64, slot, seatSlot int) {
	s.calls = append(s.calls, "touch-up")
	s.touchUps = append(s.touchUps, touchCall{slot: slot, seatSlot: seatSlot})
}

func (s *fakeSink) TouchNotifyFrame(dev sink.Device, timeMS uint64) {
	s.calls = append(s.calls, "frame")
}

func (s *fakeSink) NotifyAddedDevice(dev sink.Device) {
	s.added = append(s.added, dev)
}

func (s *fakeSink) NotifyRemovedDevice(dev sink.Device) {
	s.removed = append(s.removed, dev)
}

var _ sink.NotificationSink = (*fakeSink)(nil)
