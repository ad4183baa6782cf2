package device

import (
	"seatinput/evcodes"
	"seatinput/evdevio"
)

// Dispatcher is the polymorphic process/destroy hook: a function-pointer
// table in a C implementation becomes a Go interface here. Fallback is
// the only implementation this core ships; a touchpad-specific
// dispatcher with its own gesture state machine is an external
// collaborator that can plug in alongside it.
type Dispatcher interface {
	Process(ev evdevio.Event, timeMS uint64)
	Destroy()
}

// CalibratingDispatcher is the optional calibration capability a
// dispatcher may expose.
type CalibratingDispatcher interface {
	Dispatcher
	HasCalibration() bool
}

// Fallback routes typed events to the pending-event state machine:
// EV_REL -> relative, EV_ABS -> absolute (MT or non-MT by is_mt),
// EV_KEY -> key, EV_SYN -> flush (plus an optional touch frame).
type Fallback struct {
	dev *Device
}

// NewFallback returns a Fallback dispatcher bound to dev.
func NewFallback(dev *Device) *Fallback {
	return &Fallback{dev: dev}
}

// Process implements Dispatcher.
func (f *Fallback) Process(ev evdevio.Event, timeMS uint64) {
	switch ev.Type {
	case evcodes.EvRel:
		f.dev.handleRelative(ev, timeMS)
	case evcodes.EvAbs:
		f.dev.handleAbsolute(ev, timeMS)
	case evcodes.EvKey:
		f.dev.handleKey(ev, timeMS)
	case evcodes.EvSyn:
		f.dev.handleSyn(ev, timeMS)
	case evcodes.EvLed:
		// LEDs are an outbound-only concern from this side; the kernel
		// never reports EV_LED on the input path.
	}
}

// Destroy implements Dispatcher; Fallback owns no resources of its own.
func (f *Fallback) Destroy() {}

// HasCalibration implements CalibratingDispatcher.
func (f *Fallback) HasCalibration() bool {
	return f.dev.calib != nil && f.dev.calib.HasCapability()
}

var (
	_ Dispatcher            = (*Fallback)(nil)
	_ CalibratingDispatcher = (*Fallback)(nil)
)
