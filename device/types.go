// Package device implements the per-device event pipeline: the
// pending-event state machine, the fallback dispatcher, absolute-
// coordinate calibration wiring, and device lifecycle.
package device

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"seatinput/accel"
	"seatinput/calib"
	"seatinput/evdevio"
	"seatinput/keys"
	"seatinput/seat"
	"seatinput/sink"
)

// PendingEvent is the class of semantic event currently being
// accumulated between two SYN_REPORTs.
type PendingEvent int

const (
	PendingNone PendingEvent = iota
	PendingRelativeMotion
	PendingAbsoluteMotion
	PendingAbsoluteMTDown
	PendingAbsoluteMTMotion
	PendingAbsoluteMTUp
	PendingAbsoluteTouchDown
	PendingAbsoluteTouchUp
)

// Capabilities is the classified capability bitset.
type Capabilities uint8

const (
	CapPointer Capabilities = 1 << iota
	CapKeyboard
	CapTouch
)

func (c Capabilities) Has(flag Capabilities) bool { return c&flag != 0 }

// Sentinel errors.
var (
	// ErrUnhandledDevice marks a device that classified into no capability
	// at all, distinct from a real open/alloc failure so callers can tell
	// "not interested" apart from "error".
	ErrUnhandledDevice = errors.New("device: no capability classified (unhandled)")

	ErrNoCalibrationCapability = errors.New("device: calibration capability inactive (no ABS_X/ABS_Y)")
)

// slotRecord is one multi-touch slot.
type slotRecord struct {
	x, y     int32
	seatSlot int // -1 if inactive
}

// absState is the non-MT absolute-axis state.
type absState struct {
	x, y     int32
	seatSlot int // -1 if inactive; device-global, used by the BTN_TOUCH boundary

	// fakeResolution is set when either axis reported a zero resolution at
	// attach time. resolutionX/Y hold the forced-to-1 values actually used
	// from then on (spec: a zero resolution is forced to 1, not left at
	// 0) and spanX/Y hold the axis' raw unit range, both kept so
	// PhysicalSize can compute (or refuse to compute) a size in mm without
	// re-querying the decoder.
	fakeResolution           bool
	resolutionX, resolutionY int32
	spanX, spanY             int32
}

// mtState is the multi-touch state.
type mtState struct {
	currentSlot int
	slots       []slotRecord
	isMT        bool
}

// Device is one opened evdev node's processing core.
type Device struct {
	decoder evdevio.Decoder
	sink    sink.NotificationSink
	logger  *zap.Logger
	seat    *seat.Seat
	config  Config

	name, sysPath string
	caps          Capabilities

	dispatcher Dispatcher
	filter     accel.Filter
	calib      *calib.Calibration
	mtConvert  MTConverter

	pending PendingEvent
	rel     struct{ dx, dy float64 }
	abs     absState
	mt      mtState

	keys *keys.Counter
}

// SysPath identifies the device for seat.SeatDevice and sink.Device.
func (d *Device) SysPath() string { return d.sysPath }

// DeviceName satisfies sink.Device.
func (d *Device) DeviceName() string { return d.name }

// Capabilities returns the classified capability set.
func (d *Device) Capabilities() Capabilities { return d.caps }

var _ seat.SeatDevice = (*Device)(nil)
