//go:build linux

// Package evcodes defines the subset of Linux kernel evdev event types and
// codes this module's pipeline understands, and classifies key/button
// codes into the type buckets the pending-event state machine and the
// per-code press counter need.
//
// Values are taken from the kernel's uapi/linux/input-event-codes.h and
// input.h; they are not derived, just named.
package evcodes

// Event types (struct input_event.type).
const (
	// EvSyn marks the boundary between batches of events.
	EvSyn = 0x00

	// EvKey reports key and button presses/releases.
	EvKey = 0x01

	// EvRel reports relative axis changes (mouse/wheel motion).
	EvRel = 0x02

	// EvAbs reports absolute axis values (touch digitizers, joysticks).
	EvAbs = 0x03

	// EvLed controls device LEDs (num/caps/scroll lock).
	EvLed = 0x11
)

// EV_SYN codes.
const (
	// SynReport commits a batch of accumulated field updates.
	SynReport = 0

	// SynDropped signals the kernel buffer overflowed; a resync follows.
	SynDropped = 3
)

// EV_REL codes.
const (
	RelX      = 0x00
	RelY      = 0x01
	RelHWheel = 0x06
	RelWheel  = 0x08
)

// EV_ABS codes.
const (
	AbsX             = 0x00
	AbsY             = 0x01
	AbsMTSlot        = 0x2f
	AbsMTTouchMajor  = 0x30
	AbsMTPositionX   = 0x35
	AbsMTPositionY   = 0x36
	AbsMTTrackingID  = 0x39
)

// EV_LED codes.
const (
	LedNumL    = 0x00
	LedCapsL   = 0x01
	LedScrollL = 0x02
)

// BTN_TOUCH is the single-touch digitizer contact code. It classifies as
// neither KEY nor BUTTON — the pending-event state machine special-cases
// it into a touch down/up transition on non-MT devices.
const BtnTouch = 0x14a

// Closed ranges used by Classify, taken from input-event-codes.h.
// Exported so device-capability classification can probe "does this
// code range exist at all on this device" without duplicating the
// boundaries.
const (
	KeyEscStart          = 0x01  // KEY_ESC
	KeyMicmuteEnd        = 0xf8  // KEY_MICMUTE
	KeyOkStart           = 0x160 // KEY_OK
	KeyLightsToggleEnd   = 0x21e // KEY_LIGHTS_TOGGLE
	BtnMiscStart         = 0x100 // BTN_MISC
	BtnGearUpEnd         = 0x151 // BTN_GEAR_UP
	BtnDpadUpStart       = 0x220 // BTN_DPAD_UP
	BtnTriggerHappy40End = 0x2e7 // BTN_TRIGGER_HAPPY40
)

// KeyRanges and ButtonRanges enumerate the closed [start, end] code
// ranges Classify treats as Key or Button, for callers that need to
// probe "does any code in this class exist on the device" rather than
// classify one already-observed code.
var (
	KeyRanges    = [][2]uint16{{KeyEscStart, KeyMicmuteEnd}, {KeyOkStart, KeyLightsToggleEnd}}
	ButtonRanges = [][2]uint16{{BtnMiscStart, BtnGearUpEnd}, {BtnDpadUpStart, BtnTriggerHappy40End}}
)

// KeyType is the classification of a key/button code the pending-event
// state machine uses to decide whether a press-counter transition is
// reported as a keyboard key or a pointer button.
type KeyType int

const (
	// None is neither a keyboard key nor a pointer button — e.g. BtnTouch,
	// which the pending-event state machine handles directly.
	None KeyType = iota
	Key
	Button
)

// Classify buckets an EV_KEY code into Key, Button, or None by closed
// code ranges. BtnTouch is explicitly None: on non-MT devices it drives
// the touch-boundary pending events instead of the key path, and on MT
// devices it is counted but never reported as a key or button.
func Classify(code uint16) KeyType {
	if code == BtnTouch {
		return None
	}
	switch {
	case code >= KeyEscStart && code <= KeyMicmuteEnd:
		return Key
	case code >= KeyOkStart && code <= KeyLightsToggleEnd:
		return Key
	case code >= BtnMiscStart && code <= BtnGearUpEnd:
		return Button
	case code >= BtnDpadUpStart && code <= BtnTriggerHappy40End:
		return Button
	default:
		return None
	}
}
