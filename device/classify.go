package device

import (
	"seatinput/evcodes"
	"seatinput/evdevio"
)

// classifyCapabilities implements the capability rules: a device is
// POINTER if it reports a motion axis (absolute or relative) and at
// least one BUTTON-class code; KEYBOARD if it reports any KEY-class
// code or an LED; TOUCH if it reports BTN_TOUCH or multi-touch slots
// and is not already a BUTTON device (a touchpad with physical buttons
// is POINTER, not TOUCH).
func (d *Device) classifyCapabilities() {
	dec := d.decoder

	hasMotionAxis := dec.HasEventCode(evcodes.EvAbs, evcodes.AbsX) ||
		dec.HasEventCode(evcodes.EvAbs, evcodes.AbsY) ||
		dec.HasEventCode(evcodes.EvRel, evcodes.RelX) ||
		dec.HasEventCode(evcodes.EvRel, evcodes.RelY)

	hasButton := codeRangePresent(dec, evcodes.ButtonRanges)
	hasKey := codeRangePresent(dec, evcodes.KeyRanges)

	hasLED := dec.HasEventCode(evcodes.EvLed, evcodes.LedNumL) ||
		dec.HasEventCode(evcodes.EvLed, evcodes.LedCapsL) ||
		dec.HasEventCode(evcodes.EvLed, evcodes.LedScrollL)

	hasTouch := dec.HasEventCode(evcodes.EvKey, evcodes.BtnTouch) || dec.IsMultiTouch()

	var caps Capabilities
	if hasMotionAxis && hasButton {
		caps |= CapPointer
	}
	if hasKey || hasLED {
		caps |= CapKeyboard
	}
	if hasTouch && !hasButton {
		caps |= CapTouch
	}
	d.caps = caps
}

func codeRangePresent(dec evdevio.Decoder, ranges [][2]uint16) bool {
	for _, r := range ranges {
		for code := r[0]; ; code++ {
			// BTN_TOUCH lies inside the BTN_MISC..BTN_GEAR_UP range but
			// classifies as None, not Button.
			if code != evcodes.BtnTouch && dec.HasEventCode(evcodes.EvKey, code) {
				return true
			}
			if code == r[1] {
				break
			}
		}
	}
	return false
}
