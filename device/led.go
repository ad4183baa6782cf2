package device

import (
	"time"

	"go.uber.org/zap"

	"seatinput/evcodes"
	"seatinput/evdevio"
)

// LEDState is the exposed LED set a keyboard-capable device supports.
type LEDState struct {
	NumLock    bool
	CapsLock   bool
	ScrollLock bool
}

// UpdateLEDs writes state as a batch of EV_LED events followed by a
// SYN_REPORT. It is a no-op on a device without the KEYBOARD capability.
// The write is best-effort: the result is intentionally ignored beyond a
// debug-level log, matching the fire-and-forget nature of indicator
// lights.
func (d *Device) UpdateLEDs(state LEDState) {
	if !d.caps.Has(CapKeyboard) {
		return
	}

	now := uint64(time.Now().UnixMilli())
	events := []evdevio.Event{
		{Type: evcodes.EvLed, Code: evcodes.LedNumL, Value: boolToInt32(state.NumLock), TimeMS: now},
		{Type: evcodes.EvLed, Code: evcodes.LedCapsL, Value: boolToInt32(state.CapsLock), TimeMS: now},
		{Type: evcodes.EvLed, Code: evcodes.LedScrollL, Value: boolToInt32(state.ScrollLock), TimeMS: now},
		{Type: evcodes.EvSyn, Code: evcodes.SynReport, Value: 0, TimeMS: now},
	}

	if err := d.decoder.Write(events); err != nil && d.logger != nil {
		d.logger.Debug("LED update write failed", zap.Error(err))
	}
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
