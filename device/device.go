package device

import (
	stderrors "errors"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"seatinput/accel"
	"seatinput/broker"
	"seatinput/calib"
	"seatinput/evcodes"
	"seatinput/evdevio"
	"seatinput/keys"
	"seatinput/seat"
	"seatinput/sink"
)

// openDecoder is swapped out in tests so Create can run against a fake
// Decoder instead of a real evdev node.
var openDecoder = func(path string) (evdevio.Decoder, error) {
	return evdevio.Open(path)
}

// Create opens path through br (validating access in non-blocking mode
// before handing off to the decoder), classifies the device's
// capabilities, seeds calibration and a pointer filter where applicable,
// attaches it to st, and notifies sk. It returns ErrUnhandledDevice
// (not a plain error) when the device classifies into no capability at
// all — callers use errors.Is to tell that apart from a real failure.
func Create(br broker.Broker, path string, st *seat.Seat, sk sink.NotificationSink, logger *zap.Logger, cfg Config) (*Device, error) {
	gate, err := br.OpenRestricted(path, syscall.O_RDWR|syscall.O_NONBLOCK)
	if err != nil {
		return nil, errors.Wrapf(err, "device: open restricted: %s", path)
	}
	br.CloseRestricted(gate)

	dec, err := openDecoder(path)
	if err != nil {
		return nil, errors.Wrapf(err, "device: open decoder: %s", path)
	}

	d := &Device{
		decoder: dec,
		sink:    sk,
		logger:  logger,
		seat:    st,
		config:  cfg,
		name:    dec.Name(),
		sysPath: dec.Path(),
		abs:     absState{seatSlot: seatSlotInactive},
		keys:    keys.NewCounter(),
	}

	d.mt.isMT = dec.IsMultiTouch()
	if d.mt.isMT {
		d.ensureSlot(dec.SlotCount() - 1)
		if !dec.HasEventCode(evcodes.EvAbs, evcodes.AbsMTSlot) {
			// Legacy MT protocol A: no ABS_MT_SLOT of its own, so every
			// ABS_MT_POSITION_X/Y pair needs bridging into the slotted
			// shape the pending-event state machine expects.
			d.mtConvert = newProtocolAConverter()
		}
	}

	d.classifyCapabilities()

	if d.caps == 0 {
		dec.Close()
		return nil, ErrUnhandledDevice
	}

	d.seedCalibration()
	if d.caps.Has(CapPointer) {
		profile := cfg.AccelProfile
		if profile == nil {
			profile = accel.SmoothSimpleProfile
		}
		d.filter = accel.NewSmooth(profile, d.axisResolutionDPI())
	}
	d.dispatcher = NewFallback(d)

	st.Attach(d)
	sk.NotifyAddedDevice(d)
	if logger != nil {
		logger.Info("device attached",
			zap.String("path", d.sysPath),
			zap.String("name", d.name),
			zap.Uint8("capabilities", uint8(d.caps)),
		)
	}
	return d, nil
}

// seedCalibration builds the calibration pipeline from the decoder's own
// absinfo. A device with no usable ABS_X/ABS_Y absinfo gets a
// capability-inactive Calibration: SetUser still succeeds but Effective
// never deviates from identity since there is nothing to transform.
func (d *Device) seedCalibration() {
	xInfo, okX := d.decoder.AbsInfo(evcodes.AbsX)
	yInfo, okY := d.decoder.AbsInfo(evcodes.AbsY)

	if !okX || !okY || xInfo.Maximum <= xInfo.Minimum || yInfo.Maximum <= yInfo.Minimum {
		d.calib = calib.New(calib.Extent{}, calib.Extent{}, false)
		return
	}

	d.abs.fakeResolution = xInfo.Resolution <= 0 || yInfo.Resolution <= 0
	d.abs.resolutionX = forceResolution(xInfo.Resolution)
	d.abs.resolutionY = forceResolution(yInfo.Resolution)
	d.abs.spanX = xInfo.Maximum - xInfo.Minimum + 1
	d.abs.spanY = yInfo.Maximum - yInfo.Minimum + 1

	d.calib = calib.New(
		calib.Extent{Min: xInfo.Minimum, Max: xInfo.Maximum},
		calib.Extent{Min: yInfo.Minimum, Max: yInfo.Maximum},
		true,
	)
}

// forceResolution implements the "zero resolution is forced to 1"
// attach-time rule: a reported resolution of 0 (or a nonsensical negative
// one) becomes 1 unit/mm rather than being left as a divide-by-zero trap
// for downstream consumers.
func forceResolution(reported int32) int32 {
	if reported <= 0 {
		return 1
	}
	return reported
}

// PhysicalSize returns the device's active area in millimeters, derived
// from the forced axis resolution and unit span. It fails — ok is false —
// whenever fakeResolution is set, so a caller never reports a fabricated
// size for a device whose firmware didn't actually supply one; such a
// device must present to applications as "size unknown".
func (d *Device) PhysicalSize() (widthMM, heightMM float64, ok bool) {
	if d.abs.fakeResolution || d.abs.resolutionX == 0 || d.abs.resolutionY == 0 {
		return 0, 0, false
	}
	widthMM = float64(d.abs.spanX) / float64(d.abs.resolutionX)
	heightMM = float64(d.abs.spanY) / float64(d.abs.resolutionY)
	return widthMM, heightMM, true
}

// SeedCalibrationProperty installs m as the device's default calibration,
// as if it had been read from an optional udev-style property at attach
// time. It is a caller-driven step since property lookup lives outside
// this core.
func (d *Device) SeedCalibrationProperty(m calib.Matrix) {
	if d.calib != nil {
		d.calib.SeedDefault(m)
	}
}

// axisResolutionDPI converts the device's reported ABS_X resolution
// (units/mm) into a DPI figure for the smooth accelerator. It returns 0
// (meaning "use the 400dpi reference unscaled") when no resolution is
// available — relative-only pointers rarely report one.
func (d *Device) axisResolutionDPI() float64 {
	info, ok := d.decoder.AbsInfo(evcodes.AbsX)
	if !ok || info.Resolution <= 0 {
		return 0
	}
	return float64(info.Resolution) * 25.4
}

// Dispatch drains every currently readable event from the device,
// translating an overflow signal into a synthetic SYN_REPORT followed by
// a full resync drain before resuming normal reads. It returns once the
// decoder reports EAGAIN/EINTR (nothing more to read right now); any
// other read error detaches the device from its seat and returns.
func (d *Device) Dispatch() {
	for {
		events, ok, err := d.decoder.Read()
		if err != nil {
			if stderrors.Is(err, syscall.EAGAIN) || stderrors.Is(err, syscall.EINTR) {
				return
			}
			if d.logger != nil {
				d.logger.Warn("device: read failed, detaching",
					zap.String("path", d.sysPath), zap.Error(err))
			}
			d.seat.Detach(d)
			return
		}

		for _, ev := range events {
			d.processEvent(ev)
		}

		if !ok {
			d.recoverFromOverflow()
		}
	}
}

// processEvent feeds ev to the dispatcher, first expanding it through
// mtConvert when the device is a legacy MT-protocol-A source.
func (d *Device) processEvent(ev evdevio.Event) {
	if d.mtConvert == nil {
		d.dispatcher.Process(ev, ev.TimeMS)
		return
	}
	for _, converted := range d.mtConvert.Convert(ev) {
		d.dispatcher.Process(converted, converted.TimeMS)
	}
}

// recoverFromOverflow implements OverflowRecovered: inject a synthetic
// SYN_REPORT to flush whatever frame was in progress, then drain the
// resync stream to exhaustion before Dispatch resumes normal reads.
func (d *Device) recoverFromOverflow() {
	if d.logger != nil {
		d.logger.Warn("device: kernel buffer overflow, resyncing", zap.String("path", d.sysPath))
	}

	now := nowMS()
	d.processEvent(evdevio.Event{Type: evcodes.EvSyn, Code: evcodes.SynReport, TimeMS: now})

	for {
		events, more, err := d.decoder.Resync()
		for _, ev := range events {
			d.processEvent(ev)
		}
		if err != nil || !more {
			return
		}
	}
}

// Remove synthesizes a release for every key/button the per-code counter
// still considers down (using the current monotonic-style timestamp),
// tears down the dispatcher, closes the decoder, unlinks from the seat,
// and notifies the sink. The caller must drop its own reference to d
// after this returns.
func (d *Device) Remove() {
	now := nowMS()
	for _, code := range d.keys.DownCodes() {
		d.dispatcher.Process(evdevio.Event{Type: evcodes.EvKey, Code: code, Value: 0, TimeMS: now}, now)
	}

	d.dispatcher.Destroy()
	if err := d.decoder.Close(); err != nil && d.logger != nil {
		d.logger.Warn("device: close failed", zap.String("path", d.sysPath), zap.Error(err))
	}
	d.seat.Detach(d)
	d.sink.NotifyRemovedDevice(d)

	if d.logger != nil {
		d.logger.Info("device removed", zap.String("path", d.sysPath), zap.String("name", d.name))
	}
}

func nowMS() uint64 {
	return uint64(time.Now().UnixMilli())
}
