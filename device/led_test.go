package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seatinput/evcodes"
	"seatinput/seat"
)

func keyboardDecoder() *fakeDecoder {
	return newFakeDecoder("test keyboard", "/dev/input/eventK").
		withCode(evcodes.EvKey, evcodes.KeyEscStart).
		withCode(evcodes.EvLed, evcodes.LedNumL)
}

func TestUpdateLEDsWritesBatchThenSyn(t *testing.T) {
	dec := keyboardDecoder()
	st := seat.New()
	sk := &fakeSink{}

	var d *Device
	withFakeDecoder(t, dec, func() {
		var err error
		d, err = Create(&fakeBroker{}, "/dev/input/eventK", st, sk, nil, DefaultConfig())
		require.NoError(t, err)
	})

	d.UpdateLEDs(LEDState{NumLock: true, CapsLock: false, ScrollLock: true})

	require.Len(t, dec.writes, 1)
	batch := dec.writes[0]
	require.Len(t, batch, 4)

	assert.EqualValues(t, evcodes.LedNumL, batch[0].Code)
	assert.EqualValues(t, 1, batch[0].Value)
	assert.EqualValues(t, evcodes.LedCapsL, batch[1].Code)
	assert.EqualValues(t, 0, batch[1].Value)
	assert.EqualValues(t, evcodes.LedScrollL, batch[2].Code)
	assert.EqualValues(t, 1, batch[2].Value)
	assert.EqualValues(t, evcodes.EvSyn, batch[3].Type)
	assert.EqualValues(t, evcodes.SynReport, batch[3].Code)
}

func TestUpdateLEDsNoopWithoutKeyboardCapability(t *testing.T) {
	dec := mouseDecoder()
	st := seat.New()
	sk := &fakeSink{}

	var d *Device
	withFakeDecoder(t, dec, func() {
		var err error
		d, err = Create(&fakeBroker{}, "/dev/input/eventX", st, sk, nil, DefaultConfig())
		require.NoError(t, err)
	})

	d.UpdateLEDs(LEDState{NumLock: true})

	assert.Empty(t, dec.writes)
}
