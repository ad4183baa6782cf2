package seat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocFreeLowestBit(t *testing.T) {
	s := New()

	first := s.Alloc()
	second := s.Alloc()
	require.Equal(t, 0, first)
	require.Equal(t, 1, second)
	assert.Equal(t, 2, s.Popcount())

	s.Free(first)
	assert.Equal(t, 1, s.Popcount())

	third := s.Alloc()
	assert.Equal(t, 0, third, "freed slot 0 is reused before allocating slot 2")
}

func TestSaturation(t *testing.T) {
	s := New()
	for i := 0; i < MaxSlots; i++ {
		require.NotEqual(t, -1, s.Alloc())
	}
	assert.Equal(t, -1, s.Alloc(), "33rd simultaneous touch finds no free slot")
	assert.Equal(t, MaxSlots, s.Popcount())
}

func TestFreeIgnoresInactiveSlot(t *testing.T) {
	s := New()
	s.Free(-1)
	s.Free(5)
	assert.Equal(t, 0, s.Popcount())
}
