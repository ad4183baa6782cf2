// Package seat implements the seat-wide stable touch identifier pool:
// a 32-bit bitmap shared by every device belonging to one logical seat.
package seat

import "math/bits"

// MaxSlots is the hard cap on simultaneous touches across one seat: the
// bitmap is 32 bits wide, this is not a resizable buffer.
const MaxSlots = 32

// Seat owns the slot_map bitmap and the ordered device list for one
// logical consumer. Devices back-reference their Seat without owning it.
type Seat struct {
	slotMap uint32
	devices []SeatDevice
}

// SeatDevice is the minimal surface a device exposes to its seat: enough
// to let the seat enumerate members (e.g. during shutdown) without the
// seat package importing device and creating an import cycle.
type SeatDevice interface {
	SysPath() string
}

// New returns an empty seat.
func New() *Seat {
	return &Seat{}
}

// Attach adds a device to the seat's device list. It does not allocate
// any slots; slot allocation happens per-touch in Alloc.
func (s *Seat) Attach(d SeatDevice) {
	s.devices = append(s.devices, d)
}

// Detach removes a device from the seat's device list by identity. It
// does not release any seat slots the device still holds.
func (s *Seat) Detach(d SeatDevice) {
	for i, existing := range s.devices {
		if existing == d {
			s.devices = append(s.devices[:i], s.devices[i+1:]...)
			return
		}
	}
}

// Devices returns the seat's current device list. The returned slice must
// not be retained across a Detach.
func (s *Seat) Devices() []SeatDevice {
	return s.devices
}

// Alloc allocates the lowest-numbered clear bit in the seat's slot_map
// and returns it. It returns -1 if the seat is saturated (all 32 slots
// taken); the caller must still mark the touch as "taken without
// seat-slot" and must not emit a notification.
func (s *Seat) Alloc() int {
	free := ^s.slotMap
	if free == 0 {
		return -1
	}
	slot := bits.TrailingZeros32(free)
	s.slotMap |= 1 << uint(slot)
	return slot
}

// Free clears seatSlot's bit. Freeing an already-clear bit, or a negative
// seatSlot, is a no-op — callers are expected to have checked seatSlot
// != -1 before calling.
func (s *Seat) Free(seatSlot int) {
	if seatSlot < 0 || seatSlot >= MaxSlots {
		return
	}
	s.slotMap &^= 1 << uint(seatSlot)
}

// Popcount returns the number of currently allocated seat slots.
func (s *Seat) Popcount() int {
	return bits.OnesCount32(s.slotMap)
}

// IsAllocated reports whether seatSlot is currently held by some touch.
func (s *Seat) IsAllocated(seatSlot int) bool {
	if seatSlot < 0 || seatSlot >= MaxSlots {
		return false
	}
	return s.slotMap&(1<<uint(seatSlot)) != 0
}
