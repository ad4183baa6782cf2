// Package accel implements the pointer-motion acceleration filter trait
// and its implementations: a constant-factor linear accelerator and a
// curve-based smooth adaptive accelerator driven by a short history of
// recent motion samples.
package accel

// Filter is the motion-filter capability set. Apply may rewrite dx/dy in
// place, including zeroing both to suppress emission; it must never
// fail — a nil Filter is permitted and device code treats it as
// identity. timeMS is the event's millisecond timestamp.
type Filter interface {
	Apply(dx, dy *float64, timeMS uint64)
}

// Null is the identity filter: it leaves dx/dy untouched. It exists so
// callers can install a Filter without a type-switch on nil, matching
// the teacher's "can't fail, no-op is valid" contract.
type Null struct{}

// Apply is a no-op.
func (Null) Apply(dx, dy *float64, timeMS uint64) {}

var _ Filter = Null{}
