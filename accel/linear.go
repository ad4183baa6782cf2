package accel

// Linear multiplies every motion sample by a constant speed factor.
type Linear struct {
	// Factor is the constant speed multiplier; 1.0 is identity.
	Factor float64
}

// NewLinear returns a Linear filter with the given constant factor.
func NewLinear(factor float64) *Linear {
	return &Linear{Factor: factor}
}

// Apply scales dx/dy by Factor.
func (l *Linear) Apply(dx, dy *float64, timeMS uint64) {
	*dx *= l.Factor
	*dy *= l.Factor
}

var _ Filter = (*Linear)(nil)
