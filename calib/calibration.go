package calib

// Extent is the device-space range of one absolute axis, taken from the
// decoder's absinfo.
type Extent struct {
	Min, Max int32
}

// span returns max - min + 1, the normalize-step scale factor.
func (e Extent) span() float64 {
	return float64(e.Max-e.Min) + 1
}

// Calibration holds the three matrix forms a calibrated device needs:
// the user-supplied matrix (verbatim, for round-trip readback), the
// seed/default captured at attach time, and the effective runtime
// transform.
type Calibration struct {
	user       Matrix
	def        Matrix
	effective  Matrix
	x, y       Extent
	hasExtents bool
}

// New builds a Calibration for a device with the given X/Y absinfo
// extents. If the device lacks both ABS_X and ABS_Y absinfo, hasExtents
// should be false and the calibration capability is inactive: SetUser
// still records the matrix for User readback but never changes
// Effective, which stays identity.
func New(x, y Extent, hasExtents bool) *Calibration {
	c := &Calibration{
		user:       Identity,
		def:        Identity,
		effective:  Identity,
		x:          x,
		y:          y,
		hasExtents: hasExtents,
	}
	return c
}

// normalize builds T_norm: translate by (-minX, -minY) then scale by
// (1/sx, 1/sy).
func (c *Calibration) normalize() Matrix {
	if !c.hasExtents {
		return Identity
	}
	sx, sy := c.x.span(), c.y.span()
	return Matrix{
		1 / sx, 0, -float64(c.x.Min) / sx,
		0, 1 / sy, -float64(c.y.Min) / sy,
	}
}

// unnormalize builds T_unnorm, the inverse of normalize: scale by
// (sx, sy) then translate back by (minX, minY).
func (c *Calibration) unnormalize() Matrix {
	if !c.hasExtents {
		return Identity
	}
	sx, sy := c.x.span(), c.y.span()
	return Matrix{
		sx, 0, float64(c.x.Min),
		0, sy, float64(c.y.Min),
	}
}

// recompute derives Effective = T_unnorm * U * T_norm from the current
// user matrix. Without extents the capability is inactive and Effective
// stays identity.
func (c *Calibration) recompute() {
	if !c.hasExtents {
		c.effective = Identity
		return
	}
	c.effective = Mul(c.unnormalize(), Mul(c.user, c.normalize()))
}

// SeedDefault installs m as both the default and the initial user/
// effective matrix, used at device-attach time from an optional
// calibration-matrix device property.
func (c *Calibration) SeedDefault(m Matrix) {
	c.def = m
	c.user = m
	c.recompute()
}

// SetUser installs a new user-supplied calibration matrix. It always
// succeeds: the configuration call is infallible by contract. On a
// device with no calibration capability (!hasExtents) the matrix is
// recorded but Effective stays identity.
func (c *Calibration) SetUser(m Matrix) {
	c.user = m
	c.recompute()
}

// User returns the raw user-supplied matrix and whether it is
// non-default.
func (c *Calibration) User() (Matrix, bool) {
	return c.user, c.user != Identity
}

// Default returns the default_calibration seeded at attach.
func (c *Calibration) Default() Matrix {
	return c.def
}

// Effective returns the matrix actually applied to incoming coordinates,
// and whether calibration should be applied at all: true iff the
// effective matrix differs from identity.
func (c *Calibration) Effective() (Matrix, bool) {
	return c.effective, !c.effective.IsIdentity()
}

// HasCapability reports whether this device has usable ABS_X/ABS_Y
// absinfo and therefore exposes the calibration capability at all.
func (c *Calibration) HasCapability() bool {
	return c.hasExtents
}

// Apply transforms device coordinates through the effective matrix.
func (c *Calibration) Apply(x, y int32) (int32, int32) {
	return c.effective.Apply(x, y)
}
