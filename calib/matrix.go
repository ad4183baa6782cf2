// Package calib implements the 3x3 affine calibration matrix primitives
// and the normalize/un-normalize calibration pipeline for mapping raw
// device coordinates onto a calibrated surface.
package calib

// Matrix is a 2x3 affine transform with an implicit [0 0 1] last row:
//
//	| a b c |   | x |
//	| d e f | * | y |
//	| 0 0 1 |   | 1 |
//
// Row-major layout [a, b, c, d, e, f] matches the wire format of the
// calibration-matrix device property and the set/get calibration
// configuration surface.
type Matrix [6]float64

// Identity is the no-op calibration matrix.
var Identity = Matrix{1, 0, 0, 0, 1, 0}

// IsIdentity reports whether m has zero off-diagonal terms, unit
// diagonal, and zero translation.
func (m Matrix) IsIdentity() bool {
	return m == Identity
}

// Mul returns a*b, i.e. applying b first then a.
func Mul(a, b Matrix) Matrix {
	return Matrix{
		a[0]*b[0] + a[1]*b[3], a[0]*b[1] + a[1]*b[4], a[0]*b[2] + a[1]*b[5] + a[2],
		a[3]*b[0] + a[4]*b[3], a[3]*b[1] + a[4]*b[4], a[3]*b[2] + a[4]*b[5] + a[5],
	}
}

// Apply transforms integer device coordinates (x, y) through m, rounding
// to the nearest integer the way a fixed-point hit-test on kernel
// coordinates needs.
func (m Matrix) Apply(x, y int32) (int32, int32) {
	fx, fy := float64(x), float64(y)
	ox := m[0]*fx + m[1]*fy + m[2]
	oy := m[3]*fx + m[4]*fy + m[5]
	return round(ox), round(oy)
}

func round(v float64) int32 {
	if v >= 0 {
		return int32(v + 0.5)
	}
	return int32(v - 0.5)
}
