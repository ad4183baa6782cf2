package calib

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentityMul(t *testing.T) {
	m := Matrix{1.2, 3.4, 5.6, 7.8, 9.10, 11.12}
	assert.Equal(t, m, Mul(Identity, m))
	assert.Equal(t, m, Mul(m, Identity))
}

func TestApplyIdentity(t *testing.T) {
	x, y := Identity.Apply(42, 99)
	assert.Equal(t, int32(42), x)
	assert.Equal(t, int32(99), y)
}
