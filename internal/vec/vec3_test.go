package vec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3Arithmetic(t *testing.T) {
	a := New(1, 2, 3)
	b := New(4, 5, 6)

	assert.Equal(t, New(5, 7, 9), a.Add(b))
	assert.Equal(t, New(-3, -3, -3), a.Sub(b))
	assert.Equal(t, New(2, 4, 6), a.Scale(2))
	assert.InDelta(t, 32.0, a.Dot(b), 1e-12)
}

func TestNormalizeDegenerate(t *testing.T) {
	assert.True(t, Vec3{}.IsDegenerate())
	assert.True(t, New(1e-10, 0, 0).IsDegenerate())
	assert.False(t, New(1, 0, 0).IsDegenerate())
	assert.Equal(t, Vec3{}, Vec3{}.Normalize())

	n := New(3, 0, 4).Normalize()
	assert.InDelta(t, 1.0, n.Length(), 1e-12)
}

func TestGammaRoundTrip(t *testing.T) {
	for _, c := range []Scalar{0, 0.25, 0.5, 0.75, 1} {
		in := New(c, c, c)
		out := Gamma2ToLinear(Gamma2ToSRGB(in))
		assert.InDelta(t, c, out.X, 1e-6)
	}
}

func TestOrthonormalBasis(t *testing.T) {
	u, w, n := New(0, 1, 0).OrthonormalBasis()
	assert.InDelta(t, 0, u.Dot(w), 1e-9)
	assert.InDelta(t, 0, u.Dot(n), 1e-9)
	assert.InDelta(t, 0, w.Dot(n), 1e-9)
	assert.InDelta(t, 1, n.Length(), 1e-9)
}

func TestRayAt(t *testing.T) {
	r := NewRay(New(0, 0, 0), New(1, 0, 0))
	assert.Equal(t, New(5, 0, 0), r.At(5))
}

func TestRGBA8Clamps(t *testing.T) {
	c := New(2.0, -1.0, 0.5)
	rgba := c.ToRGBA8()
	assert.Equal(t, uint8(255), rgba.R)
	assert.Equal(t, uint8(0), rgba.G)
	assert.Equal(t, uint8(255), rgba.A)
	assert.True(t, math.Abs(float64(rgba.B)-180) < 5)
}
