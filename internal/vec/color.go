package vec

import "math"

// LinearRGB is a color in linear light space. All light transport math in
// beam is carried out in LinearRGB; conversion to 8-bit sRGB happens only
// when a pixel update is emitted to the UI collaborator.
type LinearRGB = Vec3

// SRGB is a gamma-encoded color, used only at the display boundary.
type SRGB = Vec3

// Gamma2ToSRGB approximates the sRGB transfer function with a gamma-2
// curve: srgb = sqrt(linear). This is the approximation spec.md calls for
// (not the piecewise sRGB standard), chosen for speed on the hot tonemap
// path.
func Gamma2ToSRGB(c LinearRGB) SRGB {
	clamped := c.Clamp(0, 1)
	return Vec3{math.Sqrt(clamped.X), math.Sqrt(clamped.Y), math.Sqrt(clamped.Z)}
}

// Gamma2ToLinear inverts Gamma2ToSRGB: linear = srgb^2.
func Gamma2ToLinear(c SRGB) LinearRGB {
	return Vec3{c.X * c.X, c.Y * c.Y, c.Z * c.Z}
}

// RGBA8 is the R8G8B8A8 tuple the renderer publishes for display; alpha is
// always 255 since beam never produces partially transparent pixels.
type RGBA8 struct {
	R, G, B, A uint8
}

func quantize(c Scalar) uint8 {
	x := c * 255.0
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return uint8(x)
}

// ToRGBA8 converts a linear radiance sum to a displayable sRGB8 pixel.
func (c LinearRGB) ToRGBA8() RGBA8 {
	srgb := Gamma2ToSRGB(c)
	return RGBA8{R: quantize(srgb.X), G: quantize(srgb.Y), B: quantize(srgb.Z), A: 255}
}
