package material

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/beamtracer/beam/internal/vec"
)

// Texture provides spatially-varying color to a Material, grounded on the
// teacher's ColorSource interface (pkg/material/color_source.go) but
// returning vec.LinearRGB directly since beam keeps every texture in
// linear space rather than converting at read time.
type Texture interface {
	Evaluate(uv *vec.Vec2, point vec.Point3) vec.LinearRGB
}

// Solid is a uniform color texture, independent of uv or point.
type Solid struct {
	Color vec.LinearRGB
}

func NewSolid(c vec.LinearRGB) Solid { return Solid{Color: c} }

func (s Solid) Evaluate(uv *vec.Vec2, point vec.Point3) vec.LinearRGB { return s.Color }

// Checkerboard alternates Even/Odd colors on a 3D lattice of the given
// cell size, independent of UV — useful for surfaces (like a Plane) with
// no texture coordinates at all.
type Checkerboard struct {
	Even, Odd vec.LinearRGB
	CellSize  vec.Scalar
}

func NewCheckerboard(even, odd vec.LinearRGB, cellSize vec.Scalar) Checkerboard {
	if cellSize <= 0 {
		cellSize = 1
	}
	return Checkerboard{Even: even, Odd: odd, CellSize: cellSize}
}

func (c Checkerboard) Evaluate(uv *vec.Vec2, point vec.Point3) vec.LinearRGB {
	fx := floorDiv(point.X, c.CellSize)
	fy := floorDiv(point.Y, c.CellSize)
	fz := floorDiv(point.Z, c.CellSize)
	if (fx+fy+fz)%2 == 0 {
		return c.Even
	}
	return c.Odd
}

func floorDiv(x, cell vec.Scalar) int {
	v := x / cell
	i := int(v)
	if v < 0 && vec.Scalar(i) != v {
		i--
	}
	return i
}

// Image samples a decoded image.Image via nearest-neighbor lookup after
// resampling it to an internal working resolution with x/image/draw's
// bilinear scaler, grounded on the teacher's ImageTexture
// (pkg/material/image_texture.go) but using the x/image ecosystem for the
// resize step instead of hand-rolling a resampler.
type Image struct {
	width, height int
	pixels        []vec.LinearRGB
}

// NewImageTexture decodes src into a Width x Height linear-color buffer.
// When src's own bounds differ from the requested size, it is resampled
// with draw.BiLinear.Scale.
func NewImageTexture(src image.Image, width, height int) *Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	pixels := make([]vec.LinearRGB, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := dst.At(x, y).RGBA()
			srgb := vec.SRGB{
				X: vec.Scalar(r) / 0xffff,
				Y: vec.Scalar(g) / 0xffff,
				Z: vec.Scalar(b) / 0xffff,
			}
			pixels[y*width+x] = vec.Gamma2ToLinear(srgb)
		}
	}
	return &Image{width: width, height: height, pixels: pixels}
}

func (t *Image) Evaluate(uv *vec.Vec2, point vec.Point3) vec.LinearRGB {
	if uv == nil || t.width == 0 || t.height == 0 {
		return vec.LinearRGB{}
	}
	u := wrap01(uv.U)
	v := wrap01(uv.V)
	x := int(u * vec.Scalar(t.width))
	y := int((1 - v) * vec.Scalar(t.height))
	if x >= t.width {
		x = t.width - 1
	}
	if y >= t.height {
		y = t.height - 1
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return t.pixels[y*t.width+x]
}

func wrap01(x vec.Scalar) vec.Scalar {
	f := x - vec.Scalar(int(x))
	if f < 0 {
		f += 1
	}
	return f
}
