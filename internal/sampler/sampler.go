// Package sampler provides the seedable per-worker PRNG used by the path
// integrator. Every worker owns exactly one Sampler; samplers are never
// shared across goroutines, matching the "no global PRNG on the hot path"
// design note in the specification.
package sampler

import (
	"math"
	"math/rand"

	"github.com/beamtracer/beam/internal/vec"
)

// Sampler draws the uniform scalars the integrator and BSDFs build their
// importance-sampling strategies from. It wraps math/rand's Rand: the
// corpus has no dedicated small-state PRNG package (SFC64/xoshiro), and
// math/rand's source is already safe to seed per-worker and reproducible
// for a given seed and draw order (see DESIGN.md).
type Sampler struct {
	rng *rand.Rand
}

// New creates a Sampler seeded from seed. Two Samplers created with the
// same seed and drawn from in the same order produce identical sequences.
func New(seed int64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewSource(seed))}
}

// Uniform1D returns a scalar uniformly distributed in [0, 1).
func (s *Sampler) Uniform1D() vec.Scalar {
	return s.rng.Float64()
}

// Uniform2D returns a pair of independent uniform scalars, the common
// input to hemisphere/disc/rectangle sampling formulas.
func (s *Sampler) Uniform2D() (vec.Scalar, vec.Scalar) {
	return s.rng.Float64(), s.rng.Float64()
}

// UniformIndex returns an integer uniformly distributed in [0, n).
func (s *Sampler) UniformIndex(n int) int {
	if n <= 0 {
		return 0
	}
	return s.rng.Intn(n)
}

// UniformPointInUnitSphere draws a point uniformly inside the unit ball by
// rejection sampling: draw cube-uniform points and keep the first whose
// magnitude lies in (EPSILON, 1], re-drawing otherwise.
func (s *Sampler) UniformPointInUnitSphere() vec.Vec3 {
	for {
		p := vec.New(
			2*s.rng.Float64()-1,
			2*s.rng.Float64()-1,
			2*s.rng.Float64()-1,
		)
		lsq := p.LengthSquared()
		if lsq > vec.EPSILON*vec.EPSILON && lsq <= 1 {
			return p
		}
	}
}

// UniformDirOnUnitSphere draws a direction uniformly distributed over the
// full sphere of directions (normalized rejection sample).
func (s *Sampler) UniformDirOnUnitSphere() vec.Dir3 {
	return s.UniformPointInUnitSphere().Normalize()
}

// CosineWeightedHemisphere draws a direction in the hemisphere around n
// with PDF cos(theta)/pi, used by Lambertian scattering. It builds an
// orthonormal basis around n and maps two uniform draws with the standard
// Malley's-method construction:
//
//	z = sqrt(r1), sinTheta = sqrt(1 - r1), phi = 2*pi*r2
//	dir = cos(phi)*sinTheta*u + sin(phi)*sinTheta*w + z*n
func (s *Sampler) CosineWeightedHemisphere(n vec.Dir3) vec.Dir3 {
	u, w, nn := n.OrthonormalBasis()
	r1, r2 := s.Uniform2D()
	z := math.Sqrt(r1)
	sinTheta := math.Sqrt(1 - r1)
	phi := 2 * math.Pi * r2
	return u.Scale(math.Cos(phi) * sinTheta).Add(w.Scale(math.Sin(phi) * sinTheta)).Add(nn.Scale(z))
}

// UniformHemisphere draws a direction in the hemisphere around n with
// uniform probability over solid angle, PDF 1/(2*pi). z is drawn uniform in
// [0,1] directly (the hemisphere's solid-angle element integrates to a flat
// marginal in z), unlike CosineWeightedHemisphere's sqrt(r1).
func (s *Sampler) UniformHemisphere(n vec.Dir3) vec.Dir3 {
	u, w, nn := n.OrthonormalBasis()
	r1, r2 := s.Uniform2D()
	z := r1
	r := math.Sqrt(1 - z*z)
	phi := 2 * math.Pi * r2
	return u.Scale(math.Cos(phi) * r).Add(w.Scale(math.Sin(phi) * r)).Add(nn.Scale(z))
}
