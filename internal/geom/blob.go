package geom

import (
	"math"
	"sort"

	"github.com/beamtracer/beam/internal/vec"
)

// BlobPart is a single metaball contribution: a center and a radius of
// influence. Every part adds to the field; there are no negative parts.
type BlobPart struct {
	Center vec.Point3
	Radius vec.Scalar
}

// Blob is a metaball surface: the field value at a point is the sum of
// each part's quintic smoothstep falloff, and the surface is the
// threshold isosurface of that field (spec.md §4.2).
type Blob struct {
	Parts     []BlobPart
	Threshold vec.Scalar
	bounds    Aabb
}

func NewBlob(parts []BlobPart, threshold vec.Scalar) *Blob {
	b := &Blob{Parts: parts, Threshold: threshold}
	if len(parts) == 0 {
		return b
	}
	b.bounds = boundsOf(parts[0])
	for _, p := range parts[1:] {
		b.bounds = b.bounds.Union(boundsOf(p))
	}
	return b
}

func boundsOf(p BlobPart) Aabb {
	r := vec.New(p.Radius, p.Radius, p.Radius)
	return NewAabb(p.Center.Sub(r), p.Center.Add(r))
}

func (b *Blob) Bounds() Aabb { return b.bounds }

// smoothstep is 1 minus the quintic falloff x^3*(x*(6x-15)+10): weight 1 at
// the center (x=0) decaying to 0 at the part's radius (x=1).
func smoothstep(x vec.Scalar) vec.Scalar {
	if x <= 0 {
		return 1
	}
	if x >= 1 {
		return 0
	}
	poly := x * x * x * (x*(6*x-15) + 10)
	return 1 - poly
}

// fieldAt returns the field value at p: the sum over every part of the
// falloff weight at p's distance from that part's center, measured in
// units of the part's radius.
func (b *Blob) fieldAt(p vec.Point3) vec.Scalar {
	total := 0.0
	for _, part := range b.Parts {
		d := p.Sub(part.Center).Length() / part.Radius
		total += smoothstep(d)
	}
	return total
}

type blobEvent struct {
	t        vec.Scalar
	partIdx  int
	entering bool
}

// ClosestIntersectionInRange finds where the field crosses Threshold by
// enumerating each part's entry/exit events along the ray, then bisecting
// within the bracketing interval where sign(field-threshold) flips, per
// spec.md §4.2. Events are where each part's sphere of influence begins or
// ends, plus the ray's closest approach to each part's center, where that
// part's weight peaks; between consecutive events the field is smooth enough that a
// single sign check plus bisection suffices.
func (b *Blob) ClosestIntersectionInRange(ray vec.Ray, rng vec.RayRange) (SurfaceIntersection, bool) {
	dirLen := ray.Dir.Length()
	if dirLen < vec.EPSILON {
		return SurfaceIntersection{}, false
	}
	unitDir := ray.Dir.Scale(1 / dirLen)

	var events []blobEvent
	for i, part := range b.Parts {
		oc := ray.Origin.Sub(part.Center)
		a := 1.0 // unitDir is unit length
		hb := oc.Dot(unitDir)
		c := oc.LengthSquared() - part.Radius*part.Radius
		disc := hb*hb - a*c
		if disc < 0 {
			continue
		}
		sq := math.Sqrt(disc)
		tEnter := -hb - sq
		tExit := -hb + sq
		tClosest := -hb / a // closest approach to the part's center; the field's derivative crosses zero here
		events = append(events, blobEvent{t: tEnter, partIdx: i, entering: true})
		events = append(events, blobEvent{t: tExit, partIdx: i, entering: false})
		events = append(events, blobEvent{t: tClosest, partIdx: i, entering: false})
	}
	if len(events) == 0 {
		return SurfaceIntersection{}, false
	}
	sort.Slice(events, func(i, j int) bool { return events[i].t < events[j].t })

	scaledRng := vec.RayRange{TMin: rng.TMin * dirLen, TMax: rng.TMax * dirLen}

	prevT := math.Max(scaledRng.TMin, events[0].t)
	prevField := b.fieldAt(ray.Origin.Add(unitDir.Scale(prevT))) - b.Threshold

	for _, ev := range events {
		if ev.t <= prevT {
			continue
		}
		curT := ev.t
		if curT > scaledRng.TMax {
			curT = scaledRng.TMax
		}
		if curT <= prevT {
			continue
		}
		curField := b.fieldAt(ray.Origin.Add(unitDir.Scale(curT))) - b.Threshold

		if (prevField <= 0) != (curField <= 0) {
			tHit := b.bisect(ray.Origin, unitDir, prevT, curT, prevField, curField)
			tWorld := tHit / dirLen
			if rng.Contains(tWorld) {
				normal := b.normalAt(ray.Origin.Add(unitDir.Scale(tHit)))
				return faceNormal(ray, tWorld, normal), true
			}
		}

		prevT = curT
		prevField = curField
		if curT >= scaledRng.TMax {
			break
		}
	}
	return SurfaceIntersection{}, false
}

// bisect narrows [a,b] until the interval is smaller than EPSILON/100,
// per spec.md §4.2, and returns the midpoint.
func (b *Blob) bisect(origin, dir vec.Point3, a, bT, fa, fb vec.Scalar) vec.Scalar {
	const tol = vec.EPSILON / 100
	for bT-a > tol {
		mid := (a + bT) / 2
		fm := b.fieldAt(origin.Add(dir.Scale(mid))) - b.Threshold
		if (fa <= 0) == (fm <= 0) {
			a, fa = mid, fm
		} else {
			bT, fb = mid, fm
		}
	}
	_ = fb
	return (a + bT) / 2
}

// normalAt returns the normalized weighted sum of each part's outward
// normal, weighted by that part's contribution to the field at p.
func (b *Blob) normalAt(p vec.Point3) vec.Dir3 {
	var acc vec.Vec3
	for _, part := range b.Parts {
		d := p.Sub(part.Center)
		dist := d.Length() / part.Radius
		w := smoothstep(dist)
		if w <= 0 {
			continue
		}
		acc = acc.Add(d.Normalize().Scale(w))
	}
	return acc.Normalize()
}
