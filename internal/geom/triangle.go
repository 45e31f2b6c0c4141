package geom

import (
	"math"

	"github.com/beamtracer/beam/internal/vec"
)

// Triangle is a single Möller–Trumbore triangle with optional per-vertex
// texture coordinates (barycentric-blended on hit).
type Triangle struct {
	V0, V1, V2    vec.Point3
	UV0, UV1, UV2 *vec.Vec2 // nil when the mesh has no texture coordinates
}

func NewTriangle(v0, v1, v2 vec.Point3) Triangle {
	return Triangle{V0: v0, V1: v1, V2: v2}
}

func (t Triangle) Bounds() Aabb {
	return AabbFromPoints(t.V0, t.V1, t.V2).Expand(1e-6)
}

// ClosestIntersectionInRange implements the Möller–Trumbore algorithm.
func (t Triangle) ClosestIntersectionInRange(ray vec.Ray, rng vec.RayRange) (SurfaceIntersection, bool) {
	edge1 := t.V1.Sub(t.V0)
	edge2 := t.V2.Sub(t.V0)
	pVec := ray.Dir.Cross(edge2)
	det := edge1.Dot(pVec)
	if math.Abs(det) < vec.EPSILON {
		return SurfaceIntersection{}, false
	}
	invDet := 1.0 / det

	tVec := ray.Origin.Sub(t.V0)
	u := tVec.Dot(pVec) * invDet
	if u < 0 || u > 1 {
		return SurfaceIntersection{}, false
	}

	qVec := tVec.Cross(edge1)
	v := ray.Dir.Dot(qVec) * invDet
	if v < 0 || u+v > 1 {
		return SurfaceIntersection{}, false
	}

	tHit := edge2.Dot(qVec) * invDet
	if !rng.Contains(tHit) {
		return SurfaceIntersection{}, false
	}

	normal := edge1.Cross(edge2).Normalize()
	si := faceNormal(ray, tHit, normal)
	if t.UV0 != nil && t.UV1 != nil && t.UV2 != nil {
		w := 1 - u - v
		uv := vec.Vec2{
			U: w*t.UV0.U + u*t.UV1.U + v*t.UV2.U,
			V: w*t.UV0.V + u*t.UV1.V + v*t.UV2.V,
		}
		si.UV = &uv
	}
	return si, true
}

// Mesh is a flat list of Triangles bounded by a single Aabb, used as a
// leaf primitive inside an Octree.
type Mesh struct {
	Triangles []Triangle
	bounds    Aabb
}

func NewMesh(triangles []Triangle) *Mesh {
	m := &Mesh{Triangles: triangles}
	if len(triangles) == 0 {
		return m
	}
	m.bounds = triangles[0].Bounds()
	for _, tri := range triangles[1:] {
		m.bounds = m.bounds.Union(tri.Bounds())
	}
	return m
}

func (m *Mesh) Bounds() Aabb { return m.bounds }

func (m *Mesh) ClosestIntersectionInRange(ray vec.Ray, rng vec.RayRange) (SurfaceIntersection, bool) {
	var best SurfaceIntersection
	found := false
	cur := rng
	for _, tri := range m.Triangles {
		if si, ok := tri.ClosestIntersectionInRange(ray, cur); ok {
			best = si
			found = true
			cur = cur.WithMax(si.T)
		}
	}
	return best, found
}
