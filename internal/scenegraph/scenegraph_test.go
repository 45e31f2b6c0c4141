package scenegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beamtracer/beam/internal/geom"
	"github.com/beamtracer/beam/internal/material"
	"github.com/beamtracer/beam/internal/vec"
)

func TestCameraCenterRayPointsAtLookAt(t *testing.T) {
	cam := NewCamera(vec.New(0, 0, 5), vec.New(0, 0, 0), vec.New(0, 1, 0), 40, 1.0)
	ray := cam.RayAt(0.5, 0.5)
	assert.InDelta(t, 0.0, ray.Dir.X, 1e-9)
	assert.InDelta(t, 0.0, ray.Dir.Y, 1e-9)
	assert.Less(t, ray.Dir.Z, vec.Scalar(0))
}

func TestSceneTraceClosestRecoversMaterial(t *testing.T) {
	cam := NewCamera(vec.New(0, 0, 5), vec.New(0, 0, 0), vec.New(0, 1, 0), 40, 1.0)
	mat := material.NewDiffuse(material.NewSolid(vec.New(0.5, 0.5, 0.5)))
	obj := NewObject(geom.NewSphere(vec.New(0, 0, 0), 1), mat)
	scene := NewScene(cam, nil, []Object{obj}, vec.LinearRGB{})

	stats := &SceneSampleStats{}
	ray := vec.NewRay(vec.New(0, 0, 5), vec.New(0, 0, -1))
	hit, found := scene.TraceClosest(ray, vec.FullRange(), stats)
	require.True(t, found)
	assert.NotNil(t, hit.Material)
	assert.EqualValues(t, 1, stats.NumRays)

	missRay := vec.NewRay(vec.New(10, 10, 5), vec.New(0, 0, -1))
	_, missed := scene.TraceClosest(missRay, vec.FullRange(), stats)
	assert.False(t, missed)
	assert.EqualValues(t, 2, stats.NumRays)
}

func TestLightingRegionAtFirstCoveringWins(t *testing.T) {
	regionA := NewLightingRegion(geom.NewSphere(vec.New(0, 0, 0), 1), nil, nil)
	regionB := NewLightingRegion(geom.NewAabb(vec.New(-10, -10, -10), vec.New(10, 10, 10)), nil, nil)
	cam := NewCamera(vec.New(0, 0, 5), vec.New(0, 0, 0), vec.New(0, 1, 0), 40, 1.0)
	scene := NewScene(cam, []LightingRegion{regionA, regionB}, nil, vec.LinearRGB{})

	got, found := scene.LightingRegionAt(vec.New(0, 0, 0))
	require.True(t, found)
	_, isSphere := got.CoveredVolume.(geom.Sphere)
	assert.True(t, isSphere, "point inside both regions should resolve to the first (sphere) region")

	got2, found2 := scene.LightingRegionAt(vec.New(5, 5, 5))
	require.True(t, found2)
	_, isBox := got2.CoveredVolume.(geom.Aabb)
	assert.True(t, isBox, "point only inside the box region should resolve to it")
}
