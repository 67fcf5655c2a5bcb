package simplify

import (
	"context"
	"testing"

	"github.com/gekko3d/hlod"
	"github.com/gekko3d/hlod/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRatio_TargetTriangles(t *testing.T) {
	r := NewRatio(DefaultRatioOptions())

	tests := []struct {
		tris, distance, want int
	}{
		{tris: 12, distance: 0, want: 12},
		{tris: 1000, distance: 0, want: 500},
		{tris: 1000, distance: 3, want: 500},
		{tris: 1000, distance: 5, want: 328},
		{tris: 12, distance: 5, want: 10},
		{tris: 6, distance: 2, want: 6},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.TargetTriangles(tt.tris, tt.distance), "tris=%d distance=%d", tt.tris, tt.distance)
	}
}

func workingInfo(t *testing.T, pool *scene.Pool, mesh *scene.Mesh, distance int) *hlod.BuildInfo {
	t.Helper()
	obj := scene.NewObject("ground")
	obj.SetRenderer(&scene.MeshRenderer{Mesh: mesh})

	arena := pool.NewArena()
	wo, err := obj.Renderer().ToWorkingObject(arena)
	require.NoError(t, err)
	return &hlod.BuildInfo{
		Arena:          arena,
		WorkingObjects: []*scene.WorkingObject{wo},
		Distances:      []int{distance},
	}
}

func TestRatio_Simplify(t *testing.T) {
	pool := scene.NewPool(0)
	info := workingInfo(t, pool, scene.Plane(10, 10), 5)
	defer info.Dispose()
	src := info.WorkingObjects[0].Mesh

	var last float32
	err := NewRatio(DefaultRatioOptions()).Simplify(context.Background(), info, func(f float32) { last = f })
	require.NoError(t, err)
	assert.Equal(t, float32(1), last)

	mesh := info.WorkingObjects[0].Mesh
	assert.NotSame(t, src, mesh)
	assert.Equal(t, 66, mesh.TriangleCount())
	assert.Less(t, len(mesh.Vertices), len(src.Vertices))
	for _, idx := range mesh.Indices {
		assert.Less(t, int(idx), len(mesh.Vertices))
	}
}

func TestRatio_SimplifyKeepsSmallMeshes(t *testing.T) {
	pool := scene.NewPool(0)
	info := workingInfo(t, pool, scene.Cube(1), 0)
	defer info.Dispose()
	src := info.WorkingObjects[0].Mesh

	require.NoError(t, NewRatio(DefaultRatioOptions()).Simplify(context.Background(), info, nil))
	assert.Same(t, src, info.WorkingObjects[0].Mesh)
}

func TestRatio_SimplifyOutOfMemory(t *testing.T) {
	plane := scene.Plane(10, 10)
	// Room for the working copy and nothing more.
	budget := int64(len(plane.Vertices)*12 + len(plane.Indices)*4)
	pool := scene.NewPool(budget)
	info := workingInfo(t, pool, plane, 5)
	defer info.Dispose()

	err := NewRatio(DefaultRatioOptions()).Simplify(context.Background(), info, nil)
	assert.ErrorIs(t, err, scene.ErrOutOfWorkingMemory)
}

func TestRatio_SimplifyCancelled(t *testing.T) {
	pool := scene.NewPool(0)
	info := workingInfo(t, pool, scene.Plane(10, 10), 5)
	defer info.Dispose()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NewRatio(DefaultRatioOptions()).Simplify(ctx, info, nil), context.Canceled)
}

func TestDecimate(t *testing.T) {
	pool := scene.NewPool(0)
	arena := pool.NewArena()
	defer arena.Dispose()

	src, err := scene.NewWorkingMesh(arena, 0, 0)
	require.NoError(t, err)
	plane := scene.Plane(4, 4)
	src.Vertices, src.Indices = plane.Vertices, plane.Indices

	for _, target := range []int{1, 7, 16, 31} {
		dst, err := decimate(arena, src, target)
		require.NoError(t, err)
		assert.Equal(t, target, dst.TriangleCount())
		for _, idx := range dst.Indices {
			assert.Less(t, int(idx), len(dst.Vertices))
		}
	}
}

func TestRegisteredSimplifiers(t *testing.T) {
	s, err := hlod.NewSimplifier(hlod.Component{Type: "None"})
	require.NoError(t, err)
	assert.IsType(t, None{}, s)

	var c hlod.Component
	require.NoError(t, yaml.Unmarshal([]byte("type: Ratio\noptions:\n  polygonRatio: 0.5\n  minPolygonCount: 1\n"), &c))
	s, err = hlod.NewSimplifier(c)
	require.NoError(t, err)
	ratio, ok := s.(*Ratio)
	require.True(t, ok)
	assert.Equal(t, float32(0.5), ratio.opts.PolygonRatio)
	assert.Equal(t, 1, ratio.opts.MinPolygonCount)
	assert.Equal(t, 500, ratio.opts.MaxPolygonCount)
	assert.Equal(t, 50, ratio.TargetTriangles(100, 1))
}
