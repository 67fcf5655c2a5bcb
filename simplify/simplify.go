// Package simplify provides the simplifiers selectable by key in a bake
// configuration: "None" and "Ratio".
package simplify

import (
	"context"
	"math"

	"github.com/gekko3d/hlod"
	"github.com/gekko3d/hlod/scene"
)

func init() {
	hlod.RegisterSimplifier("None", func(c hlod.Component) (hlod.Simplifier, error) {
		return None{}, nil
	})
	hlod.RegisterSimplifier("Ratio", func(c hlod.Component) (hlod.Simplifier, error) {
		opts := DefaultRatioOptions()
		if err := c.DecodeOptions(&opts); err != nil {
			return nil, err
		}
		return NewRatio(opts), nil
	})
}

// None keeps every working object as it is.
type None struct{}

func (None) Simplify(ctx context.Context, info *hlod.BuildInfo, onProgress func(float32)) error {
	if onProgress != nil {
		onProgress(1)
	}
	return nil
}

type RatioOptions struct {
	PolygonRatio    float32 `yaml:"polygonRatio"`
	MinPolygonCount int     `yaml:"minPolygonCount"`
	MaxPolygonCount int     `yaml:"maxPolygonCount"`
}

func DefaultRatioOptions() RatioOptions {
	return RatioOptions{
		PolygonRatio:    0.8,
		MinPolygonCount: 10,
		MaxPolygonCount: 500,
	}
}

// Ratio keeps PolygonRatio^distance of each working object's triangles,
// clamped to [MinPolygonCount, MaxPolygonCount]. Objects copied further up
// the tree lose more detail.
type Ratio struct {
	opts RatioOptions
}

func NewRatio(opts RatioOptions) *Ratio {
	return &Ratio{opts: opts}
}

// TargetTriangles is the number of triangles kept for an object with tris
// triangles at the given propagation distance.
func (r *Ratio) TargetTriangles(tris, distance int) int {
	target := int(math.Round(float64(tris) * math.Pow(float64(r.opts.PolygonRatio), float64(distance))))
	if r.opts.MaxPolygonCount > 0 {
		target = min(target, r.opts.MaxPolygonCount)
	}
	target = max(target, r.opts.MinPolygonCount)
	return min(target, tris)
}

func (r *Ratio) Simplify(ctx context.Context, info *hlod.BuildInfo, onProgress func(float32)) error {
	total := len(info.WorkingObjects)
	for i, wo := range info.WorkingObjects {
		if err := ctx.Err(); err != nil {
			return err
		}

		tris := wo.Mesh.TriangleCount()
		target := r.TargetTriangles(tris, info.Distances[i])
		if target < tris {
			mesh, err := decimate(info.Arena, wo.Mesh, target)
			if err != nil {
				return err
			}
			wo.Mesh = mesh
		}

		if onProgress != nil {
			onProgress(float32(i+1) / float32(total))
		}
	}
	return nil
}

// decimate keeps target triangles spread evenly over the index buffer and
// drops the vertices no longer referenced.
func decimate(arena *scene.Arena, src *scene.WorkingMesh, target int) (*scene.WorkingMesh, error) {
	tris := src.TriangleCount()

	keep := make([]int, 0, target)
	for t := 0; t < tris; t++ {
		if (t+1)*target/tris > t*target/tris {
			keep = append(keep, t)
		}
	}

	remap := make(map[uint32]uint32)
	order := make([]uint32, 0, len(keep)*3)
	for _, t := range keep {
		for k := 0; k < 3; k++ {
			v := src.Indices[t*3+k]
			if _, ok := remap[v]; !ok {
				remap[v] = uint32(len(order))
				order = append(order, v)
			}
		}
	}

	dst, err := scene.NewWorkingMesh(arena, len(order), len(keep)*3)
	if err != nil {
		return nil, err
	}
	for i, v := range order {
		dst.Vertices[i] = src.Vertices[v]
	}
	for i, t := range keep {
		for k := 0; k < 3; k++ {
			dst.Indices[i*3+k] = remap[src.Indices[t*3+k]]
		}
	}
	return dst, nil
}
