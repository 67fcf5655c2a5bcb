// Package batch provides the "Simple" batcher, which merges the working
// objects of each build record into one object per material set.
package batch

import (
	"context"
	"fmt"
	"strings"

	"github.com/gekko3d/hlod"
	"github.com/gekko3d/hlod/scene"
	"github.com/go-gl/mathgl/mgl32"
)

func init() {
	hlod.RegisterBatcher("Simple", func(c hlod.Component) (hlod.Batcher, error) {
		var opts SimpleOptions
		if err := c.DecodeOptions(&opts); err != nil {
			return nil, err
		}
		return NewSimple(opts), nil
	})
}

type SimpleOptions struct {
	// IgnoreMaterials merges everything of a record into a single object.
	IgnoreMaterials bool `yaml:"ignoreMaterials"`
}

type Simple struct {
	opts SimpleOptions

	rootToWorld  mgl32.Mat4
	worldToRoot  mgl32.Mat4
	preProcessed bool
	batched      int
}

func NewSimple(opts SimpleOptions) *Simple {
	return &Simple{opts: opts}
}

// PreProcess captures the root space shared by every sub tree.
func (s *Simple) PreProcess(ctx context.Context, root *scene.Object, onProgress func(float32)) error {
	s.rootToWorld = root.LocalToWorld()
	s.worldToRoot = s.rootToWorld.Inv()
	s.preProcessed = true
	if onProgress != nil {
		onProgress(1)
	}
	return nil
}

// Batched counts the records merged since the last Dispose.
func (s *Simple) Batched() int { return s.batched }

func (s *Simple) Batch(ctx context.Context, root *scene.Object, infos hlod.BuildInfoList, onProgress func(float32)) error {
	if !s.preProcessed {
		if err := s.PreProcess(ctx, root, nil); err != nil {
			return err
		}
	}

	for i, info := range infos {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.batchInfo(info); err != nil {
			return fmt.Errorf("batch %q: %w", info.Name, err)
		}
		s.batched++
		if onProgress != nil {
			onProgress(float32(i+1) / float32(len(infos)))
		}
	}
	return nil
}

type group struct {
	materials []string
	objects   []*scene.WorkingObject
	vertices  int
	indices   int
}

func (s *Simple) batchInfo(info *hlod.BuildInfo) error {
	var groups []*group
	byKey := make(map[string]*group)
	for _, wo := range info.WorkingObjects {
		key := ""
		if !s.opts.IgnoreMaterials {
			key = strings.Join(wo.Materials, ";")
		}
		g, ok := byKey[key]
		if !ok {
			g = &group{}
			if !s.opts.IgnoreMaterials {
				g.materials = append([]string(nil), wo.Materials...)
			}
			byKey[key] = g
			groups = append(groups, g)
		}
		if s.opts.IgnoreMaterials {
			g.materials = appendUnique(g.materials, wo.Materials...)
		}
		g.objects = append(g.objects, wo)
		g.vertices += len(wo.Mesh.Vertices)
		g.indices += len(wo.Mesh.Indices)
	}

	merged := make([]*scene.WorkingObject, 0, len(groups))
	for gi, g := range groups {
		mesh, err := scene.NewWorkingMesh(info.Arena, g.vertices, g.indices)
		if err != nil {
			return err
		}

		vo, io := 0, 0
		for _, wo := range g.objects {
			toRoot := s.worldToRoot.Mul4(wo.LocalToWorld)
			for _, v := range wo.Mesh.Vertices {
				mesh.Vertices[vo] = toRoot.Mul4x1(v.Vec4(1)).Vec3()
				vo++
			}
			base := uint32(vo - len(wo.Mesh.Vertices))
			for _, idx := range wo.Mesh.Indices {
				mesh.Indices[io] = base + idx
				io++
			}
		}

		merged = append(merged, &scene.WorkingObject{
			Name:         fmt.Sprintf("%s_batch%d", info.Name, gi),
			LocalToWorld: s.rootToWorld,
			Materials:    g.materials,
			Mesh:         mesh,
		})
	}

	info.WorkingObjects = merged
	info.Distances = make([]int, len(merged))
	return nil
}

func (s *Simple) Dispose() error {
	s.preProcessed = false
	s.batched = 0
	return nil
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, d := range dst {
			if d == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}
