// Package streaming provides the "InMemory" streaming builder. It creates a
// proxy object per build record under the target container and a Controller
// describing the tree, optionally writing proxy meshes as asset files.
package streaming

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gekko3d/hlod"
	"github.com/gekko3d/hlod/scene"
	"github.com/gekko3d/hlod/space"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/segmentio/encoding/json"
)

func init() {
	hlod.RegisterStreaming("InMemory", func(h *hlod.HLOD, rootIndex int, c hlod.Component) (hlod.StreamingBuilder, error) {
		var opts InMemoryOptions
		if err := c.DecodeOptions(&opts); err != nil {
			return nil, err
		}
		return NewInMemory(h, rootIndex, opts), nil
	})
}

type InMemoryOptions struct {
	// OutputDir, when set, receives one JSON mesh file per proxy.
	OutputDir string `yaml:"outputDir"`
	// PackHighObjects turns every unpacked high object into a composite
	// instance named after its container. Destroy unpacks them again.
	PackHighObjects bool `yaml:"packHighObjects"`
}

type InMemory struct {
	h         *hlod.HLOD
	rootIndex int
	opts      InMemoryOptions
}

func NewInMemory(h *hlod.HLOD, rootIndex int, opts InMemoryOptions) *InMemory {
	return &InMemory{h: h, rootIndex: rootIndex, opts: opts}
}

// MeshAsset is the on-disk form of a proxy mesh.
type MeshAsset struct {
	Name      string       `json:"name"`
	Materials []string     `json:"materials,omitempty"`
	Vertices  [][3]float32 `json:"vertices"`
	Indices   []uint32     `json:"indices"`
}

func (b *InMemory) Build(ctx context.Context, root *space.SpaceNode, infos hlod.BuildInfoList, container *scene.Object, opts hlod.BuildOptions, onProgress func(float32)) error {
	ctrl := NewController(b.rootIndex, opts.CullDistance, opts.LODDistance)

	nodeOf := make(map[*space.SpaceNode]int, len(infos))
	for i, info := range infos {
		nodeOf[info.Target] = i
		ctrl.nodes = append(ctrl.nodes, Node{
			Name:      info.Name,
			Parent:    info.ParentIndex,
			Level:     info.Level,
			Bounds:    info.Target.Bounds,
			LowIndex:  -1,
			Colliders: append([]scene.WorkingCollider(nil), info.Colliders...),
		})
	}

	// Objects of pruned nodes belong to the closest surviving ancestor.
	root.Walk(func(sn *space.SpaceNode) {
		owner := -1
		for n := sn; n != nil; n = n.Parent() {
			if i, ok := nodeOf[n]; ok {
				owner = i
				break
			}
		}
		for _, obj := range sn.Objects {
			hi := ctrl.addHigh(obj)
			if b.opts.PackHighObjects && obj.Prefab == "" && !opts.WriteNoPrefab {
				obj.Prefab = container.Name + "_" + obj.Name + ".prefab"
				b.h.Generated().AddConvertedPrefab(obj)
			}
			if owner < 0 {
				ctrl.alwaysHigh = append(ctrl.alwaysHigh, hi)
				continue
			}
			ctrl.nodes[owner].HighIndices = append(ctrl.nodes[owner].HighIndices, hi)
		}
	})

	if b.opts.OutputDir != "" {
		if err := os.MkdirAll(b.opts.OutputDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	worldToContainer := container.WorldToLocal()
	for i, info := range infos {
		if err := ctx.Err(); err != nil {
			return err
		}

		proxy := scene.NewObject(container.Name + info.Name + "_low")
		proxy.Active = false
		mesh, materials := mergeProxy(info, worldToContainer)
		mesh.Name = proxy.Name
		if !opts.ExtractMaterials {
			materials = nil
		}

		if b.opts.OutputDir != "" {
			path := filepath.Join(b.opts.OutputDir, proxy.Name+".mesh.json")
			if err := writeMeshAsset(path, mesh, materials); err != nil {
				return err
			}
			b.h.AddGeneratedResource(path)
			mesh.Name = path
		}

		proxy.SetRenderer(&scene.MeshRenderer{Mesh: mesh, Materials: materials})
		container.AddChild(proxy)
		b.h.AddGeneratedResource(proxy)
		ctrl.nodes[i].LowIndex = ctrl.addLow(proxy)

		if onProgress != nil {
			onProgress(float32(i+1) / float32(len(infos)))
		}
	}

	container.AddComponent(ctrl)
	b.h.Generated().AddComponent(container, ctrl)
	return nil
}

// mergeProxy concatenates the working objects of info in container space.
func mergeProxy(info *hlod.BuildInfo, worldToContainer mgl32.Mat4) (*scene.Mesh, []string) {
	mesh := &scene.Mesh{}
	var materials []string
	seen := make(map[string]bool)

	for _, wo := range info.WorkingObjects {
		toContainer := worldToContainer.Mul4(wo.LocalToWorld)
		base := uint32(len(mesh.Vertices))
		for _, v := range wo.Mesh.Vertices {
			mesh.Vertices = append(mesh.Vertices, toContainer.Mul4x1(v.Vec4(1)).Vec3())
		}
		for _, idx := range wo.Mesh.Indices {
			mesh.Indices = append(mesh.Indices, base+idx)
		}
		for _, m := range wo.Materials {
			if !seen[m] {
				seen[m] = true
				materials = append(materials, m)
			}
		}
	}
	return mesh, materials
}

func writeMeshAsset(path string, mesh *scene.Mesh, materials []string) error {
	asset := MeshAsset{
		Name:      mesh.Name,
		Materials: materials,
		Vertices:  make([][3]float32, len(mesh.Vertices)),
		Indices:   mesh.Indices,
	}
	for i, v := range mesh.Vertices {
		asset.Vertices[i] = [3]float32(v)
	}

	data, err := json.Marshal(asset)
	if err != nil {
		return fmt.Errorf("encode mesh asset: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write mesh asset: %w", err)
	}
	return nil
}

// ReadMeshAsset loads a mesh written by the builder.
func ReadMeshAsset(path string) (*MeshAsset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var asset MeshAsset
	if err := json.Unmarshal(data, &asset); err != nil {
		return nil, fmt.Errorf("decode mesh asset %s: %w", path, err)
	}
	return &asset, nil
}
