package main

import (
	"fmt"
	"io"

	"github.com/gekko3d/hlod"
	"github.com/gekko3d/hlod/scene"
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// bakeFile is the YAML document read by the command: the HLOD root object
// and the bake settings.
type bakeFile struct {
	HLOD  yaml.Node  `yaml:"hlod"`
	Scene objectSpec `yaml:"scene"`
}

type objectSpec struct {
	Name      string            `yaml:"name"`
	Active    *bool             `yaml:"active"`
	Position  []float32         `yaml:"position"`
	Rotation  []float32         `yaml:"rotation"`
	Scale     []float32         `yaml:"scale"`
	Mesh      *meshSpec         `yaml:"mesh"`
	Materials []string          `yaml:"materials"`
	Collider  *colliderSpec     `yaml:"collider"`
	LODLimit  *int              `yaml:"lodLimit"`
	UserData  map[string]string `yaml:"userData"`
	Prefab    string            `yaml:"prefab"`
	Children  []objectSpec      `yaml:"children"`
}

type meshSpec struct {
	Type     string    `yaml:"type"`
	Size     float32   `yaml:"size"`
	Min      []float32 `yaml:"min"`
	Max      []float32 `yaml:"max"`
	Segments int       `yaml:"segments"`
}

type colliderSpec struct {
	Type   string    `yaml:"type"`
	Center []float32 `yaml:"center"`
	Size   []float32 `yaml:"size"`
}

func loadBakeFile(r io.Reader) (*scene.Object, hlod.Config, error) {
	var f bakeFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, hlod.Config{}, fmt.Errorf("decode bake file: %w", err)
	}

	cfg := hlod.DefaultConfig()
	if f.HLOD.Kind != 0 {
		if err := f.HLOD.Decode(&cfg); err != nil {
			return nil, cfg, fmt.Errorf("decode hlod settings: %w", err)
		}
	}

	root, err := f.Scene.build()
	if err != nil {
		return nil, cfg, err
	}
	return root, cfg, nil
}

func (s objectSpec) build() (*scene.Object, error) {
	obj := scene.NewObject(s.Name)
	if s.Active != nil {
		obj.Active = *s.Active
	}

	var err error
	if obj.Transform.Position, err = vec3(s.Position, mgl32.Vec3{}); err != nil {
		return nil, fmt.Errorf("%s position: %w", s.Name, err)
	}
	euler, err := vec3(s.Rotation, mgl32.Vec3{})
	if err != nil {
		return nil, fmt.Errorf("%s rotation: %w", s.Name, err)
	}
	obj.Transform.SetEuler(euler)
	if obj.Transform.Scale, err = vec3(s.Scale, mgl32.Vec3{1, 1, 1}); err != nil {
		return nil, fmt.Errorf("%s scale: %w", s.Name, err)
	}

	obj.LODLimit = s.LODLimit
	obj.UserData = s.UserData
	obj.Prefab = s.Prefab

	if s.Mesh != nil {
		mesh, err := s.Mesh.build()
		if err != nil {
			return nil, fmt.Errorf("%s mesh: %w", s.Name, err)
		}
		obj.SetRenderer(&scene.MeshRenderer{Mesh: mesh, Materials: s.Materials})
	}

	if s.Collider != nil {
		c, err := s.Collider.build()
		if err != nil {
			return nil, fmt.Errorf("%s collider: %w", s.Name, err)
		}
		obj.SetCollider(c)
	}

	for _, cs := range s.Children {
		child, err := cs.build()
		if err != nil {
			return nil, err
		}
		obj.AddChild(child)
	}
	return obj, nil
}

func (m meshSpec) build() (*scene.Mesh, error) {
	switch m.Type {
	case "cube", "":
		size := m.Size
		if size == 0 {
			size = 1
		}
		return scene.Cube(size), nil
	case "box":
		minB, err := vec3(m.Min, mgl32.Vec3{-0.5, -0.5, -0.5})
		if err != nil {
			return nil, err
		}
		maxB, err := vec3(m.Max, mgl32.Vec3{0.5, 0.5, 0.5})
		if err != nil {
			return nil, err
		}
		return scene.Box(minB, maxB), nil
	case "plane":
		return scene.Plane(m.Size, m.Segments), nil
	case "sphere":
		segments := max(m.Segments, 8)
		return scene.Sphere(m.Size*0.5, segments, segments*2), nil
	}
	return nil, fmt.Errorf("unknown mesh type %q", m.Type)
}

func (c colliderSpec) build() (*scene.Collider, error) {
	col := &scene.Collider{}
	switch c.Type {
	case "box", "":
		col.Type = scene.ColliderBox
	case "sphere":
		col.Type = scene.ColliderSphere
	default:
		return nil, fmt.Errorf("unknown collider type %q", c.Type)
	}

	var err error
	if col.Center, err = vec3(c.Center, mgl32.Vec3{}); err != nil {
		return nil, err
	}
	if col.Size, err = vec3(c.Size, mgl32.Vec3{1, 1, 1}); err != nil {
		return nil, err
	}
	return col, nil
}

func vec3(v []float32, def mgl32.Vec3) (mgl32.Vec3, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 3:
		return mgl32.Vec3{v[0], v[1], v[2]}, nil
	}
	return def, fmt.Errorf("expected 3 components, got %d", len(v))
}
