package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

type Mesh struct {
	Name     string
	Vertices []mgl32.Vec3
	Indices  []uint32
}

func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

func (m *Mesh) Bounds() Bounds {
	b := EmptyBounds()
	for _, v := range m.Vertices {
		b = b.EncapsulatePoint(v)
	}
	return b
}

type MeshRenderer struct {
	Mesh      *Mesh
	Materials []string

	owner *Object
}

func (r *MeshRenderer) Owner() *Object { return r.owner }

// WorldBounds is the mesh bounds in world space. Empty for a renderer without mesh or owner.
func (r *MeshRenderer) WorldBounds() Bounds {
	if r.Mesh == nil || r.owner == nil {
		return EmptyBounds()
	}
	return r.Mesh.Bounds().Transform(r.owner.LocalToWorld())
}

type ColliderType int

const (
	ColliderBox ColliderType = iota
	ColliderSphere
)

func (t ColliderType) String() string {
	switch t {
	case ColliderBox:
		return "box"
	case ColliderSphere:
		return "sphere"
	}
	return "unknown"
}

// Collider is a local space collision shape. For spheres Size.X() is the diameter.
type Collider struct {
	Type   ColliderType
	Center mgl32.Vec3
	Size   mgl32.Vec3

	owner *Object
}

func (c *Collider) Owner() *Object { return c.owner }

func (c *Collider) localBounds() Bounds {
	size := c.Size
	if c.Type == ColliderSphere {
		size = mgl32.Vec3{c.Size.X(), c.Size.X(), c.Size.X()}
	}
	return NewBounds(c.Center, size)
}

func (c *Collider) WorldBounds() Bounds {
	if c.owner == nil {
		return c.localBounds()
	}
	return c.localBounds().Transform(c.owner.LocalToWorld())
}
