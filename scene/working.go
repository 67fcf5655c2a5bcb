package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// WorkingMesh holds arena backed copies of mesh data.
type WorkingMesh struct {
	Vertices []mgl32.Vec3
	Indices  []uint32
}

func (m *WorkingMesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// NewWorkingMesh allocates an uninitialised mesh of the given size from a.
func NewWorkingMesh(a *Arena, vertexCount, indexCount int) (*WorkingMesh, error) {
	vertices, err := a.Vec3s(vertexCount)
	if err != nil {
		return nil, err
	}
	indices, err := a.Uint32s(indexCount)
	if err != nil {
		return nil, err
	}
	return &WorkingMesh{Vertices: vertices, Indices: indices}, nil
}

// WorkingObject is a standalone copy of a renderer, detached from the scene.
type WorkingObject struct {
	Name         string
	LocalToWorld mgl32.Mat4
	Materials    []string
	Mesh         *WorkingMesh
}

func (w *WorkingObject) WorldBounds() Bounds {
	b := EmptyBounds()
	for _, v := range w.Mesh.Vertices {
		b = b.EncapsulatePoint(w.LocalToWorld.Mul4x1(v.Vec4(1)).Vec3())
	}
	return b
}

// ToWorkingObject copies the renderer's mesh into buffers owned by a.
func (r *MeshRenderer) ToWorkingObject(a *Arena) (*WorkingObject, error) {
	mesh, err := NewWorkingMesh(a, len(r.Mesh.Vertices), len(r.Mesh.Indices))
	if err != nil {
		return nil, err
	}
	copy(mesh.Vertices, r.Mesh.Vertices)
	copy(mesh.Indices, r.Mesh.Indices)

	name := r.Mesh.Name
	ltw := mgl32.Ident4()
	if r.owner != nil {
		name = r.owner.Name
		ltw = r.owner.LocalToWorld()
	}
	return &WorkingObject{
		Name:         name,
		LocalToWorld: ltw,
		Materials:    append([]string(nil), r.Materials...),
		Mesh:         mesh,
	}, nil
}

// WorkingCollider is a world space copy of a collider.
type WorkingCollider struct {
	Name         string
	Type         ColliderType
	LocalToWorld mgl32.Mat4
	Center       mgl32.Vec3
	Size         mgl32.Vec3
}

func (c *Collider) ToWorkingCollider() WorkingCollider {
	wc := WorkingCollider{
		Type:         c.Type,
		LocalToWorld: mgl32.Ident4(),
		Center:       c.Center,
		Size:         c.Size,
	}
	if c.owner != nil {
		wc.Name = c.owner.Name
		wc.LocalToWorld = c.owner.LocalToWorld()
	}
	return wc
}
