package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Object is a node of the scene hierarchy. Children are owned and ordered.
type Object struct {
	Name      string
	Transform *Transform
	Active    bool

	// LODLimit, when set, removes the object and its subtree from every
	// build level above the limit.
	LODLimit *int

	UserData map[string]string

	// Prefab names the source of a composite instance. Empty once unpacked.
	Prefab string

	// Generated marks objects created by a bake.
	Generated bool

	renderer   *MeshRenderer
	collider   *Collider
	parent     *Object
	children   []*Object
	components []any
}

func NewObject(name string) *Object {
	return &Object{
		Name:      name,
		Transform: NewTransform(),
		Active:    true,
	}
}

func (o *Object) Parent() *Object { return o.parent }

func (o *Object) Children() []*Object { return o.children }

func (o *Object) ChildCount() int { return len(o.children) }

func (o *Object) Child(i int) *Object { return o.children[i] }

// AddChild reparents child under o, keeping its local transform.
func (o *Object) AddChild(child *Object) {
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = o
	o.children = append(o.children, child)
}

func (o *Object) RemoveChild(child *Object) bool {
	for i, c := range o.children {
		if c == child {
			o.children = append(o.children[:i], o.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Detach removes o from its parent, if any.
func (o *Object) Detach() {
	if o.parent != nil {
		o.parent.RemoveChild(o)
	}
}

func (o *Object) Renderer() *MeshRenderer { return o.renderer }

func (o *Object) SetRenderer(r *MeshRenderer) {
	if r != nil {
		r.owner = o
	}
	o.renderer = r
}

func (o *Object) Collider() *Collider { return o.collider }

func (o *Object) SetCollider(c *Collider) {
	if c != nil {
		c.owner = o
	}
	o.collider = c
}

func (o *Object) AddComponent(c any) {
	o.components = append(o.components, c)
}

func (o *Object) RemoveComponent(c any) bool {
	for i, existing := range o.components {
		if existing == c {
			o.components = append(o.components[:i], o.components[i+1:]...)
			return true
		}
	}
	return false
}

func (o *Object) Components() []any { return o.components }

// LocalToWorld composes the transforms from the root down to o.
func (o *Object) LocalToWorld() mgl32.Mat4 {
	m := o.Transform.ObjectToWorld()
	for p := o.parent; p != nil; p = p.parent {
		m = p.Transform.ObjectToWorld().Mul4(m)
	}
	return m
}

// WorldToLocal composes the inverse transforms from o up to the root.
func (o *Object) WorldToLocal() mgl32.Mat4 {
	m := o.Transform.WorldToObject()
	for p := o.parent; p != nil; p = p.parent {
		m = m.Mul4(p.Transform.WorldToObject())
	}
	return m
}

// Walk visits o and its descendants depth first. Returning false from fn
// skips the subtree of the visited object.
func (o *Object) Walk(fn func(obj *Object) bool) {
	if !fn(o) {
		return
	}
	for _, c := range o.children {
		c.Walk(fn)
	}
}

// Find returns the first descendant (or o itself) with the given name.
func (o *Object) Find(name string) *Object {
	var found *Object
	o.Walk(func(obj *Object) bool {
		if found != nil {
			return false
		}
		if obj.Name == name {
			found = obj
			return false
		}
		return true
	})
	return found
}
