package hlod

import (
	"github.com/gekko3d/hlod/scene"
	"github.com/google/uuid"
)

type ResourceKind int

const (
	// ResourceObject is a scene object created by a bake.
	ResourceObject ResourceKind = iota
	// ResourceComponent is a component attached to a pre-existing object.
	ResourceComponent
	// ResourceAsset is a file written by a bake.
	ResourceAsset
)

func (k ResourceKind) String() string {
	switch k {
	case ResourceObject:
		return "object"
	case ResourceComponent:
		return "component"
	case ResourceAsset:
		return "asset"
	}
	return "unknown"
}

type Resource struct {
	ID        uuid.UUID
	Kind      ResourceKind
	Object    *scene.Object
	Owner     *scene.Object
	Component any
	Path      string
}

// Generated tracks what a bake produced so Destroy can undo it.
type Generated struct {
	resources []Resource
	converted []*scene.Object
}

func (g *Generated) add(r Resource) uuid.UUID {
	r.ID = uuid.New()
	g.resources = append(g.resources, r)
	return r.ID
}

func (g *Generated) AddObject(obj *scene.Object) uuid.UUID {
	obj.Generated = true
	return g.add(Resource{Kind: ResourceObject, Object: obj})
}

func (g *Generated) AddComponent(owner *scene.Object, component any) uuid.UUID {
	return g.add(Resource{Kind: ResourceComponent, Owner: owner, Component: component})
}

func (g *Generated) AddAsset(path string) uuid.UUID {
	return g.add(Resource{Kind: ResourceAsset, Path: path})
}

// AddConvertedPrefab records a composite instance that Destroy must unpack.
func (g *Generated) AddConvertedPrefab(obj *scene.Object) {
	g.converted = append(g.converted, obj)
}

func (g *Generated) Resources() []Resource { return g.resources }

func (g *Generated) ConvertedPrefabs() []*scene.Object { return g.converted }

func (g *Generated) Len() int { return len(g.resources) }

func (g *Generated) Clear() {
	g.resources = nil
	g.converted = nil
}
