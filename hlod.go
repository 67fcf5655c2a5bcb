// Package hlod bakes hierarchical level of detail structures for large scenes.
//
// A bake partitions the children of an HLOD root object into one or more
// space trees, turns each tree node into a BuildInfo record holding working
// copies of the renderers and colliders it covers, then drives the
// configured simplifier, batcher and streaming builder over those records.
package hlod

import (
	"github.com/gekko3d/hlod/scene"
)

// MaxRoots is the largest number of space trees a single bake supports.
const MaxRoots = 255

// HLOD is the bake target: a root object whose children are the sources.
type HLOD struct {
	Root     *scene.Object
	Config   Config
	Logger   Logger
	Progress Progress

	// Pool backs the working copies of a bake. Create makes one from
	// Config.WorkingMemoryBudget when nil.
	Pool *scene.Pool

	generated Generated
	dirty     bool
}

func New(root *scene.Object, cfg Config) *HLOD {
	return &HLOD{
		Root:   root,
		Config: cfg,
	}
}

func (h *HLOD) logger() Logger {
	if h.Logger == nil {
		return NewNopLogger()
	}
	return h.Logger
}

func (h *HLOD) progress() Progress {
	if h.Progress == nil {
		return nopProgress{}
	}
	return h.Progress
}

func (h *HLOD) workingPool() *scene.Pool {
	if h.Pool == nil {
		h.Pool = scene.NewPool(h.Config.WorkingMemoryBudget)
	}
	return h.Pool
}

// Bounds encloses every target in the root's local space.
func (h *HLOD) Bounds() scene.Bounds {
	worldToLocal := h.Root.WorldToLocal()
	b := scene.EmptyBounds()
	for _, target := range scene.HLODTargets(h.Root) {
		b = b.Encapsulate(scene.ObjectBounds(target).Transform(worldToLocal))
	}
	return b
}

func (h *HLOD) Generated() *Generated { return &h.generated }

// AddGeneratedResource registers a bake product. Objects, components attached
// to the root and asset paths are supported.
func (h *HLOD) AddGeneratedResource(r any) {
	switch v := r.(type) {
	case *scene.Object:
		h.generated.AddObject(v)
	case string:
		h.generated.AddAsset(v)
	default:
		h.generated.AddComponent(h.Root, v)
	}
}

// Controllers returns every controller attached below the root.
func (h *HLOD) Controllers() []Controller {
	var controllers []Controller
	h.Root.Walk(func(o *scene.Object) bool {
		for _, c := range o.Components() {
			if ctrl, ok := c.(Controller); ok {
				controllers = append(controllers, ctrl)
			}
		}
		return true
	})
	return controllers
}

// Dirty reports whether the hierarchy changed since the last ClearDirty.
func (h *HLOD) Dirty() bool { return h.dirty }

func (h *HLOD) MarkDirty() { h.dirty = true }

func (h *HLOD) ClearDirty() { h.dirty = false }
