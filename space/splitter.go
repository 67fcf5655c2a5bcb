package space

import (
	"github.com/gekko3d/hlod/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// Splitter partitions the objects of a scene into one or more space trees.
//
// bounds and the returned node bounds are expressed in the space given by
// worldToLocal. onProgress receives a non decreasing fraction in [0,1].
type Splitter interface {
	CreateSpaceTree(bounds scene.Bounds, chunkSize float32, worldToLocal mgl32.Mat4, objects []*scene.Object, onProgress func(float32)) ([]*SpaceNode, error)
}
