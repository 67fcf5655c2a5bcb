package hlod

import (
	"github.com/gekko3d/hlod/scene"
	"github.com/gekko3d/hlod/space"
)

// BuildInfo is the unit of work of the simplify, batch and streaming stages.
//
// WorkingObjects[i] was copied Distances[i] levels up from the node that owns
// its source object. All working buffers live in Arena and are released by
// Dispose.
type BuildInfo struct {
	Name           string
	ParentIndex    int
	Target         *space.SpaceNode
	Level          int
	WorkingObjects []*scene.WorkingObject
	Distances      []int
	Colliders      []scene.WorkingCollider
	Arena          *scene.Arena
}

func (b *BuildInfo) Dispose() {
	if b.Arena != nil {
		b.Arena.Dispose()
	}
	b.WorkingObjects = nil
	b.Distances = nil
	b.Colliders = nil
}

type BuildInfoList []*BuildInfo

func (l BuildInfoList) Dispose() {
	for _, info := range l {
		info.Dispose()
	}
}

// WorkingObjectCount sums the working objects of every record.
func (l BuildInfoList) WorkingObjectCount() int {
	count := 0
	for _, info := range l {
		count += len(info.WorkingObjects)
	}
	return count
}
