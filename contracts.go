package hlod

import (
	"context"

	"github.com/gekko3d/hlod/scene"
	"github.com/gekko3d/hlod/space"
	"github.com/google/uuid"
)

// Simplifier reduces the working objects of one build record in place.
// Calls for different records may run concurrently.
type Simplifier interface {
	Simplify(ctx context.Context, info *BuildInfo, onProgress func(float32)) error
}

// Batcher merges the working objects of every record of one spatial root.
type Batcher interface {
	Batch(ctx context.Context, root *scene.Object, infos BuildInfoList, onProgress func(float32)) error
	// Dispose drops state accumulated across roots.
	Dispose() error
}

// PreProcessor is implemented by batchers that need to see the whole
// hierarchy once before any root is processed.
type PreProcessor interface {
	PreProcess(ctx context.Context, root *scene.Object, onProgress func(float32)) error
}

type BuildOptions struct {
	CullDistance     float32
	LODDistance      float32
	WriteNoPrefab    bool
	ExtractMaterials bool
}

// StreamingBuilder emits the runtime structure for one spatial root.
type StreamingBuilder interface {
	Build(ctx context.Context, root *space.SpaceNode, infos BuildInfoList, container *scene.Object, opts BuildOptions, onProgress func(float32)) error
}

// Controller is the runtime structure switching between source objects and proxies.
type Controller interface {
	ID() uuid.UUID
	HighObjectCount() int
	HighObject(i int) *scene.Object
	SetUserDataSerializer(s UserDataSerializer)
}

type UserDataSerializer interface {
	SerializeUserData(c Controller, index int, obj *scene.Object) error
}

// UserDataFlusher is implemented by serializers that persist after the last object.
type UserDataFlusher interface {
	Flush() error
}
