package streaming

import (
	"github.com/gekko3d/hlod"
	"github.com/gekko3d/hlod/scene"
	"github.com/google/uuid"
)

// Node mirrors one build record. Parent indexes Controller nodes, -1 for the root.
type Node struct {
	Name        string
	Parent      int
	Level       int
	Bounds      scene.Bounds
	HighIndices []int
	LowIndex    int
	Colliders   []scene.WorkingCollider
}

// Controller is the runtime structure of one spatial root: the source
// objects (high), the proxies (low) and the tree tying them together.
type Controller struct {
	id           uuid.UUID
	RootIndex    int
	CullDistance float32
	LODDistance  float32

	nodes      []Node
	high       []*scene.Object
	low        []*scene.Object
	alwaysHigh []int
	serializer hlod.UserDataSerializer
}

func NewController(rootIndex int, cullDistance, lodDistance float32) *Controller {
	return &Controller{
		id:           uuid.New(),
		RootIndex:    rootIndex,
		CullDistance: cullDistance,
		LODDistance:  lodDistance,
	}
}

func (c *Controller) ID() uuid.UUID { return c.id }

func (c *Controller) Nodes() []Node { return c.nodes }

func (c *Controller) HighObjectCount() int { return len(c.high) }

func (c *Controller) HighObject(i int) *scene.Object { return c.high[i] }

func (c *Controller) LowObjectCount() int { return len(c.low) }

func (c *Controller) LowObject(i int) *scene.Object { return c.low[i] }

// AlwaysHigh lists high objects not covered by any node. They never swap.
func (c *Controller) AlwaysHigh() []int { return c.alwaysHigh }

func (c *Controller) SetUserDataSerializer(s hlod.UserDataSerializer) { c.serializer = s }

func (c *Controller) UserDataSerializer() hlod.UserDataSerializer { return c.serializer }

func (c *Controller) addHigh(obj *scene.Object) int {
	c.high = append(c.high, obj)
	return len(c.high) - 1
}

func (c *Controller) addLow(obj *scene.Object) int {
	c.low = append(c.low, obj)
	return len(c.low) - 1
}
