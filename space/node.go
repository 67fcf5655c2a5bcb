package space

import (
	"github.com/gekko3d/hlod/scene"
)

// SpaceNode is a cell of the partition tree. Objects holds the objects that
// fit in this cell and in none of its children.
type SpaceNode struct {
	Bounds  scene.Bounds
	Objects []*scene.Object

	parent   *SpaceNode
	children []*SpaceNode
}

func NewSpaceNode(bounds scene.Bounds) *SpaceNode {
	return &SpaceNode{Bounds: bounds}
}

func (n *SpaceNode) Parent() *SpaceNode { return n.parent }

func (n *SpaceNode) ChildCount() int { return len(n.children) }

func (n *SpaceNode) Child(i int) *SpaceNode { return n.children[i] }

func (n *SpaceNode) Children() []*SpaceNode { return n.children }

func (n *SpaceNode) AddChild(child *SpaceNode) {
	child.parent = n
	n.children = append(n.children, child)
}

func (n *SpaceNode) HasChild() bool { return len(n.children) > 0 }

// Depth is the number of levels below n, 0 for a leaf.
func (n *SpaceNode) Depth() int {
	depth := 0
	for _, c := range n.children {
		depth = max(depth, c.Depth()+1)
	}
	return depth
}

// Walk visits n and all descendants breadth first.
func (n *SpaceNode) Walk(fn func(node *SpaceNode)) {
	queue := []*SpaceNode{n}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		fn(cur)
		queue = append(queue, cur.children...)
	}
}

// ObjectCount counts the objects of the whole subtree.
func (n *SpaceNode) ObjectCount() int {
	count := 0
	n.Walk(func(node *SpaceNode) {
		count += len(node.Objects)
	})
	return count
}
