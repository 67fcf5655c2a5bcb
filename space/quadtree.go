package space

import (
	"errors"
	"fmt"

	"github.com/gekko3d/hlod/scene"
	"github.com/go-gl/mathgl/mgl32"
)

var ErrInvalidChunkSize = errors.New("space: chunk size must be positive")

const defaultMaxDepth = 16

type QuadTreeOptions struct {
	// SubTreeSize > 0 cuts the scene into a grid of independent trees.
	SubTreeSize float32 `yaml:"subTreeSize"`
	MaxDepth    int     `yaml:"maxDepth"`
}

// QuadTree splits space on the XZ plane, keeping the full height in every cell.
type QuadTree struct {
	opts QuadTreeOptions
}

func NewQuadTree(opts QuadTreeOptions) *QuadTree {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = defaultMaxDepth
	}
	return &QuadTree{opts: opts}
}

type entry struct {
	obj    *scene.Object
	bounds scene.Bounds
}

type quadBuild struct {
	chunkSize  float32
	maxDepth   int
	total      int
	placed     int
	onProgress func(float32)
}

func (b *quadBuild) place(n int) {
	b.placed += n
	if b.onProgress != nil && b.total > 0 {
		b.onProgress(float32(b.placed) / float32(b.total))
	}
}

func (q *QuadTree) CreateSpaceTree(bounds scene.Bounds, chunkSize float32, worldToLocal mgl32.Mat4, objects []*scene.Object, onProgress func(float32)) ([]*SpaceNode, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidChunkSize, chunkSize)
	}

	entries := make([]entry, 0, len(objects))
	for _, obj := range objects {
		entries = append(entries, entry{
			obj:    obj,
			bounds: scene.ObjectBounds(obj).Transform(worldToLocal),
		})
	}

	b := &quadBuild{
		chunkSize:  chunkSize,
		maxDepth:   q.opts.MaxDepth,
		total:      len(entries),
		onProgress: onProgress,
	}

	var roots []*SpaceNode
	if q.opts.SubTreeSize > 0 {
		for _, cell := range q.subTreeCells(bounds, entries) {
			roots = append(roots, b.build(squareXZ(cell.bounds), cell.entries, 0))
		}
	} else {
		roots = append(roots, b.build(squareXZ(bounds), entries, 0))
	}

	if onProgress != nil {
		onProgress(1)
	}
	return roots, nil
}

type subTreeCell struct {
	bounds  scene.Bounds
	entries []entry
}

// subTreeCells groups entries by the grid column holding their bounds centre.
// Only non-empty columns are returned, ordered by x then z.
func (q *QuadTree) subTreeCells(bounds scene.Bounds, entries []entry) []*subTreeCell {
	grid := NewGrid(bounds.Min, q.opts.SubTreeSize)
	for i, e := range entries {
		grid.Insert(i, e.bounds.Center())
	}

	cells := grid.Cells()
	out := make([]*subTreeCell, 0, len(cells))
	for _, c := range cells {
		cell := &subTreeCell{bounds: grid.CellBounds(c, bounds.Min.Y(), bounds.Max.Y())}
		for _, i := range grid.Items(c) {
			cell.entries = append(cell.entries, entries[i])
		}
		out = append(out, cell)
	}
	return out
}

func (b *quadBuild) build(bounds scene.Bounds, entries []entry, depth int) *SpaceNode {
	node := NewSpaceNode(bounds)

	size := bounds.Size()
	if size.X() <= b.chunkSize || depth >= b.maxDepth {
		for _, e := range entries {
			node.Objects = append(node.Objects, e.obj)
		}
		b.place(len(entries))
		return node
	}

	quadrants := splitXZ(bounds)
	var childEntries [4][]entry
	for _, e := range entries {
		fitted := false
		for i, quad := range quadrants {
			if quad.Contains(e.bounds) {
				childEntries[i] = append(childEntries[i], e)
				fitted = true
				break
			}
		}
		if !fitted {
			node.Objects = append(node.Objects, e.obj)
		}
	}
	b.place(len(node.Objects))

	for i, quad := range quadrants {
		if len(childEntries[i]) == 0 {
			continue
		}
		node.AddChild(b.build(quad, childEntries[i], depth+1))
	}
	return node
}

func squareXZ(b scene.Bounds) scene.Bounds {
	if b.IsEmpty() {
		return scene.Bounds{}
	}
	size := b.Size()
	edge := max(size.X(), size.Z())
	c := b.Center()
	return scene.NewBounds(c, mgl32.Vec3{edge, size.Y(), edge})
}

func splitXZ(b scene.Bounds) [4]scene.Bounds {
	c := b.Center()
	return [4]scene.Bounds{
		{Min: mgl32.Vec3{b.Min.X(), b.Min.Y(), b.Min.Z()}, Max: mgl32.Vec3{c.X(), b.Max.Y(), c.Z()}},
		{Min: mgl32.Vec3{c.X(), b.Min.Y(), b.Min.Z()}, Max: mgl32.Vec3{b.Max.X(), b.Max.Y(), c.Z()}},
		{Min: mgl32.Vec3{b.Min.X(), b.Min.Y(), c.Z()}, Max: mgl32.Vec3{c.X(), b.Max.Y(), b.Max.Z()}},
		{Min: mgl32.Vec3{c.X(), b.Min.Y(), c.Z()}, Max: mgl32.Vec3{b.Max.X(), b.Max.Y(), b.Max.Z()}},
	}
}
