package space

import (
	"math"
	"sort"

	"github.com/gekko3d/hlod/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// Cell addresses a column of a Grid on the XZ plane.
type Cell struct {
	X, Z int
}

// Grid buckets items into square XZ columns of cellSize, counted from origin.
type Grid struct {
	origin   mgl32.Vec3
	cellSize float32
	cells    map[Cell][]int
}

func NewGrid(origin mgl32.Vec3, cellSize float32) *Grid {
	return &Grid{
		origin:   origin,
		cellSize: cellSize,
		cells:    make(map[Cell][]int),
	}
}

func (g *Grid) cellIndex(pos, origin float32) int {
	return int(math.Floor(float64((pos - origin) / g.cellSize)))
}

// CellOf returns the column holding p.
func (g *Grid) CellOf(p mgl32.Vec3) Cell {
	return Cell{X: g.cellIndex(p.X(), g.origin.X()), Z: g.cellIndex(p.Z(), g.origin.Z())}
}

// Insert files id under the column holding p.
func (g *Grid) Insert(id int, p mgl32.Vec3) Cell {
	c := g.CellOf(p)
	g.cells[c] = append(g.cells[c], id)
	return c
}

// Items lists the ids of c in insertion order.
func (g *Grid) Items(c Cell) []int { return g.cells[c] }

// Cells returns the non-empty columns ordered by X then Z.
func (g *Grid) Cells() []Cell {
	out := make([]Cell, 0, len(g.cells))
	for c := range g.cells {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		return out[i].Z < out[j].Z
	})
	return out
}

// CellBounds is the box of c between minY and maxY.
func (g *Grid) CellBounds(c Cell, minY, maxY float32) scene.Bounds {
	minB := mgl32.Vec3{
		g.origin.X() + float32(c.X)*g.cellSize,
		minY,
		g.origin.Z() + float32(c.Z)*g.cellSize,
	}
	return scene.Bounds{
		Min: minB,
		Max: mgl32.Vec3{minB.X() + g.cellSize, maxY, minB.Z() + g.cellSize},
	}
}
