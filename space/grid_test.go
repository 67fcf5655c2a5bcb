package space

import (
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestGrid_InsertAndCells(t *testing.T) {
	grid := NewGrid(mgl32.Vec3{-10, 0, -10}, 5)

	grid.Insert(0, mgl32.Vec3{-9, 3, -9})
	grid.Insert(1, mgl32.Vec3{-6, -40, -6})
	grid.Insert(2, mgl32.Vec3{7, 0, -9})
	c := grid.Insert(3, mgl32.Vec3{-9, 0, 1})

	// Height does not matter, only the XZ column.
	if c != (Cell{X: 0, Z: 2}) {
		t.Errorf("Expected cell {0 2}, got %v", c)
	}

	want := []Cell{{0, 0}, {0, 2}, {3, 0}}
	if got := grid.Cells(); !reflect.DeepEqual(got, want) {
		t.Errorf("Cells = %v, want %v", got, want)
	}
	if got := grid.Items(Cell{0, 0}); !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("Items = %v, want [0 1]", got)
	}
	if got := grid.Items(Cell{1, 1}); len(got) != 0 {
		t.Errorf("Expected empty cell, got %v", got)
	}
}

func TestGrid_NegativeCells(t *testing.T) {
	grid := NewGrid(mgl32.Vec3{}, 2)

	// Points left of the origin round down, not towards zero.
	if c := grid.CellOf(mgl32.Vec3{-0.5, 0, 0.5}); c != (Cell{X: -1, Z: 0}) {
		t.Errorf("Expected cell {-1 0}, got %v", c)
	}
}

func TestGrid_CellBounds(t *testing.T) {
	grid := NewGrid(mgl32.Vec3{-10, 0, -10}, 5)
	b := grid.CellBounds(Cell{X: 1, Z: 2}, -1, 4)

	if b.Min != (mgl32.Vec3{-5, -1, 0}) || b.Max != (mgl32.Vec3{0, 4, 5}) {
		t.Errorf("CellBounds = %+v", b)
	}
	if !b.ContainsPoint(mgl32.Vec3{-2.5, 0, 2.5}) {
		t.Errorf("cell should contain its centre")
	}
}
