package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Box builds a closed box mesh between minB and maxB.
func Box(minB, maxB mgl32.Vec3) *Mesh {
	x0, y0, z0 := minB.X(), minB.Y(), minB.Z()
	x1, y1, z1 := maxB.X(), maxB.Y(), maxB.Z()

	return &Mesh{
		Name: "box",
		Vertices: []mgl32.Vec3{
			{x0, y0, z0}, {x1, y0, z0}, {x1, y1, z0}, {x0, y1, z0},
			{x0, y0, z1}, {x1, y0, z1}, {x1, y1, z1}, {x0, y1, z1},
		},
		Indices: []uint32{
			0, 2, 1, 0, 3, 2, // -z
			4, 5, 6, 4, 6, 7, // +z
			0, 1, 5, 0, 5, 4, // -y
			3, 7, 6, 3, 6, 2, // +y
			0, 4, 7, 0, 7, 3, // -x
			1, 2, 6, 1, 6, 5, // +x
		},
	}
}

// Cube builds a box of the given edge length centred at the origin.
func Cube(size float32) *Mesh {
	h := size * 0.5
	m := Box(mgl32.Vec3{-h, -h, -h}, mgl32.Vec3{h, h, h})
	m.Name = "cube"
	return m
}

// Plane builds a subdivided XZ grid centred at the origin.
func Plane(size float32, segments int) *Mesh {
	if segments < 1 {
		segments = 1
	}
	m := &Mesh{Name: "plane"}
	step := size / float32(segments)
	h := size * 0.5
	for z := 0; z <= segments; z++ {
		for x := 0; x <= segments; x++ {
			m.Vertices = append(m.Vertices, mgl32.Vec3{-h + float32(x)*step, 0, -h + float32(z)*step})
		}
	}
	row := uint32(segments + 1)
	for z := uint32(0); z < uint32(segments); z++ {
		for x := uint32(0); x < uint32(segments); x++ {
			i := z*row + x
			m.Indices = append(m.Indices, i, i+row, i+1, i+1, i+row, i+row+1)
		}
	}
	return m
}

// Sphere builds a UV sphere centred at the origin.
func Sphere(radius float32, rings, sectors int) *Mesh {
	if rings < 2 {
		rings = 2
	}
	if sectors < 3 {
		sectors = 3
	}
	m := &Mesh{Name: "sphere"}
	for r := 0; r <= rings; r++ {
		phi := math.Pi * float64(r) / float64(rings)
		for s := 0; s <= sectors; s++ {
			theta := 2 * math.Pi * float64(s) / float64(sectors)
			m.Vertices = append(m.Vertices, mgl32.Vec3{
				radius * float32(math.Sin(phi)*math.Cos(theta)),
				radius * float32(math.Cos(phi)),
				radius * float32(math.Sin(phi)*math.Sin(theta)),
			})
		}
	}
	row := uint32(sectors + 1)
	for r := uint32(0); r < uint32(rings); r++ {
		for s := uint32(0); s < uint32(sectors); s++ {
			i := r*row + s
			m.Indices = append(m.Indices, i, i+1, i+row, i+1, i+row+1, i+row)
		}
	}
	return m
}
