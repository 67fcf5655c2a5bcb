package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Bounds is an axis aligned box. A Bounds with Min > Max on any axis is empty.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

const inf = float32(1e20)

func EmptyBounds() Bounds {
	return Bounds{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

func NewBounds(center, size mgl32.Vec3) Bounds {
	half := size.Mul(0.5)
	return Bounds{Min: center.Sub(half), Max: center.Add(half)}
}

func (b Bounds) IsEmpty() bool {
	return b.Min.X() > b.Max.X() || b.Min.Y() > b.Max.Y() || b.Min.Z() > b.Max.Z()
}

func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b Bounds) Size() mgl32.Vec3 {
	if b.IsEmpty() {
		return mgl32.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// MaxDimension is the largest extent of the box, used for size culling.
func (b Bounds) MaxDimension() float32 {
	s := b.Size()
	return max(s.X(), s.Y(), s.Z())
}

func (b Bounds) Encapsulate(o Bounds) Bounds {
	if o.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return o
	}
	return Bounds{
		Min: mgl32.Vec3{min(b.Min.X(), o.Min.X()), min(b.Min.Y(), o.Min.Y()), min(b.Min.Z(), o.Min.Z())},
		Max: mgl32.Vec3{max(b.Max.X(), o.Max.X()), max(b.Max.Y(), o.Max.Y()), max(b.Max.Z(), o.Max.Z())},
	}
}

func (b Bounds) EncapsulatePoint(p mgl32.Vec3) Bounds {
	return b.Encapsulate(Bounds{Min: p, Max: p})
}

// Contains reports whether o lies completely inside b. Touching faces count as inside.
func (b Bounds) Contains(o Bounds) bool {
	if b.IsEmpty() || o.IsEmpty() {
		return false
	}
	for i := 0; i < 3; i++ {
		if o.Min[i] < b.Min[i] || o.Max[i] > b.Max[i] {
			return false
		}
	}
	return true
}

func (b Bounds) ContainsPoint(p mgl32.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Transform returns a conservative box around the eight transformed corners.
func (b Bounds) Transform(m mgl32.Mat4) Bounds {
	if b.IsEmpty() {
		return b
	}
	minB, maxB := b.Min, b.Max
	corners := [8]mgl32.Vec3{
		{minB.X(), minB.Y(), minB.Z()},
		{maxB.X(), minB.Y(), minB.Z()},
		{minB.X(), maxB.Y(), minB.Z()},
		{maxB.X(), maxB.Y(), minB.Z()},
		{minB.X(), minB.Y(), maxB.Z()},
		{maxB.X(), minB.Y(), maxB.Z()},
		{minB.X(), maxB.Y(), maxB.Z()},
		{maxB.X(), maxB.Y(), maxB.Z()},
	}

	out := EmptyBounds()
	for _, c := range corners {
		out = out.EncapsulatePoint(m.Mul4x1(c.Vec4(1.0)).Vec3())
	}
	return out
}
