package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestBounds_EncapsulateAndEmpty(t *testing.T) {
	b := EmptyBounds()
	if !b.IsEmpty() {
		t.Fatalf("EmptyBounds should be empty")
	}
	if b.MaxDimension() != 0 {
		t.Errorf("empty bounds should have no size, got %v", b.MaxDimension())
	}

	b = b.EncapsulatePoint(mgl32.Vec3{1, 2, 3})
	b = b.Encapsulate(NewBounds(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{2, 2, 2}))
	want := Bounds{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 2, 3}}
	if b != want {
		t.Errorf("Encapsulate = %v, want %v", b, want)
	}
	if got := b.MaxDimension(); got != 4 {
		t.Errorf("MaxDimension = %v, want 4", got)
	}

	if got := b.Encapsulate(EmptyBounds()); got != b {
		t.Errorf("encapsulating an empty box changed the bounds: %v", got)
	}
}

func TestBounds_Contains(t *testing.T) {
	outer := Bounds{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{10, 10, 10}}

	cases := []struct {
		name string
		in   Bounds
		want bool
	}{
		{"inside", Bounds{Min: mgl32.Vec3{1, 1, 1}, Max: mgl32.Vec3{2, 2, 2}}, true},
		{"touching", Bounds{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{10, 5, 5}}, true},
		{"crossing", Bounds{Min: mgl32.Vec3{9, 1, 1}, Max: mgl32.Vec3{11, 2, 2}}, false},
		{"outside", Bounds{Min: mgl32.Vec3{20, 20, 20}, Max: mgl32.Vec3{21, 21, 21}}, false},
		{"empty", EmptyBounds(), false},
	}
	for _, c := range cases {
		if got := outer.Contains(c.in); got != c.want {
			t.Errorf("%s: Contains = %v, want %v", c.name, got, c.want)
		}
	}

	if !outer.ContainsPoint(mgl32.Vec3{10, 0, 5}) {
		t.Errorf("point on the boundary should be contained")
	}
}

func TestBounds_Transform(t *testing.T) {
	b := NewBounds(mgl32.Vec3{}, mgl32.Vec3{2, 2, 2})

	moved := b.Transform(mgl32.Translate3D(5, 0, 0))
	if !moved.Center().ApproxEqual(mgl32.Vec3{5, 0, 0}) {
		t.Errorf("translated center = %v", moved.Center())
	}

	// A 45 degree turn around Y widens the box on X and Z.
	rotated := b.Transform(mgl32.HomogRotate3DY(mgl32.DegToRad(45)))
	s := rotated.Size()
	if !mgl32.FloatEqualThreshold(s.X(), 2*math.Sqrt2, 1e-4) || !mgl32.FloatEqualThreshold(s.Y(), 2, 1e-4) {
		t.Errorf("rotated size = %v", s)
	}
}

func TestTransform_RoundTrip(t *testing.T) {
	tr := NewTransform()
	tr.Position = mgl32.Vec3{1, 2, 3}
	tr.SetEuler(mgl32.Vec3{0, 90, 0})
	tr.Scale = mgl32.Vec3{2, 2, 2}

	if m := tr.ObjectToWorld().Mul4(tr.WorldToObject()); !nearIdentity(m) {
		t.Errorf("ObjectToWorld * WorldToObject = %v", m)
	}

	p := tr.ObjectToWorld().Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	if !p.ApproxEqualThreshold(mgl32.Vec3{1, 2, 1}, 1e-5) {
		t.Errorf("transformed point = %v", p)
	}
}

func TestObject_WorldToLocalInvertsLocalToWorld(t *testing.T) {
	parent := NewObject("parent")
	parent.Transform.Position = mgl32.Vec3{10, 0, -4}
	parent.Transform.SetEuler(mgl32.Vec3{0, 30, 0})
	parent.Transform.Scale = mgl32.Vec3{2, 2, 2}

	child := NewObject("child")
	child.Transform.Position = mgl32.Vec3{1, 2, 3}
	child.Transform.SetEuler(mgl32.Vec3{15, 0, 45})
	child.Transform.Scale = mgl32.Vec3{1, 0.5, 1}
	parent.AddChild(child)

	if m := child.LocalToWorld().Mul4(child.WorldToLocal()); !nearIdentity(m) {
		t.Errorf("LocalToWorld * WorldToLocal = %v", m)
	}

	world := child.LocalToWorld().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	local := child.WorldToLocal().Mul4x1(world).Vec3()
	if !local.ApproxEqualThreshold(mgl32.Vec3{}, 1e-4) {
		t.Errorf("origin round trip = %v", local)
	}
}

// nearIdentity compares element-wise with an absolute tolerance. Relative
// comparisons cannot accept float32 noise next to the zero entries.
func nearIdentity(m mgl32.Mat4) bool {
	id := mgl32.Ident4()
	for i := range m {
		if math.Abs(float64(m[i]-id[i])) > 1e-5 {
			return false
		}
	}
	return true
}
