package geometry

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// vecNear compares per component against an absolute tolerance
func vecNear(a, b mgl64.Vec3, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

// =============================================================================
// AABB Tests
// =============================================================================

func TestAABBOverlaps_Separated(t *testing.T) {
	unit := AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}}
	tests := []struct {
		name  string
		other AABB
	}{
		{"Separated on X axis (positive)", AABB{Min: mgl64.Vec3{2, 0, 0}, Max: mgl64.Vec3{3, 1, 1}}},
		{"Separated on X axis (negative)", AABB{Min: mgl64.Vec3{-2, 0, 0}, Max: mgl64.Vec3{-1, 1, 1}}},
		{"Separated on Y axis (positive)", AABB{Min: mgl64.Vec3{0, 2, 0}, Max: mgl64.Vec3{1, 3, 1}}},
		{"Separated on Y axis (negative)", AABB{Min: mgl64.Vec3{0, -2, 0}, Max: mgl64.Vec3{1, -1, 1}}},
		{"Separated on Z axis (positive)", AABB{Min: mgl64.Vec3{0, 0, 2}, Max: mgl64.Vec3{1, 1, 3}}},
		{"Separated on Z axis (negative)", AABB{Min: mgl64.Vec3{0, 0, -2}, Max: mgl64.Vec3{1, 1, -1}}},
		{"Separated on all axes", AABB{Min: mgl64.Vec3{2, 2, 2}, Max: mgl64.Vec3{3, 3, 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if unit.Overlaps(tt.other) {
				t.Errorf("AABBs should not overlap")
			}
			if tt.other.Overlaps(unit) {
				t.Errorf("AABBs should not overlap (symmetry test)")
			}
			if CollideAABBAABB(unit, tt.other, nil) {
				t.Errorf("Expected no collision")
			}
		})
	}
}

func TestAABBOverlaps_Overlapping(t *testing.T) {
	unit := AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}}
	tests := []struct {
		name  string
		other AABB
	}{
		{"Complete overlap (identical)", unit},
		{"Partial overlap on X axis", AABB{Min: mgl64.Vec3{0.5, 0, 0}, Max: mgl64.Vec3{3, 1, 1}}},
		{"Contained", AABB{Min: mgl64.Vec3{0.25, 0.25, 0.25}, Max: mgl64.Vec3{0.75, 0.75, 0.75}}},
		{"Touching faces", AABB{Min: mgl64.Vec3{1, 0, 0}, Max: mgl64.Vec3{2, 1, 1}}},
		{"Touching corner", AABB{Min: mgl64.Vec3{1, 1, 1}, Max: mgl64.Vec3{2, 2, 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !unit.Overlaps(tt.other) {
				t.Errorf("AABBs should overlap")
			}
			if !tt.other.Overlaps(unit) {
				t.Errorf("AABBs should overlap (symmetry test)")
			}
		})
	}
}

func TestAABBFromPoints(t *testing.T) {
	t.Run("empty set is a zero box", func(t *testing.T) {
		box := AABBFromPoints(nil)
		if box.Min != (mgl64.Vec3{}) || box.Max != (mgl64.Vec3{}) {
			t.Errorf("Expected zero box, got %v", box)
		}
	})

	t.Run("bounds every point", func(t *testing.T) {
		box := AABBFromPoints([]mgl64.Vec3{{1, -2, 3}, {-1, 4, 0}, {0, 0, -5}})
		if box.Min != (mgl64.Vec3{-1, -2, -5}) {
			t.Errorf("Expected min (-1,-2,-5), got %v", box.Min)
		}
		if box.Max != (mgl64.Vec3{1, 4, 3}) {
			t.Errorf("Expected max (1,4,3), got %v", box.Max)
		}
	})
}

func TestAABBTransform(t *testing.T) {
	box := AABB{Min: mgl64.Vec3{-1, -1, -1}, Max: mgl64.Vec3{1, 1, 1}}

	moved := box.Transform(mgl64.Translate3D(5, 0, 0))
	if !vecNear(moved.Min, mgl64.Vec3{4, -1, -1}, 1e-9) || !vecNear(moved.Max, mgl64.Vec3{6, 1, 1}, 1e-9) {
		t.Errorf("Expected translated box [4,-1,-1]-[6,1,1], got %v", moved)
	}

	rotated := box.Transform(mgl64.HomogRotate3DY(math.Pi / 4))
	r := math.Sqrt2
	if !vecNear(rotated.Max, mgl64.Vec3{r, 1, r}, 1e-9) {
		t.Errorf("Expected rotated box max (%v,1,%v), got %v", r, r, rotated.Max)
	}
}

func TestAABBMaxExtentAxis(t *testing.T) {
	tests := []struct {
		extents  mgl64.Vec3
		expected int
	}{
		{mgl64.Vec3{3, 1, 1}, 0},
		{mgl64.Vec3{1, 3, 1}, 1},
		{mgl64.Vec3{1, 1, 3}, 2},
	}
	for _, tt := range tests {
		box := AABB{Max: tt.extents}
		if got := box.MaxExtentAxis(); got != tt.expected {
			t.Errorf("Expected axis %d for extents %v, got %d", tt.expected, tt.extents, got)
		}
	}
}

// =============================================================================
// Primitive Tests
// =============================================================================

func TestNewTriangle_Normal(t *testing.T) {
	tri := NewTriangle(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0})
	if !vecNear(tri.Normal, mgl64.Vec3{0, 0, 1}, 1e-12) {
		t.Errorf("Expected counter-clockwise normal (0,0,1), got %v", tri.Normal)
	}

	degenerate := NewTriangle(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{2, 0, 0})
	if degenerate.Normal != (mgl64.Vec3{}) {
		t.Errorf("Expected zero normal for a degenerate triangle, got %v", degenerate.Normal)
	}
}

func TestTriangleTransform(t *testing.T) {
	tri := NewTriangle(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0})
	m := mgl64.Translate3D(0, 0, 2).Mul4(mgl64.HomogRotate3DX(-math.Pi / 2))
	world := tri.Transform(m)

	if !vecNear(world.Normal, mgl64.Vec3{0, 1, 0}, 1e-9) {
		t.Errorf("Expected rotated normal (0,1,0), got %v", world.Normal)
	}
	if !vecNear(world.V1, mgl64.Vec3{0, 0, 2}, 1e-9) {
		t.Errorf("Expected translated V1 (0,0,2), got %v", world.V1)
	}
}

func TestTriangleTransform_NonUniformScale(t *testing.T) {
	tri := NewTriangle(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 1})
	world := tri.Transform(mgl64.Scale3D(1, 1, 4))

	expected := mgl64.Vec3{0, -4, 1}.Normalize()
	if !vecNear(world.Normal, expected, 1e-9) {
		t.Errorf("Expected normal %v, got %v", expected, world.Normal)
	}
	for _, edge := range []mgl64.Vec3{world.V2.Sub(world.V1), world.V3.Sub(world.V1)} {
		if d := edge.Dot(world.Normal); math.Abs(d) > 1e-9 {
			t.Errorf("Expected normal perpendicular to edge %v, got dot %v", edge, d)
		}
	}
}

func TestPlaneTransform(t *testing.T) {
	diagonal := mgl64.Vec3{1, 1, 0}.Normalize()
	tests := []struct {
		name     string
		plane    Plane
		m        mgl64.Mat4
		normal   mgl64.Vec3
		distance float64
	}{
		{"translate", Plane{Normal: mgl64.Vec3{0, 1, 0}, D: 1}, mgl64.Translate3D(3, 2, 0), mgl64.Vec3{0, 1, 0}, 3},
		{"rotate", Plane{Normal: mgl64.Vec3{0, 1, 0}}, mgl64.HomogRotate3DZ(-math.Pi / 2), mgl64.Vec3{1, 0, 0}, 0},
		{"non-uniform scale", Plane{Normal: diagonal, D: math.Sqrt2}, mgl64.Scale3D(2, 1, 1), mgl64.Vec3{1, 2, 0}.Normalize(), 4 / math.Sqrt(5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			world := tt.plane.Transform(tt.m)

			if !vecNear(world.Normal, tt.normal, 1e-9) {
				t.Errorf("Expected normal %v, got %v", tt.normal, world.Normal)
			}
			if math.Abs(world.D-tt.distance) > 1e-9 {
				t.Errorf("Expected distance %v, got %v", tt.distance, world.D)
			}
		})
	}
}

func TestSphereTransform_ScalesRadius(t *testing.T) {
	s := Sphere{Center: mgl64.Vec3{1, 0, 0}, Radius: 0.5}
	world := s.Transform(mgl64.Scale3D(2, 3, 1))

	if world.Radius != 1.5 {
		t.Errorf("Expected radius scaled by the largest axis (1.5), got %v", world.Radius)
	}
	if !vecNear(world.Center, mgl64.Vec3{2, 0, 0}, 1e-12) {
		t.Errorf("Expected center (2,0,0), got %v", world.Center)
	}
}

func TestPlane_SignedDistance(t *testing.T) {
	p := NewPlaneFromPoint(mgl64.Vec3{0, 2, 0}, mgl64.Vec3{0, 1, 0})
	if d := p.SignedDistance(mgl64.Vec3{3, 4, 1}); math.Abs(d-3) > 1e-12 {
		t.Errorf("Expected distance 3, got %v", d)
	}
	if d := p.SignedDistance(mgl64.Vec3{0, -1, 0}); math.Abs(d+2) > 1e-12 {
		t.Errorf("Expected distance -2, got %v", d)
	}
}

// =============================================================================
// Contacts Tests
// =============================================================================

func TestContacts_DiscardsNaN(t *testing.T) {
	c := &Contacts{}
	if c.Add(mgl64.Vec3{math.NaN(), 0, 0}, DefaultNormal) {
		t.Error("Expected NaN point to be rejected")
	}
	if c.Add(mgl64.Vec3{}, mgl64.Vec3{0, math.NaN(), 0}) {
		t.Error("Expected NaN normal to be rejected")
	}
	if c.Len() != 0 {
		t.Errorf("Expected no contacts, got %d", c.Len())
	}

	var none *Contacts
	if !none.Add(mgl64.Vec3{}, DefaultNormal) {
		t.Error("Expected nil contacts to accept a valid contact")
	}
}

func TestContacts_FlipFrom(t *testing.T) {
	c := &Contacts{}
	c.Add(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0})
	c.Add(mgl64.Vec3{}, mgl64.Vec3{0, 1, 0})
	c.FlipFrom(1)

	if c.Normals[0] != (mgl64.Vec3{1, 0, 0}) {
		t.Errorf("Expected first normal untouched, got %v", c.Normals[0])
	}
	if c.Normals[1] != (mgl64.Vec3{0, -1, 0}) {
		t.Errorf("Expected second normal flipped, got %v", c.Normals[1])
	}
}

func TestSafeNormalize(t *testing.T) {
	if _, ok := SafeNormalize(mgl64.Vec3{}); ok {
		t.Error("Expected zero vector to fail normalization")
	}
	if n, ok := SafeNormalize(mgl64.Vec3{0, 3, 4}); !ok || !vecNear(n, mgl64.Vec3{0, 0.6, 0.8}, 1e-12) {
		t.Errorf("Expected (0,0.6,0.8), got %v", n)
	}
	if v := CleanZeros(mgl64.Vec3{math.NaN(), math.Inf(1), 2}); v != (mgl64.Vec3{0, 0, 2}) {
		t.Errorf("Expected (0,0,2), got %v", v)
	}
}

// =============================================================================
// Closest Point Tests
// =============================================================================

func TestClosestPointOnTriangle_Regions(t *testing.T) {
	a := mgl64.Vec3{0, 0, 0}
	b := mgl64.Vec3{2, 0, 0}
	c := mgl64.Vec3{0, 2, 0}

	tests := []struct {
		name     string
		p        mgl64.Vec3
		expected mgl64.Vec3
	}{
		{"vertex A region", mgl64.Vec3{-1, -1, 0}, a},
		{"vertex B region", mgl64.Vec3{3, -1, 0}, b},
		{"vertex C region", mgl64.Vec3{-1, 3, 0}, c},
		{"edge AB region", mgl64.Vec3{1, -1, 0}, mgl64.Vec3{1, 0, 0}},
		{"edge AC region", mgl64.Vec3{-1, 1, 0}, mgl64.Vec3{0, 1, 0}},
		{"edge BC region", mgl64.Vec3{2, 2, 0}, mgl64.Vec3{1, 1, 0}},
		{"face region above", mgl64.Vec3{0.5, 0.5, 3}, mgl64.Vec3{0.5, 0.5, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClosestPointOnTriangle(tt.p, a, b, c)
			if !vecNear(got, tt.expected, 1e-9) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestClosestPointsSegmentSegment(t *testing.T) {
	p1, p2 := ClosestPointsSegmentSegment(
		mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{1, 0, 0},
		mgl64.Vec3{0, -1, 1}, mgl64.Vec3{0, 1, 1},
	)
	if !vecNear(p1, mgl64.Vec3{0, 0, 0}, 1e-9) || !vecNear(p2, mgl64.Vec3{0, 0, 1}, 1e-9) {
		t.Errorf("Expected (0,0,0) and (0,0,1), got %v and %v", p1, p2)
	}

	q1, q2 := ClosestPointsSegmentSegment(
		mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0},
		mgl64.Vec3{3, 1, 0}, mgl64.Vec3{4, 1, 0},
	)
	if !vecNear(q1, mgl64.Vec3{1, 0, 0}, 1e-9) || !vecNear(q2, mgl64.Vec3{3, 1, 0}, 1e-9) {
		t.Errorf("Expected endpoints (1,0,0) and (3,1,0), got %v and %v", q1, q2)
	}
}

func TestBarycentric(t *testing.T) {
	a := mgl64.Vec3{0, 0, 0}
	b := mgl64.Vec3{1, 0, 0}
	c := mgl64.Vec3{0, 1, 0}

	u, v, w, ok := Barycentric(mgl64.Vec3{0.25, 0.25, 0}, a, b, c)
	if !ok {
		t.Fatal("Expected valid coordinates")
	}
	if math.Abs(u-0.5) > 1e-12 || math.Abs(v-0.25) > 1e-12 || math.Abs(w-0.25) > 1e-12 {
		t.Errorf("Expected (0.5,0.25,0.25), got (%v,%v,%v)", u, v, w)
	}

	if _, _, _, ok := Barycentric(a, a, b, mgl64.Vec3{2, 0, 0}); ok {
		t.Error("Expected degenerate triangle to be rejected")
	}
}
