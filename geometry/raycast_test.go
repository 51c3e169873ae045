package geometry

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// =============================================================================
// Ray Cast Tests
// =============================================================================

func TestRaycastAABB(t *testing.T) {
	box := AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}}

	t.Run("hit from outside", func(t *testing.T) {
		hit, ok := RaycastAABB(mgl64.Vec3{-5, 0.5, 0.5}, mgl64.Vec3{1, 0, 0}, box, 100)
		if !ok {
			t.Fatal("Expected hit")
		}
		if math.Abs(hit.Distance-5) > 1e-12 {
			t.Errorf("Expected distance 5, got %v", hit.Distance)
		}
		if !vecNear(hit.Point, mgl64.Vec3{0, 0.5, 0.5}, 1e-12) {
			t.Errorf("Expected point (0,0.5,0.5), got %v", hit.Point)
		}
		if hit.Normal != (mgl64.Vec3{-1, 0, 0}) {
			t.Errorf("Expected normal (-1,0,0), got %v", hit.Normal)
		}
	})

	t.Run("hit the top face from above", func(t *testing.T) {
		hit, ok := RaycastAABB(mgl64.Vec3{0.5, 4, 0.5}, mgl64.Vec3{0, -2, 0}, box, 100)
		if !ok {
			t.Fatal("Expected hit")
		}
		if hit.Normal != (mgl64.Vec3{0, 1, 0}) {
			t.Errorf("Expected normal (0,1,0), got %v", hit.Normal)
		}
		if math.Abs(hit.Distance-3) > 1e-12 {
			t.Errorf("Expected distance 3, got %v", hit.Distance)
		}
	})

	t.Run("beyond max distance", func(t *testing.T) {
		if _, ok := RaycastAABB(mgl64.Vec3{-5, 0.5, 0.5}, mgl64.Vec3{1, 0, 0}, box, 4.9); ok {
			t.Error("Expected miss beyond max distance")
		}
	})

	t.Run("pointing away", func(t *testing.T) {
		if _, ok := RaycastAABB(mgl64.Vec3{-5, 0.5, 0.5}, mgl64.Vec3{-1, 0, 0}, box, 100); ok {
			t.Error("Expected miss")
		}
	})

	t.Run("parallel outside the slab", func(t *testing.T) {
		if _, ok := RaycastAABB(mgl64.Vec3{-5, 2, 0.5}, mgl64.Vec3{1, 0, 0}, box, 100); ok {
			t.Error("Expected miss")
		}
	})

	t.Run("origin inside reports the exit", func(t *testing.T) {
		hit, ok := RaycastAABB(mgl64.Vec3{0.5, 0.5, 0.5}, mgl64.Vec3{1, 0, 0}, box, 100)
		if !ok {
			t.Fatal("Expected hit")
		}
		if math.Abs(hit.Distance-0.5) > 1e-12 || hit.Normal != (mgl64.Vec3{1, 0, 0}) {
			t.Errorf("Expected exit at 0.5 through +X, got %v", hit)
		}
	})

	t.Run("zero direction", func(t *testing.T) {
		if _, ok := RaycastAABB(mgl64.Vec3{-5, 0.5, 0.5}, mgl64.Vec3{}, box, 100); ok {
			t.Error("Expected zero direction to miss")
		}
	})
}

func TestRaycastSphere(t *testing.T) {
	s := Sphere{Center: mgl64.Vec3{0, 0, 10}, Radius: 2}

	hit, ok := RaycastSphere(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, 1}, s, 100)
	if !ok {
		t.Fatal("Expected hit")
	}
	if math.Abs(hit.Distance-8) > 1e-12 {
		t.Errorf("Expected distance 8, got %v", hit.Distance)
	}
	if !vecNear(hit.Normal, mgl64.Vec3{0, 0, -1}, 1e-12) {
		t.Errorf("Expected normal (0,0,-1), got %v", hit.Normal)
	}

	if _, ok := RaycastSphere(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, 1}, s, 7); ok {
		t.Error("Expected miss beyond max distance")
	}
	if _, ok := RaycastSphere(mgl64.Vec3{0, 3, 0}, mgl64.Vec3{0, 0, 1}, s, 100); ok {
		t.Error("Expected ray passing above the sphere to miss")
	}
	if _, ok := RaycastSphere(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, -1}, s, 100); ok {
		t.Error("Expected sphere behind the ray to be missed")
	}
}

func TestRaycastTriangle(t *testing.T) {
	tri := NewTriangle(mgl64.Vec3{-1, 0, -1}, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{1, 0, -1})

	hit, ok := RaycastTriangle(mgl64.Vec3{0, 5, 0}, mgl64.Vec3{0, -1, 0}, tri, 100)
	if !ok {
		t.Fatal("Expected hit")
	}
	if math.Abs(hit.Distance-5) > 1e-12 {
		t.Errorf("Expected distance 5, got %v", hit.Distance)
	}
	if !vecNear(hit.Normal, mgl64.Vec3{0, 1, 0}, 1e-12) {
		t.Errorf("Expected face normal (0,1,0), got %v", hit.Normal)
	}

	if _, ok := RaycastTriangle(mgl64.Vec3{5, 5, 0}, mgl64.Vec3{0, -1, 0}, tri, 100); ok {
		t.Error("Expected ray outside the triangle to miss")
	}
	if _, ok := RaycastTriangle(mgl64.Vec3{0, 5, 0}, mgl64.Vec3{1, 0, 0}, tri, 100); ok {
		t.Error("Expected parallel ray to miss")
	}
}

func TestRaycastMesh_Nearest(t *testing.T) {
	m := NewMesh([]Triangle{
		NewTriangle(mgl64.Vec3{-1, 0, -1}, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{1, 0, -1}),
		NewTriangle(mgl64.Vec3{-1, 2, -1}, mgl64.Vec3{0, 2, 1}, mgl64.Vec3{1, 2, -1}),
	})

	hit, ok := RaycastMesh(mgl64.Vec3{0, 5, 0}, mgl64.Vec3{0, -1, 0}, m, mgl64.Ident4(), 100)
	if !ok {
		t.Fatal("Expected hit")
	}
	if math.Abs(hit.Distance-3) > 1e-12 {
		t.Errorf("Expected the nearest triangle at distance 3, got %v", hit.Distance)
	}

	hit, ok = RaycastMesh(mgl64.Vec3{0, 5, 0}, mgl64.Vec3{0, -1, 0}, m, mgl64.Translate3D(0, -1, 0), 100)
	if !ok || math.Abs(hit.Distance-4) > 1e-12 {
		t.Errorf("Expected the transformed mesh hit at distance 4, got %v (%v)", hit.Distance, ok)
	}

	if _, ok := RaycastMesh(mgl64.Vec3{0, 5, 0}, mgl64.Vec3{0, -1, 0}, m, mgl64.Ident4(), 2); ok {
		t.Error("Expected miss beyond max distance")
	}
}

func TestRaycastPlane(t *testing.T) {
	ground := NewPlaneFromPoint(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, 0})

	hit, ok := RaycastPlane(mgl64.Vec3{3, 2, 1}, mgl64.Vec3{0, -1, 0}, ground, 10)
	if !ok {
		t.Fatal("Expected hit")
	}
	if !vecNear(hit.Point, mgl64.Vec3{3, 0, 1}, 1e-12) || hit.Normal != (mgl64.Vec3{0, 1, 0}) {
		t.Errorf("Expected hit at (3,0,1) facing up, got %v", hit)
	}

	if _, ok := RaycastPlane(mgl64.Vec3{0, 2, 0}, mgl64.Vec3{1, 0, 0}, ground, 10); ok {
		t.Error("Expected parallel ray to miss")
	}
}
