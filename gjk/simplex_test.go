package gjk

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func point(v mgl64.Vec3) SupportPoint {
	return SupportPoint{Support: v, A: v, B: mgl64.Vec3{}}
}

func simplexOf(points ...mgl64.Vec3) *Simplex {
	s := &Simplex{}
	for _, p := range points {
		s.Push(point(p))
	}
	return s
}

func TestSimplexPush(t *testing.T) {
	t.Run("grows to a tetrahedron", func(t *testing.T) {
		s := simplexOf(
			mgl64.Vec3{1, 0, 0},
			mgl64.Vec3{0, 1, 0},
			mgl64.Vec3{0, 0, 1},
			mgl64.Vec3{-1, -1, -1},
		)
		if s.Count != 4 {
			t.Errorf("Count = %d, want 4", s.Count)
		}
	})

	t.Run("panics past four points", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("Expected panic on fifth push")
			}
		}()
		s := simplexOf(
			mgl64.Vec3{1, 0, 0},
			mgl64.Vec3{0, 1, 0},
			mgl64.Vec3{0, 0, 1},
			mgl64.Vec3{-1, -1, -1},
		)
		s.Push(point(mgl64.Vec3{2, 2, 2}))
	})

	t.Run("reset empties the simplex", func(t *testing.T) {
		s := simplexOf(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0})
		s.Reset()
		if s.Count != 0 {
			t.Errorf("Count after Reset = %d, want 0", s.Count)
		}
	})
}

func TestSimplexLine(t *testing.T) {
	t.Run("origin beside the segment", func(t *testing.T) {
		// Segment from (-1,1,0) to (1,1,0); the origin sits below it.
		s := simplexOf(mgl64.Vec3{-1, 1, 0}, mgl64.Vec3{1, 1, 0})
		dir := mgl64.Vec3{}

		if s.NextDir(&dir) {
			t.Error("Line beside the origin must not report enclosure")
		}
		if s.Count != 2 {
			t.Errorf("Count = %d, want segment kept", s.Count)
		}
		if dir.Y() >= 0 {
			t.Errorf("Search direction %v should point toward the origin (-Y)", dir)
		}
	})

	t.Run("origin on the segment", func(t *testing.T) {
		s := simplexOf(mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{1, 0, 0})
		dir := mgl64.Vec3{}

		if !s.NextDir(&dir) {
			t.Error("Origin on the segment must report enclosure")
		}
	})

	t.Run("origin in the vertex region of the newest point", func(t *testing.T) {
		// Both points on the same side; origin closest to A = (1,0,0).
		s := simplexOf(mgl64.Vec3{3, 0, 0}, mgl64.Vec3{1, 0, 0})
		dir := mgl64.Vec3{}

		if s.NextDir(&dir) {
			t.Error("Origin past the segment end must not report enclosure")
		}
		if s.Count != 1 {
			t.Errorf("Count = %d, want collapse to newest point", s.Count)
		}
		if dir.X() >= 0 {
			t.Errorf("Search direction %v should point from A toward the origin", dir)
		}
	})
}

func TestSimplexTriangle(t *testing.T) {
	t.Run("origin above the face keeps the triangle", func(t *testing.T) {
		s := simplexOf(
			mgl64.Vec3{1, 0, -1},
			mgl64.Vec3{0, 1, -1},
			mgl64.Vec3{-1, -1, -1},
		)
		dir := mgl64.Vec3{}

		if s.NextDir(&dir) {
			t.Error("Triangle must not report enclosure in 3D")
		}
		if s.Count != 3 {
			t.Errorf("Count = %d, want triangle kept", s.Count)
		}
		// All points sit at z=-1; the search must head toward the origin.
		if dir.Z() <= 0 {
			t.Errorf("Search direction %v should have positive Z", dir)
		}
	})

	t.Run("origin outside an edge collapses to the edge", func(t *testing.T) {
		// Triangle far in +X; origin lies outside the edge nearest to it.
		s := simplexOf(
			mgl64.Vec3{5, 3, 0},
			mgl64.Vec3{2, -2, 0},
			mgl64.Vec3{2, 2, 0},
		)
		dir := mgl64.Vec3{}

		if s.NextDir(&dir) {
			t.Error("Triangle must not report enclosure")
		}
		if s.Count > 2 {
			t.Errorf("Count = %d, want collapse to an edge or vertex", s.Count)
		}
	})

	t.Run("collinear points degrade to a line", func(t *testing.T) {
		s := simplexOf(
			mgl64.Vec3{-2, 1, 0},
			mgl64.Vec3{0, 1, 0},
			mgl64.Vec3{2, 1, 0},
		)
		dir := mgl64.Vec3{}

		if s.NextDir(&dir) {
			t.Error("Collinear triangle beside the origin must not report enclosure")
		}
	})
}

func TestSimplexTetrahedron(t *testing.T) {
	t.Run("origin enclosed", func(t *testing.T) {
		s := simplexOf(
			mgl64.Vec3{0, 0, 2},
			mgl64.Vec3{-2, -2, -1},
			mgl64.Vec3{2, -2, -1},
			mgl64.Vec3{0, 2, -1},
		)
		dir := mgl64.Vec3{}

		if !s.NextDir(&dir) {
			t.Error("Tetrahedron around the origin must report enclosure")
		}
	})

	t.Run("origin outside collapses to a face", func(t *testing.T) {
		s := simplexOf(
			mgl64.Vec3{5, 5, 5},
			mgl64.Vec3{6, 5, 5},
			mgl64.Vec3{5, 6, 5},
			mgl64.Vec3{5, 5, 6},
		)
		dir := mgl64.Vec3{}

		if s.NextDir(&dir) {
			t.Error("Origin outside the tetrahedron must not report enclosure")
		}
		if s.Count > 3 {
			t.Errorf("Count = %d, want collapse to at most a triangle", s.Count)
		}
	})
}
