package gjk

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// Simplex is a set of 1-4 support points in Minkowski difference space.
// It evolves during GJK iterations: point → line → triangle → tetrahedron,
// always keeping the feature of the current hull closest to the origin.
// The most recent point is Points[Count-1].
type Simplex struct {
	Points [4]SupportPoint
	Count  int
}

// Reset empties the simplex for reuse.
func (s *Simplex) Reset() {
	s.Count = 0
}

// Push adds a support point. A simplex never grows past four points; GJK
// terminates on the tetrahedron case before another push can happen.
func (s *Simplex) Push(p SupportPoint) {
	if s.Count >= 4 {
		panic("gjk: simplex grown past tetrahedron")
	}
	s.Points[s.Count] = p
	s.Count++
}

// SimplexPool recycles simplexes across GJK calls on the hot path.
var SimplexPool = sync.Pool{
	New: func() interface{} {
		return &Simplex{}
	},
}

// NextDir tests whether the simplex contains the origin and refines it.
//
// It determines which feature of the simplex (vertex, edge, face) is closest
// to the origin, keeps only the relevant points, and writes the next search
// direction. Only the tetrahedron case can prove enclosure.
//
// Returns true when the origin is contained (intersection found); otherwise
// false with dir updated for the next iteration.
func (s *Simplex) NextDir(dir *mgl64.Vec3) bool {
	switch s.Count {
	case 1:
		*dir = s.Points[0].Support.Mul(-1)
		return false
	case 2:
		return s.line(dir)
	case 3:
		return s.triangle(dir)
	case 4:
		return s.tetrahedron(dir)
	}
	return false
}

// line handles the two-point case. The origin is either closest to the most
// recent point A alone, or to the segment AB; a line cannot enclose the
// origin in 3D except when the origin lies exactly on it.
func (s *Simplex) line(dir *mgl64.Vec3) bool {
	a := s.Points[1]
	b := s.Points[0]

	ab := b.Support.Sub(a.Support)
	ao := a.Support.Mul(-1)

	// Degenerate: coincident support points.
	if ab.LenSqr() < 1e-10 {
		if ao.LenSqr() < 1e-10 {
			return true
		}
		s.Points[0] = a
		s.Count = 1
		*dir = ao
		return false
	}

	if ab.Dot(ao) <= 0 {
		// Origin in the vertex region of A: collapse to A.
		s.Points[0] = a
		s.Count = 1
		*dir = ao
		return false
	}

	// Origin beside the segment: search perpendicular to AB toward the
	// origin (triple product).
	perp := ab.Cross(ao).Cross(ab)
	if perp.LenSqr() < 1e-10 {
		// Origin lies on the segment.
		return true
	}

	*dir = perp
	return false
}

// triangle handles the three-point case, testing the edge Voronoi regions in
// sequence and collapsing to the relevant line, or returning the face normal
// (sign-corrected, with winding swapped for the underside).
func (s *Simplex) triangle(dir *mgl64.Vec3) bool {
	a := s.Points[2]
	b := s.Points[1]
	c := s.Points[0]

	ab := b.Support.Sub(a.Support)
	ac := c.Support.Sub(a.Support)
	ao := a.Support.Mul(-1)

	abc := ab.Cross(ac)

	// Degenerate triangle: collinear points, treat as a line.
	if abc.LenSqr() < 1e-12 {
		s.Points[0] = b
		s.Points[1] = a
		s.Count = 2
		return s.line(dir)
	}

	// Outside the AC edge.
	if abc.Cross(ac).Dot(ao) > 0 {
		if ac.Dot(ao) > 0 {
			s.Points[0] = c
			s.Points[1] = a
			s.Count = 2
			*dir = ac.Cross(ao).Cross(ac)
			return false
		}
		s.Points[0] = b
		s.Points[1] = a
		s.Count = 2
		return s.line(dir)
	}

	// Outside the AB edge.
	if ab.Cross(abc).Dot(ao) > 0 {
		s.Points[0] = b
		s.Points[1] = a
		s.Count = 2
		return s.line(dir)
	}

	if abc.Dot(ao) > 0 {
		// Above the triangle.
		*dir = abc
	} else {
		// Below: swap winding so the next tetrahedron is consistently
		// oriented.
		s.Points[0] = b
		s.Points[1] = c
		s.Points[2] = a
		*dir = abc.Mul(-1)
	}

	return false
}

// tetrahedron handles the four-point case: test the origin against the three
// faces containing the newest point and collapse to whichever triangle it is
// outside of. If it is outside none of them it is enclosed.
func (s *Simplex) tetrahedron(dir *mgl64.Vec3) bool {
	a := s.Points[3]
	b := s.Points[2]
	c := s.Points[1]
	d := s.Points[0]

	ab := b.Support.Sub(a.Support)
	ac := c.Support.Sub(a.Support)
	ad := d.Support.Sub(a.Support)
	ao := a.Support.Mul(-1)

	abc := ab.Cross(ac)
	acd := ac.Cross(ad)
	adb := ad.Cross(ab)

	if abc.Dot(ao) > 0 {
		s.Points[0] = c
		s.Points[1] = b
		s.Points[2] = a
		s.Count = 3
		return s.triangle(dir)
	}

	if acd.Dot(ao) > 0 {
		s.Points[0] = d
		s.Points[1] = c
		s.Points[2] = a
		s.Count = 3
		return s.triangle(dir)
	}

	if adb.Dot(ao) > 0 {
		s.Points[0] = b
		s.Points[1] = d
		s.Points[2] = a
		s.Count = 3
		return s.triangle(dir)
	}

	// Origin inside all three tested half-spaces: enclosed.
	return true
}
