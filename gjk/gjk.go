// Package gjk implements the Gilbert-Johnson-Keerthi intersection test for
// convex shapes.
//
// GJK detects whether two convex shapes overlap by testing whether their
// Minkowski difference contains the origin, building a simplex incrementally
// from support points. Typical convergence is 3-6 iterations.
//
// On intersection the terminal simplex is returned; package epa consumes it
// to extract penetration depth and the contact normal.
//
// References:
//   - Gilbert, Johnson, Keerthi: "A Fast Procedure for Computing the Distance
//     Between Complex Objects in Three-Dimensional Space" (1988)
//   - Van den Bergen: "Collision Detection in Interactive 3D Environments" (2003)
package gjk

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/ten3roberts/ivy-sub001/shape"
)

// MaxIterations bounds the main loop against numerical non-termination.
// The simplex refinement either strictly encloses or rejects each step, so
// the cap is a safety net and is effectively never reached for valid convex
// input.
const MaxIterations = 32

// GJK performs an intersection test between two transformed convex shapes.
//
// The simplex is seeded with a support point along the separating-axis guess
// (the difference of the shapes' world centers), then refined toward the
// origin. The moment a new support point fails to pass the origin along the
// search direction the shapes are proven separated.
//
// Returns whether the shapes intersect, along with the final simplex. On
// intersection the simplex encloses the origin; it is usually a tetrahedron,
// but degenerate configurations (touching contacts, collinear support
// points such as sphere/sphere) can prove enclosure with fewer points.
func GJK(a, b shape.TransformedShape) (bool, *Simplex) {
	simplex := &Simplex{}
	return gjk(a, b, simplex), simplex
}

// Intersect is the pooled variant used by the collision pipeline. The
// returned simplex comes from SimplexPool; the caller returns it after EPA
// has consumed it.
func Intersect(a, b shape.TransformedShape) (bool, *Simplex) {
	simplex := SimplexPool.Get().(*Simplex)
	simplex.Reset()

	return gjk(a, b, simplex), simplex
}

func gjk(a, b shape.TransformedShape, simplex *Simplex) bool {
	// Initial separating-axis guess: toward the other shape. Starting toward
	// the other shape typically reduces iterations over a fixed axis.
	dir := b.Center().Sub(a.Center())
	if dir.LenSqr() < 1e-10 {
		dir = mgl64.Vec3{1, 0, 0}
	}

	simplex.Push(MinkowskiSupport(a, b, dir))

	dir = simplex.Points[0].Support.Mul(-1)

	// First support point at the origin: shapes touch at a single point.
	if dir.LenSqr() < 1e-16 {
		return true
	}

	for i := 0; i < MaxIterations; i++ {
		p := MinkowskiSupport(a, b, dir)

		// The new point did not pass the origin along the search direction:
		// the origin is unreachable, the shapes are separated.
		if p.Support.Dot(dir) < 0 {
			return false
		}

		simplex.Push(p)

		if simplex.NextDir(&dir) {
			return true
		}
	}

	// Failed to converge; treat as separated.
	return false
}
