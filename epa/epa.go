// Package epa implements the Expanding Polytope Algorithm for computing
// penetration depth once GJK has reported an intersection.
//
// The terminal GJK tetrahedron is expanded face by face toward the boundary
// of the Minkowski difference; the closest face at convergence yields the
// contact normal, penetration depth and, via barycentric reconstruction, the
// contact point on shape A.
//
// References:
//   - Van den Bergen: "Proximity Queries and Penetration Depth Computation
//     on 3D Game Objects" (2001)
package epa

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/ten3roberts/ivy-sub001/gjk"
	"github.com/ten3roberts/ivy-sub001/shape"
)

const (
	// Tolerance is the face-convergence threshold: when a new support point
	// lies within Tolerance of the current closest face's plane, no further
	// expansion is possible in that direction.
	Tolerance = 0.001

	// MaxIterations is a fixed expansion cap. Callers relying on
	// high-precision contacts for thin or ill-conditioned shapes may see
	// early, approximate termination; that is an accepted trade-off at this
	// layer, and the best current estimate is returned.
	MaxIterations = 10
)

// Intersection is the resolution data for one overlapping pair: the contact
// point on shape A, the penetration depth and the outward contact normal
// (pointing from A toward B).
type Intersection struct {
	Point  mgl64.Vec3
	Depth  float64
	Normal mgl64.Vec3
}

// initialFaces is the closed tetrahedron over the four terminal simplex
// points.
var initialFaces = []uint16{
	0, 1, 2,
	0, 3, 1,
	0, 2, 3,
	1, 3, 2,
}

// EPA computes penetration data for two overlapping shapes from the terminal
// GJK simplex. Only call after a positive GJK test.
//
// Each iteration finds the polytope face closest to the origin and pushes it
// outward with a new support point along its normal, until the support point
// no longer escapes the face plane (within Tolerance) or the iteration cap
// is hit. The closest face then carries the contact data.
func EPA(a, b shape.TransformedShape, simplex *gjk.Simplex) Intersection {
	// Touching contacts can terminate GJK before a full tetrahedron is
	// built; there is no polytope to expand then.
	if simplex.Count < 4 {
		return degenerateIntersection(a, b, simplex)
	}

	polytope := polytopePool.Get().(*Polytope)
	defer polytopePool.Put(polytope)
	polytope.Reset()

	polytope.Init(simplex.Points[:4], initialFaces)

	for i := 0; ; i++ {
		face := polytope.FindClosestFace()

		support := gjk.MinkowskiSupport(a, b, face.Normal)
		distance := support.Support.Dot(face.Normal)

		// The support point lies on the closest face: the face is on the
		// Minkowski difference boundary and the search is done.
		if distance-face.Distance <= Tolerance || i >= MaxIterations {
			return Intersection{
				Point:  polytope.ContactPoint(face),
				Depth:  face.Distance,
				Normal: face.Normal,
			}
		}

		polytope.AddPoint(support)
	}
}

// degenerateIntersection estimates contact data when the simplex never grew
// to a tetrahedron (shapes touching at a point or an edge). The closest
// simplex point to the origin stands in for the contact feature.
func degenerateIntersection(a, b shape.TransformedShape, simplex *gjk.Simplex) Intersection {
	if simplex.Count == 0 {
		return Intersection{Normal: mgl64.Vec3{0, 1, 0}}
	}

	closest := simplex.Points[0]
	for _, p := range simplex.Points[1:simplex.Count] {
		if p.Support.LenSqr() < closest.Support.LenSqr() {
			closest = p
		}
	}

	depth := closest.Support.Len()

	normal := b.Center().Sub(a.Center())
	if normal.LenSqr() < 1e-10 {
		normal = mgl64.Vec3{0, 1, 0}
	} else {
		normal = normal.Normalize()
	}

	return Intersection{
		Point:  closest.A,
		Depth:  depth,
		Normal: normal,
	}
}
