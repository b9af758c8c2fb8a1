// Package mpr implements Minkowski Portal Refinement, a self-contained
// boolean intersection test for convex shapes.
//
// MPR works directly on the shapes' support functions and does not depend on
// GJK or EPA: an interior point of the Minkowski difference (the difference
// of the shapes' centers) anchors a triangular "portal" that is refined until
// the origin ray through the portal is either proven inside or outside the
// difference. It is the cheaper test when only a yes/no answer is required.
package mpr

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/ten3roberts/ivy-sub001/shape"
)

const (
	// tolerance guards the degenerate-geometry branches.
	tolerance = 1e-6

	// maxIterations bounds both the portal-construction and refinement
	// loops. Portal refinement only fails to terminate on pathological
	// input whose failure mode is near-boundary, so hitting the cap is
	// reported as intersecting.
	maxIterations = 20
)

// Intersect reports whether two transformed convex shapes overlap.
func Intersect(a, b shape.TransformedShape) bool {
	support := func(dir mgl64.Vec3) mgl64.Vec3 {
		return a.SupportWorld(dir).Sub(b.SupportWorld(dir.Mul(-1)))
	}

	// v0: candidate interior point of the Minkowski difference. The
	// difference of the geometric centers always lies inside it.
	v0 := a.Center().Sub(b.Center())

	if v0.Len() < tolerance {
		// Coincident centers: nudge so the origin ray is well defined.
		v0 = mgl64.Vec3{0.001, 0, 0}
	}

	dir1 := v0.Mul(-1).Normalize()
	v1 := support(dir1)

	// v1 did not pass the origin.
	if v1.Dot(dir1) <= 0 {
		return false
	}

	dir2 := v1.Cross(v0)
	if dir2.Len() < tolerance {
		// Origin on the line through v0 and v1, which both bracket it.
		return true
	}
	dir2 = dir2.Normalize()

	v2 := support(dir2)

	// v2 did not pass the origin.
	if v2.Dot(dir2) <= 0 {
		return false
	}

	// Build a valid portal: refine (v1, v2, v3) until the origin ray from v0
	// passes through the triangle.
	var v3 mgl64.Vec3
	for i := 0; ; i++ {
		if i >= maxIterations {
			return true
		}

		normal := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()

		candidate := support(normal)
		if candidate.Dot(normal) <= 0 {
			return false
		}

		if normal.Dot(dir1) < 0 {
			// Portal wound the wrong way around the origin ray.
			v1, v2 = v2, v1
			continue
		}

		if candidate.Cross(v2).Dot(v0) < 0 {
			v1 = candidate
			continue
		}

		if v1.Cross(candidate).Dot(v0) < 0 {
			v2 = candidate
			continue
		}

		v3 = candidate
		break
	}

	// Refine the portal toward the origin.
	for i := 0; ; i++ {
		if i >= maxIterations {
			return true
		}

		portal := v2.Sub(v1).Cross(v3.Sub(v1)).Normalize()

		// The portal face is past the origin: v0 and (v1, v2, v3) form a
		// tetrahedron enclosing it.
		if portal.Dot(v1) >= 0 {
			return true
		}

		v4 := support(portal)

		// No further progress possible: the support point does not pass the
		// portal plane, or barely improves on v3.
		if v4.Dot(portal) <= tolerance || v4.Sub(v3).Dot(portal) <= tolerance {
			return false
		}

		// Replace whichever portal vertex the origin-ray sidedness tests
		// single out, keeping the origin ray inside the portal.
		if v4.Cross(v1).Dot(v0) < 0 {
			if v4.Cross(v2).Dot(v0) < 0 {
				v1 = v4
			} else {
				v3 = v4
			}
		} else if v4.Cross(v3).Dot(v0) < 0 {
			v2 = v4
		} else {
			v1 = v4
		}
	}
}
