package gjk

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/ten3roberts/ivy-sub001/shape"
)

// SupportPoint is a point on the boundary of the Minkowski difference A - B.
// It carries the originating world-space support points of both shapes so
// contact points can later be reconstructed by barycentric interpolation.
type SupportPoint struct {
	// Support is the difference point A - B.
	Support mgl64.Vec3
	// A is the support point on shape A in world space.
	A mgl64.Vec3
	// B is the support point on shape B in world space.
	B mgl64.Vec3
}

// MinkowskiSupport computes a support point in the Minkowski difference
// (A - B) along a world-space direction.
//
// The Minkowski difference A - B is the set of all vectors (a - b) with
// a ∈ A, b ∈ B; two convex shapes overlap iff this set contains the origin.
// Only the extreme points in any direction are ever needed:
//
//	support(A - B, d) = support(A, d) - support(B, -d)
//
// dir must be non-zero; callers guard degenerate directions before
// normalizing.
func MinkowskiSupport(a, b shape.TransformedShape, dir mgl64.Vec3) SupportPoint {
	supportA := a.SupportWorld(dir)
	supportB := b.SupportWorld(dir.Mul(-1))

	return SupportPoint{
		Support: supportA.Sub(supportB),
		A:       supportA,
		B:       supportB,
	}
}
