// Package shape provides the convex collision primitives and transforms the
// narrow-phase algorithms are built on.
//
// Every primitive implements a support function: for a direction d, Support
// returns the point on the shape's boundary maximizing dot(point, d). The
// support function is the only geometric query GJK, EPA and MPR need - shapes
// never expose their full geometry.
package shape

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Shape is a convex collision primitive in its local space.
type Shape interface {
	// Support returns the boundary point furthest along dir.
	// dir must be normalized and non-zero.
	Support(dir mgl64.Vec3) mgl64.Vec3

	// MaxRadius returns the radius of the smallest sphere centered at the
	// local origin that fully encloses the shape. Used for bounding volumes.
	MaxRadius() float64
}

// Sphere is a sphere centered at the local origin.
type Sphere struct {
	Radius float64
}

func (s Sphere) Support(dir mgl64.Vec3) mgl64.Vec3 {
	return dir.Mul(s.Radius)
}

func (s Sphere) MaxRadius() float64 {
	return s.Radius
}

// Overlaps reports whether two spheres at the given centers overlap.
func (s Sphere) Overlaps(origin mgl64.Vec3, other Sphere, otherOrigin mgl64.Vec3) bool {
	totalRadii := s.Radius + other.Radius
	return origin.Sub(otherOrigin).LenSqr() < totalRadii*totalRadii
}

// Enclose returns a sphere fully enclosing the shape under the given uniform
// scale factor.
func Enclose(sh Shape, scale float64) Sphere {
	return Sphere{Radius: sh.MaxRadius() * scale}
}

// Cube is an axis-aligned box in local space, defined by its half-extents.
type Cube struct {
	HalfExtents mgl64.Vec3
}

func (c Cube) Support(dir mgl64.Vec3) mgl64.Vec3 {
	// Pick the corner matching the direction's sign per axis.
	hx, hy, hz := c.HalfExtents.X(), c.HalfExtents.Y(), c.HalfExtents.Z()

	if dir.X() < 0 {
		hx = -hx
	}
	if dir.Y() < 0 {
		hy = -hy
	}
	if dir.Z() < 0 {
		hz = -hz
	}

	return mgl64.Vec3{hx, hy, hz}
}

func (c Cube) MaxRadius() float64 {
	return c.HalfExtents.Len()
}

// Capsule is a sphere-swept segment along the local Y axis.
// HalfHeight is the half-length of the segment, Radius the sweep radius.
type Capsule struct {
	HalfHeight float64
	Radius     float64
}

func (c Capsule) Support(dir mgl64.Vec3) mgl64.Vec3 {
	// Point on the appropriate cap: pick the segment endpoint by the sign of
	// dir.Y, then push out along dir by the radius.
	result := mgl64.Vec3{0, math.Copysign(c.HalfHeight, dir.Y()), 0}
	return result.Add(dir.Mul(c.Radius))
}

func (c Capsule) MaxRadius() float64 {
	return c.HalfHeight + c.Radius
}
