package shape

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BoundingBox is an axis-aligned bounding box in world space.
type BoundingBox struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// NewBoundingBox creates a box from its center and half-extents.
func NewBoundingBox(origin, halfExtents mgl64.Vec3) BoundingBox {
	return BoundingBox{
		Min: origin.Sub(halfExtents),
		Max: origin.Add(halfExtents),
	}
}

// Origin returns the center of the box.
func (b BoundingBox) Origin() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// HalfExtents returns the half-extents of the box.
func (b BoundingBox) HalfExtents() mgl64.Vec3 {
	return b.Max.Sub(b.Min).Mul(0.5)
}

// Overlaps reports whether the boxes overlap on all three axes.
func (b BoundingBox) Overlaps(other BoundingBox) bool {
	return b.Max.X() >= other.Min.X() && b.Min.X() <= other.Max.X() &&
		b.Max.Y() >= other.Min.Y() && b.Min.Y() <= other.Max.Y() &&
		b.Max.Z() >= other.Min.Z() && b.Min.Z() <= other.Max.Z()
}

// Contains reports whether other is fully enclosed, not merely overlapping.
func (b BoundingBox) Contains(other BoundingBox) bool {
	return b.Min.X() <= other.Min.X() && b.Max.X() >= other.Max.X() &&
		b.Min.Y() <= other.Min.Y() && b.Max.Y() >= other.Max.Y() &&
		b.Min.Z() <= other.Min.Z() && b.Max.Z() >= other.Max.Z()
}

// ContainsPoint reports whether a point is inside the box.
func (b BoundingBox) ContainsPoint(point mgl64.Vec3) bool {
	return point.X() >= b.Min.X() && point.X() <= b.Max.X() &&
		point.Y() >= b.Min.Y() && point.Y() <= b.Max.Y() &&
		point.Z() >= b.Min.Z() && point.Z() <= b.Max.Z()
}

// ContainsSphere reports whether a sphere at origin is fully enclosed on all
// three axes.
func (b BoundingBox) ContainsSphere(bound Sphere, origin mgl64.Vec3) bool {
	r := bound.Radius
	return origin.X()+r < b.Max.X() && origin.X()-r > b.Min.X() &&
		origin.Y()+r < b.Max.Y() && origin.Y()-r > b.Min.Y() &&
		origin.Z()+r < b.Max.Z() && origin.Z()-r > b.Min.Z()
}

// CheckRay performs a slab-method ray intersection test. Per-axis t intervals
// are computed from the inverse ray direction; the ray misses when the
// largest entry exceeds the smallest exit, or the box lies entirely behind
// the ray.
func (b BoundingBox) CheckRay(ray Ray) bool {
	tmin := math.Inf(-1)
	tmax := math.Inf(1)

	for axis := 0; axis < 3; axis++ {
		origin := ray.Origin[axis]
		dir := ray.Dir[axis]

		if dir == 0 {
			// Parallel to the slab: miss unless the origin is inside it.
			if origin < b.Min[axis] || origin > b.Max[axis] {
				return false
			}
			continue
		}

		invDir := 1.0 / dir
		t1 := (b.Min[axis] - origin) * invDir
		t2 := (b.Max[axis] - origin) * invDir
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
	}

	return tmin <= tmax && tmax >= 0
}
