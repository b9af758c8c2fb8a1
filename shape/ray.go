package shape

import "github.com/go-gl/mathgl/mgl64"

// Ray is a half-line from Origin along the normalized Dir.
type Ray struct {
	Origin mgl64.Vec3
	Dir    mgl64.Vec3
}

// NewRay creates a ray, normalizing dir.
func NewRay(origin, dir mgl64.Vec3) Ray {
	return Ray{Origin: origin, Dir: dir.Normalize()}
}

// Point returns the point at parameter t along the ray.
func (r Ray) Point(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// CheckSphere reports whether the ray passes through a sphere at origin.
// Cheap pruning test; the exact hit parameter is computed elsewhere.
func (r Ray) CheckSphere(bound Sphere, origin mgl64.Vec3) bool {
	to := origin.Sub(r.Origin)

	t := to.Dot(r.Dir)
	if t < 0 {
		// Sphere center behind the ray; only hits if the origin is inside.
		return to.LenSqr() < bound.Radius*bound.Radius
	}

	closest := to.Sub(r.Dir.Mul(t))
	return closest.LenSqr() < bound.Radius*bound.Radius
}
