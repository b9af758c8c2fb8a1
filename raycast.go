package collision

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ten3roberts/ivy-sub001/epa"
	"github.com/ten3roberts/ivy-sub001/shape"
)

// RayIntersection is one ray hit. Contact.Depth is the world-space distance
// from the ray origin to the hit point; Contact.Normal is the surface
// normal at the hit.
type RayIntersection struct {
	Entity  Entity
	Contact epa.Intersection
}

// SortByDepth orders intersections nearest first. Depths are finite by
// construction.
func SortByDepth(hits []RayIntersection) {
	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Contact.Depth < hits[j].Contact.Depth
	})
}

// RayCaster casts a ray through the collision tree: tree nodes are pruned by
// a slab test against their bounding box, node objects by a bounding-sphere
// test, and survivors get an exact primitive intersection.
type RayCaster struct {
	ray    shape.Ray
	shapes ShapeSource
}

// NewRayCaster creates a caster for a ray. The shape source resolves tracked
// entities to their collision shapes.
func NewRayCaster(ray shape.Ray, shapes ShapeSource) *RayCaster {
	return &RayCaster{ray: ray, shapes: shapes}
}

// Accept visits a node if the ray can hit its bounds, yielding the node's
// candidate objects.
func (rc *RayCaster) Accept(index NodeIndex, tree *CollisionTree) (*RayCastIterator, bool) {
	n := tree.node(index)
	if !n.Bounds().CheckRay(rc.ray) {
		return nil, false
	}

	return &RayCastIterator{caster: rc, objects: n.objects}, true
}

// Cast runs the full query, returning a lazy, one-shot sequence of hits in
// traversal order. Use SortByDepth for nearest-first ordering.
func (rc *RayCaster) Cast(tree *CollisionTree) *RayCastSequence {
	return &RayCastSequence{query: Query[*RayCastIterator](tree, rc)}
}

// RayCastIterator yields the hits among one node's objects.
type RayCastIterator struct {
	caster  *RayCaster
	objects []Object
}

// Next returns the next hit in this node, or false when the node's objects
// are exhausted.
func (it *RayCastIterator) Next() (RayIntersection, bool) {
	for len(it.objects) > 0 {
		object := &it.objects[0]
		it.objects = it.objects[1:]

		if !it.caster.ray.CheckSphere(object.Bound, object.Origin) {
			continue
		}

		sh := it.caster.shapes(object.Entity)
		if contact, ok := RayIntersect(it.caster.ray, sh, object.Transform); ok {
			return RayIntersection{Entity: object.Entity, Contact: contact}, true
		}
	}

	return RayIntersection{}, false
}

// RayCastSequence flattens the per-node iterators of a ray query into one
// stream of intersections.
type RayCastSequence struct {
	query   *TreeQuery[*RayCastIterator]
	current *RayCastIterator
}

// Next returns the next intersection, or false when the whole tree has been
// traversed.
func (s *RayCastSequence) Next() (RayIntersection, bool) {
	for {
		if s.current != nil {
			if hit, ok := s.current.Next(); ok {
				return hit, true
			}
			s.current = nil
		}

		it, ok := s.query.Next()
		if !ok {
			return RayIntersection{}, false
		}
		s.current = it
	}
}

// Collect drains the sequence into a slice.
func (s *RayCastSequence) Collect() []RayIntersection {
	var hits []RayIntersection
	for {
		hit, ok := s.Next()
		if !ok {
			return hits
		}
		hits = append(hits, hit)
	}
}

// RayIntersect performs an exact intersection test between a world-space ray
// and a transformed primitive. The ray is moved into the shape's local space
// where each primitive has an analytic intersection; the hit is transformed
// back to world space, so Depth is a world-space distance.
func RayIntersect(ray shape.Ray, sh shape.Shape, transform shape.Transform) (epa.Intersection, bool) {
	localOrigin := transform.Inverse.Mul4x1(ray.Origin.Vec4(1)).Vec3()
	localDir := transform.InverseDir(ray.Dir)

	scale := localDir.Len()
	if scale < 1e-12 {
		return epa.Intersection{}, false
	}
	localRay := shape.Ray{Origin: localOrigin, Dir: localDir.Mul(1 / scale)}

	var (
		t      float64
		normal mgl64.Vec3
		ok     bool
	)

	switch prim := sh.(type) {
	case shape.Sphere:
		t, normal, ok = raySphere(localRay, prim.Radius)
	case shape.Cube:
		t, normal, ok = rayBox(localRay, prim.HalfExtents)
	case shape.Capsule:
		t, normal, ok = rayCapsule(localRay, prim.HalfHeight, prim.Radius)
	default:
		// Only the shipped primitives have analytic intersectors; unknown
		// shapes fall back to their bounding sphere.
		t, normal, ok = raySphere(localRay, prim.MaxRadius())
	}

	if !ok {
		return epa.Intersection{}, false
	}

	point := transform.TransformPoint(localRay.Point(t))
	worldNormal := transform.TransformDir(normal)
	if worldNormal.LenSqr() > 1e-12 {
		worldNormal = worldNormal.Normalize()
	}

	return epa.Intersection{
		Point:  point,
		Depth:  point.Sub(ray.Origin).Len(),
		Normal: worldNormal,
	}, true
}

// raySphere solves |o + t*d|^2 = r^2 for the smallest t >= 0.
func raySphere(ray shape.Ray, radius float64) (float64, mgl64.Vec3, bool) {
	o := ray.Origin
	b := o.Dot(ray.Dir)
	c := o.LenSqr() - radius*radius

	disc := b*b - c
	if disc < 0 {
		return 0, mgl64.Vec3{}, false
	}

	sqrt := math.Sqrt(disc)
	t := -b - sqrt
	if t < 0 {
		// Origin inside the sphere; exit point.
		t = -b + sqrt
	}
	if t < 0 {
		return 0, mgl64.Vec3{}, false
	}

	return t, ray.Point(t).Normalize(), true
}

// rayBox is the slab method with the entry face recorded for the normal.
func rayBox(ray shape.Ray, halfExtents mgl64.Vec3) (float64, mgl64.Vec3, bool) {
	tmin := math.Inf(-1)
	tmax := math.Inf(1)
	axis := 0
	sign := 1.0

	for i := 0; i < 3; i++ {
		if ray.Dir[i] == 0 {
			if math.Abs(ray.Origin[i]) > halfExtents[i] {
				return 0, mgl64.Vec3{}, false
			}
			continue
		}

		invDir := 1.0 / ray.Dir[i]
		t1 := (-halfExtents[i] - ray.Origin[i]) * invDir
		t2 := (halfExtents[i] - ray.Origin[i]) * invDir

		s := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			s = 1.0
		}

		if t1 > tmin {
			tmin = t1
			axis = i
			sign = s
		}
		tmax = min(tmax, t2)
	}

	if tmin > tmax || tmax < 0 {
		return 0, mgl64.Vec3{}, false
	}

	t := tmin
	var normal mgl64.Vec3
	normal[axis] = sign

	if t < 0 {
		// Origin inside the box; exit point, outward normal unknown enough
		// to just use the exit direction.
		t = tmax
		normal = mgl64.Vec3{}
		normal[axis] = -sign
	}

	return t, normal, true
}

// rayCapsule intersects the infinite cylinder around the local Y axis and
// clamps to the cap spheres at ±halfHeight.
func rayCapsule(ray shape.Ray, halfHeight, radius float64) (float64, mgl64.Vec3, bool) {
	o := ray.Origin
	d := ray.Dir

	// Cylinder: project onto the XZ plane.
	a := d.X()*d.X() + d.Z()*d.Z()

	if a > 1e-12 {
		b := o.X()*d.X() + o.Z()*d.Z()
		c := o.X()*o.X() + o.Z()*o.Z() - radius*radius

		disc := b*b - a*c
		if disc >= 0 {
			sqrt := math.Sqrt(disc)
			for _, t := range [2]float64{(-b - sqrt) / a, (-b + sqrt) / a} {
				if t < 0 {
					continue
				}
				y := o.Y() + t*d.Y()
				if y >= -halfHeight && y <= halfHeight {
					hit := ray.Point(t)
					normal := mgl64.Vec3{hit.X(), 0, hit.Z()}.Normalize()
					return t, normal, true
				}
			}
		}
	}

	// Cap spheres.
	best := math.Inf(1)
	var bestNormal mgl64.Vec3
	found := false

	for _, capY := range [2]float64{halfHeight, -halfHeight} {
		center := mgl64.Vec3{0, capY, 0}
		capRay := shape.Ray{Origin: o.Sub(center), Dir: d}
		if t, normal, ok := raySphere(capRay, radius); ok && t < best {
			best = t
			bestNormal = normal
			found = true
		}
	}

	return best, bestNormal, found
}
