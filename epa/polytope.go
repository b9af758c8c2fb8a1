package epa

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ten3roberts/ivy-sub001/gjk"
)

// Face is one triangle of the expanding polytope. Indices refer into the
// polytope's point list; Normal and Distance are the plane equation of the
// face, oriented outward from the origin with Distance >= 0.
//
// The u16 index type bounds the polytope to 65536 points, far beyond what the
// iteration cap allows it to reach.
type Face struct {
	Indices  [3]uint16
	Normal   mgl64.Vec3
	Distance float64
}

// NewFace computes the plane equation for a triangle of polytope points.
// The normal's handedness is corrected so that it points away from the
// origin, which the polytope is guaranteed to enclose.
func NewFace(points []gjk.SupportPoint, indices [3]uint16) Face {
	p1 := points[indices[0]].Support
	p2 := points[indices[1]].Support
	p3 := points[indices[2]].Support

	normal := p2.Sub(p1).Cross(p3.Sub(p1))

	length := normal.Len()
	if length > 1e-12 {
		normal = normal.Mul(1.0 / length)
	}

	distance := normal.Dot(p1)

	// Take care of handedness: the origin is inside, so a negative plane
	// distance means the winding put the normal inward.
	if distance < 0 {
		normal = normal.Mul(-1)
		distance = -distance
	}

	return Face{
		Indices:  indices,
		Normal:   normal,
		Distance: distance,
	}
}

// edges returns the face's directed edges.
func (f Face) edges() [3]edge {
	return [3]edge{
		{f.Indices[0], f.Indices[1]},
		{f.Indices[1], f.Indices[2]},
		{f.Indices[2], f.Indices[0]},
	}
}

type edge struct {
	a, b uint16
}

// Polytope is the convex hull EPA expands face by face. The invariant is
// that the faces always form a closed hull enclosing the origin; AddPoint
// preserves closure by re-triangulating the horizon left by removed faces.
type Polytope struct {
	Points []gjk.SupportPoint
	Faces  []Face

	// Scratch for horizon construction, reused across AddPoint calls.
	horizon []edge
}

// polytopePool recycles polytopes across EPA calls on the hot path.
var polytopePool = sync.Pool{
	New: func() interface{} {
		return &Polytope{
			Points:  make([]gjk.SupportPoint, 0, 32),
			Faces:   make([]Face, 0, 32),
			horizon: make([]edge, 0, 16),
		}
	},
}

// Reset prepares a pooled polytope for reuse.
func (p *Polytope) Reset() {
	p.Points = p.Points[:0]
	p.Faces = p.Faces[:0]
	p.horizon = p.horizon[:0]
}

// Init builds the polytope from points and flat face index triplets.
func (p *Polytope) Init(points []gjk.SupportPoint, indices []uint16) {
	p.Points = append(p.Points[:0], points...)

	p.Faces = p.Faces[:0]
	for i := 0; i+2 < len(indices); i += 3 {
		p.Faces = append(p.Faces, NewFace(p.Points, [3]uint16{indices[i], indices[i+1], indices[i+2]}))
	}
}

// FindClosestFace returns the face with the minimum plane distance to the
// origin. That face is the current best candidate for the contact feature.
func (p *Polytope) FindClosestFace() Face {
	if len(p.Faces) == 0 {
		panic("epa: empty polytope")
	}

	closest := p.Faces[0]
	for _, face := range p.Faces[1:] {
		if face.Distance < closest.Distance {
			closest = face
		}
	}

	return closest
}

// AddPoint expands the polytope with a new support point: every face visible
// from the point is removed, the open boundary loop (horizon) left behind is
// collected, and one new face per horizon edge is created connecting to the
// point, restoring closure.
func (p *Polytope) AddPoint(point gjk.SupportPoint) {
	p.horizon = p.horizon[:0]

	// Remove faces that can see the point, accumulating their edges. An edge
	// shared by two removed faces appears once per face in opposite order and
	// cancels, leaving exactly the boundary loop.
	kept := p.Faces[:0]
	for _, face := range p.Faces {
		visible := face.Normal.Dot(point.Support) > face.Normal.Dot(p.Points[face.Indices[0]].Support)
		if !visible {
			kept = append(kept, face)
			continue
		}

		for _, e := range face.edges() {
			p.addHorizonEdge(e)
		}
	}
	p.Faces = kept

	if len(p.Faces) == 0 && len(p.horizon) == 0 {
		// Would mean the initial tetrahedron was degenerate or inverted.
		panic("epa: all faces removed from polytope")
	}

	newIndex := uint16(len(p.Points))
	p.Points = append(p.Points, point)

	for _, e := range p.horizon {
		p.Faces = append(p.Faces, NewFace(p.Points, [3]uint16{e.a, e.b, newIndex}))
	}
}

// addHorizonEdge inserts an edge into the horizon list, cancelling it against
// its reversed twin if present. The same edge recurring in identical order
// means the face soup stopped being a manifold.
func (p *Polytope) addHorizonEdge(e edge) {
	for i, other := range p.horizon {
		if other.a == e.b && other.b == e.a {
			// Interior edge shared by two visible faces: cancels out.
			p.horizon[i] = p.horizon[len(p.horizon)-1]
			p.horizon = p.horizon[:len(p.horizon)-1]
			return
		}
		if other.a == e.a && other.b == e.b {
			panic("epa: non-manifold polytope, duplicate horizon edge")
		}
	}

	p.horizon = append(p.horizon, e)
}

// ContactPoint reconstructs the contact point on shape A for a face: the
// origin's projection onto the face plane is expressed in barycentric
// coordinates over the face's Minkowski points, and the same weights are
// applied to the originating support points on A.
func (p *Polytope) ContactPoint(face Face) mgl64.Vec3 {
	p1 := p.Points[face.Indices[0]]
	p2 := p.Points[face.Indices[1]]
	p3 := p.Points[face.Indices[2]]

	u, v, w := barycentric(face.Normal.Mul(face.Distance), p1.Support, p2.Support, p3.Support)

	return p1.A.Mul(u).Add(p2.A.Mul(v)).Add(p3.A.Mul(w))
}

// barycentric computes the barycentric coordinates of p in the triangle
// (a, b, c).
func barycentric(p, a, b, c mgl64.Vec3) (u, v, w float64) {
	v0 := b.Sub(a)
	v1 := c.Sub(a)
	v2 := p.Sub(a)

	d00 := v0.Dot(v0)
	d01 := v0.Dot(v1)
	d11 := v1.Dot(v1)
	d20 := v2.Dot(v0)
	d21 := v2.Dot(v1)

	denom := d00*d11 - d01*d01
	if math.Abs(denom) < 1e-12 {
		// Degenerate triangle; fall back to the first vertex.
		return 1, 0, 0
	}

	invDenom := 1.0 / denom
	v = (d11*d20 - d01*d21) * invDenom
	w = (d00*d21 - d01*d20) * invDenom
	u = 1.0 - v - w
	return u, v, w
}
