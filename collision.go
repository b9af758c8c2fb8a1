package collision

import (
	"github.com/ten3roberts/ivy-sub001/epa"
	"github.com/ten3roberts/ivy-sub001/gjk"
	"github.com/ten3roberts/ivy-sub001/shape"
)

// Collision is one confirmed overlapping pair, with the resolution data the
// narrow phase extracted. Resolution itself is the host's concern.
type Collision struct {
	A, B    Entity
	Contact epa.Intersection
}

// ShapeSource resolves an entity to its collision shape. The tree stores
// only derived bounding data; concrete shapes stay in the host's component
// storage.
type ShapeSource func(Entity) shape.Shape

// CheckCollisions runs the broad and narrow phases over the whole tree and
// returns every confirmed collision.
//
// Broad phase: a node's objects are candidates against each other and
// against the objects of every ancestor node (straddlers), pruned by
// bounding-sphere overlap. Narrow phase: GJK on each surviving pair, then
// EPA for contact data on intersection.
func (t *CollisionTree) CheckCollisions(shapes ShapeSource) []Collision {
	var collisions []Collision

	// Ancestor objects accumulate on this stack during descent and are
	// truncated when a subtree is done.
	stack := make([]*Object, 0, 64)

	t.checkNode(t.root, shapes, &stack, &collisions)

	return collisions
}

func (t *CollisionTree) checkNode(current NodeIndex, shapes ShapeSource, stack *[]*Object, out *[]Collision) {
	n := t.node(current)
	oldLen := len(*stack)

	objects := n.objects
	for i := range objects {
		a := &objects[i]

		for j := i + 1; j < len(objects); j++ {
			t.checkPair(a, &objects[j], shapes, out)
		}
		for _, b := range *stack {
			t.checkPair(a, b, shapes, out)
		}
	}

	for i := range objects {
		*stack = append(*stack, &objects[i])
	}

	if !n.leaf() {
		children := n.children
		for _, child := range children {
			t.checkNode(child, shapes, stack, out)
		}
	}

	*stack = (*stack)[:oldLen]
}

func (t *CollisionTree) checkPair(a, b *Object, shapes ShapeSource, out *[]Collision) {
	if !a.Bound.Overlaps(a.Origin, b.Bound, b.Origin) {
		return
	}

	sa := shape.NewTransformedShape(shapes(a.Entity), a.Transform)
	sb := shape.NewTransformedShape(shapes(b.Entity), b.Transform)

	intersecting, simplex := gjk.Intersect(sa, sb)
	if intersecting {
		*out = append(*out, Collision{
			A:       a.Entity,
			B:       b.Entity,
			Contact: epa.EPA(sa, sb, simplex),
		})
	}

	gjk.SimplexPool.Put(simplex)
}
