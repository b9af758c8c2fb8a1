// Package collision provides broad-phase collision pruning for a host game
// engine: a binary spatial partition tree over bounded moving objects, a
// broad+narrow collision pipeline built on the gjk and epa packages, and ray
// queries over the tree.
//
// The tree is single-threaded. Callers serialize one mutation
// phase (Register/Update/Remove) against any number of read-only query
// phases per tick; no operation blocks or performs I/O.
package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ten3roberts/ivy-sub001/shape"
)

// Entity is a host-assigned identifier for a tracked object. It is stored
// verbatim and never interpreted.
type Entity uint64

// NodeIndex is a stable handle into the tree's node arena. Nodes are never
// deleted, so an index remains valid for the lifetime of the tree.
type NodeIndex int32

const nilNode NodeIndex = -1

const (
	// nodeCapacity is the inline object capacity of a leaf. A leaf at
	// capacity always splits; it never overflows silently. Interior nodes
	// hold straddlers past this count.
	nodeCapacity = 8

	// boundTolerance is the scale-change threshold below which an object's
	// bounding sphere is not recomputed, avoiding churn from floating-point
	// noise in the host's transforms.
	boundTolerance = 0.001
)

// Object is the tree-side record of a tracked entity: its identifier, the
// enclosing bounding sphere, and the world transform the narrow phase needs.
// An object is owned by exactly one node at a time.
type Object struct {
	Entity    Entity
	Bound     shape.Sphere
	Origin    mgl64.Vec3
	Transform shape.Transform
	MaxScale  float64

	// maxRadius is the unscaled enclosing radius, kept so the bound can be
	// recomputed on scale changes without consulting the host.
	maxRadius float64
}

// NewObject derives the tree record for an entity from its shape and world
// transform.
func NewObject(entity Entity, sh shape.Shape, transform shape.Transform) Object {
	maxScale := transform.MaxScale()
	return Object{
		Entity:    entity,
		Bound:     shape.Enclose(sh, maxScale),
		Origin:    transform.Position(),
		Transform: transform,
		MaxScale:  maxScale,
		maxRadius: sh.MaxRadius(),
	}
}

// TreeMarker locates an entity's object inside the tree. It is a weak
// back-reference for removal-on-move; it never owns the node.
type TreeMarker struct {
	Index  NodeIndex
	Object Object
}

// node is one axis-aligned region of the partition. A node is a leaf iff it
// has no children; a non-leaf's own object list holds only straddlers that
// fit in neither child. Every object in a node is fully enclosed by it,
// except at the root, which keeps objects that fit nowhere.
type node struct {
	objects     []Object
	origin      mgl64.Vec3
	halfExtents mgl64.Vec3
	children    [2]NodeIndex
	depth       int
}

func newNode(origin, halfExtents mgl64.Vec3, depth int) node {
	return node{
		objects:     make([]Object, 0, nodeCapacity),
		origin:      origin,
		halfExtents: halfExtents,
		children:    [2]NodeIndex{nilNode, nilNode},
		depth:       depth,
	}
}

func (n *node) leaf() bool {
	return n.children[0] == nilNode
}

// contains reports whether the object's bounding sphere is fully enclosed by
// the node's box on all three axes. Full containment, not overlap: objects
// that merely overlap a child stay with the parent as straddlers.
func (n *node) contains(object *Object) bool {
	r := object.Bound.Radius
	o := object.Origin

	return o.X()+r < n.origin.X()+n.halfExtents.X() &&
		o.X()-r > n.origin.X()-n.halfExtents.X() &&
		o.Y()+r < n.origin.Y()+n.halfExtents.Y() &&
		o.Y()-r > n.origin.Y()-n.halfExtents.Y() &&
		o.Z()+r < n.origin.Z()+n.halfExtents.Z() &&
		o.Z()-r > n.origin.Z()-n.halfExtents.Z()
}

// Bounds returns the node's region as a bounding box.
func (n *node) Bounds() shape.BoundingBox {
	return shape.NewBoundingBox(n.origin, n.halfExtents)
}

// remove swap-removes the object for an entity, reporting whether it was
// present.
func (n *node) remove(entity Entity) (Object, bool) {
	for i, obj := range n.objects {
		if obj.Entity == entity {
			n.objects[i] = n.objects[len(n.objects)-1]
			n.objects = n.objects[:len(n.objects)-1]
			return obj, true
		}
	}
	return Object{}, false
}

// CollisionTree tracks bounded objects in a binary partition of a fixed
// world region. Objects are bucketed into the deepest node that fully
// contains their bounding sphere; leaves split along their axis of greatest
// object spread when they fill up.
type CollisionTree struct {
	nodes   []node
	root    NodeIndex
	markers map[Entity]TreeMarker

	// moved is the explicit work queue for the update pass: objects whose
	// node no longer fits them are collected here, then re-inserted from the
	// root in a single bounded pass.
	moved []Object
}

// NewCollisionTree creates a tree spanning the box at origin with the given
// half-extents. Objects that outgrow the region stay at the root.
func NewCollisionTree(origin, halfExtents mgl64.Vec3) *CollisionTree {
	t := &CollisionTree{
		nodes:   make([]node, 0, 16),
		markers: make(map[Entity]TreeMarker),
	}
	t.root = t.alloc(newNode(origin, halfExtents, 0))
	return t
}

func (t *CollisionTree) alloc(n node) NodeIndex {
	t.nodes = append(t.nodes, n)
	return NodeIndex(len(t.nodes) - 1)
}

func (t *CollisionTree) node(index NodeIndex) *node {
	return &t.nodes[index]
}

// Root returns the root node's handle.
func (t *CollisionTree) Root() NodeIndex {
	return t.root
}

// Len returns the number of tracked entities.
func (t *CollisionTree) Len() int {
	return len(t.markers)
}

// Marker returns the entity's current tree location.
func (t *CollisionTree) Marker(entity Entity) (TreeMarker, bool) {
	m, ok := t.markers[entity]
	return m, ok
}

// Register starts tracking an entity. Registering an already tracked entity
// is a no-op.
func (t *CollisionTree) Register(entity Entity, sh shape.Shape, transform shape.Transform) {
	if _, ok := t.markers[entity]; ok {
		return
	}

	t.Insert(NewObject(entity, sh, transform))
}

// Insert places an object into the tree and returns the node it landed in.
// May split nodes.
func (t *CollisionTree) Insert(object Object) NodeIndex {
	index := t.insert(t.root, object)
	t.markers[object.Entity] = TreeMarker{Index: index, Object: object}
	return index
}

// insert descends to the deepest node fully containing the object. A leaf
// with spare inline capacity takes it; a full leaf splits and insertion is
// retried at the same node, which now has two children and only straddlers
// of its own. Interior nodes accept straddlers beyond capacity.
func (t *CollisionTree) insert(current NodeIndex, object Object) NodeIndex {
	if child := t.fitsChild(current, &object); child != nilNode {
		return t.insert(child, object)
	}

	n := t.node(current)
	if !n.leaf() || len(n.objects) < nodeCapacity {
		n.objects = append(n.objects, object)
		return current
	}

	t.split(current)
	return t.insert(current, object)
}

// fitsChild returns the child that fully contains the object, or nilNode.
func (t *CollisionTree) fitsChild(current NodeIndex, object *Object) NodeIndex {
	n := t.node(current)
	if n.leaf() {
		return nilNode
	}

	for _, child := range n.children {
		if t.node(child).contains(object) {
			return child
		}
	}
	return nilNode
}

// split divides a leaf along the axis of greatest spread of its objects'
// origins. Both children start as leaves with half the parent's extent
// along that axis; every parent object moves into whichever child fully
// contains it, straddlers stay behind.
func (t *CollisionTree) split(current NodeIndex) {
	n := t.node(current)
	if !n.leaf() {
		panic("collision: split of non-leaf node")
	}

	min := n.objects[0].Origin
	max := n.objects[0].Origin
	for _, obj := range n.objects[1:] {
		min = minByComponent(min, obj.Origin)
		max = maxByComponent(max, obj.Origin)
	}

	axis := maxAxis(max.Sub(min))

	off := mulByComponent(n.halfExtents, axis).Mul(0.5)
	extents := n.halfExtents.Sub(off)

	a := t.alloc(newNode(n.origin.Sub(off), extents, n.depth+1))
	b := t.alloc(newNode(n.origin.Add(off), extents, n.depth+1))

	// alloc may have moved the arena; re-resolve the parent.
	n = t.node(current)
	n.children = [2]NodeIndex{a, b}

	old := n.objects
	n.objects = make([]Object, 0, nodeCapacity)

	for _, obj := range old {
		switch {
		case t.node(a).contains(&obj):
			t.place(a, obj)
		case t.node(b).contains(&obj):
			t.place(b, obj)
		default:
			t.place(current, obj)
		}
	}
}

// place appends an object to a node and updates its marker.
func (t *CollisionTree) place(index NodeIndex, obj Object) {
	n := t.node(index)
	n.objects = append(n.objects, obj)
	t.markers[obj.Entity] = TreeMarker{Index: index, Object: obj}
}

// Remove stops tracking an entity, reporting whether it was tracked.
func (t *CollisionTree) Remove(entity Entity) bool {
	marker, ok := t.markers[entity]
	if !ok {
		return false
	}

	t.node(marker.Index).remove(entity)
	delete(t.markers, entity)
	return true
}

// Update refreshes a tracked entity's transform. The bounding sphere is
// recomputed only when the scale changed beyond boundTolerance. When the
// entity's node no longer contains it, or a child of that node now would,
// the object is queued for re-bucketing; call Refit once per tick after all
// updates to re-insert the queued objects from the root.
func (t *CollisionTree) Update(entity Entity, transform shape.Transform) {
	marker, ok := t.markers[entity]
	if !ok {
		return
	}

	obj := marker.Object
	obj.Transform = transform
	obj.Origin = transform.Position()

	maxScale := transform.MaxScale()
	if math.Abs(maxScale-obj.MaxScale) > boundTolerance {
		obj.MaxScale = maxScale
		obj.Bound = shape.Sphere{Radius: obj.maxRadius * maxScale}
	}

	n := t.node(marker.Index)
	if n.contains(&obj) && t.fitsChild(marker.Index, &obj) == nilNode {
		// Still correctly bucketed: refresh in place.
		for i := range n.objects {
			if n.objects[i].Entity == entity {
				n.objects[i] = obj
				break
			}
		}
		t.markers[entity] = TreeMarker{Index: marker.Index, Object: obj}
		return
	}

	n.remove(entity)
	t.moved = append(t.moved, obj)
}

// UpdateAll runs one full update tick: every tracked entity is refreshed
// from the host via transforms (second return false leaves an entity
// untouched), then all movers are re-bucketed.
func (t *CollisionTree) UpdateAll(transforms func(Entity) (shape.Transform, bool)) {
	for entity := range t.markers {
		if transform, ok := transforms(entity); ok {
			t.Update(entity, transform)
		}
	}
	t.Refit()
}

// Refit re-inserts every object queued by Update from the root. One bounded
// pass: insertion can split nodes but never queues further objects.
func (t *CollisionTree) Refit() {
	for _, obj := range t.moved {
		t.Insert(obj)
	}
	t.moved = t.moved[:0]
}

// Walk calls fn for every object currently bucketed in a node. Objects
// queued by Update are not visited until Refit re-inserts them; call Walk
// after Refit for a complete view.
func (t *CollisionTree) Walk(fn func(NodeIndex, *Object)) {
	for i := range t.nodes {
		for j := range t.nodes[i].objects {
			fn(NodeIndex(i), &t.nodes[i].objects[j])
		}
	}
}

// maxAxis returns the unit basis vector of v's largest component.
func maxAxis(v mgl64.Vec3) mgl64.Vec3 {
	if v.X() > v.Y() {
		if v.X() > v.Z() {
			return mgl64.Vec3{1, 0, 0}
		}
		return mgl64.Vec3{0, 0, 1}
	}
	if v.Y() > v.Z() {
		return mgl64.Vec3{0, 1, 0}
	}
	return mgl64.Vec3{0, 0, 1}
}

func minByComponent(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{min(a.X(), b.X()), min(a.Y(), b.Y()), min(a.Z(), b.Z())}
}

func maxByComponent(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{max(a.X(), b.X()), max(a.Y(), b.Y()), max(a.Z(), b.Z())}
}

func mulByComponent(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a.X() * b.X(), a.Y() * b.Y(), a.Z() * b.Z()}
}
