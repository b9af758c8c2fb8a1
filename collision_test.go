package collision

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ten3roberts/ivy-sub001/shape"
)

// shapeTable is the ShapeSource used by the pipeline tests: a plain map from
// entity to shape, standing in for the host's component storage.
type shapeTable map[Entity]shape.Shape

func (s shapeTable) source() ShapeSource {
	return func(entity Entity) shape.Shape {
		return s[entity]
	}
}

func registerAll(tree *CollisionTree, shapes shapeTable, positions map[Entity]mgl64.Vec3) {
	for entity, sh := range shapes {
		tree.Register(entity, sh, translate(positions[entity]))
	}
}

func hasPair(collisions []Collision, a, b Entity) bool {
	for _, c := range collisions {
		if (c.A == a && c.B == b) || (c.A == b && c.B == a) {
			return true
		}
	}
	return false
}

func TestCheckCollisions(t *testing.T) {
	tree := worldTree()
	shapes := shapeTable{
		1: shape.Sphere{Radius: 1},
		2: shape.Sphere{Radius: 1},
		3: shape.Sphere{Radius: 1},
	}
	registerAll(tree, shapes, map[Entity]mgl64.Vec3{
		1: {0, 0, 0},
		2: {1.5, 0, 0},
		3: {6, 0, 0},
	})

	collisions := tree.CheckCollisions(shapes.source())

	if len(collisions) != 1 {
		t.Fatalf("got %d collisions, want exactly the overlapping pair", len(collisions))
	}
	if !hasPair(collisions, 1, 2) {
		t.Errorf("collision pair is (%d,%d), want (1,2)", collisions[0].A, collisions[0].B)
	}

	contact := collisions[0].Contact
	if math.Abs(contact.Depth-0.5) > 1e-2 {
		t.Errorf("Depth = %v, want 0.5", contact.Depth)
	}
	if align := math.Abs(contact.Normal.X()); align < 0.99 {
		t.Errorf("Normal = %v, want the X axis", contact.Normal)
	}
}

func TestCheckCollisionsEmpty(t *testing.T) {
	tree := worldTree()
	shapes := shapeTable{
		1: shape.Sphere{Radius: 1},
		2: shape.Sphere{Radius: 1},
	}
	registerAll(tree, shapes, map[Entity]mgl64.Vec3{
		1: {-5, 0, 0},
		2: {5, 0, 0},
	})

	if collisions := tree.CheckCollisions(shapes.source()); len(collisions) != 0 {
		t.Errorf("got %d collisions for separated objects, want 0", len(collisions))
	}
}

func TestCheckCollisionsAcrossNodes(t *testing.T) {
	// Force splits, then verify pairs split across node boundaries (one
	// object in a child, its partner a straddler above it) are still found.
	tree := worldTree()
	shapes := shapeTable{}
	positions := map[Entity]mgl64.Vec3{}

	for i := 0; i < 18; i++ {
		entity := Entity(i + 1)
		shapes[entity] = shape.Sphere{Radius: 0.3}
		positions[entity] = mgl64.Vec3{-8.5 + float64(i), 2, 0}
	}

	// One of the pair fits the left child, the other pokes past the root's
	// split plane and stays behind as a straddler.
	shapes[100] = shape.Sphere{Radius: 0.5}
	positions[100] = mgl64.Vec3{-1.0, -3, 0}
	shapes[101] = shape.Sphere{Radius: 0.5}
	positions[101] = mgl64.Vec3{-0.1, -3, 0}

	registerAll(tree, shapes, positions)

	if tree.node(tree.Root()).leaf() {
		t.Fatal("expected the tree to have split")
	}

	collisions := tree.CheckCollisions(shapes.source())
	if !hasPair(collisions, 100, 101) {
		t.Error("pair straddling the split plane was not detected")
	}

	for _, c := range collisions {
		if c.A != 100 && c.A != 101 {
			t.Errorf("unexpected collision between %d and %d", c.A, c.B)
		}
	}
}

func TestCheckCollisionsMixedShapes(t *testing.T) {
	tree := worldTree()
	shapes := shapeTable{
		1: shape.Cube{HalfExtents: mgl64.Vec3{1, 1, 1}},
		2: shape.Sphere{Radius: 1},
		3: shape.Capsule{HalfHeight: 1, Radius: 0.5},
	}
	registerAll(tree, shapes, map[Entity]mgl64.Vec3{
		1: {0, 0, 0},
		2: {1.8, 0, 0},
		3: {0, 2, 0}, // capsule bottom cap at y=0.5 reaches into the cube
	})

	collisions := tree.CheckCollisions(shapes.source())

	if !hasPair(collisions, 1, 2) {
		t.Error("cube/sphere overlap not detected")
	}
	if !hasPair(collisions, 1, 3) {
		t.Error("cube/capsule overlap not detected")
	}
	if hasPair(collisions, 2, 3) {
		t.Error("sphere and capsule do not overlap but were reported")
	}
}

func TestCheckCollisionsAfterUpdate(t *testing.T) {
	tree := worldTree()
	shapes := shapeTable{
		1: shape.Sphere{Radius: 1},
		2: shape.Sphere{Radius: 1},
	}
	positions := map[Entity]mgl64.Vec3{
		1: {-3, 0, 0},
		2: {3, 0, 0},
	}
	registerAll(tree, shapes, positions)

	if collisions := tree.CheckCollisions(shapes.source()); len(collisions) != 0 {
		t.Fatalf("got %d collisions before movement, want 0", len(collisions))
	}

	// Move them together over a few ticks.
	for x := 3.0; x >= 0.5; x -= 0.5 {
		positions[1] = mgl64.Vec3{-x, 0, 0}
		positions[2] = mgl64.Vec3{x, 0, 0}
		tree.UpdateAll(func(entity Entity) (shape.Transform, bool) {
			return translate(positions[entity]), true
		})
	}

	collisions := tree.CheckCollisions(shapes.source())
	if !hasPair(collisions, 1, 2) {
		t.Fatal("converging spheres not detected after updates")
	}
	if math.Abs(collisions[0].Contact.Depth-1.0) > 1e-2 {
		t.Errorf("Depth = %v, want 1.0 at distance 1 with radii 1+1", collisions[0].Contact.Depth)
	}
}

func BenchmarkCheckCollisions(b *testing.B) {
	tree := worldTree()
	shapes := shapeTable{}

	for i := 0; i < 64; i++ {
		entity := Entity(i + 1)
		shapes[entity] = shape.Sphere{Radius: 0.4}
		pos := mgl64.Vec3{
			-9 + float64(i%8)*2.5,
			-9 + float64((i/8)%8)*2.5,
			0,
		}
		tree.Register(entity, shapes[entity], translate(pos))
	}

	source := shapes.source()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree.CheckCollisions(source)
	}
}
