package main

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	collision "github.com/ten3roberts/ivy-sub001"
	"github.com/ten3roberts/ivy-sub001/shape"
)

// Body is the host-side state for one simulated object: its shape plus the
// transform components the collision layer only sees in composed form.
type Body struct {
	Shape    shape.Shape
	Position mgl64.Vec3
	Velocity mgl64.Vec3
}

func (b *Body) transform() shape.Transform {
	return shape.TranslateTransform(b.Position)
}

// SetupScene builds a small world: two spheres on a collision course, a cube
// obstacle, and a capsule hanging above it.
func SetupScene() (*collision.CollisionTree, map[collision.Entity]*Body) {
	tree := collision.NewCollisionTree(mgl64.Vec3{}, mgl64.Vec3{20, 20, 20})

	bodies := map[collision.Entity]*Body{
		1: {
			Shape:    shape.Sphere{Radius: 1},
			Position: mgl64.Vec3{-6, 0, 0},
			Velocity: mgl64.Vec3{2, 0, 0},
		},
		2: {
			Shape:    shape.Sphere{Radius: 1},
			Position: mgl64.Vec3{6, 0, 0},
			Velocity: mgl64.Vec3{-2, 0, 0},
		},
		3: {
			Shape:    shape.Cube{HalfExtents: mgl64.Vec3{1, 1, 1}},
			Position: mgl64.Vec3{0, -5, 0},
		},
		4: {
			Shape:    shape.Capsule{HalfHeight: 1, Radius: 0.5},
			Position: mgl64.Vec3{0, -1.5, 0},
			Velocity: mgl64.Vec3{0, -1, 0},
		},
	}

	for entity, body := range bodies {
		tree.Register(entity, body.Shape, body.transform())
	}

	return tree, bodies
}

func main() {
	tree, bodies := SetupScene()

	shapes := func(entity collision.Entity) shape.Shape {
		return bodies[entity].Shape
	}

	const dt = 1.0 / 60.0
	const maxSteps = 240

	fmt.Printf("Tracking %d bodies\n\n", tree.Len())

	for step := 0; step < maxSteps; step++ {
		// Integrate and push the new transforms into the tree.
		for _, body := range bodies {
			body.Position = body.Position.Add(body.Velocity.Mul(dt))
		}
		tree.UpdateAll(func(entity collision.Entity) (shape.Transform, bool) {
			return bodies[entity].transform(), true
		})

		for _, c := range tree.CheckCollisions(shapes) {
			fmt.Printf("step %3d: %d <-> %d depth=%.3f normal=%v point=%v\n",
				step, c.A, c.B, c.Contact.Depth, c.Contact.Normal, c.Contact.Point)

			// Crude separation response: move both bodies apart along the
			// contact normal and stop their approach.
			a, b := bodies[c.A], bodies[c.B]
			half := c.Contact.Normal.Mul(c.Contact.Depth * 0.5)
			a.Position = a.Position.Sub(half)
			b.Position = b.Position.Add(half)
			a.Velocity = mgl64.Vec3{}
			b.Velocity = mgl64.Vec3{}
		}
	}

	// Probe the final scene with a ray across the X axis.
	ray := shape.NewRay(mgl64.Vec3{-15, 0, 0}, mgl64.Vec3{1, 0, 0})
	hits := collision.NewRayCaster(ray, shapes).Cast(tree).Collect()
	collision.SortByDepth(hits)

	fmt.Printf("\nray %v -> %d hits\n", ray.Origin, len(hits))
	for _, hit := range hits {
		fmt.Printf("  entity %d at %v, distance %.3f\n",
			hit.Entity, hit.Contact.Point, hit.Contact.Depth)
	}
}
