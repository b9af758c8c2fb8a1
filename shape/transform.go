package shape

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Transform is a world transform together with its precomputed inverse.
// The inverse is used to move support directions into a shape's local space
// without recomputing a matrix inversion per query.
type Transform struct {
	Matrix  mgl64.Mat4
	Inverse mgl64.Mat4
}

// NewTransform composes translation, rotation and scale into a transform.
func NewTransform(position mgl64.Vec3, rotation mgl64.Quat, scale mgl64.Vec3) Transform {
	m := mgl64.Translate3D(position.X(), position.Y(), position.Z()).
		Mul4(rotation.Mat4()).
		Mul4(mgl64.Scale3D(scale.X(), scale.Y(), scale.Z()))

	return Transform{Matrix: m, Inverse: m.Inv()}
}

// TranslateTransform returns a pure translation transform.
func TranslateTransform(position mgl64.Vec3) Transform {
	return NewTransform(position, mgl64.QuatIdent(), mgl64.Vec3{1, 1, 1})
}

// TransformPoint transforms a point from local to world space.
func (t Transform) TransformPoint(p mgl64.Vec3) mgl64.Vec3 {
	return t.Matrix.Mul4x1(p.Vec4(1)).Vec3()
}

// InverseDir transforms a direction from world to local space.
// Only rotation and scale apply; translation is ignored.
func (t Transform) InverseDir(d mgl64.Vec3) mgl64.Vec3 {
	return t.Inverse.Mul4x1(d.Vec4(0)).Vec3()
}

// TransformDir transforms a direction from local to world space.
func (t Transform) TransformDir(d mgl64.Vec3) mgl64.Vec3 {
	return t.Matrix.Mul4x1(d.Vec4(0)).Vec3()
}

// Position returns the world-space translation.
func (t Transform) Position() mgl64.Vec3 {
	return t.Matrix.Col(3).Vec3()
}

// MaxScale returns the largest scale factor along any basis axis.
// Used to scale enclosing-sphere radii conservatively.
func (t Transform) MaxScale() float64 {
	x := t.Matrix.Col(0).Vec3().Len()
	y := t.Matrix.Col(1).Vec3().Len()
	z := t.Matrix.Col(2).Vec3().Len()

	return math.Max(x, math.Max(y, z))
}

// TransformedShape pairs a shape with its world transform, giving the
// world-space support function the narrow-phase algorithms consume.
type TransformedShape struct {
	Shape     Shape
	Transform Transform
}

// NewTransformedShape bundles a shape with its transform.
func NewTransformedShape(sh Shape, transform Transform) TransformedShape {
	return TransformedShape{Shape: sh, Transform: transform}
}

// SupportWorld returns the world-space support point along a world-space
// direction. dir must be non-zero; callers guard against degenerate
// directions before normalizing.
func (t TransformedShape) SupportWorld(dir mgl64.Vec3) mgl64.Vec3 {
	local := t.Transform.InverseDir(dir).Normalize()
	return t.Transform.TransformPoint(t.Shape.Support(local))
}

// Center returns the shape's world-space geometric center.
func (t TransformedShape) Center() mgl64.Vec3 {
	return t.Transform.Position()
}
