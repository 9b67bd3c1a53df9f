package geometry

import "github.com/df07/go-flat-raytracer/pkg/core"

// Hit contains information about a ray-shape intersection.
// Color is not part of a hit; the scene attaches it from the owning primitive.
type Hit struct {
	T      float64   // Parameter t along the ray
	Normal core.Vec3 // Surface normal at intersection
	Point  core.Vec3 // Point of intersection
}

// Shape is the closed set of primitives that can be hit by rays.
// Only Sphere and Plane implement it.
type Shape interface {
	// Hit returns the nearest intersection with t > core.Epsilon
	Hit(ray core.Ray) (Hit, bool)
	// Validate reports degenerate geometry with core.ErrDegenerateGeometry
	Validate() error
	// Kind names the primitive type
	Kind() string

	sealed()
}
