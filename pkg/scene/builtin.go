package scene

import (
	"github.com/df07/go-flat-raytracer/pkg/core"
	"github.com/df07/go-flat-raytracer/pkg/geometry"
)

// NewSphereScene creates the classic single red sphere on black
func NewSphereScene() *Scene {
	s := mustScene(core.Black,
		Primitive{
			Name:  "sphere",
			Shape: geometry.NewSphere(core.NewVec3(0, 0, 0), 85.0),
			Color: core.Red,
		},
	)
	s.Name = "sphere"
	return s
}

// NewSpherePlaneScene creates a sphere cut by a tilted plane.
// The plane x + z = 0 passes through the sphere, so the visible surface
// switches between the two along the cut.
func NewSpherePlaneScene() *Scene {
	s := mustScene(core.Black,
		Primitive{
			Name:  "sphere",
			Shape: geometry.NewSphere(core.NewVec3(0, 0, -30), 50.0),
			Color: core.Blue,
		},
		Primitive{
			Name:  "plane",
			Shape: geometry.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 1)),
			Color: core.Yellow,
		},
	)
	s.Name = "sphere-plane"
	return s
}

// NewDefaultScene creates overlapping spheres in front of a sloped floor
func NewDefaultScene() *Scene {
	s := mustScene(core.NewVec3(0.1, 0.1, 0.2),
		Primitive{
			Name:  "red",
			Shape: geometry.NewSphere(core.NewVec3(-40, 0, 0), 60.0),
			Color: core.NewVec3(0.85, 0.2, 0.15),
		},
		Primitive{
			Name:  "green",
			Shape: geometry.NewSphere(core.NewVec3(40, 20, -20), 50.0),
			Color: core.NewVec3(0.2, 0.75, 0.3),
		},
		Primitive{
			Name:  "blue",
			Shape: geometry.NewSphere(core.NewVec3(0, -50, 40), 30.0),
			Color: core.NewVec3(0.2, 0.35, 0.9),
		},
		Primitive{
			Name:  "floor",
			Shape: geometry.NewPlane(core.NewVec3(0, -80, 0), core.NewVec3(0, 1, 0.5)),
			Color: core.Gray,
		},
	)
	s.Name = "default"
	return s
}

// mustScene builds a scene from literals known to be valid
func mustScene(background core.Vec3, primitives ...Primitive) *Scene {
	s, err := NewScene(background, primitives...)
	if err != nil {
		panic(err)
	}
	return s
}
