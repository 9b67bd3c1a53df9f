package scene

import (
	"fmt"
	"math"

	"github.com/df07/go-flat-raytracer/pkg/core"
	"github.com/df07/go-flat-raytracer/pkg/geometry"
)

// Primitive is a shape placed in the scene with a flat color
type Primitive struct {
	Name  string
	Shape geometry.Shape
	Color core.Vec3
}

// Scene contains the primitives and background color for a render.
// It must not be modified once rendering starts.
type Scene struct {
	Name       string
	Primitives []Primitive
	Background core.Vec3
}

// HitRecord is the outcome of resolving one ray against the whole scene.
// A fresh record is returned for every ray.
type HitRecord struct {
	DidHit bool
	T      float64   // Distance along the ray to the winning hit
	Normal core.Vec3 // Surface normal of the winning primitive
	Point  core.Vec3 // Hit point on the winning primitive
	Color  core.Vec3 // Color of the winning primitive
	Index  int       // Index of the winning primitive, -1 on a miss
}

// NewScene creates a scene, rejecting degenerate primitives up front
func NewScene(background core.Vec3, primitives ...Primitive) (*Scene, error) {
	for i, p := range primitives {
		if p.Shape == nil {
			return nil, fmt.Errorf("%w: primitive %d (%q) has no shape", core.ErrDegenerateGeometry, i, p.Name)
		}
		if err := p.Shape.Validate(); err != nil {
			return nil, fmt.Errorf("primitive %d (%q): %w", i, p.Name, err)
		}
	}

	prims := make([]Primitive, len(primitives))
	copy(prims, primitives)

	return &Scene{
		Primitives: prims,
		Background: background,
	}, nil
}

// Resolve finds the nearest primitive hit by the ray.
// Primitives are tested in declaration order and a hit only replaces the
// current winner when strictly closer, so equal distances go to the primitive
// declared first. The background is left to the caller.
func (s *Scene) Resolve(ray core.Ray) HitRecord {
	record := HitRecord{Index: -1}
	closest := math.Inf(1)

	for i, p := range s.Primitives {
		hit, isHit := p.Shape.Hit(ray)
		if !isHit || hit.T >= closest {
			continue
		}
		closest = hit.T
		record = HitRecord{
			DidHit: true,
			T:      hit.T,
			Normal: hit.Normal,
			Point:  hit.Point,
			Color:  p.Color,
			Index:  i,
		}
	}

	return record
}

// GetPrimitiveCount returns the number of primitives in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Primitives)
}
