package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-flat-raytracer/pkg/core"
)

// Plane represents an infinite plane defined by a point and normal.
// Either side of the plane can be hit.
type Plane struct {
	Point  core.Vec3 // A point on the plane
	Normal core.Vec3 // Unit normal, or zero if constructed from a zero vector
}

// NewPlane creates a new plane
func NewPlane(point, normal core.Vec3) *Plane {
	return &Plane{
		Point:  point,
		Normal: normal.Normalize(), // Zero stays zero and fails Validate
	}
}

// Hit tests if a ray intersects with the plane
func (p *Plane) Hit(ray core.Ray) (Hit, bool) {
	denominator := ray.Direction.Dot(p.Normal)

	// Ray is parallel to the plane
	if math.Abs(denominator) <= core.Epsilon {
		return Hit{}, false
	}

	// t = (point_on_plane - ray_origin) · normal / (ray_direction · normal)
	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if t <= core.Epsilon {
		return Hit{}, false
	}

	return Hit{
		T:      t,
		Normal: p.Normal,
		Point:  ray.At(t),
	}, true
}

// Validate rejects planes without a usable normal
func (p *Plane) Validate() error {
	if p.Normal.IsZero() || !p.Normal.IsFinite() {
		return fmt.Errorf("%w: plane normal must be a non-zero vector, got %v", core.ErrDegenerateGeometry, p.Normal)
	}
	if !p.Point.IsFinite() {
		return fmt.Errorf("%w: plane point %v is not finite", core.ErrDegenerateGeometry, p.Point)
	}
	return nil
}

// Kind returns "plane"
func (p *Plane) Kind() string { return "plane" }

func (p *Plane) sealed() {}
