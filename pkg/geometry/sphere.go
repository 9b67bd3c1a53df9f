package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-flat-raytracer/pkg/core"
)

// Sphere represents a spherical shell
type Sphere struct {
	Center core.Vec3
	Radius float64
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64) *Sphere {
	return &Sphere{
		Center: center,
		Radius: radius,
	}
}

// Hit tests if a ray intersects with the sphere.
// The smaller root is tried first so the nearer crossing wins whether the
// origin is outside, on, or inside the sphere.
func (s *Sphere) Hit(ray core.Ray) (Hit, bool) {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	b := 2.0 * oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := b*b - 4.0*a*c
	if discriminant < 0 {
		return Hit{}, false
	}

	sqrtD := math.Sqrt(discriminant)
	denominator := 2.0 * a

	// Smaller root first
	if t := (-b - sqrtD) / denominator; t > core.Epsilon {
		return s.hitAt(ray, oc, t), true
	}

	// Larger root next
	if t := (-b + sqrtD) / denominator; t > core.Epsilon {
		return s.hitAt(ray, oc, t), true
	}

	return Hit{}, false
}

func (s *Sphere) hitAt(ray core.Ray, oc core.Vec3, t float64) Hit {
	return Hit{
		T:      t,
		Normal: oc.Add(ray.Direction.Multiply(t)).Multiply(1.0 / s.Radius),
		Point:  ray.At(t),
	}
}

// Validate rejects spheres without a positive, finite radius
func (s *Sphere) Validate() error {
	if !(s.Radius > 0) || math.IsInf(s.Radius, 0) {
		return fmt.Errorf("%w: sphere radius must be positive, got %g", core.ErrDegenerateGeometry, s.Radius)
	}
	if !s.Center.IsFinite() {
		return fmt.Errorf("%w: sphere center %v is not finite", core.ErrDegenerateGeometry, s.Center)
	}
	return nil
}

// Kind returns "sphere"
func (s *Sphere) Kind() string { return "sphere" }

func (s *Sphere) sealed() {}
