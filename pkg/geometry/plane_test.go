package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-flat-raytracer/pkg/core"
)

func TestPlane_Hit_BasicIntersection(t *testing.T) {
	// Horizontal plane at y=0
	plane := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))

	// Ray shooting down from above
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	hit, isHit := plane.Hit(ray)
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}
	if math.Abs(hit.T-1.0) > tolerance {
		t.Errorf("Expected t=1, got t=%f", hit.T)
	}
	if !vecNear(hit.Point, core.NewVec3(0, 0, 0)) {
		t.Errorf("Expected hit point at origin, got %v", hit.Point)
	}
	if hit.Normal != core.NewVec3(0, 1, 0) {
		t.Errorf("Expected normal (0,1,0), got %v", hit.Normal)
	}
}

func TestPlane_Hit_FromBelow(t *testing.T) {
	plane := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))
	ray := core.NewRay(core.NewVec3(3, -2, 1), core.NewVec3(0, 1, 0))

	hit, isHit := plane.Hit(ray)
	if !isHit {
		t.Fatal("Expected the underside to be hit")
	}
	if math.Abs(hit.T-2.0) > tolerance {
		t.Errorf("Expected t=2, got t=%f", hit.T)
	}
	if !vecNear(hit.Point, core.NewVec3(3, 0, 1)) {
		t.Errorf("Expected hit point (3,0,1), got %v", hit.Point)
	}
}

func TestPlane_Hit_ParallelRays(t *testing.T) {
	normals := []core.Vec3{
		core.NewVec3(0, 1, 0),
		core.NewVec3(0, 0, 1),
		core.NewVec3(1, 1, 1),
		core.NewVec3(-2, 0.5, 3),
	}

	for _, n := range normals {
		plane := NewPlane(core.NewVec3(1, 2, 3), n)

		// Any direction perpendicular to the normal is parallel to the plane
		helper := core.NewVec3(1, 0, 0)
		if math.Abs(plane.Normal.X) > 0.9 {
			helper = core.NewVec3(0, 1, 0)
		}
		direction := plane.Normal.Cross(helper)

		origins := []core.Vec3{
			core.NewVec3(0, 0, 0),
			core.NewVec3(1, 2, 3), // On the plane
			core.NewVec3(10, -4, 7),
		}
		for _, o := range origins {
			if hit, isHit := plane.Hit(core.NewRay(o, direction)); isHit {
				t.Errorf("Normal %v origin %v: expected miss for parallel ray, got t=%f", n, o, hit.T)
			}
		}
	}
}

func TestPlane_Hit_BehindRay(t *testing.T) {
	plane := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))

	// Intersection is behind the ray origin
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0))

	if hit, isHit := plane.Hit(ray); isHit {
		t.Errorf("Expected miss for intersection behind ray, but got hit at t=%f", hit.T)
	}
}

func TestPlane_Hit_OriginOnPlane(t *testing.T) {
	plane := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))
	ray := core.NewRay(core.NewVec3(5, 5, 0), core.NewVec3(0, 0, -1))

	if hit, isHit := plane.Hit(ray); isHit {
		t.Errorf("Expected self-intersection to be rejected, got t=%g", hit.T)
	}
}

func TestPlane_NormalIsNormalized(t *testing.T) {
	plane := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 5))
	if plane.Normal != core.NewVec3(0, 0, 1) {
		t.Errorf("Expected normalized normal, got %v", plane.Normal)
	}
}

func TestPlane_Validate(t *testing.T) {
	if err := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)).Validate(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	err := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 0)).Validate()
	if !errors.Is(err, core.ErrDegenerateGeometry) {
		t.Errorf("Expected ErrDegenerateGeometry for zero normal, got %v", err)
	}

	err = NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(math.NaN(), 1, 0)).Validate()
	if !errors.Is(err, core.ErrDegenerateGeometry) {
		t.Errorf("Expected ErrDegenerateGeometry for NaN normal, got %v", err)
	}
}
