package sdfimport_test

import (
	"testing"

	"github.com/brepflow/mesher/pkg/brep"
	"github.com/brepflow/mesher/pkg/brep/sdfimport"
)

func TestBoxRendersToShell(t *testing.T) {
	s, err := sdfimport.Box(2, 2, 2, 64)
	if err != nil {
		t.Fatalf("Box: %v", err)
	}
	if s.Kind() != brep.KindShell {
		t.Errorf("kind = %v, want shell", s.Kind())
	}
	if len(s.Faces()) == 0 {
		t.Fatal("no faces rendered")
	}

	// Marching cubes approximates the surface to within roughly one
	// cell, so only check the bounds loosely.
	min, max := s.BoundingBox()
	const tol = 0.3
	for _, v := range []float64{min.X, min.Y, min.Z} {
		if v < -tol || v > tol {
			t.Errorf("min bound %g outside [%g,%g]", v, -tol, tol)
		}
	}
	for _, v := range []float64{max.X, max.Y, max.Z} {
		if v < 2-tol || v > 2+tol {
			t.Errorf("max bound %g outside [%g,%g]", v, 2-tol, 2+tol)
		}
	}
}

func TestCylinderRendersToShell(t *testing.T) {
	s, err := sdfimport.Cylinder(2, 1, 64)
	if err != nil {
		t.Fatalf("Cylinder: %v", err)
	}
	if len(s.Faces()) == 0 {
		t.Fatal("no faces rendered")
	}
	min, max := s.BoundingBox()
	if min.Z < -0.3 || max.Z > 2.3 {
		t.Errorf("z bounds [%g,%g] outside expected range", min.Z, max.Z)
	}
}
