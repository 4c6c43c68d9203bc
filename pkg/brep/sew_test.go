package brep

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

// triangleFaces splits a shape's triangulated surface into independent
// single-triangle faces, simulating an imported triangle soup.
func triangleFaces(t *testing.T, s *Shape) []Face {
	t.Helper()
	var faces []Face
	for _, tri := range s.worldTriangles() {
		f, err := NewPolygonFace([]r3.Vec{tri[0], tri[1], tri[2]})
		if err != nil {
			t.Fatalf("NewPolygonFace: %v", err)
		}
		faces = append(faces, f)
	}
	return faces
}

func TestSewingSingleShell(t *testing.T) {
	box, err := Box(1, 1, 1)
	if err != nil {
		t.Fatalf("Box: %v", err)
	}

	sew := NewSewing(1e-6)
	for _, f := range triangleFaces(t, box) {
		sew.Add(f)
	}
	shells := sew.Perform()

	if len(shells) != 1 {
		t.Fatalf("shells = %d, want 1", len(shells))
	}
	shell := shells[0]
	if shell.Kind() != KindShell {
		t.Errorf("kind = %v, want shell", shell.Kind())
	}
	if len(shell.Faces()) != 12 {
		t.Errorf("faces = %d, want 12", len(shell.Faces()))
	}
	if !shell.IsManifold() {
		t.Error("sewn cube shell not manifold")
	}

	solid, err := MakeSolid(shell)
	if err != nil {
		t.Fatalf("MakeSolid: %v", err)
	}
	if solid.Kind() != KindSolid {
		t.Errorf("kind = %v, want solid", solid.Kind())
	}
	if got := solid.Volume(); !almostEqual(got, 1, 1e-9) {
		t.Errorf("volume = %g, want 1", got)
	}
}

func TestSewingDisjointComponents(t *testing.T) {
	a, _ := Box(1, 1, 1)
	b, _ := Box(1, 1, 1)

	sew := NewSewing(1e-6)
	for _, f := range triangleFaces(t, a) {
		sew.Add(f)
	}
	// Shift the second box well away from the first.
	for _, tri := range b.worldTriangles() {
		ring := []r3.Vec{
			r3.Add(tri[0], r3.Vec{X: 10}),
			r3.Add(tri[1], r3.Vec{X: 10}),
			r3.Add(tri[2], r3.Vec{X: 10}),
		}
		f, err := NewPolygonFace(ring)
		if err != nil {
			t.Fatalf("NewPolygonFace: %v", err)
		}
		sew.Add(f)
	}

	shells := sew.Perform()
	if len(shells) != 2 {
		t.Fatalf("shells = %d, want 2", len(shells))
	}
	for i, sh := range shells {
		if !sh.IsManifold() {
			t.Errorf("shell %d not manifold", i)
		}
	}
}

func TestSewingOpenShell(t *testing.T) {
	// A lone triangle sews into one open shell that must not be
	// promotable to a solid.
	f, err := NewPolygonFace([]r3.Vec{{}, {X: 1}, {Y: 1}})
	if err != nil {
		t.Fatalf("NewPolygonFace: %v", err)
	}
	sew := NewSewing(1e-6)
	sew.Add(f)

	shells := sew.Perform()
	if len(shells) != 1 {
		t.Fatalf("shells = %d, want 1", len(shells))
	}
	if shells[0].IsManifold() {
		t.Error("open shell reported manifold")
	}
	if _, err := MakeSolid(shells[0]); err != ErrNotManifold {
		t.Errorf("MakeSolid err = %v, want ErrNotManifold", err)
	}
}

func TestSewingEmpty(t *testing.T) {
	if shells := NewSewing(1e-6).Perform(); shells != nil {
		t.Errorf("Perform() = %v, want nil", shells)
	}
}

func TestPrimitivesAreManifold(t *testing.T) {
	tests := []struct {
		name  string
		shape func() (*Shape, error)
	}{
		{"box", func() (*Shape, error) { return Box(1, 2, 3) }},
		{"cylinder", func() (*Shape, error) { return Cylinder(2, 1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := tt.shape()
			if err != nil {
				t.Fatalf("shape: %v", err)
			}
			if !s.IsManifold() {
				t.Error("primitive surface not manifold")
			}
		})
	}
}
