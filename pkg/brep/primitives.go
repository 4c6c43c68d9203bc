package brep

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrBadDimension is returned for primitives with non-positive dimensions.
var ErrBadDimension = errors.New("brep: primitive dimensions must be positive")

// Box returns a solid box spanning (0,0,0)..(dx,dy,dz), built from six
// planar quad faces with axis-permutation placements. All corner
// coordinates are exact, so shared edges deduplicate exactly when meshed.
func Box(dx, dy, dz float64) (*Shape, error) {
	if dx <= 0 || dy <= 0 || dz <= 0 {
		return nil, ErrBadDimension
	}

	x := r3.Vec{X: 1}
	y := r3.Vec{Y: 1}
	z := r3.Vec{Z: 1}
	o := r3.Vec{}

	// Each face is a local-XY quad; the placement's z axis is the
	// outward normal, so counter-clockwise rings face outward.
	faces := []Face{
		mustQuad(dy, dx, NewTrsf(y, x, r3.Vec{Z: -1}, o)),                // bottom
		mustQuad(dx, dy, NewTrsf(x, y, z, r3.Vec{Z: dz})),                // top
		mustQuad(dx, dz, NewTrsf(x, z, r3.Vec{Y: -1}, o)),                // front
		mustQuad(dz, dx, NewTrsf(z, x, y, r3.Vec{Y: dy})),                // back
		mustQuad(dz, dy, NewTrsf(z, y, r3.Vec{X: -1}, o)),                // left
		mustQuad(dy, dz, NewTrsf(y, z, x, r3.Vec{X: dx})),                // right
	}

	s := NewShell(faces)
	s.kind = KindSolid
	return s, nil
}

// mustQuad builds a placed rectangle spanning (0,0)..(u,v) in face-local
// coordinates, wound counter-clockwise.
func mustQuad(u, v float64, loc Trsf) Face {
	f, err := NewPolygonFaceAt([]r3.Vec{
		{},
		{X: u},
		{X: u, Y: v},
		{Y: v},
	}, loc)
	if err != nil {
		panic(err)
	}
	return f
}

// Cylinder returns a solid right circular cylinder with its base circle
// in the z=0 plane, centered on the Z axis. The lateral surface and both
// caps share the same circle-point computation so that rim vertices
// deduplicate exactly when meshed.
func Cylinder(height, radius float64) (*Shape, error) {
	if height <= 0 || radius <= 0 {
		return nil, ErrBadDimension
	}
	faces := []Face{
		NewCylinderFace(radius, height, Identity()),
		newDiskFace(radius, 0, true),       // bottom cap, outward -Z
		newDiskFace(radius, height, false), // top cap, outward +Z
	}
	s := NewShell(faces)
	s.kind = KindSolid
	return s, nil
}

// diskFace is a full circular disk at a fixed z, fanned from its first
// rim point. It has no center node, so its node set is exactly the rim
// and merges with an adjacent CylinderFace ring.
type diskFace struct {
	radius   float64
	z        float64
	reversed bool
}

func newDiskFace(radius, z float64, reversed bool) *diskFace {
	return &diskFace{radius: radius, z: z, reversed: reversed}
}

func (f *diskFace) Location() Trsf { return Identity() }

func (f *diskFace) Triangulate(linear, angular float64, relative bool) Triangulation {
	n := circleSegments(f.radius, linear, angular, relative)
	var t Triangulation
	for i := 0; i < n; i++ {
		t.Nodes = append(t.Nodes, circlePoint(f.radius, i, n, f.z))
	}
	for i := 1; i+1 < n; i++ {
		tri := [3]int{0, i, i + 1}
		if f.reversed {
			tri = [3]int{0, i + 1, i}
		}
		t.Triangles = append(t.Triangles, tri)
	}
	return t
}
