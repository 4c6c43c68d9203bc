// Package sdfimport builds brep shapes from signed-distance-function
// solids using the github.com/deadsy/sdfx marching cubes renderer. It is
// the bridge for geometry authored with sdfx (or imported as an SDF)
// into the mesh translation engine, which only understands faceted
// boundary representations.
package sdfimport

import (
	"errors"
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/brepflow/mesher/pkg/brep"
)

// DefaultCells is the marching cubes resolution used when the caller
// passes a non-positive cell count.
const DefaultCells = 200

// ErrEmptySDF is returned when rendering produces no triangles.
var ErrEmptySDF = errors.New("sdfimport: sdf rendered to an empty triangle set")

// Shape renders an SDF solid to triangles and wraps them as a brep shell
// of independent triangular faces. The shell is not sewn; feed it to the
// translation engine, which reconstructs topology downstream.
func Shape(s sdf.SDF3, cells int) (*brep.Shape, error) {
	if cells <= 0 {
		cells = DefaultCells
	}
	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(s, renderer)
	if len(triangles) == 0 {
		return nil, ErrEmptySDF
	}

	faces := make([]brep.Face, 0, len(triangles))
	for i, tri := range triangles {
		ring := []r3.Vec{vec(tri[0]), vec(tri[1]), vec(tri[2])}
		f, err := brep.NewPolygonFace(ring)
		if err != nil {
			return nil, fmt.Errorf("sdfimport: triangle %d: %w", i, err)
		}
		faces = append(faces, f)
	}
	return brep.NewShell(faces), nil
}

// Box renders an axis-aligned SDF box with its minimum corner at the
// origin, matching the placement convention of brep.Box.
func Box(dx, dy, dz float64, cells int) (*brep.Shape, error) {
	b, err := sdf.Box3D(v3.Vec{X: dx, Y: dy, Z: dz}, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfimport: box: %w", err)
	}
	m := sdf.Translate3d(v3.Vec{X: dx / 2, Y: dy / 2, Z: dz / 2})
	return Shape(sdf.Transform3D(b, m), cells)
}

// Cylinder renders an SDF cylinder with its base at z=0, matching the
// placement convention of brep.Cylinder.
func Cylinder(height, radius float64, cells int) (*brep.Shape, error) {
	c, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfimport: cylinder: %w", err)
	}
	m := sdf.Translate3d(v3.Vec{Z: height / 2})
	return Shape(sdf.Transform3D(c, m), cells)
}

func vec(v v3.Vec) r3.Vec {
	return r3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}
