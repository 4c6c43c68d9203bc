package mesher

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/brepflow/mesher/pkg/brep"
	"github.com/brepflow/mesher/pkg/meshdoc"
)

// sewingTolerance is the coincidence tolerance used when sewing imported
// triangles. Imported vertices that were deduplicated share exact
// coordinates, so the tolerance only has to absorb float32 storage noise.
const sewingTolerance = 1e-6

// shapeFromMesh rebuilds a shape from a mesh's vertex and triangle
// buffers. Every triangle becomes an independent face; sewing merges
// coincident edges into shells. A single manifold shell is promoted to a
// solid; a single open shell is returned as-is; multiple disjoint shells
// are kept complete as a compound rather than guessing which one the
// mesh meant.
func shapeFromMesh(obj *meshdoc.MeshObject) (*brep.Shape, error) {
	verts := obj.Vertices()
	points := make([]r3.Vec, len(verts))
	for i, v := range verts {
		points[i] = r3.Vec{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
	}

	sew := brep.NewSewing(sewingTolerance)
	for i, t := range obj.Triangles() {
		face, err := brep.NewPolygonFace([]r3.Vec{
			points[t[0]],
			points[t[1]],
			points[t[2]],
		})
		if err != nil {
			return nil, fmt.Errorf("triangle %d: %w", i, err)
		}
		sew.Add(face)
	}

	shells := sew.Perform()
	switch len(shells) {
	case 0:
		return nil, fmt.Errorf("mesh has no triangles")
	case 1:
		shell := shells[0]
		if shell.IsManifold() {
			return brep.MakeSolid(shell)
		}
		return shell, nil
	default:
		return brep.NewCompound(shells...), nil
	}
}
