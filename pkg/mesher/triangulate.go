package mesher

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/brepflow/mesher/pkg/brep"
)

// rawMesh is the concatenated triangulation of one shape: world-space
// vertices in per-face generation order and triangles indexing them.
type rawMesh struct {
	vertices  []r3.Vec
	triangles [][3]int
}

// triangulate meshes a working copy of the shape and collects the
// per-face nodes and triangles into one raw buffer. Faces contribute in
// face order with a running index offset; a face yielding no nodes or no
// triangles contributes nothing. The second result is false when the
// whole shape is degenerate: fewer than three vertices or no triangles.
func triangulate(shape *brep.Shape, linear, angular float64) (rawMesh, bool) {
	// Copy-on-mesh: triangulation caches mesh data inside the shape, so
	// it must run on an engine-owned copy, never the caller's instance.
	work := shape.Copy()
	work.Triangulate(linear, angular, true)

	var raw rawMesh
	offset := 0
	for i, f := range work.Faces() {
		t := work.FaceTriangulation(i)
		if t == nil || len(t.Nodes) == 0 || len(t.Triangles) == 0 {
			continue
		}
		loc := f.Location()
		for _, n := range t.Nodes {
			raw.vertices = append(raw.vertices, loc.Apply(n))
		}
		for _, tri := range t.Triangles {
			raw.triangles = append(raw.triangles, [3]int{
				tri[0] + offset,
				tri[1] + offset,
				tri[2] + offset,
			})
		}
		offset += len(t.Nodes)
	}

	if len(raw.vertices) < 3 || len(raw.triangles) == 0 {
		return rawMesh{}, false
	}
	return raw, true
}
