package brep

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrTooFewPoints is returned when a polygonal face is built from fewer
// than three points.
var ErrTooFewPoints = errors.New("brep: polygon face needs at least 3 points")

// PolygonFace is a planar convex polygon. The ring is ordered; a
// counter-clockwise ring (seen from local +Z) has its surface normal
// along the placement's z axis.
type PolygonFace struct {
	loc  Trsf
	ring []r3.Vec
}

// NewPolygonFace creates a planar face from a world-coordinate ring with
// an identity placement.
func NewPolygonFace(ring []r3.Vec) (*PolygonFace, error) {
	return NewPolygonFaceAt(ring, Identity())
}

// NewPolygonFaceAt creates a planar face from a face-local ring and a
// placement.
func NewPolygonFaceAt(ring []r3.Vec, loc Trsf) (*PolygonFace, error) {
	if len(ring) < 3 {
		return nil, ErrTooFewPoints
	}
	f := &PolygonFace{loc: loc}
	f.ring = append(f.ring, ring...)
	return f, nil
}

// Location returns the face placement.
func (f *PolygonFace) Location() Trsf { return f.loc }

// Ring returns the face-local boundary ring.
func (f *PolygonFace) Ring() []r3.Vec { return f.ring }

// Triangulate fans the polygon from its first vertex. Deflection
// parameters do not refine a planar polygon, so the node set is exactly
// the boundary ring.
func (f *PolygonFace) Triangulate(linear, angular float64, relative bool) Triangulation {
	t := Triangulation{Nodes: append([]r3.Vec(nil), f.ring...)}
	for i := 1; i+1 < len(f.ring); i++ {
		t.Triangles = append(t.Triangles, [3]int{0, i, i + 1})
	}
	return t
}

// CylinderFace is the lateral surface of a right circular cylinder of
// the given radius, spanning z in [0, height] around the local Z axis.
type CylinderFace struct {
	loc    Trsf
	radius float64
	height float64
}

// NewCylinderFace creates a cylindrical lateral face.
func NewCylinderFace(radius, height float64, loc Trsf) *CylinderFace {
	return &CylinderFace{loc: loc, radius: radius, height: height}
}

// Location returns the face placement.
func (f *CylinderFace) Location() Trsf { return f.loc }

// Radius returns the cylinder radius.
func (f *CylinderFace) Radius() float64 { return f.radius }

// Height returns the cylinder height.
func (f *CylinderFace) Height() float64 { return f.height }

// Triangulate approximates the surface with a closed quad strip of
// 2*segments triangles. The seam is closed by index, not by duplicated
// nodes, so the strip is topologically a tube.
func (f *CylinderFace) Triangulate(linear, angular float64, relative bool) Triangulation {
	n := circleSegments(f.radius, linear, angular, relative)
	var t Triangulation
	// Ring at z=0 occupies nodes [0,n), ring at z=height nodes [n,2n).
	for _, z := range []float64{0, f.height} {
		for i := 0; i < n; i++ {
			t.Nodes = append(t.Nodes, circlePoint(f.radius, i, n, z))
		}
	}
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		t.Triangles = append(t.Triangles,
			[3]int{i, j, n + i},
			[3]int{j, n + j, n + i},
		)
	}
	return t
}

// circlePoint returns point i of an n-gon approximation of a circle of
// the given radius at height z. Every face sharing the circle must go
// through this helper so that shared ring nodes are bit-identical and
// deduplicate exactly.
func circlePoint(radius float64, i, n int, z float64) r3.Vec {
	a := 2 * math.Pi * float64(i) / float64(n)
	return r3.Vec{X: radius * math.Cos(a), Y: radius * math.Sin(a), Z: z}
}

// circleSegments picks the polygon segment count for a circle of the
// given radius. Angular deflection bounds the arc step per segment;
// linear deflection bounds the chordal sagitta, interpreted relative to
// the radius when relative is true.
func circleSegments(radius, linear, angular float64, relative bool) int {
	n := 3
	if angular > 0 {
		if m := int(math.Ceil(2 * math.Pi / angular)); m > n {
			n = m
		}
	}
	lin := linear
	if relative {
		lin = linear * radius
	}
	if lin > 0 && lin < radius {
		if m := int(math.Ceil(math.Pi / math.Acos(1-lin/radius))); m > n {
			n = m
		}
	}
	return n
}
