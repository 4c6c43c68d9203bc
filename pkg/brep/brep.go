// Package brep models boundary-representation shapes at the fidelity the
// mesh translation engine needs: faces with placement transforms and
// deflection-driven triangulation, sewing of independent faces into
// shells, and promotion of manifold shells to solids. It is deliberately
// not a general modeling kernel; boolean operations and parametric
// surfaces beyond the provided face types live elsewhere.
package brep

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Default deflections used for internal geometric queries (centroid,
// manifold test, volume) when the caller has not triangulated the shape.
const (
	defaultLinearDeflection  = 0.5
	defaultAngularDeflection = 0.5
)

// Color is an RGBA color with channels in [0, 1].
type Color struct {
	R, G, B, A float64
}

// ShapeKind classifies a shape's topological level.
type ShapeKind int

const (
	KindShell ShapeKind = iota // open or unverified collection of faces
	KindSolid                  // closed manifold shell
	KindCompound               // disjoint child shapes
)

func (k ShapeKind) String() string {
	switch k {
	case KindShell:
		return "shell"
	case KindSolid:
		return "solid"
	case KindCompound:
		return "compound"
	default:
		return "unknown"
	}
}

// Triangulation is the result of meshing a single face. Nodes are in
// face-local coordinates; the face's Location places them in world space.
// Triangles index into Nodes.
type Triangulation struct {
	Nodes     []r3.Vec
	Triangles [][3]int
}

// Face is a single bounded surface of a shape. Triangulate returns nodes
// in face-local coordinates and must be deterministic for identical
// deflection parameters.
type Face interface {
	// Location is the rigid placement from face-local to world coordinates.
	Location() Trsf

	// Triangulate meshes the face. Linear deflection bounds the chordal
	// deviation (relative to feature size when relative is true), angular
	// deflection bounds the angle step on curved surfaces, both in the
	// same convention as the primitives in this package.
	Triangulate(linear, angular float64, relative bool) Triangulation
}

// Shape is a shell, solid, or compound of shapes. A Shape carries an
// optional label and an optional single RGBA color; color variation
// within one shape is not modeled.
type Shape struct {
	Label string
	Color *Color

	kind     ShapeKind
	faces    []Face
	children []*Shape

	// mergeTol is the vertex coincidence tolerance used by topology
	// queries. Shapes produced by sewing inherit the sewing tolerance.
	mergeTol float64

	// tess caches per-face triangulations, parallel to faces. Populated
	// only by an explicit Triangulate call.
	tess []*Triangulation
}

// NewShell creates a shell shape from independent faces.
func NewShell(faces []Face) *Shape {
	return &Shape{kind: KindShell, faces: faces, mergeTol: defaultMergeTolerance}
}

// NewCompound creates a compound holding the given child shapes.
func NewCompound(children ...*Shape) *Shape {
	return &Shape{kind: KindCompound, children: children}
}

// Kind returns the shape's topological classification.
func (s *Shape) Kind() ShapeKind { return s.kind }

// Faces returns the shape's faces. Compounds have no faces of their own.
func (s *Shape) Faces() []Face { return s.faces }

// Children returns the child shapes of a compound, or nil.
func (s *Shape) Children() []*Shape { return s.children }

// Leaves flattens a compound into its non-compound descendants. For a
// shell or solid it returns the shape itself.
func (s *Shape) Leaves() []*Shape {
	if s.kind != KindCompound {
		return []*Shape{s}
	}
	var leaves []*Shape
	for _, c := range s.children {
		leaves = append(leaves, c.Leaves()...)
	}
	return leaves
}

// Copy returns an independent working copy of the shape. Faces are
// immutable and shared; triangulation caches are not carried over, so
// triangulating the copy never touches the original.
func (s *Shape) Copy() *Shape {
	cp := &Shape{
		Label:    s.Label,
		kind:     s.kind,
		mergeTol: s.mergeTol,
	}
	if s.Color != nil {
		c := *s.Color
		cp.Color = &c
	}
	cp.faces = append(cp.faces, s.faces...)
	for _, child := range s.children {
		cp.children = append(cp.children, child.Copy())
	}
	return cp
}

// Triangulate meshes every face of the shape and caches the results.
// Compounds triangulate their children.
func (s *Shape) Triangulate(linear, angular float64, relative bool) {
	for _, c := range s.children {
		c.Triangulate(linear, angular, relative)
	}
	s.tess = make([]*Triangulation, len(s.faces))
	for i, f := range s.faces {
		t := f.Triangulate(linear, angular, relative)
		s.tess[i] = &t
	}
}

// IsTriangulated reports whether Triangulate has been called on the shape.
func (s *Shape) IsTriangulated() bool {
	if s.kind == KindCompound {
		for _, c := range s.children {
			if !c.IsTriangulated() {
				return false
			}
		}
		return len(s.children) > 0
	}
	return s.tess != nil
}

// FaceTriangulation returns the cached triangulation for face i, or nil
// if the shape has not been triangulated.
func (s *Shape) FaceTriangulation(i int) *Triangulation {
	if s.tess == nil || i < 0 || i >= len(s.tess) {
		return nil
	}
	return s.tess[i]
}

// worldTriangles yields every triangle of every face in world
// coordinates, using cached triangulations when present and default
// deflections otherwise. The fallback never populates the cache.
func (s *Shape) worldTriangles() [][3]r3.Vec {
	var out [][3]r3.Vec
	for _, c := range s.children {
		out = append(out, c.worldTriangles()...)
	}
	for i, f := range s.faces {
		t := s.FaceTriangulation(i)
		if t == nil {
			tt := f.Triangulate(defaultLinearDeflection, defaultAngularDeflection, true)
			t = &tt
		}
		loc := f.Location()
		for _, tri := range t.Triangles {
			out = append(out, [3]r3.Vec{
				loc.Apply(t.Nodes[tri[0]]),
				loc.Apply(t.Nodes[tri[1]]),
				loc.Apply(t.Nodes[tri[2]]),
			})
		}
	}
	return out
}

// BoundingBox returns the axis-aligned bounding box of the shape's
// triangulated surface.
func (s *Shape) BoundingBox() (min, max r3.Vec) {
	first := true
	for _, tri := range s.worldTriangles() {
		for _, p := range tri {
			if first {
				min, max = p, p
				first = false
				continue
			}
			if p.X < min.X {
				min.X = p.X
			}
			if p.Y < min.Y {
				min.Y = p.Y
			}
			if p.Z < min.Z {
				min.Z = p.Z
			}
			if p.X > max.X {
				max.X = p.X
			}
			if p.Y > max.Y {
				max.Y = p.Y
			}
			if p.Z > max.Z {
				max.Z = p.Z
			}
		}
	}
	return min, max
}

// Centroid returns the center of the shape's bounding box. It is the
// reference point for outward-orientation tests during meshing.
func (s *Shape) Centroid() r3.Vec {
	min, max := s.BoundingBox()
	return r3.Scale(0.5, r3.Add(min, max))
}

// Volume returns the volume enclosed by the shape's triangulated surface
// via the divergence theorem. The result is only meaningful for closed,
// consistently oriented shells and solids.
func (s *Shape) Volume() float64 {
	var v float64
	for _, tri := range s.worldTriangles() {
		v += r3.Dot(tri[0], r3.Cross(tri[1], tri[2]))
	}
	v /= 6
	if v < 0 {
		v = -v
	}
	return v
}
