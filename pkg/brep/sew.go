package brep

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// defaultMergeTolerance is the vertex coincidence tolerance used when no
// explicit sewing tolerance is in effect.
const defaultMergeTolerance = 1e-9

// ErrNotManifold is returned when promoting a non-manifold shell to a solid.
var ErrNotManifold = errors.New("brep: shell is not a closed manifold")

// Sewing merges coincident edges and vertices of independent faces into
// connected shells. Faces are connected when they share an edge whose
// endpoints coincide within the tolerance.
type Sewing struct {
	tolerance float64
	faces     []Face
}

// NewSewing creates a sewing operation with the given coincidence
// tolerance. Non-positive tolerances fall back to a small default.
func NewSewing(tolerance float64) *Sewing {
	if tolerance <= 0 {
		tolerance = defaultMergeTolerance
	}
	return &Sewing{tolerance: tolerance}
}

// Add queues a face for sewing.
func (s *Sewing) Add(f Face) {
	s.faces = append(s.faces, f)
}

// Perform partitions the queued faces into edge-connected components and
// returns one shell per component. Faces that share no edge with any
// other face form single-face shells.
func (s *Sewing) Perform() []*Shape {
	if len(s.faces) == 0 {
		return nil
	}

	parent := make([]int, len(s.faces))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	// Faces sharing a quantized edge belong to the same shell.
	edgeOwner := map[edgeKey]int{}
	for i, f := range s.faces {
		for _, e := range faceEdges(f, s.tolerance) {
			if j, ok := edgeOwner[e]; ok {
				union(i, j)
			} else {
				edgeOwner[e] = i
			}
		}
	}

	// Group faces by component root, preserving insertion order.
	var order []int
	groups := map[int][]Face{}
	for i, f := range s.faces {
		r := find(i)
		if _, ok := groups[r]; !ok {
			order = append(order, r)
		}
		groups[r] = append(groups[r], f)
	}

	shells := make([]*Shape, 0, len(order))
	for _, r := range order {
		sh := NewShell(groups[r])
		sh.mergeTol = s.tolerance
		shells = append(shells, sh)
	}
	return shells
}

// MakeSolid promotes a manifold shell to a solid. The shell's faces are
// reused; only the classification changes.
func MakeSolid(shell *Shape) (*Shape, error) {
	if !shell.IsManifold() {
		return nil, ErrNotManifold
	}
	solid := shell.Copy()
	solid.kind = KindSolid
	return solid, nil
}

// IsManifold reports whether every edge of the shape's triangulated
// surface is shared by exactly two triangles with opposite directions,
// which makes the surface closed and consistently oriented.
func (s *Shape) IsManifold() bool {
	tol := s.mergeTol
	if tol <= 0 {
		tol = defaultMergeTolerance
	}
	type balance struct{ fwd, bwd int }
	edges := map[edgeKey]*balance{}
	tris := s.worldTriangles()
	if len(tris) == 0 {
		return false
	}
	for _, tri := range tris {
		keys := [3]gridKey{
			quantize(tri[0], tol),
			quantize(tri[1], tol),
			quantize(tri[2], tol),
		}
		for i := 0; i < 3; i++ {
			a, b := keys[i], keys[(i+1)%3]
			if a == b {
				return false // zero-length edge
			}
			k, forward := orient(a, b)
			bal := edges[k]
			if bal == nil {
				bal = &balance{}
				edges[k] = bal
			}
			if forward {
				bal.fwd++
			} else {
				bal.bwd++
			}
		}
	}
	for _, bal := range edges {
		if bal.fwd != 1 || bal.bwd != 1 {
			return false
		}
	}
	return true
}

// gridKey identifies a vertex snapped to a tolerance grid.
type gridKey [3]int64

// edgeKey identifies an undirected edge between two grid vertices.
type edgeKey struct{ a, b gridKey }

func quantize(p r3.Vec, tol float64) gridKey {
	return gridKey{
		int64(math.Round(p.X / tol)),
		int64(math.Round(p.Y / tol)),
		int64(math.Round(p.Z / tol)),
	}
}

// orient returns the canonical undirected key for edge a->b and whether
// the traversal a->b is the canonical direction.
func orient(a, b gridKey) (edgeKey, bool) {
	if less(a, b) {
		return edgeKey{a, b}, true
	}
	return edgeKey{b, a}, false
}

func less(a, b gridKey) bool {
	for i := 0; i < 3; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// faceEdges returns the quantized undirected edges of a face's
// triangulation in world coordinates.
func faceEdges(f Face, tol float64) []edgeKey {
	t := f.Triangulate(defaultLinearDeflection, defaultAngularDeflection, true)
	loc := f.Location()
	var out []edgeKey
	for _, tri := range t.Triangles {
		keys := [3]gridKey{
			quantize(loc.Apply(t.Nodes[tri[0]]), tol),
			quantize(loc.Apply(t.Nodes[tri[1]]), tol),
			quantize(loc.Apply(t.Nodes[tri[2]]), tol),
		}
		for i := 0; i < 3; i++ {
			k, _ := orient(keys[i], keys[(i+1)%3])
			out = append(out, k)
		}
	}
	return out
}
