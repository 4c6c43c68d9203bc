package mesher

import "gonum.org/v1/gonum/spatial/r3"

// degenerateNormalEps bounds the squared facet normal length below which
// the facet normal is considered undefined.
const degenerateNormalEps = 1e-30

// facetForward reports whether the winding of the facet (p0,p1,p2)
// already faces away from the shape center: the angle between the facet
// normal and the vector from the facet centroid to the shape center is
// 90 degrees or more. An exactly perpendicular normal counts as forward.
// Near-zero-area facets have an undefined normal and are passed through
// with their original winding.
func facetForward(p0, p1, p2, center r3.Vec) bool {
	n := r3.Cross(r3.Sub(p1, p0), r3.Sub(p2, p0))
	if r3.Dot(n, n) < degenerateNormalEps {
		return true
	}
	c := r3.Scale(1.0/3.0, r3.Add(r3.Add(p0, p1), p2))
	return r3.Dot(n, r3.Sub(center, c)) <= 0
}
