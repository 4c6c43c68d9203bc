package mesher

import "gonum.org/v1/gonum/spatial/r3"

// dedupVertices merges exactly-equal points into a canonical vertex
// buffer and returns, for every input position, the canonical index it
// mapped to. Canonical indices are assigned in first-occurrence order,
// so the result is deterministic for identical input. Points differing
// by any amount of float rounding stay distinct: the predicate is exact
// coordinate equality, no epsilon.
func dedupVertices(vertices []r3.Vec) ([]r3.Vec, []int) {
	canonical := make([]r3.Vec, 0, len(vertices))
	index := make(map[r3.Vec]int, len(vertices))
	remap := make([]int, len(vertices))
	for i, p := range vertices {
		ci, ok := index[p]
		if !ok {
			ci = len(canonical)
			canonical = append(canonical, p)
			index[p] = ci
		}
		remap[i] = ci
	}
	return canonical, remap
}
