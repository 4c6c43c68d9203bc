package mesher

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestDedupVertices(t *testing.T) {
	in := []r3.Vec{
		{X: 0}, {X: 1}, {X: 0}, {X: 2}, {X: 1}, {X: 0},
	}
	canonical, remap := dedupVertices(in)

	want := []r3.Vec{{X: 0}, {X: 1}, {X: 2}}
	if len(canonical) != len(want) {
		t.Fatalf("canonical = %d entries, want %d", len(canonical), len(want))
	}
	for i := range want {
		if canonical[i] != want[i] {
			t.Errorf("canonical[%d] = %v, want %v (first-occurrence order)", i, canonical[i], want[i])
		}
	}
	wantRemap := []int{0, 1, 0, 2, 1, 0}
	for i := range wantRemap {
		if remap[i] != wantRemap[i] {
			t.Errorf("remap[%d] = %d, want %d", i, remap[i], wantRemap[i])
		}
	}
}

func TestDedupVerticesIdempotent(t *testing.T) {
	in := []r3.Vec{{X: 3}, {Y: 1}, {Z: 2}, {X: 1, Y: 1}}
	canonical, remap := dedupVertices(in)

	if len(canonical) != len(in) {
		t.Fatalf("canonical = %d entries, want %d", len(canonical), len(in))
	}
	for i := range in {
		if canonical[i] != in[i] {
			t.Errorf("canonical[%d] = %v, want %v unchanged", i, canonical[i], in[i])
		}
		if remap[i] != i {
			t.Errorf("remap[%d] = %d, want identity", i, remap[i])
		}
	}
}

func TestDedupVerticesNearMissStaysDistinct(t *testing.T) {
	// Exact equality, no epsilon: a float-rounding neighbour is a
	// different canonical vertex.
	in := []r3.Vec{{X: 1}, {X: 1 + 1e-16}}
	canonical, _ := dedupVertices(in)
	if len(canonical) != 2 {
		t.Errorf("canonical = %d entries, want 2", len(canonical))
	}
}

func TestFacetForward(t *testing.T) {
	// CCW triangle in the z=0 plane; its winding normal points up +Z.
	p0 := r3.Vec{}
	p1 := r3.Vec{X: 1}
	p2 := r3.Vec{Y: 1}

	tests := []struct {
		name   string
		center r3.Vec
		want   bool
	}{
		{"center below keeps winding", r3.Vec{Z: -5}, true},
		{"center above flips winding", r3.Vec{Z: 5}, false},
		{"center in facet plane is forward", r3.Vec{X: 10}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := facetForward(p0, p1, p2, tt.center); got != tt.want {
				t.Errorf("facetForward = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFacetForwardDegenerate(t *testing.T) {
	// Zero-area facet: undefined normal, winding passed through.
	p := r3.Vec{X: 1, Y: 2, Z: 3}
	if !facetForward(p, p, p, r3.Vec{}) {
		t.Error("degenerate facet was flipped")
	}
}
