package brep

import "gonum.org/v1/gonum/spatial/r3"

// Trsf is a rigid placement: a rotation (given by the world-space images
// of the local axes) followed by a translation. Axis images with exact
// 0/±1 components keep coordinate transforms bit-exact, which matters
// because downstream vertex deduplication compares coordinates exactly.
type Trsf struct {
	xAxis, yAxis, zAxis r3.Vec
	offset              r3.Vec
}

// Identity returns the identity placement.
func Identity() Trsf {
	return Trsf{
		xAxis: r3.Vec{X: 1},
		yAxis: r3.Vec{Y: 1},
		zAxis: r3.Vec{Z: 1},
	}
}

// Translation returns a pure translation placement.
func Translation(offset r3.Vec) Trsf {
	t := Identity()
	t.offset = offset
	return t
}

// NewTrsf returns a placement mapping the local axes onto the given
// world-space directions, followed by a translation to offset. The axes
// are expected to be orthonormal; this is not checked.
func NewTrsf(xAxis, yAxis, zAxis, offset r3.Vec) Trsf {
	return Trsf{xAxis: xAxis, yAxis: yAxis, zAxis: zAxis, offset: offset}
}

// Apply transforms a face-local point into world coordinates.
func (t Trsf) Apply(p r3.Vec) r3.Vec {
	v := r3.Add(r3.Scale(p.X, t.xAxis), r3.Scale(p.Y, t.yAxis))
	v = r3.Add(v, r3.Scale(p.Z, t.zAxis))
	return r3.Add(v, t.offset)
}

// Normal transforms a face-local direction into world coordinates,
// ignoring the translation component.
func (t Trsf) Normal(d r3.Vec) r3.Vec {
	v := r3.Add(r3.Scale(d.X, t.xAxis), r3.Scale(d.Y, t.yAxis))
	return r3.Add(v, r3.Scale(d.Z, t.zAxis))
}
