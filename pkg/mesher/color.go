package mesher

import (
	"fmt"

	"github.com/brepflow/mesher/pkg/brep"
	"github.com/brepflow/mesher/pkg/meshdoc"
)

// applyColor maps a shape's color into the document palette and assigns
// it to every triangle corner plus the object-level default. A shape
// without a color gets no palette entry and no object-level reference;
// setting the default from a palette value that was never created is the
// defect this guard exists to rule out.
func (m *Mesher) applyColor(obj *meshdoc.MeshObject, color *brep.Color) {
	if color == nil {
		return
	}

	rgba := meshdoc.FloatRGBA(color.R, color.G, color.B, color.A)
	group, index := m.paletteEntry(rgba)

	props := meshdoc.TriangleProperties{
		ResourceID:  group.ID(),
		PropertyIDs: [3]uint32{index, index, index},
	}
	for i := 0; i < obj.TriangleCount(); i++ {
		// Index is always in range here; ignore the impossible error.
		_ = obj.SetTriangleProperties(i, props)
	}
	obj.SetObjectLevelProperty(group.ID(), index)
}

// paletteEntry returns an existing palette entry exactly matching the
// color, or allocates a fresh group holding it.
func (m *Mesher) paletteEntry(c meshdoc.RGBA) (*meshdoc.ColorGroup, uint32) {
	for _, g := range m.doc.ColorGroups() {
		if i, ok := g.IndexOf(c); ok {
			return g, i
		}
	}
	g := m.doc.AddColorGroup()
	return g, g.AddColor(c)
}

// extractColor recovers a single shape color from a mesh's triangle
// properties. When triangles reference more than one distinct palette
// entry the first pair in triangle/corner iteration order wins, by
// policy, and an ambiguity warning is recorded. Meshes without color
// properties yield no color.
func (m *Mesher) extractColor(obj *meshdoc.MeshObject) *brep.Color {
	props := obj.AllTriangleProperties()
	if len(props) == 0 {
		return nil
	}

	type ref struct {
		resource uint32
		index    uint32
	}
	seen := map[ref]bool{}
	var distinct []ref
	for _, p := range props {
		for corner := 0; corner < 3; corner++ {
			r := ref{p.ResourceID, p.PropertyIDs[corner]}
			if !seen[r] {
				seen[r] = true
				distinct = append(distinct, r)
			}
		}
	}
	if len(distinct) == 0 {
		return nil
	}
	if len(distinct) > 1 {
		m.warn(CodeColorAmbiguity, obj.Name,
			fmt.Sprintf("%d colors found on mesh, first one used", len(distinct)))
	}

	first := distinct[0]
	group, ok := m.doc.ColorGroupByID(first.resource)
	if !ok {
		return nil
	}
	rgba, ok := group.Color(first.index)
	if !ok {
		return nil
	}
	r, g, b, a := rgba.Floats()
	return &brep.Color{R: r, G: g, B: b, A: a}
}
