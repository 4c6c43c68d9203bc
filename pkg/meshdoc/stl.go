package meshdoc

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

func init() {
	RegisterCodec("stl", stlCodec{})
}

// stlHeader is written into the 80-byte comment field of binary STL.
const stlHeader = "brepflow mesher " + Version

// stlCodec reads and writes binary STL. STL carries a bare triangle
// soup: no units, no colors, no metadata. Writing flattens every mesh
// object into one triangle list; reading rebuilds a single mesh object,
// deduplicating exactly-equal vertices.
type stlCodec struct{}

func (stlCodec) Write(d *Document, w io.Writer) error {
	var header struct {
		Comment [80]byte
		Count   uint32
	}
	copy(header.Comment[:], stlHeader)
	for _, o := range d.objects {
		header.Count += uint32(o.TriangleCount())
	}
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("stl: header: %w", err)
	}

	var rec struct {
		Normal  [3]float32
		Verts   [3][3]float32
		Attr    uint16
	}
	for _, o := range d.objects {
		verts := o.Vertices()
		for _, t := range o.triangles {
			p0, p1, p2 := verts[t[0]], verts[t[1]], verts[t[2]]
			rec.Normal = facetNormal(p0, p1, p2)
			rec.Verts = [3][3]float32{p0, p1, p2}
			if err := binary.Write(w, binary.LittleEndian, &rec); err != nil {
				return fmt.Errorf("stl: triangle: %w", err)
			}
		}
	}
	return nil
}

func (stlCodec) Read(d *Document, r io.Reader) error {
	var header struct {
		Comment [80]byte
		Count   uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("stl: header: %w", err)
	}

	o := d.AddMeshObject()
	o.Type = ObjectTypeModel

	// Exact-match dedup: facets sharing bit-identical corner coordinates
	// share a vertex, in first-occurrence order.
	vertIndex := map[Position]uint32{}
	rec := make([]byte, 4*3*4+2)
	for i := uint32(0); i < header.Count; i++ {
		if _, err := io.ReadFull(r, rec); err != nil {
			return fmt.Errorf("stl: triangle %d: %w", i, err)
		}
		var tri Triangle
		for v := 0; v < 3; v++ {
			const skipNormal = 3 * 4
			var p Position
			for c := 0; c < 3; c++ {
				bits := binary.LittleEndian.Uint32(rec[skipNormal+12*v+4*c:])
				p[c] = math.Float32frombits(bits)
			}
			idx, ok := vertIndex[p]
			if !ok {
				idx = o.AddVertex(p)
				vertIndex[p] = idx
			}
			tri[v] = idx
		}
		o.AddTriangle(tri)
	}
	d.AddBuildItem(o, IdentityTransform())
	return nil
}

// facetNormal computes the unit normal of a facet from its winding,
// zero for degenerate facets.
func facetNormal(p0, p1, p2 Position) [3]float32 {
	ux := p1[0] - p0[0]
	uy := p1[1] - p0[1]
	uz := p1[2] - p0[2]
	vx := p2[0] - p0[0]
	vy := p2[1] - p0[1]
	vz := p2[2] - p0[2]
	nx := uy*vz - uz*vy
	ny := uz*vx - ux*vz
	nz := ux*vy - uy*vx
	mag := float32(math.Sqrt(float64(nx*nx + ny*ny + nz*nz)))
	if mag == 0 {
		return [3]float32{}
	}
	return [3]float32{nx / mag, ny / mag, nz / mag}
}
