package meshdoc

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

func init() {
	RegisterCodec("3mf", threemfCodec{})
}

const (
	nsCore       = "http://schemas.microsoft.com/3dmanufacturing/core/2015/02"
	nsMaterial   = "http://schemas.microsoft.com/3dmanufacturing/material/2015/02"
	nsProduction = "http://schemas.microsoft.com/3dmanufacturing/production/2015/06"

	modelPartPath = "3D/3dmodel.model"

	contentTypesXML = `<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
 <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
 <Default Extension="model" ContentType="application/vnd.ms-package.3dmanufacturing-3dmodel+xml"/>
</Types>
`
	relsXML = `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
 <Relationship Target="/3D/3dmodel.model" Id="rel0" Type="http://schemas.microsoft.com/3dmanufacturing/2013/01/3dmodel"/>
</Relationships>
`
)

// threemfCodec reads and writes the 3MF container: an OPC zip package
// whose model part is core-spec XML plus the material extension for
// color groups and the production extension for object UUIDs.
type threemfCodec struct{}

// --- write structures ---
//
// Element and attribute names that belong to the material and production
// extensions carry their prefix literally; the matching xmlns
// declarations sit on the model element.

type xmlModelOut struct {
	XMLName    xml.Name         `xml:"model"`
	Unit       string           `xml:"unit,attr"`
	Xmlns      string           `xml:"xmlns,attr"`
	XmlnsM     string           `xml:"xmlns:m,attr"`
	XmlnsP     string           `xml:"xmlns:p,attr"`
	Metadata   []xmlMetadataOut `xml:"metadata"`
	Resources  xmlResourcesOut  `xml:"resources"`
	Build      xmlBuildOut      `xml:"build"`
}

type xmlMetadataOut struct {
	Name     string `xml:"name,attr"`
	Type     string `xml:"type,attr,omitempty"`
	Preserve string `xml:"preserve,attr,omitempty"`
	Value    string `xml:",chardata"`
}

type xmlResourcesOut struct {
	ColorGroups []xmlColorGroupOut `xml:"m:colorgroup"`
	Objects     []xmlObjectOut     `xml:"object"`
}

type xmlColorGroupOut struct {
	ID     uint32        `xml:"id,attr"`
	Colors []xmlColorOut `xml:"m:color"`
}

type xmlColorOut struct {
	Color string `xml:"color,attr"`
}

type xmlObjectOut struct {
	ID         uint32     `xml:"id,attr"`
	Type       string     `xml:"type,attr"`
	Name       string     `xml:"name,attr,omitempty"`
	PartNumber string     `xml:"partnumber,attr,omitempty"`
	UUID       string     `xml:"p:UUID,attr,omitempty"`
	PID        *uint32    `xml:"pid,attr,omitempty"`
	PIndex     *uint32    `xml:"pindex,attr,omitempty"`
	Mesh       xmlMeshOut `xml:"mesh"`
}

type xmlMeshOut struct {
	Vertices  []xmlVertexOut   `xml:"vertices>vertex"`
	Triangles []xmlTriangleOut `xml:"triangles>triangle"`
}

type xmlVertexOut struct {
	X float32 `xml:"x,attr"`
	Y float32 `xml:"y,attr"`
	Z float32 `xml:"z,attr"`
}

type xmlTriangleOut struct {
	V1  uint32  `xml:"v1,attr"`
	V2  uint32  `xml:"v2,attr"`
	V3  uint32  `xml:"v3,attr"`
	PID *uint32 `xml:"pid,attr,omitempty"`
	P1  *uint32 `xml:"p1,attr,omitempty"`
	P2  *uint32 `xml:"p2,attr,omitempty"`
	P3  *uint32 `xml:"p3,attr,omitempty"`
}

type xmlBuildOut struct {
	Items []xmlItemOut `xml:"item"`
}

type xmlItemOut struct {
	ObjectID  uint32 `xml:"objectid,attr"`
	Transform string `xml:"transform,attr,omitempty"`
}

func (threemfCodec) Write(d *Document, w io.Writer) error {
	out := xmlModelOut{
		Unit:   d.unit.String(),
		Xmlns:  nsCore,
		XmlnsM: nsMaterial,
		XmlnsP: nsProduction,
	}

	if d.metadata != nil {
		for _, md := range d.metadata.Entries() {
			name := md.Name
			if md.Namespace != "" {
				name = md.Namespace + ":" + md.Name
			}
			preserve := ""
			if md.MustPreserve {
				preserve = "1"
			}
			out.Metadata = append(out.Metadata, xmlMetadataOut{
				Name:     name,
				Type:     md.Type,
				Preserve: preserve,
				Value:    md.Value,
			})
		}
	}

	for _, g := range d.colorGroups {
		cg := xmlColorGroupOut{ID: g.ID()}
		for _, c := range g.Colors() {
			cg.Colors = append(cg.Colors, xmlColorOut{Color: c.Hex()})
		}
		out.Resources.ColorGroups = append(out.Resources.ColorGroups, cg)
	}

	for _, o := range d.objects {
		xo := xmlObjectOut{
			ID:         o.ID(),
			Type:       o.Type.String(),
			Name:       o.Name,
			PartNumber: o.PartNumber,
			UUID:       o.UUID,
		}
		if ref, ok := o.ObjectLevelProperty(); ok {
			pid, pindex := ref.ResourceID, ref.Index
			xo.PID = &pid
			xo.PIndex = &pindex
		}
		for _, v := range o.Vertices() {
			xo.Mesh.Vertices = append(xo.Mesh.Vertices, xmlVertexOut{X: v[0], Y: v[1], Z: v[2]})
		}
		for i, t := range o.Triangles() {
			xt := xmlTriangleOut{V1: t[0], V2: t[1], V3: t[2]}
			if p, ok := o.TriangleProperty(i); ok {
				pid := p.ResourceID
				p1, p2, p3 := p.PropertyIDs[0], p.PropertyIDs[1], p.PropertyIDs[2]
				xt.PID = &pid
				xt.P1, xt.P2, xt.P3 = &p1, &p2, &p3
			}
			xo.Mesh.Triangles = append(xo.Mesh.Triangles, xt)
		}
		out.Resources.Objects = append(out.Resources.Objects, xo)
	}

	for _, item := range d.build {
		xi := xmlItemOut{ObjectID: item.ObjectID}
		if !item.Transform.IsIdentity() {
			xi.Transform = formatTransform(item.Transform)
		}
		out.Build.Items = append(out.Build.Items, xi)
	}

	body, err := xml.MarshalIndent(out, "", " ")
	if err != nil {
		return fmt.Errorf("3mf: marshal model: %w", err)
	}

	zw := zip.NewWriter(w)
	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{"_rels/.rels", []byte(relsXML)},
		{modelPartPath, append([]byte(xml.Header), body...)},
	}
	for _, p := range parts {
		f, err := zw.Create(p.name)
		if err != nil {
			return fmt.Errorf("3mf: create part %s: %w", p.name, err)
		}
		if _, err := f.Write(p.data); err != nil {
			return fmt.Errorf("3mf: write part %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("3mf: close container: %w", err)
	}
	return nil
}

// --- read structures (namespace prefixes are resolved by the decoder,
// so tags use bare local names) ---

type xmlModelIn struct {
	Unit      string           `xml:"unit,attr"`
	Metadata  []xmlMetadataOut `xml:"metadata"`
	Resources xmlResourcesIn   `xml:"resources"`
	Build     xmlBuildIn       `xml:"build"`
}

type xmlResourcesIn struct {
	ColorGroups []xmlColorGroupIn `xml:"colorgroup"`
	Objects     []xmlObjectIn     `xml:"object"`
}

type xmlColorGroupIn struct {
	ID     uint32        `xml:"id,attr"`
	Colors []xmlColorOut `xml:"color"`
}

type xmlObjectIn struct {
	ID         uint32    `xml:"id,attr"`
	Type       string    `xml:"type,attr"`
	Name       string    `xml:"name,attr"`
	PartNumber string    `xml:"partnumber,attr"`
	UUID       string    `xml:"UUID,attr"`
	PID        *uint32   `xml:"pid,attr"`
	PIndex     *uint32   `xml:"pindex,attr"`
	Mesh       xmlMeshIn `xml:"mesh"`
}

type xmlMeshIn struct {
	Vertices  []xmlVertexOut  `xml:"vertices>vertex"`
	Triangles []xmlTriangleIn `xml:"triangles>triangle"`
}

type xmlTriangleIn struct {
	V1  uint32  `xml:"v1,attr"`
	V2  uint32  `xml:"v2,attr"`
	V3  uint32  `xml:"v3,attr"`
	PID *uint32 `xml:"pid,attr"`
	P1  *uint32 `xml:"p1,attr"`
	P2  *uint32 `xml:"p2,attr"`
	P3  *uint32 `xml:"p3,attr"`
}

type xmlBuildIn struct {
	Items []xmlItemIn `xml:"item"`
}

type xmlItemIn struct {
	ObjectID  uint32 `xml:"objectid,attr"`
	Transform string `xml:"transform,attr"`
}

func (threemfCodec) Read(d *Document, r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("3mf: read container: %w", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return fmt.Errorf("3mf: open container: %w", err)
	}

	var model *zip.File
	for _, f := range zr.File {
		if f.Name == modelPartPath || strings.HasSuffix(f.Name, ".model") {
			model = f
			break
		}
	}
	if model == nil {
		return fmt.Errorf("3mf: container has no model part")
	}
	mf, err := model.Open()
	if err != nil {
		return fmt.Errorf("3mf: open model part: %w", err)
	}
	defer mf.Close()

	var in xmlModelIn
	if err := xml.NewDecoder(mf).Decode(&in); err != nil {
		return fmt.Errorf("3mf: parse model part: %w", err)
	}

	unit, err := ParseUnit(in.Unit)
	if err != nil {
		return fmt.Errorf("3mf: %w", err)
	}
	d.SetUnit(unit)

	for _, md := range in.Metadata {
		namespace, name := "", md.Name
		if i := strings.LastIndex(md.Name, ":"); i >= 0 {
			namespace, name = md.Name[:i], md.Name[i+1:]
		}
		d.MetadataGroup().Add(Metadata{
			Namespace:    namespace,
			Name:         name,
			Value:        md.Value,
			Type:         md.Type,
			MustPreserve: md.Preserve == "1" || md.Preserve == "true",
		})
	}

	// Resource IDs come from the file; keep allocating above them.
	maxID := uint32(0)
	for _, cg := range in.Resources.ColorGroups {
		g := d.AddColorGroup()
		g.id = cg.ID
		for _, c := range cg.Colors {
			rgba, err := ParseHex(c.Color)
			if err != nil {
				return fmt.Errorf("3mf: color group %d: %w", cg.ID, err)
			}
			g.AddColor(rgba)
		}
		if cg.ID > maxID {
			maxID = cg.ID
		}
	}

	for _, xo := range in.Resources.Objects {
		typ, err := ParseObjectType(xo.Type)
		if err != nil {
			return fmt.Errorf("3mf: object %d: %w", xo.ID, err)
		}
		if xo.UUID != "" {
			if _, err := uuid.Parse(xo.UUID); err != nil {
				return fmt.Errorf("3mf: object %d: bad uuid %q: %w", xo.ID, xo.UUID, err)
			}
		}
		o := d.AddMeshObject()
		o.id = xo.ID
		o.Name = xo.Name
		o.PartNumber = xo.PartNumber
		o.UUID = xo.UUID
		o.Type = typ
		for _, v := range xo.Mesh.Vertices {
			o.AddVertex(Position{v.X, v.Y, v.Z})
		}
		for i, t := range xo.Mesh.Triangles {
			o.AddTriangle(Triangle{t.V1, t.V2, t.V3})
			if t.PID != nil {
				p := TriangleProperties{ResourceID: *t.PID}
				// Missing per-corner indices default to the first
				// property, matching the format default.
				if t.P1 != nil {
					p.PropertyIDs[0] = *t.P1
				}
				if t.P2 != nil {
					p.PropertyIDs[1] = *t.P2
				}
				if t.P3 != nil {
					p.PropertyIDs[2] = *t.P3
				}
				if err := o.SetTriangleProperties(i, p); err != nil {
					return fmt.Errorf("3mf: object %d: %w", xo.ID, err)
				}
			}
		}
		if xo.PID != nil {
			pindex := uint32(0)
			if xo.PIndex != nil {
				pindex = *xo.PIndex
			}
			o.SetObjectLevelProperty(*xo.PID, pindex)
		}
		if xo.ID > maxID {
			maxID = xo.ID
		}
	}
	d.nextID = maxID + 1

	for _, xi := range in.Build.Items {
		t := IdentityTransform()
		if xi.Transform != "" {
			t, err = parseTransform(xi.Transform)
			if err != nil {
				return fmt.Errorf("3mf: build item for object %d: %w", xi.ObjectID, err)
			}
		}
		d.build = append(d.build, BuildItem{ObjectID: xi.ObjectID, Transform: t})
	}
	return nil
}

func formatTransform(t Transform) string {
	parts := make([]string, len(t))
	for i, v := range t {
		parts[i] = fmt.Sprintf("%g", v)
	}
	return strings.Join(parts, " ")
}

func parseTransform(s string) (Transform, error) {
	fields := strings.Fields(s)
	if len(fields) != 12 {
		return Transform{}, fmt.Errorf("transform needs 12 values, got %d", len(fields))
	}
	var t Transform
	for i, f := range fields {
		if _, err := fmt.Sscanf(f, "%g", &t[i]); err != nil {
			return Transform{}, fmt.Errorf("bad transform value %q: %w", f, err)
		}
	}
	return t, nil
}
