package meshdoc

import "fmt"

// ObjectType tags the 3D-printing role of a mesh object. The zero value
// is a printable model.
type ObjectType int

const (
	ObjectTypeModel ObjectType = iota
	ObjectTypeSupport
	ObjectTypeSolidSupport
	ObjectTypeOther
)

var objectTypeNames = map[ObjectType]string{
	ObjectTypeModel:        "model",
	ObjectTypeSupport:      "support",
	ObjectTypeSolidSupport: "solidsupport",
	ObjectTypeOther:        "other",
}

func (t ObjectType) String() string {
	if s, ok := objectTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("ObjectType(%d)", int(t))
}

// ParseObjectType maps a 3MF object type attribute to an ObjectType. An
// empty string is the format default, model.
func ParseObjectType(s string) (ObjectType, error) {
	if s == "" {
		return ObjectTypeModel, nil
	}
	for t, name := range objectTypeNames {
		if name == s {
			return t, nil
		}
	}
	return ObjectTypeModel, fmt.Errorf("meshdoc: unknown object type %q", s)
}

// Position is one vertex position: three float32 components, the
// precision the mesh formats persist.
type Position [3]float32

// Triangle is one triangle: three uint32 indices into the vertex buffer.
type Triangle [3]uint32

// TriangleProperties is a per-triangle property assignment: a property
// resource (a color group here) and one property index per corner.
type TriangleProperties struct {
	ResourceID  uint32
	PropertyIDs [3]uint32
}

// PropertyReference is an object-level property: one resource/index pair
// applied to the whole object.
type PropertyReference struct {
	ResourceID uint32
	Index      uint32
}

// MeshObject is one indexed-triangle mesh resource.
type MeshObject struct {
	Name       string
	PartNumber string
	UUID       string
	Type       ObjectType

	id         uint32
	vertices   []Position
	triangles  []Triangle
	props      []TriangleProperties // parallel to triangles when non-nil
	objectProp *PropertyReference
}

// ID returns the object's resource ID within its document.
func (o *MeshObject) ID() uint32 { return o.id }

// SetGeometry replaces the object's vertex and triangle buffers and
// clears any per-triangle properties.
func (o *MeshObject) SetGeometry(vertices []Position, triangles []Triangle) {
	o.vertices = append([]Position(nil), vertices...)
	o.triangles = append([]Triangle(nil), triangles...)
	o.props = nil
}

// AddVertex appends a vertex and returns its index.
func (o *MeshObject) AddVertex(p Position) uint32 {
	o.vertices = append(o.vertices, p)
	return uint32(len(o.vertices) - 1)
}

// AddTriangle appends a triangle and returns its index.
func (o *MeshObject) AddTriangle(t Triangle) uint32 {
	o.triangles = append(o.triangles, t)
	if o.props != nil {
		o.props = append(o.props, TriangleProperties{})
	}
	return uint32(len(o.triangles) - 1)
}

// Vertices returns the vertex buffer.
func (o *MeshObject) Vertices() []Position { return o.vertices }

// Triangles returns the triangle buffer.
func (o *MeshObject) Triangles() []Triangle { return o.triangles }

// VertexCount returns the number of vertices.
func (o *MeshObject) VertexCount() int { return len(o.vertices) }

// TriangleCount returns the number of triangles.
func (o *MeshObject) TriangleCount() int { return len(o.triangles) }

// SetTriangleProperties assigns per-corner properties to triangle i.
func (o *MeshObject) SetTriangleProperties(i int, p TriangleProperties) error {
	if i < 0 || i >= len(o.triangles) {
		return fmt.Errorf("meshdoc: triangle index %d out of range [0,%d)", i, len(o.triangles))
	}
	if o.props == nil {
		o.props = make([]TriangleProperties, len(o.triangles))
	}
	o.props[i] = p
	return nil
}

// TriangleProperty returns the properties of triangle i, if any were set.
func (o *MeshObject) TriangleProperty(i int) (TriangleProperties, bool) {
	if o.props == nil || i < 0 || i >= len(o.props) {
		return TriangleProperties{}, false
	}
	return o.props[i], true
}

// AllTriangleProperties returns the per-triangle property buffer, or nil
// when no properties were ever assigned.
func (o *MeshObject) AllTriangleProperties() []TriangleProperties { return o.props }

// SetObjectLevelProperty sets the object's default property reference.
func (o *MeshObject) SetObjectLevelProperty(resourceID, index uint32) {
	o.objectProp = &PropertyReference{ResourceID: resourceID, Index: index}
}

// ObjectLevelProperty returns the object's default property reference.
func (o *MeshObject) ObjectLevelProperty() (PropertyReference, bool) {
	if o.objectProp == nil {
		return PropertyReference{}, false
	}
	return *o.objectProp, true
}

// IsValid reports structural validity: non-empty buffers and every
// triangle index within the vertex buffer.
func (o *MeshObject) IsValid() bool {
	if len(o.vertices) < 3 || len(o.triangles) == 0 {
		return false
	}
	n := uint32(len(o.vertices))
	for _, t := range o.triangles {
		if t[0] >= n || t[1] >= n || t[2] >= n {
			return false
		}
	}
	return true
}

// IsManifoldAndOriented reports whether every edge is shared by exactly
// two triangles traversed in opposite directions, making the mesh a
// closed, consistently oriented surface.
func (o *MeshObject) IsManifoldAndOriented() bool {
	if len(o.triangles) == 0 {
		return false
	}
	type balance struct{ fwd, bwd int }
	edges := map[[2]uint32]*balance{}
	for _, t := range o.triangles {
		for i := 0; i < 3; i++ {
			a, b := t[i], t[(i+1)%3]
			if a == b {
				return false
			}
			key := [2]uint32{a, b}
			forward := true
			if a > b {
				key = [2]uint32{b, a}
				forward = false
			}
			bal := edges[key]
			if bal == nil {
				bal = &balance{}
				edges[key] = bal
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
