// Package meshdoc is the in-memory mesh container: an ordered set of
// indexed-triangle mesh objects with color palettes, build items, and
// metadata, persisted to 3MF or binary STL through extension-dispatched
// codecs. It stores exactly what the file formats store — float32 vertex
// positions, uint32 index triples, 8-bit color channels — and performs no
// geometry processing of its own.
package meshdoc

// Version is the container package version, reported alongside written
// files' metadata when callers ask for it.
const Version = "0.3.0"

// Document owns every resource of one mesh model. A Document is not safe
// for concurrent use.
type Document struct {
	unit        Unit
	nextID      uint32
	objects     []*MeshObject
	colorGroups []*ColorGroup
	build       []BuildItem
	metadata    *MetadataGroup
}

// NewDocument creates an empty document with the given model unit.
func NewDocument(unit Unit) *Document {
	return &Document{unit: unit, nextID: 1}
}

// Unit returns the document's length unit.
func (d *Document) Unit() Unit { return d.unit }

// SetUnit replaces the document's length unit wholesale.
func (d *Document) SetUnit(u Unit) { d.unit = u }

// AddMeshObject allocates an empty mesh object with a fresh resource ID.
func (d *Document) AddMeshObject() *MeshObject {
	o := &MeshObject{id: d.nextID}
	d.nextID++
	d.objects = append(d.objects, o)
	return o
}

// RemoveMeshObject detaches a mesh object and its build items from the
// document. Removing an object that is not in the document is a no-op.
func (d *Document) RemoveMeshObject(o *MeshObject) {
	for i, obj := range d.objects {
		if obj == o {
			d.objects = append(d.objects[:i], d.objects[i+1:]...)
			break
		}
	}
	kept := d.build[:0]
	for _, item := range d.build {
		if item.ObjectID != o.id {
			kept = append(kept, item)
		}
	}
	d.build = kept
}

// MeshObjects returns the document's mesh objects in resource order.
func (d *Document) MeshObjects() []*MeshObject { return d.objects }

// MeshObjectByID returns the mesh object with the given resource ID.
func (d *Document) MeshObjectByID(id uint32) (*MeshObject, bool) {
	for _, o := range d.objects {
		if o.id == id {
			return o, true
		}
	}
	return nil, false
}

// AddColorGroup allocates an empty color group with a fresh resource ID.
func (d *Document) AddColorGroup() *ColorGroup {
	g := &ColorGroup{id: d.nextID}
	d.nextID++
	d.colorGroups = append(d.colorGroups, g)
	return g
}

// ColorGroups returns the document's color groups in resource order.
func (d *Document) ColorGroups() []*ColorGroup { return d.colorGroups }

// ColorGroupByID returns the color group with the given resource ID.
func (d *Document) ColorGroupByID(id uint32) (*ColorGroup, bool) {
	for _, g := range d.colorGroups {
		if g.id == id {
			return g, true
		}
	}
	return nil, false
}

// AddBuildItem places a mesh object in the build with a transform.
func (d *Document) AddBuildItem(o *MeshObject, t Transform) {
	d.build = append(d.build, BuildItem{ObjectID: o.id, Transform: t})
}

// BuildItems returns the build plate contents.
func (d *Document) BuildItems() []BuildItem { return d.build }

// MetadataGroup returns the document's metadata group, creating it on
// first use.
func (d *Document) MetadataGroup() *MetadataGroup {
	if d.metadata == nil {
		d.metadata = &MetadataGroup{}
	}
	return d.metadata
}

// BuildItem is an instance of a mesh object placed with a transform.
type BuildItem struct {
	ObjectID  uint32
	Transform Transform
}

// Transform is a 3MF-style row-major 4x3 affine transform: three rows of
// rotation/scale followed by a translation row.
type Transform [12]float64

// IdentityTransform returns the identity placement.
func IdentityTransform() Transform {
	return Transform{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
		0, 0, 0,
	}
}

// IsIdentity reports whether the transform is exactly the identity.
func (t Transform) IsIdentity() bool {
	return t == IdentityTransform()
}
