// Package mesher is the translation engine between boundary-representation
// shapes and indexed-triangle mesh documents. The write path triangulates
// a working copy of each shape, deduplicates coincident vertices, corrects
// triangle winding to face outward, drops collapsed triangles, and
// assembles a mesh object with optional color. The read path sews imported
// triangles back into shells and solids.
package mesher

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/brepflow/mesher/pkg/brep"
	"github.com/brepflow/mesher/pkg/meshdoc"
)

// Default deflections applied when AddOptions leaves them zero, matching
// the engine's historical defaults.
const (
	DefaultLinearDeflection  = 0.5
	DefaultAngularDeflection = 0.5
)

// ErrInvalidMesh is returned when an assembled mesh fails the container's
// structural validity check. The offending mesh is removed; other shapes
// in the same call are unaffected.
var ErrInvalidMesh = errors.New("mesher: assembled mesh is invalid")

// AddOptions controls one ingestion call. The zero value requests the
// defaults: 0.5 deflections, a model-type mesh, no part number, no UUID.
type AddOptions struct {
	LinearDeflection  float64
	AngularDeflection float64
	Type              meshdoc.ObjectType
	PartNumber        string
	UUID              uuid.UUID
}

func (o AddOptions) withDefaults() AddOptions {
	if o.LinearDeflection <= 0 {
		o.LinearDeflection = DefaultLinearDeflection
	}
	if o.AngularDeflection <= 0 {
		o.AngularDeflection = DefaultAngularDeflection
	}
	return o
}

// Mesher owns one mesh document and translates shapes into and out of
// it. A Mesher is not safe for concurrent use; triangulation runs
// single-threaded so that vertex generation order, and with it canonical
// index assignment, is reproducible.
type Mesher struct {
	unit   meshdoc.Unit
	doc    *meshdoc.Document
	meshes []*meshdoc.MeshObject
	diags  []Diagnostic
}

// New creates a Mesher working in the given length unit. The unit is
// fixed for the session; only a subsequent Read replaces it, wholesale,
// with the unit of the file read.
func New(unit meshdoc.Unit) *Mesher {
	return &Mesher{
		unit: unit,
		doc:  meshdoc.NewDocument(unit),
	}
}

// ModelUnit returns the current working unit.
func (m *Mesher) ModelUnit() meshdoc.Unit { return m.unit }

// Document exposes the underlying mesh document.
func (m *Mesher) Document() *meshdoc.Document { return m.doc }

// MeshCount returns the number of mesh objects in the document.
func (m *Mesher) MeshCount() int { return len(m.doc.MeshObjects()) }

// TriangleCounts returns the triangle count of each ingested mesh.
func (m *Mesher) TriangleCounts() []int {
	counts := make([]int, len(m.meshes))
	for i, o := range m.meshes {
		counts[i] = o.TriangleCount()
	}
	return counts
}

// VertexCounts returns the vertex count of each ingested mesh.
func (m *Mesher) VertexCounts() []int {
	counts := make([]int, len(m.meshes))
	for i, o := range m.meshes {
		counts[i] = o.VertexCount()
	}
	return counts
}

// MeshProperty describes one mesh object's identity metadata.
type MeshProperty struct {
	Name       string
	PartNumber string
	UUID       string
	Type       meshdoc.ObjectType
}

// MeshProperties returns identity metadata for each ingested mesh.
func (m *Mesher) MeshProperties() []MeshProperty {
	props := make([]MeshProperty, len(m.meshes))
	for i, o := range m.meshes {
		props[i] = MeshProperty{
			Name:       o.Name,
			PartNumber: o.PartNumber,
			UUID:       o.UUID,
			Type:       o.Type,
		}
	}
	return props
}

// Diagnostics returns the findings accumulated so far, oldest first.
func (m *Mesher) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), m.diags...)
}

func (m *Mesher) warn(code Code, shape, message string) {
	m.diags = append(m.diags, Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Shape:    shape,
		Message:  message,
	})
}

// AddMetadata attaches a key-value metadata entry to the document,
// scoped by a namespace/name pair.
func (m *Mesher) AddMetadata(namespace, name, value, metadataType string, mustPreserve bool) {
	m.doc.MetadataGroup().Add(meshdoc.Metadata{
		Namespace:    namespace,
		Name:         name,
		Value:        value,
		Type:         metadataType,
		MustPreserve: mustPreserve,
	})
}

// Metadata returns all metadata entries in insertion order.
func (m *Mesher) Metadata() []meshdoc.Metadata {
	return m.doc.MetadataGroup().Entries()
}

// MetadataByKey returns the entry for a namespace/name pair.
func (m *Mesher) MetadataByKey(namespace, name string) (meshdoc.Metadata, bool) {
	return m.doc.MetadataGroup().ByKey(namespace, name)
}

// AddShape runs the write-path pipeline for one shape. Compounds are
// flattened; each leaf becomes its own mesh. The caller's shape is
// borrowed for the call only: triangulation happens on an engine-owned
// copy and the original is never mutated.
func (m *Mesher) AddShape(shape *brep.Shape, opts AddOptions) error {
	return m.AddShapes([]*brep.Shape{shape}, opts)
}

// AddShapes ingests several shapes with shared options. A shape that
// fails ingestion does not abort the batch: remaining shapes still
// proceed, completed meshes stay in the document, and the per-shape
// errors are returned joined.
func (m *Mesher) AddShapes(shapes []*brep.Shape, opts AddOptions) error {
	opts = opts.withDefaults()
	var errs []error
	for _, shape := range shapes {
		if shape == nil {
			continue
		}
		for _, leaf := range shape.Leaves() {
			if err := m.ingest(leaf, opts); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// ingest runs the pipeline stages for one non-compound shape.
func (m *Mesher) ingest(shape *brep.Shape, opts AddOptions) error {
	center := shape.Centroid()

	raw, ok := triangulate(shape, opts.LinearDeflection, opts.AngularDeflection)
	if !ok {
		m.warn(CodeDegenerateShape, shape.Label, "degenerate shape skipped")
		return nil
	}

	canonical, remap := dedupVertices(raw.vertices)

	obj := m.doc.AddMeshObject()
	obj.Type = opts.Type
	if shape.Label != "" {
		obj.Name = shape.Label
	}
	if opts.PartNumber != "" {
		obj.PartNumber = opts.PartNumber
	}
	if opts.UUID != uuid.Nil {
		obj.UUID = opts.UUID.String()
	}

	positions := make([]meshdoc.Position, len(canonical))
	for i, p := range canonical {
		positions[i] = meshdoc.Position{float32(p.X), float32(p.Y), float32(p.Z)}
	}

	triangles := make([]meshdoc.Triangle, 0, len(raw.triangles))
	for _, t := range raw.triangles {
		p0 := raw.vertices[t[0]]
		p1 := raw.vertices[t[1]]
		p2 := raw.vertices[t[2]]
		if !facetForward(p0, p1, p2, center) {
			t[1], t[2] = t[2], t[1]
		}
		mapped := meshdoc.Triangle{
			uint32(remap[t[0]]),
			uint32(remap[t[1]]),
			uint32(remap[t[2]]),
		}
		// Triangles whose raw vertices deduplicated onto fewer than
		// three points collapse and are dropped.
		if mapped[0] == mapped[1] || mapped[1] == mapped[2] || mapped[0] == mapped[2] {
			continue
		}
		triangles = append(triangles, mapped)
	}
	obj.SetGeometry(positions, triangles)

	m.applyColor(obj, shape.Color)

	if !obj.IsValid() {
		m.doc.RemoveMeshObject(obj)
		return fmt.Errorf("%w (shape %q)", ErrInvalidMesh, shape.Label)
	}
	if !obj.IsManifoldAndOriented() {
		m.warn(CodeNonManifold, shape.Label, "mesh is not manifold")
	}

	m.meshes = append(m.meshes, obj)
	m.doc.AddBuildItem(obj, meshdoc.IdentityTransform())
	return nil
}

// Read loads a mesh file, replacing the document and the working unit
// with the file's contents, and returns one reconstructed shape per mesh.
// Unsupported extensions fail before any state changes.
func (m *Mesher) Read(path string) ([]*brep.Shape, error) {
	if err := m.doc.ReadFile(path); err != nil {
		return nil, err
	}
	m.unit = m.doc.Unit()
	m.meshes = append([]*meshdoc.MeshObject(nil), m.doc.MeshObjects()...)

	shapes := make([]*brep.Shape, 0, len(m.meshes))
	for _, obj := range m.meshes {
		shape, err := shapeFromMesh(obj)
		if err != nil {
			return nil, fmt.Errorf("mesher: reconstruct mesh %q: %w", obj.Name, err)
		}
		shape.Label = obj.Name
		shape.Color = m.extractColor(obj)
		shapes = append(shapes, shape)
	}
	return shapes, nil
}

// Write serializes the document. Unsupported extensions fail without
// touching the file system.
func (m *Mesher) Write(path string) error {
	return m.doc.WriteFile(path)
}
