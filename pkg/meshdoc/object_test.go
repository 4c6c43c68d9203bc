package meshdoc

import "testing"

// tetra returns a structurally valid, manifold, consistently oriented
// tetrahedron mesh object.
func tetra(d *Document) *MeshObject {
	o := d.AddMeshObject()
	o.SetGeometry(
		[]Position{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		[]Triangle{{0, 2, 1}, {0, 1, 3}, {1, 2, 3}, {2, 0, 3}},
	)
	return o
}

func TestMeshObjectCounts(t *testing.T) {
	d := NewDocument(UnitMillimeter)
	o := tetra(d)
	if got := o.VertexCount(); got != 4 {
		t.Errorf("VertexCount = %d, want 4", got)
	}
	if got := o.TriangleCount(); got != 4 {
		t.Errorf("TriangleCount = %d, want 4", got)
	}
}

func TestMeshObjectIsValid(t *testing.T) {
	tests := []struct {
		name      string
		vertices  []Position
		triangles []Triangle
		want      bool
	}{
		{
			"valid",
			[]Position{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
			[]Triangle{{0, 1, 2}},
			true,
		},
		{"no vertices", nil, []Triangle{{0, 1, 2}}, false},
		{
			"no triangles",
			[]Position{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
			nil,
			false,
		},
		{
			"index out of range",
			[]Position{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
			[]Triangle{{0, 1, 3}},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDocument(UnitMillimeter)
			o := d.AddMeshObject()
			o.SetGeometry(tt.vertices, tt.triangles)
			if got := o.IsValid(); got != tt.want {
				t.Errorf("IsValid = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMeshObjectIsManifoldAndOriented(t *testing.T) {
	t.Run("tetrahedron", func(t *testing.T) {
		d := NewDocument(UnitMillimeter)
		if !tetra(d).IsManifoldAndOriented() {
			t.Error("tetrahedron reported non-manifold")
		}
	})

	t.Run("open triangle", func(t *testing.T) {
		d := NewDocument(UnitMillimeter)
		o := d.AddMeshObject()
		o.SetGeometry(
			[]Position{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
			[]Triangle{{0, 1, 2}},
		)
		if o.IsManifoldAndOriented() {
			t.Error("open triangle reported manifold")
		}
	})

	t.Run("inconsistent winding", func(t *testing.T) {
		d := NewDocument(UnitMillimeter)
		o := tetra(d)
		tris := append([]Triangle(nil), o.Triangles()...)
		tris[0] = Triangle{tris[0][0], tris[0][2], tris[0][1]}
		o.SetGeometry(o.Vertices(), tris)
		if o.IsManifoldAndOriented() {
			t.Error("flipped facet not detected")
		}
	})
}

func TestTrianglePropertiesRoundTrip(t *testing.T) {
	d := NewDocument(UnitMillimeter)
	o := tetra(d)

	if _, ok := o.TriangleProperty(0); ok {
		t.Error("fresh object has triangle properties")
	}
	p := TriangleProperties{ResourceID: 7, PropertyIDs: [3]uint32{1, 1, 1}}
	if err := o.SetTriangleProperties(1, p); err != nil {
		t.Fatalf("SetTriangleProperties: %v", err)
	}
	got, ok := o.TriangleProperty(1)
	if !ok || got != p {
		t.Errorf("TriangleProperty(1) = %+v,%v, want %+v,true", got, ok, p)
	}
	if err := o.SetTriangleProperties(9, p); err == nil {
		t.Error("out-of-range SetTriangleProperties did not fail")
	}
}

func TestDocumentResourceIDs(t *testing.T) {
	d := NewDocument(UnitMillimeter)
	o1 := d.AddMeshObject()
	g := d.AddColorGroup()
	o2 := d.AddMeshObject()

	ids := []uint32{o1.ID(), g.ID(), o2.ID()}
	want := []uint32{1, 2, 3}
	for i := range ids {
		if ids[i] != want[i] {
			t.Errorf("resource id[%d] = %d, want %d", i, ids[i], want[i])
		}
	}

	if got, ok := d.ColorGroupByID(2); !ok || got != g {
		t.Error("ColorGroupByID(2) did not return the group")
	}
	if _, ok := d.MeshObjectByID(99); ok {
		t.Error("MeshObjectByID(99) unexpectedly found an object")
	}
}

func TestRemoveMeshObject(t *testing.T) {
	d := NewDocument(UnitMillimeter)
	o1 := tetra(d)
	o2 := tetra(d)
	d.AddBuildItem(o1, IdentityTransform())
	d.AddBuildItem(o2, IdentityTransform())

	d.RemoveMeshObject(o1)
	if got := len(d.MeshObjects()); got != 1 {
		t.Fatalf("objects = %d, want 1", got)
	}
	if d.MeshObjects()[0] != o2 {
		t.Error("wrong object removed")
	}
	if got := len(d.BuildItems()); got != 1 {
		t.Errorf("build items = %d, want 1", got)
	}
}
