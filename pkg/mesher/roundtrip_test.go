package mesher_test

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brepflow/mesher/pkg/brep"
	"github.com/brepflow/mesher/pkg/meshdoc"
	"github.com/brepflow/mesher/pkg/mesher"
)

func TestCubeRoundTrip(t *testing.T) {
	for _, format := range []string{"3mf", "stl"} {
		t.Run(format, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cube."+format)

			src := mesher.New(meshdoc.UnitMillimeter)
			box, err := brep.Box(2, 2, 2)
			require.NoError(t, err)
			box.Label = "cube"
			require.NoError(t, src.AddShape(box, mesher.AddOptions{}))
			require.NoError(t, src.Write(path))

			dst := mesher.New(meshdoc.UnitMillimeter)
			shapes, err := dst.Read(path)
			require.NoError(t, err)
			require.Len(t, shapes, 1)

			assert.Equal(t, src.TriangleCounts(), dst.TriangleCounts())
			assert.Equal(t, src.VertexCounts(), dst.VertexCounts())

			// A closed mesh sews back into a solid with the mesh's volume.
			assert.Equal(t, brep.KindSolid, shapes[0].Kind())
			meshVol := meshVolume(dst.Document().MeshObjects()[0])
			assert.InDelta(t, meshVol, shapes[0].Volume(), 1e-6)
			assert.InDelta(t, 8.0, shapes[0].Volume(), 1e-6)
		})
	}
}

func TestCylinderRoundTripVolume(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cyl.stl")

	src := mesher.New(meshdoc.UnitMillimeter)
	cyl, err := brep.Cylinder(3, 1)
	require.NoError(t, err)
	require.NoError(t, src.AddShape(cyl, mesher.AddOptions{}))
	require.NoError(t, src.Write(path))

	dst := mesher.New(meshdoc.UnitMillimeter)
	shapes, err := dst.Read(path)
	require.NoError(t, err)
	require.Len(t, shapes, 1)

	// The reconstructed prism keeps the mesh's volume exactly; it only
	// approximates the analytic cylinder from below.
	meshVol := meshVolume(dst.Document().MeshObjects()[0])
	assert.InDelta(t, meshVol, shapes[0].Volume(), 1e-6)
	assert.Less(t, shapes[0].Volume(), 3*math.Pi)
	assert.Greater(t, shapes[0].Volume(), 0.9*3*math.Pi)
	assert.Empty(t, dst.Diagnostics())
}

func TestColorSurvivesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "colored.3mf")

	src := mesher.New(meshdoc.UnitMillimeter)
	box, err := brep.Box(1, 1, 1)
	require.NoError(t, err)
	box.Color = &brep.Color{R: 0.2, G: 0.4, B: 0.6, A: 1}
	require.NoError(t, src.AddShape(box, mesher.AddOptions{}))
	require.NoError(t, src.Write(path))

	dst := mesher.New(meshdoc.UnitMillimeter)
	shapes, err := dst.Read(path)
	require.NoError(t, err)
	require.Len(t, shapes, 1)
	require.NotNil(t, shapes[0].Color)

	// Channels pass through 8-bit quantization, so compare at that grain.
	assert.InDelta(t, 0.2, shapes[0].Color.R, 1.0/255)
	assert.InDelta(t, 0.4, shapes[0].Color.G, 1.0/255)
	assert.InDelta(t, 0.6, shapes[0].Color.B, 1.0/255)
	assert.InDelta(t, 1.0, shapes[0].Color.A, 1.0/255)
	assert.Empty(t, dst.Diagnostics())
}

func TestMultipleMeshesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pair.3mf")

	src := mesher.New(meshdoc.UnitMillimeter)
	a, err := brep.Box(1, 1, 1)
	require.NoError(t, err)
	a.Label = "first"
	b, err := brep.Cylinder(1, 0.5)
	require.NoError(t, err)
	b.Label = "second"
	require.NoError(t, src.AddShapes([]*brep.Shape{a, b}, mesher.AddOptions{}))
	require.NoError(t, src.Write(path))

	dst := mesher.New(meshdoc.UnitMillimeter)
	shapes, err := dst.Read(path)
	require.NoError(t, err)
	require.Len(t, shapes, 2)
	assert.Equal(t, "first", shapes[0].Label)
	assert.Equal(t, "second", shapes[1].Label)
	assert.Equal(t, 2, len(dst.Document().BuildItems()))
}

// tetraDocument builds a document holding one valid tetrahedron whose
// triangles reference two different palette entries.
func tetraDocument(t *testing.T) *meshdoc.Document {
	t.Helper()
	d := meshdoc.NewDocument(meshdoc.UnitMillimeter)

	g := d.AddColorGroup()
	red := g.AddColor(meshdoc.RGBA{R: 255, A: 255})
	blue := g.AddColor(meshdoc.RGBA{B: 255, A: 255})

	o := d.AddMeshObject()
	o.Name = "tetra"
	o.SetGeometry(
		[]meshdoc.Position{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		[]meshdoc.Triangle{{0, 2, 1}, {0, 1, 3}, {1, 2, 3}, {2, 0, 3}},
	)
	for i := 0; i < o.TriangleCount(); i++ {
		index := blue
		if i == 0 {
			index = red
		}
		require.NoError(t, o.SetTriangleProperties(i, meshdoc.TriangleProperties{
			ResourceID:  g.ID(),
			PropertyIDs: [3]uint32{index, index, index},
		}))
	}
	d.AddBuildItem(o, meshdoc.IdentityTransform())
	return d
}

func TestReadAmbiguousColorWarnsAndTakesFirst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ambiguous.3mf")
	require.NoError(t, tetraDocument(t).WriteFile(path))

	m := mesher.New(meshdoc.UnitMillimeter)
	shapes, err := m.Read(path)
	require.NoError(t, err)
	require.Len(t, shapes, 1)

	diags := m.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, mesher.CodeColorAmbiguity, diags[0].Code)
	assert.Equal(t, mesher.SeverityWarning, diags[0].Severity)
	assert.Equal(t, "tetra", diags[0].Shape)

	// The first referenced entry, triangle 0's red, wins.
	require.NotNil(t, shapes[0].Color)
	assert.Equal(t, &brep.Color{R: 1, A: 1}, shapes[0].Color)
	assert.Equal(t, brep.KindSolid, shapes[0].Kind())
}
