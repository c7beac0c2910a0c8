package scene

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTestGLB encodes a small tetrahedron as a binary glTF payload.
func buildTestGLB(t *testing.T) []byte {
	t.Helper()

	doc := gltf.NewDocument()
	positions := modeler.WritePosition(doc, [][3]float32{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1},
	})
	indices := modeler.WriteIndices(doc, []uint16{
		0, 2, 1,
		0, 1, 3,
		0, 3, 2,
		1, 2, 3,
	})
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: "tetra",
		Primitives: []*gltf.Primitive{{
			Attributes: map[string]int{gltf.POSITION: positions},
			Indices:    gltf.Index(indices),
		}},
	})

	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	require.NoError(t, enc.Encode(doc))
	return buf.Bytes()
}

func TestRenderMeshPreview(t *testing.T) {
	img, err := RenderMeshPreview(buildTestGLB(t))
	require.NoError(t, err)
	require.NotNil(t, img)

	bounds := img.Bounds()
	assert.Equal(t, PreviewWidth, bounds.Dx())
	assert.Equal(t, PreviewHeight, bounds.Dy())

	// the mesh is centered by the camera, so corners stay background and
	// some interior pixel must differ from it
	background := color.NRGBAModel.Convert(img.At(0, 0))
	found := false
	for y := 0; y < bounds.Dy() && !found; y += 4 {
		for x := 0; x < bounds.Dx() && !found; x += 4 {
			if color.NRGBAModel.Convert(img.At(x, y)) != background {
				found = true
			}
		}
	}
	assert.True(t, found, "mesh must rasterize visible pixels")
}

func TestRenderMeshPreviewNoGeometry(t *testing.T) {
	doc := gltf.NewDocument()
	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	require.NoError(t, enc.Encode(doc))

	_, err := RenderMeshPreview(buf.Bytes())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no triangle geometry")
}

func TestRenderMeshPreviewGarbage(t *testing.T) {
	_, err := RenderMeshPreview([]byte("definitely not a mesh"))
	require.Error(t, err)
}

func TestMeshFromGLTFSkipsNonTrianglePrimitives(t *testing.T) {
	doc := gltf.NewDocument()
	positions := modeler.WritePosition(doc, [][3]float32{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0},
	})
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Primitives: []*gltf.Primitive{
			{
				Attributes: map[string]int{gltf.POSITION: positions},
				Mode:       gltf.PrimitiveLines,
			},
			{
				Attributes: map[string]int{gltf.POSITION: positions},
			},
		},
	})

	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	require.NoError(t, enc.Encode(doc))

	mesh, err := meshFromGLTF(buf.Bytes())
	require.NoError(t, err)
	assert.Len(t, mesh.Triangles, 1, "only the triangle primitive contributes")
}
