package scene

import (
	"bytes"
	"fmt"
	"image"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// Preview raster dimensions
const (
	PreviewWidth  = 512
	PreviewHeight = 512
	SuperSample   = 2
)

// Camera parameters for the canonical preview frame
const (
	previewFovy = 40.0
	previewNear = 0.5
	previewFar  = 10.0
)

var (
	previewEye    = fauxgl.V(2.2, 1.6, 2.2)
	previewCenter = fauxgl.V(0, 0, 0)
	previewUp     = fauxgl.V(0, 1, 0)
	previewLight  = fauxgl.V(0.75, 1, 0.5).Normalize()

	backgroundColor = fauxgl.HexColor("#1E1F22")
	objectColor     = fauxgl.HexColor("#8AB4F8")
)

// RenderMeshPreview parses a glTF/GLB payload and rasterizes it with the
// fixed preview camera.
func RenderMeshPreview(data []byte) (image.Image, error) {
	mesh, err := meshFromGLTF(data)
	if err != nil {
		return nil, err
	}
	return rasterize(mesh), nil
}

// meshFromGLTF collects every triangle primitive of the document into one
// renderable mesh. Non-triangle primitives are skipped; malformed indices
// fail the whole load.
func meshFromGLTF(data []byte) (*fauxgl.Mesh, error) {
	var doc gltf.Document
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse mesh document: %v", err)
	}

	var triangles []*fauxgl.Triangle
	for _, m := range doc.Meshes {
		for _, prim := range m.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			posIdx, ok := prim.Attributes[gltf.POSITION]
			if !ok || posIdx < 0 || posIdx >= len(doc.Accessors) {
				continue
			}
			positions, err := modeler.ReadPosition(&doc, doc.Accessors[posIdx], nil)
			if err != nil {
				return nil, fmt.Errorf("failed to read vertex positions: %v", err)
			}

			if prim.Indices != nil {
				idx := *prim.Indices
				if idx < 0 || idx >= len(doc.Accessors) {
					return nil, fmt.Errorf("primitive references missing index accessor")
				}
				indices, err := modeler.ReadIndices(&doc, doc.Accessors[idx], nil)
				if err != nil {
					return nil, fmt.Errorf("failed to read indices: %v", err)
				}
				vertexCount := uint32(len(positions))
				for i := 0; i+2 < len(indices); i += 3 {
					a, b, c := indices[i], indices[i+1], indices[i+2]
					if a >= vertexCount || b >= vertexCount || c >= vertexCount {
						return nil, fmt.Errorf("index out of range in mesh data")
					}
					triangles = append(triangles, triangleAt(positions, a, b, c))
				}
			} else {
				for i := 0; i+2 < len(positions); i += 3 {
					triangles = append(triangles, triangleAt(positions, uint32(i), uint32(i+1), uint32(i+2)))
				}
			}
		}
	}
	if len(triangles) == 0 {
		return nil, fmt.Errorf("document contains no triangle geometry")
	}
	return fauxgl.NewTriangleMesh(triangles), nil
}

func triangleAt(positions [][3]float32, a, b, c uint32) *fauxgl.Triangle {
	return fauxgl.NewTriangleForPoints(vec(positions[a]), vec(positions[b]), vec(positions[c]))
}

func vec(p [3]float32) fauxgl.Vector {
	return fauxgl.V(float64(p[0]), float64(p[1]), float64(p[2]))
}

// rasterize renders the mesh supersampled and downsamples to the preview
// size.
func rasterize(mesh *fauxgl.Mesh) image.Image {
	mesh.BiUnitCube()
	mesh.SmoothNormalsThreshold(fauxgl.Radians(30))

	ctx := fauxgl.NewContext(PreviewWidth*SuperSample, PreviewHeight*SuperSample)
	ctx.ClearColorBufferWith(backgroundColor)

	aspect := float64(PreviewWidth) / float64(PreviewHeight)
	matrix := fauxgl.LookAt(previewEye, previewCenter, previewUp).Perspective(previewFovy, aspect, previewNear, previewFar)
	shader := fauxgl.NewPhongShader(matrix, previewLight, previewEye)
	shader.ObjectColor = objectColor
	ctx.Shader = shader
	ctx.DrawMesh(mesh)

	return resize.Resize(PreviewWidth, PreviewHeight, ctx.Image(), resize.Bilinear)
}
