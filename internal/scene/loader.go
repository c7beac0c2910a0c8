package scene

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/nfnt/resize"

	"github.com/meshvault/mesh-gallery/internal/preview"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// Timeout constants
const (
	DefaultLoadTimeout = 45 * time.Second
)

// Resource limits
const (
	MaxResourceBytes int64 = 64 << 20
)

type resourceKind int

const (
	resourceImage resourceKind = iota
	resourceMesh
)

// Loader fetches asset files over HTTP and turns them into preview scenes.
// It implements preview.SceneLoader.
type Loader struct {
	httpClient *http.Client
	timeout    time.Duration
	maxBytes   int64
}

// NewLoader creates a loader with default limits.
func NewLoader() *Loader {
	return &Loader{
		httpClient: &http.Client{},
		timeout:    DefaultLoadTimeout,
		maxBytes:   MaxResourceBytes,
	}
}

// SetTimeout sets the per-load timeout.
func (l *Loader) SetTimeout(timeout time.Duration) {
	l.timeout = timeout
}

// SetMaxBytes sets the per-resource size limit.
func (l *Loader) SetMaxBytes(n int64) {
	l.maxBytes = n
}

// Load fetches the resource and renders or decodes it into a scene.
func (l *Loader) Load(ctx context.Context, rawURL string) (preview.Scene, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	data, err := l.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	var img image.Image
	switch classifyResource(rawURL, data) {
	case resourceMesh:
		img, err = RenderMeshPreview(data)
	default:
		img, err = decodeImage(data)
	}
	if err != nil {
		return nil, err
	}
	return NewRenderedScene(img), nil
}

func (l *Loader) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build resource request: %v", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch resource: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("resource request returned %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read resource: %w", err)
	}
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("resource exceeds %d bytes", l.maxBytes)
	}
	return data, nil
}

// classifyResource picks the pipeline by URL extension, falling back to the
// GLB magic for extension-less identifiers.
func classifyResource(rawURL string, data []byte) resourceKind {
	switch strings.ToLower(path.Ext(urlPath(rawURL))) {
	case ".glb", ".gltf":
		return resourceMesh
	case ".png", ".jpg", ".jpeg", ".webp":
		return resourceImage
	}
	if len(data) >= 4 && string(data[:4]) == "glTF" {
		return resourceMesh
	}
	return resourceImage
}

func urlPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Path
}

// decodeImage decodes a map image, downscaling oversized sources to the
// preview raster.
func decodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() > PreviewWidth || bounds.Dy() > PreviewHeight {
		img = resize.Thumbnail(PreviewWidth, PreviewHeight, img, resize.Bilinear)
	}
	return img, nil
}
