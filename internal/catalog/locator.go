package catalog

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/meshvault/mesh-gallery/internal/model"
)

// URL templates
const (
	FileURLTemplate = "%s/files/%s?name=%s"
)

// Locator builds file-store URLs for catalog assets. Preview loads and
// downloads go through the same locator, so the URL scheme lives in one
// place.
type Locator struct {
	baseURL string
}

// NewLocator creates a locator for the given backend base URL.
func NewLocator(baseURL string) *Locator {
	return &Locator{baseURL: strings.TrimRight(baseURL, "/")}
}

// ResourceURL returns the direct file URL for the asset. The name parameter
// carries the filename the store suggests on download.
func (l *Locator) ResourceURL(a model.Asset) string {
	filename := a.DisplayName() + fileExtension(a)
	return fmt.Sprintf(FileURLTemplate, l.baseURL, escapeIDPath(a.ID), url.QueryEscape(filename))
}

// fileExtension keeps the identifier's own extension; model entries that
// omit one get .glb so the scene loader can classify the fetch.
func fileExtension(a model.Asset) string {
	if ext := a.FileExt(); ext != "" {
		return ext
	}
	if a.Kind == model.AssetModel {
		return ".glb"
	}
	return ""
}

// escapeIDPath escapes each segment of an identifier while keeping its
// slashes; the file store treats identifiers as paths.
func escapeIDPath(id string) string {
	segments := strings.Split(id, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
