package model

import "strings"

// AssetKind distinguishes renderable model files from flat map images.
type AssetKind string

const (
	// AssetModel is a 3D model resource (glTF/GLB) rendered to a preview.
	AssetModel AssetKind = "model"

	// AssetMap is a flat image resource (texture/map) decoded directly.
	AssetMap AssetKind = "map"
)

// Asset is the canonical catalog item. It is produced once, at the catalog
// boundary; nothing downstream re-probes upstream field naming.
type Asset struct {
	ID       string    // file-store identifier
	Name     string    // display name
	Kind     AssetKind // model or map
	Category string    // catalog category key
	Group    string    // group key within the category
}

// DisplayName returns the asset name, falling back to the identifier's base
// name when the catalog provided none.
func (a Asset) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	base := a.ID
	if idx := strings.LastIndexAny(base, "/\\"); idx >= 0 {
		base = base[idx+1:]
	}
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}
	return base
}

// FileExt returns the identifier's extension including the dot, or "" when
// there is none.
func (a Asset) FileExt() string {
	base := a.ID
	if idx := strings.LastIndexAny(base, "/\\"); idx >= 0 {
		base = base[idx+1:]
	}
	if idx := strings.LastIndex(base, "."); idx > 0 {
		return base[idx:]
	}
	return ""
}

// AssetGroup is one labeled group of assets within a category.
type AssetGroup struct {
	Key    string
	Label  string
	Assets []Asset
}

// Count returns the number of assets in the group.
func (g AssetGroup) Count() int {
	return len(g.Assets)
}

// Category is one catalog category with its groups in upstream order.
type Category struct {
	Key    string
	Groups []AssetGroup
}

// Assets returns all assets of the category flattened in group order.
func (c Category) Assets() []Asset {
	var out []Asset
	for _, g := range c.Groups {
		out = append(out, g.Assets...)
	}
	return out
}

// FilterAssets returns the category's assets whose display name contains the
// query, case-insensitive. An empty query returns everything.
func (c Category) FilterAssets(query string) []Asset {
	all := c.Assets()
	if query == "" {
		return all
	}
	needle := strings.ToLower(query)
	out := make([]Asset, 0, len(all))
	for _, a := range all {
		if strings.Contains(strings.ToLower(a.DisplayName()), needle) {
			out = append(out, a)
		}
	}
	return out
}
