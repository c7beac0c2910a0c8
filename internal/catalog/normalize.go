package catalog

import (
	"log"
	"strings"

	"github.com/meshvault/mesh-gallery/internal/model"
)

// Default values
const (
	DefaultGroupKey   = "ungrouped"
	DefaultGroupLabel = "Ungrouped"
)

// Wire types mirror the catalog payload. Field names drifted across backend
// revisions (id/file/path, name/title/label), so every alternate spelling is
// declared here and resolved exactly once; nothing downstream re-probes the
// upstream naming.
type wireCatalog struct {
	Category string      `json:"category"`
	Groups   []wireGroup `json:"groups"`
	Sections []wireGroup `json:"sections"`
	Items    []wireItem  `json:"items"`
}

type wireGroup struct {
	Key    string     `json:"key"`
	Name   string     `json:"name"`
	Label  string     `json:"label"`
	Items  []wireItem `json:"items"`
	Assets []wireItem `json:"assets"`
	Files  []wireItem `json:"files"`
}

type wireItem struct {
	ID    string `json:"id"`
	File  string `json:"file"`
	Path  string `json:"path"`
	Name  string `json:"name"`
	Title string `json:"title"`
	Label string `json:"label"`
	Kind  string `json:"kind"`
	Type  string `json:"type"`
}

// normalizeCategory flattens one wire payload into the canonical category.
// Entries without any usable identifier are dropped; identifiers key grid
// slots, so later duplicates are dropped too.
func normalizeCategory(key string, w wireCatalog) model.Category {
	groups := w.Groups
	if len(groups) == 0 {
		groups = w.Sections
	}
	if len(groups) == 0 && len(w.Items) > 0 {
		groups = []wireGroup{{Key: key, Items: w.Items}}
	}

	seen := make(map[string]struct{})
	out := model.Category{Key: key}
	for _, wg := range groups {
		items := wg.Items
		if len(items) == 0 {
			items = wg.Assets
		}
		if len(items) == 0 {
			items = wg.Files
		}

		groupKey := firstNonEmpty(wg.Key, wg.Name, DefaultGroupKey)
		group := model.AssetGroup{
			Key:   groupKey,
			Label: firstNonEmpty(wg.Label, wg.Name, wg.Key, DefaultGroupLabel),
		}
		for _, wi := range items {
			id := strings.TrimSpace(firstNonEmpty(wi.ID, wi.File, wi.Path))
			if id == "" {
				log.Printf("catalog: dropping item without identifier in category %s", key)
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			group.Assets = append(group.Assets, model.Asset{
				ID:       id,
				Name:     strings.TrimSpace(firstNonEmpty(wi.Name, wi.Title, wi.Label)),
				Kind:     kindFor(key, wi),
				Category: key,
				Group:    groupKey,
			})
		}
		if len(group.Assets) == 0 {
			continue
		}
		out.Groups = append(out.Groups, group)
	}
	return out
}

// kindFor resolves the asset kind from the item's own kind/type field,
// falling back to the category key.
func kindFor(categoryKey string, wi wireItem) model.AssetKind {
	switch strings.ToLower(firstNonEmpty(wi.Kind, wi.Type, categoryKey)) {
	case "map", "maps", "image", "images", "texture", "textures":
		return model.AssetMap
	default:
		return model.AssetModel
	}
}

// firstNonEmpty returns the first non-empty value.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
