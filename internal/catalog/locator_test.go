package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meshvault/mesh-gallery/internal/model"
)

func TestResourceURL(t *testing.T) {
	locator := NewLocator("https://assets.example.com/")

	tests := []struct {
		name  string
		asset model.Asset
		want  string
	}{
		{
			name:  "named asset",
			asset: model.Asset{ID: "crate.glb", Name: "Crate"},
			want:  "https://assets.example.com/files/crate.glb?name=Crate.glb",
		},
		{
			name:  "nested path with spaces",
			asset: model.Asset{ID: "props/old crate.glb"},
			want:  "https://assets.example.com/files/props/old%20crate.glb?name=old+crate.glb",
		},
		{
			name:  "no extension",
			asset: model.Asset{ID: "README", Name: "Readme"},
			want:  "https://assets.example.com/files/README?name=Readme",
		},
		{
			name:  "model without extension gets glb",
			asset: model.Asset{ID: "props/crate", Name: "Crate", Kind: model.AssetModel},
			want:  "https://assets.example.com/files/props/crate?name=Crate.glb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, locator.ResourceURL(tt.asset))
		})
	}
}
