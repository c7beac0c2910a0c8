package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshvault/mesh-gallery/internal/model"
)

func TestFetchCategory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/catalog" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("category"); got != "models" {
			t.Errorf("unexpected category %q", got)
		}
		fmt.Fprint(w, `{"groups":[{"key":"props","label":"Props","items":[{"id":"props/crate.glb","title":"Crate"}]}]}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL + "/")
	got, err := client.FetchCategory(context.Background(), "models")
	require.NoError(t, err)

	want := model.Category{
		Key: "models",
		Groups: []model.AssetGroup{
			{
				Key:   "props",
				Label: "Props",
				Assets: []model.Asset{
					{ID: "props/crate.glb", Name: "Crate", Kind: model.AssetModel, Category: "models", Group: "props"},
				},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("fetched category mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchCategoryServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.FetchCategory(context.Background(), "models")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "models")
}

func TestFetchCategoryBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"groups": [`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.FetchCategory(context.Background(), "models")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestFetchCategoryTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	client.SetTimeout(50 * time.Millisecond)
	_, err := client.FetchCategory(context.Background(), "models")
	require.Error(t, err)
}

func TestFetchAllPreservesOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		category := r.URL.Query().Get("category")
		fmt.Fprintf(w, `{"items":[{"id":"%s/sample.glb"}]}`, category)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	keys := []string{"maps", "models", "props"}
	results, err := client.FetchAll(context.Background(), keys)
	require.NoError(t, err)
	require.Len(t, results, len(keys))

	for i, key := range keys {
		assert.Equal(t, key, results[i].Key)
		require.Len(t, results[i].Assets(), 1)
		assert.Equal(t, key+"/sample.glb", results[i].Assets()[0].ID)
	}
}

func TestFetchAllPropagatesFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("category") == "broken" {
			http.Error(w, "nope", http.StatusNotFound)
			return
		}
		fmt.Fprint(w, `{"items":[{"id":"ok.glb"}]}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.FetchAll(context.Background(), []string{"models", "broken"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}
