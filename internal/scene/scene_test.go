package scene

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderedSceneDispose(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	s := NewRenderedScene(img)
	assert.NotNil(t, s.Image())

	s.Dispose()
	assert.Nil(t, s.Image())

	s.Dispose()
	assert.Nil(t, s.Image(), "dispose must stay idempotent")
}
