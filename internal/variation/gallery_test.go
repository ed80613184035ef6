package variation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeGallery_PrependsAndDedupes(t *testing.T) {
	base := []string{"a.jpg", "b.jpg", "c.jpg"}

	merged := MergeGallery(base, "b.jpg")
	assert.Equal(t, []string{"b.jpg", "a.jpg", "c.jpg"}, merged)
}

func TestMergeGallery_NewImagePrepended(t *testing.T) {
	base := []string{"a.jpg", "b.jpg"}

	merged := MergeGallery(base, "v.jpg")
	assert.Equal(t, []string{"v.jpg", "a.jpg", "b.jpg"}, merged)
}

func TestMergeGallery_EmptyImageReturnsBase(t *testing.T) {
	base := []string{"a.jpg"}
	assert.Equal(t, base, MergeGallery(base, ""))
}

func TestMergeGallery_EmptyBase(t *testing.T) {
	assert.Equal(t, []string{"v.jpg"}, MergeGallery(nil, "v.jpg"))
}

func TestMergeGallery_DoesNotMutateBase(t *testing.T) {
	base := []string{"a.jpg", "b.jpg"}
	_ = MergeGallery(base, "b.jpg")
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, base)
}
