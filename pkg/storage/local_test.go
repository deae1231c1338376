package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()

	root := t.TempDir()
	store, err := NewLocalStore(root+"/uploads", root+"/uploads/thumbs", 300)
	require.NoError(t, err)
	return store
}

func TestSaveWritesOriginalAndThumbnail(t *testing.T) {
	store := newTestStore(t)

	filename, err := store.Save(encodePNG(t, 800, 600), "vacation.png")
	require.NoError(t, err)
	assert.NotEqual(t, "vacation.png", filename)

	original, err := os.ReadFile(store.Path(filename))
	require.NoError(t, err)
	assert.NotEmpty(t, original)

	thumb, err := imaging.Open(store.ThumbPath(filename))
	require.NoError(t, err)
	bounds := thumb.Bounds()
	assert.LessOrEqual(t, bounds.Dx(), 300)
	assert.LessOrEqual(t, bounds.Dy(), 300)
}

func TestSaveRejectsUnsupportedExtension(t *testing.T) {
	store := newTestStore(t)

	for _, name := range []string{"script.exe", "notes.txt", "photo"} {
		_, err := store.Save(encodePNG(t, 10, 10), name)
		assert.ErrorIs(t, err, ErrUnsupportedMedia)
	}
}

func TestSaveCleansUpWhenDecodeFails(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Save([]byte("not an image"), "fake.png")
	require.Error(t, err)

	entries, err := os.ReadDir(store.uploadDir)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.True(t, entry.IsDir(), "no stray file should survive a failed save")
	}
}

func TestRemoveDeletesBothFiles(t *testing.T) {
	store := newTestStore(t)

	filename, err := store.Save(encodePNG(t, 100, 100), "pic.jpg")
	require.NoError(t, err)

	require.NoError(t, store.Remove(filename))
	_, err = os.Stat(store.Path(filename))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(store.ThumbPath(filename))
	assert.True(t, os.IsNotExist(err))

	// Removing again is fine.
	require.NoError(t, store.Remove(filename))
}
