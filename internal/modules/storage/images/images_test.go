package images

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ecoexplorer/core/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 10, G: 120, B: 40, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("image_20240101_101010_42.jpg"))
	for _, bad := range []string{"", ".", "..", "../x.jpg", "a/b.jpg", `a\b.jpg`, "a b.jpg", "ü.jpg"} {
		assert.False(t, ValidName(bad), bad)
	}
}

func TestInspect(t *testing.T) {
	info, err := Inspect(pngBytes(t, 3, 2))
	require.NoError(t, err)
	assert.Equal(t, ImageInfo{Format: "png", Width: 3, Height: 2}, info)

	_, err = Inspect([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrNotImage)
	_, err = Inspect(nil)
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestDetectContentType(t *testing.T) {
	assert.Equal(t, "image/webp", DetectContentType("a.jpg", nil, "image/webp"))
	assert.Equal(t, "image/png", DetectContentType("a.png", nil, ""))
	assert.Equal(t, "image/png", DetectContentType("noext", pngBytes(t, 1, 1), "application/octet-stream"))
}

func TestMemoryStoreDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore("")

	url, err := s.Put(ctx, "a.png", []byte("x"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/a.png", url)

	ok, err := s.Exists(ctx, "a.png")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Delete(ctx, "a.png"))
	require.NoError(t, s.Delete(ctx, "a.png"))
	ok, err = s.Exists(ctx, "a.png")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Put(ctx, "../escape.png", nil, "")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewLocalStore(dir, "uploads/")
	require.NoError(t, err)

	url, err := s.Put(ctx, "pic.png", []byte("data"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/pic.png", url)

	got, err := os.ReadFile(filepath.Join(dir, "pic.png"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(got))

	ok, err := s.Exists(ctx, "pic.png")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Delete(ctx, "pic.png"))
	require.NoError(t, s.Delete(ctx, "pic.png"))

	ok, err = s.Exists(ctx, "pic.png")
	require.NoError(t, err)
	assert.False(t, ok)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	s, err := NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)
	assert.ErrorIs(t, s.Delete(context.Background(), "../../etc/passwd"), ErrInvalidName)
}

func TestS3StoreURL(t *testing.T) {
	aws, err := NewS3Store(config.S3Config{
		Bucket: "eco", Region: "ap-south-1", AccessKeyID: "k", SecretAccessKey: "s", Prefix: "places",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://eco.s3.ap-south-1.amazonaws.com/places/a.jpg", aws.URL("a.jpg"))

	minio, err := NewS3Store(config.S3Config{
		Bucket: "eco", Region: "us-east-1", AccessKeyID: "k", SecretAccessKey: "s", Endpoint: "minio.local:9000",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://minio.local:9000/eco/a.jpg", minio.URL("a.jpg"))

	cdn, err := NewS3Store(config.S3Config{
		Bucket: "eco", Region: "us-east-1", AccessKeyID: "k", SecretAccessKey: "s", CustomDomain: "https://img.example.com/",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/a.jpg", cdn.URL("a.jpg"))

	_, err = NewS3Store(config.S3Config{Bucket: "eco"})
	assert.Error(t, err)
}
