package file

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terralogix/hr-backend-go/internal/pkg/storage"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newService(t *testing.T, maxSize int64) (FileService, *storage.LocalStorage) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)
	return NewFileService(store, maxSize), store
}

func TestUploadProfilePhoto_ResizesLargeImages(t *testing.T) {
	svc, store := newService(t, 5<<20)
	ctx := context.Background()

	key, err := svc.UploadProfilePhoto(ctx, "emp-1", bytes.NewReader(pngBytes(t, 1024, 256)), "me.PNG")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "profile_photos/emp-1/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))

	rc, err := store.Download(ctx, key)
	require.NoError(t, err)
	defer rc.Close()
	cfg, err := jpeg.DecodeConfig(rc)
	require.NoError(t, err)
	assert.Equal(t, 512, cfg.Width)
	assert.Equal(t, 128, cfg.Height)
}

func TestUploadProfilePhoto_Rejections(t *testing.T) {
	svc, _ := newService(t, 1024)
	ctx := context.Background()

	_, err := svc.UploadProfilePhoto(ctx, "emp-1", strings.NewReader("x"), "cv.pdf")
	assert.ErrorIs(t, err, ErrInvalidFileType)

	_, err = svc.UploadProfilePhoto(ctx, "emp-1", bytes.NewReader(make([]byte, 2048)), "big.jpg")
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = svc.UploadProfilePhoto(ctx, "emp-1", strings.NewReader("not an image"), "bad.jpg")
	assert.ErrorIs(t, err, ErrInvalidImage)
}
