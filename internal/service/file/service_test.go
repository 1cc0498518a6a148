package file

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cmlabs-hris/absensi-go/internal/domain/user"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngOf(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 200, A: 255})
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf
}

// pngDeclaring returns a small valid PNG whose header claims w x h pixels.
func pngDeclaring(t *testing.T, w, h uint32) *bytes.Buffer {
	t.Helper()
	b := pngOf(t, 1, 1).Bytes()
	// IHDR: length at 8, type at 12, width at 16, height at 20, crc at 29
	binary.BigEndian.PutUint32(b[16:20], w)
	binary.BigEndian.PutUint32(b[20:24], h)
	binary.BigEndian.PutUint32(b[29:33], crc32.ChecksumIEEE(b[12:29]))
	return bytes.NewBuffer(b)
}

func TestUploadProfilePhoto_RejectsOversizedHeaders(t *testing.T) {
	local, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)
	svc := NewFileService(local)

	tests := []struct {
		name string
		w, h uint32
	}{
		{name: "square canvas", w: 10000, h: 10000},
		{name: "huge canvas", w: 40000, h: 40000},
		{name: "long edge", w: 9000, h: 10},
		{name: "pixel count", w: 7000, h: 7000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UploadProfilePhoto(context.Background(), "user-1", pngDeclaring(t, tt.w, tt.h))
			assert.ErrorIs(t, err, user.ErrPhotoDimensions)
		})
	}
}

func TestUploadProfilePhoto(t *testing.T) {
	dir := t.TempDir()
	local, err := storage.NewLocalStorage(dir, "http://localhost:8080/uploads")
	require.NoError(t, err)
	svc := NewFileService(local)

	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{name: "landscape is scaled", w: 1024, h: 512, wantW: 512, wantH: 256},
		{name: "portrait is scaled", w: 300, h: 900, wantW: 170, wantH: 512},
		{name: "small kept", w: 64, h: 48, wantW: 64, wantH: 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := svc.UploadProfilePhoto(context.Background(), "user-1", pngOf(t, tt.w, tt.h))
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(key, "photos/user-1/"))
			assert.True(t, strings.HasSuffix(key, ".jpg"))

			f, err := os.Open(filepath.Join(local.BasePath(), filepath.FromSlash(key)))
			require.NoError(t, err)
			defer f.Close()

			cfg, err := jpeg.DecodeConfig(f)
			require.NoError(t, err)
			assert.Equal(t, tt.wantW, cfg.Width)
			assert.Equal(t, tt.wantH, cfg.Height)

			url := svc.URL(key)
			back, ok := svc.KeyOf(url)
			assert.True(t, ok)
			assert.Equal(t, key, back)
		})
	}

	t.Run("not an image", func(t *testing.T) {
		_, err := svc.UploadProfilePhoto(context.Background(), "user-1", strings.NewReader("plain text"))
		assert.ErrorIs(t, err, user.ErrInvalidPhotoType)
	})

	t.Run("foreign url has no key", func(t *testing.T) {
		_, ok := svc.KeyOf("https://example.com/avatar.png")
		assert.False(t, ok)
	})
}
