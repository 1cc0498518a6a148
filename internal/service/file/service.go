package file

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoding
	"io"
	"path"

	"github.com/cmlabs-hris/absensi-go/internal/domain/user"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	// MaxPhotoDimension bounds the longer edge of a stored profile photo.
	MaxPhotoDimension = 512

	// Limits on the declared size of an uploaded image, checked before the
	// decoder allocates the canvas.
	MaxSourceEdge   = 8000
	MaxSourcePixels = 40_000_000
)

type FileService interface {
	// UploadProfilePhoto re-encodes the image as JPEG, scaled down to
	// MaxPhotoDimension, and returns its storage key.
	UploadProfilePhoto(ctx context.Context, userID string, file io.Reader) (string, error)

	DeleteFile(ctx context.Context, key string) error
	URL(key string) string
	// KeyOf recovers the storage key from a URL returned by URL.
	KeyOf(url string) (string, bool)
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

func (s *fileServiceImpl) UploadProfilePhoto(ctx context.Context, userID string, file io.Reader) (string, error) {
	raw, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", user.ErrInvalidPhotoType, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 ||
		cfg.Width > MaxSourceEdge || cfg.Height > MaxSourceEdge ||
		cfg.Width*cfg.Height > MaxSourcePixels {
		return "", user.ErrPhotoDimensions
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", user.ErrInvalidPhotoType, err)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, fitWithin(img, MaxPhotoDimension), &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to encode JPEG: %w", err)
	}

	key := path.Join("photos", userID, uuid.New().String()+".jpg")
	uploaded, err := s.storage.Upload(ctx, buf, key, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to upload profile photo: %w", err)
	}
	return uploaded, nil
}

func (s *fileServiceImpl) DeleteFile(ctx context.Context, key string) error {
	return s.storage.Delete(ctx, key)
}

func (s *fileServiceImpl) URL(key string) string {
	return s.storage.URL(key)
}

func (s *fileServiceImpl) KeyOf(url string) (string, bool) {
	prefix := s.storage.URL("")
	if len(url) <= len(prefix) || url[:len(prefix)] != prefix {
		return "", false
	}
	return url[len(prefix):], true
}

// fitWithin scales img down so neither edge exceeds limit. Smaller images
// are returned as is.
func fitWithin(img image.Image, limit int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= limit && h <= limit {
		return img
	}

	if w >= h {
		h = max(1, h*limit/w)
		w = limit
	} else {
		w = max(1, w*limit/h)
		h = limit
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
