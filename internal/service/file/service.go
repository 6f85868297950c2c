package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Import for PNG decoding support
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/terralogix/hr-backend-go/internal/pkg/storage"
	"golang.org/x/image/draw"
)

const (
	// profilePhotoMaxSide bounds the longest edge of stored profile photos.
	profilePhotoMaxSide = 512
	jpegQuality         = 85
)

var (
	ErrInvalidFileType = errors.New("invalid file type: only jpg, jpeg, png allowed")
	ErrFileTooLarge    = errors.New("file exceeds maximum upload size")
	ErrInvalidImage    = errors.New("file is not a readable image")
)

type FileService interface {
	// UploadProfilePhoto normalises the image to a bounded JPEG and stores it.
	// It returns the storage key.
	UploadProfilePhoto(ctx context.Context, employeeID string, file io.Reader, filename string) (string, error)

	DeleteFile(ctx context.Context, key string) error

	// URL returns the public URL for a storage key
	URL(key string) string
}

type fileServiceImpl struct {
	storage storage.FileStorage
	maxSize int64
}

func NewFileService(storage storage.FileStorage, maxSize int64) FileService {
	return &fileServiceImpl{
		storage: storage,
		maxSize: maxSize,
	}
}

func (s *fileServiceImpl) UploadProfilePhoto(ctx context.Context, employeeID string, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return "", ErrInvalidFileType
	}

	limit := s.maxSize
	if limit <= 0 {
		limit = 5 << 20
	}
	buffer, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if int64(len(buffer)) > limit {
		return "", ErrFileTooLarge
	}

	normalised, err := normaliseImage(buffer, profilePhotoMaxSide)
	if err != nil {
		return "", err
	}

	key := path.Join("profile_photos", employeeID, uuid.New().String()+".jpg")
	uploaded, err := s.storage.Upload(ctx, bytes.NewReader(normalised), key, "image/jpeg")
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

// normaliseImage decodes a JPEG or PNG, scales it down so neither side
// exceeds maxSide and re-encodes it as JPEG.
func normaliseImage(buffer []byte, maxSide int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width > maxSide || height > maxSide {
		if width >= height {
			height = height * maxSide / width
			width = maxSide
		} else {
			width = width * maxSide / height
			height = maxSide
		}
		if width < 1 {
			width = 1
		}
		if height < 1 {
			height = 1
		}
		img = resizeImage(img, width, height)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// resizeImage resizes an image to the specified dimensions using high-quality interpolation
func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
