package admin

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// ErrUploadTooLarge is returned for files over the configured size
var ErrUploadTooLarge = errors.New("upload exceeds the maximum size")

// Upload is a file received from an admin form
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ReadUpload reads a multipart file header into memory
func ReadUpload(header *multipart.FileHeader, maxBytes int64) (Upload, error) {
	if maxBytes > 0 && header.Size > maxBytes {
		return Upload{}, fmt.Errorf("%w: %s", ErrUploadTooLarge, header.Filename)
	}

	file, err := header.Open()
	if err != nil {
		return Upload{}, fmt.Errorf("failed to open upload %s: %w", header.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return Upload{}, fmt.Errorf("failed to read upload %s: %w", header.Filename, err)
	}

	return Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// Photo is an image staged in a draft and not yet sent to the backend
type Photo struct {
	ID          string
	Filename    string
	ContentType string
	Data        []byte
	Width       int
	Height      int
}

// NormalizePhoto decodes an upload, applies EXIF orientation and scales it
// down to maxWidth. PNGs stay PNG; everything else is re-encoded as JPEG.
func NormalizePhoto(upload Upload, maxWidth int) (Photo, error) {
	img, err := imaging.Decode(bytes.NewReader(upload.Data), imaging.AutoOrientation(true))
	if err != nil {
		return Photo{}, fmt.Errorf("failed to decode image %s: %w", upload.Filename, err)
	}

	if maxWidth > 0 && img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	base := strings.TrimSuffix(filepath.Base(upload.Filename), filepath.Ext(upload.Filename))
	if base == "" || base == "." {
		base = "photo"
	}

	format, ext, contentType := imaging.JPEG, ".jpg", "image/jpeg"
	if strings.EqualFold(filepath.Ext(upload.Filename), ".png") {
		format, ext, contentType = imaging.PNG, ".png", "image/png"
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(85)); err != nil {
		return Photo{}, fmt.Errorf("failed to encode image %s: %w", upload.Filename, err)
	}

	return Photo{
		ID:          uuid.New().String(),
		Filename:    base + ext,
		ContentType: contentType,
		Data:        buf.Bytes(),
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
	}, nil
}

// NormalizePhotos normalises every upload, stopping at the first failure
func NormalizePhotos(uploads []Upload, maxWidth int) ([]Photo, error) {
	photos := make([]Photo, 0, len(uploads))
	for _, upload := range uploads {
		photo, err := NormalizePhoto(upload, maxWidth)
		if err != nil {
			return nil, err
		}
		photos = append(photos, photo)
	}
	return photos, nil
}

func removePhoto(photos []Photo, id string) ([]Photo, bool) {
	for i, photo := range photos {
		if photo.ID == id {
			out := make([]Photo, 0, len(photos)-1)
			out = append(out, photos[:i]...)
			return append(out, photos[i+1:]...), true
		}
	}
	return photos, false
}

func removePath(paths []string, path string) ([]string, bool) {
	for i, p := range paths {
		if p == path {
			out := make([]string, 0, len(paths)-1)
			out = append(out, paths[:i]...)
			return append(out, paths[i+1:]...), true
		}
	}
	return paths, false
}
