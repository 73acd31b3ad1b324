// Package media turns uploaded profile pictures into stored thumbnails.
package media

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// ThumbnailSize bounds both edges of a stored profile picture.
const ThumbnailSize = 125

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// Extension returns the lower-cased extension of filename if it is an
// accepted image type.
func Extension(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("unsupported image type %q", ext)
	}
	return ext, nil
}

// RandomFilename returns a collision-resistant name made of 16 random hex
// characters plus ext. The original filename is never reused.
func RandomFilename(ext string) string {
	id := uuid.New()
	return fmt.Sprintf("%x%s", id[:8], ext)
}

// Thumbnail decodes r, shrinks it to fit within ThumbnailSize x ThumbnailSize
// keeping the aspect ratio, and re-encodes it in the format implied by ext.
// Images already inside the bound are not enlarged.
func Thumbnail(r io.Reader, ext string) ([]byte, error) {
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return nil, fmt.Errorf("image format: %w", err)
	}

	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	thumb := imaging.Fit(img, ThumbnailSize, ThumbnailSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, format); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// Placeholder renders the plain grey JPEG used as every new user's picture.
func Placeholder() ([]byte, error) {
	img := imaging.New(ThumbnailSize, ThumbnailSize, color.NRGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff})
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG); err != nil {
		return nil, fmt.Errorf("encode placeholder: %w", err)
	}
	return buf.Bytes(), nil
}

// ContentType maps an accepted extension to its MIME type.
func ContentType(ext string) string {
	switch ext {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
