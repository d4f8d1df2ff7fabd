package domain

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const defaultPhotoMimeType = "image/jpeg"

var ErrUnsupportedPhotoType = errors.New("unsupported photo type")

// Raster formats a point photo may carry. SVG is excluded since it can
// carry script.
var photoMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
	"image/heic": true,
	"image/heif": true,
	"image/avif": true,
}

// PhotoMimeTypeAllowed reports whether mimeType is one of the accepted
// raster image formats.
func PhotoMimeTypeAllowed(mimeType string) bool {
	return photoMimeTypes[mimeType]
}

// Embedded image attached to a captured point.
type Photo struct {
	MimeType string
	Data     []byte
}

// ParseDataURL decodes "data:<mime>;base64,<payload>".
// A bare base64 payload (or anything after the first comma) is accepted
// and assumed to be a JPEG. Declared types outside the raster image
// allowlist fail with ErrUnsupportedPhotoType.
func ParseDataURL(s string) (*Photo, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("parse data url: empty input")
	}

	mimeType := defaultPhotoMimeType
	payload := s

	if strings.HasPrefix(s, "data:") {
		header, data, ok := strings.Cut(s[len("data:"):], ",")
		if !ok {
			return nil, fmt.Errorf("parse data url: missing payload separator")
		}
		if mt, isBase64 := strings.CutSuffix(header, ";base64"); isBase64 && mt != "" {
			mimeType = strings.ToLower(strings.TrimSpace(mt))
		}
		if !PhotoMimeTypeAllowed(mimeType) {
			return nil, fmt.Errorf("parse data url: %q: %w", mimeType, ErrUnsupportedPhotoType)
		}
		payload = data
	} else if _, data, ok := strings.Cut(s, ","); ok {
		payload = data
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("parse data url: decode base64: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("parse data url: empty image data")
	}

	return &Photo{MimeType: mimeType, Data: data}, nil
}

// DataURL renders the photo back into its data URL form.
func (p *Photo) DataURL() string {
	if p == nil || len(p.Data) == 0 {
		return ""
	}
	mimeType := p.MimeType
	if mimeType == "" {
		mimeType = defaultPhotoMimeType
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(p.Data)
}

// Base64 returns the raw base64 payload without the data URL header.
func (p *Photo) Base64() string {
	if p == nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(p.Data)
}
