package entity

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// DefaultImageMIMEType is assumed for bare base64 payloads without a data URI prefix.
const DefaultImageMIMEType = "image/jpeg"

// ErrInvalidImage is returned for empty or undecodable image input.
var ErrInvalidImage = errors.New("invalid image")

// ImageInput is an encoded raster image. The bytes are never mutated after construction.
type ImageInput struct {
	mimeType string
	data     []byte
}

// NewImageInput copies data; an empty mimeType is sniffed from the content.
func NewImageInput(data []byte, mimeType string) (ImageInput, error) {
	if len(data) == 0 {
		return ImageInput{}, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return ImageInput{}, fmt.Errorf("%w: unsupported mime type %q", ErrInvalidImage, mimeType)
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	return ImageInput{mimeType: mimeType, data: buf}, nil
}

// ParseDataURI parses "data:<mime>;base64,<payload>". A bare base64 string is
// accepted and tagged with DefaultImageMIMEType.
func ParseDataURI(uri string) (ImageInput, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return ImageInput{}, fmt.Errorf("%w: empty data uri", ErrInvalidImage)
	}

	mimeType := DefaultImageMIMEType
	payload := uri
	if strings.HasPrefix(uri, "data:") {
		header, body, ok := strings.Cut(uri, ",")
		if !ok {
			return ImageInput{}, fmt.Errorf("%w: data uri has no payload", ErrInvalidImage)
		}
		meta := strings.TrimPrefix(header, "data:")
		mt, enc, _ := strings.Cut(meta, ";")
		if enc != "base64" {
			return ImageInput{}, fmt.Errorf("%w: data uri is not base64 encoded", ErrInvalidImage)
		}
		if mt != "" {
			mimeType = mt
		}
		payload = body
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return ImageInput{}, fmt.Errorf("%w: decode payload: %v", ErrInvalidImage, err)
	}
	return NewImageInput(data, mimeType)
}

func (i ImageInput) MIMEType() string {
	return i.mimeType
}

// Payload returns the base64 payload without the data URI prefix.
func (i ImageInput) Payload() string {
	return base64.StdEncoding.EncodeToString(i.data)
}

// Bytes returns a copy of the raw image bytes.
func (i ImageInput) Bytes() []byte {
	buf := make([]byte, len(i.data))
	copy(buf, i.data)
	return buf
}

func (i ImageInput) Size() int {
	return len(i.data)
}

func (i ImageInput) IsZero() bool {
	return len(i.data) == 0
}

// DataURI renders the image as "data:<mime>;base64,<payload>".
func (i ImageInput) DataURI() string {
	return "data:" + i.mimeType + ";base64," + i.Payload()
}
