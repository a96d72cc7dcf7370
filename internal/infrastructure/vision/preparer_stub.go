//go:build !gocv
// +build !gocv

package vision

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"log/slog"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Preparer normalizes photos without OpenCV: size check and downscale only.
type Preparer struct {
	MaxSide      int
	MinImageSide int
	Quality      int
}

// NewPreparer creates a preparer that downscales to maxSide.
func NewPreparer(maxSide int) *Preparer {
	return &Preparer{
		MaxSide:      maxSide,
		MinImageSide: 200,
		Quality:      90,
	}
}

// Prepare decodes the photo, rejects tiny images and re-encodes it as JPEG.
func (p *Preparer) Prepare(ctx context.Context, imageData []byte) ([]byte, error) {
	_ = ctx
	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w < p.MinImageSide || h < p.MinImageSide {
		return nil, fmt.Errorf("quality gate failed: image is too small (%dx%d)", w, h)
	}

	if p.MaxSide > 0 && (w > p.MaxSide || h > p.MaxSide) {
		scale := float64(p.MaxSide) / float64(max(w, h))
		newW := max(1, int(float64(w)*scale))
		newH := max(1, int(float64(h)*scale))

		dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)
		img = dst

		slog.Debug("Preparer: downscaled image", "from", fmt.Sprintf("%dx%d", w, h), "to", fmt.Sprintf("%dx%d", newW, newH))
	} else if format == "jpeg" {
		return imageData, nil
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.Quality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
