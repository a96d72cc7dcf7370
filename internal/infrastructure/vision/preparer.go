//go:build gocv
// +build gocv

package vision

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	"gocv.io/x/gocv"
)

// Preparer runs an OpenCV quality gate on the photo and downscales it.
type Preparer struct {
	MaxSide               int
	MinImageSide          int
	Quality               int
	MinSharpnessEdgeRatio float64
	MaxOverexposedRatio   float64
	MaxUnderexposedRatio  float64
	MaxGlareRatio         float64
}

// NewPreparer creates a preparer that downscales to maxSide.
func NewPreparer(maxSide int) *Preparer {
	return &Preparer{
		MaxSide:               maxSide,
		MinImageSide:          200,
		Quality:               90,
		MinSharpnessEdgeRatio: 0.008,
		MaxOverexposedRatio:   0.35,
		MaxUnderexposedRatio:  0.45,
		MaxGlareRatio:         0.08,
	}
}

// Prepare rejects blurry, badly exposed or glaring photos and re-encodes the rest as JPEG.
func (p *Preparer) Prepare(ctx context.Context, imageData []byte) ([]byte, error) {
	_ = ctx
	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	if err := p.checkImageQuality(mat); err != nil {
		return nil, err
	}

	// downscale so the remote model gets a bounded payload
	if p.MaxSide > 0 && (mat.Cols() > p.MaxSide || mat.Rows() > p.MaxSide) {
		scale := float64(p.MaxSide) / float64(max(mat.Cols(), mat.Rows()))
		newW := int(float64(mat.Cols()) * scale)
		newH := int(float64(mat.Rows()) * scale)
		resized := gocv.NewMat()
		gocv.Resize(mat, &resized, image.Pt(newW, newH), 0, 0, gocv.InterpolationArea)
		mat.Close()
		mat = resized
	}

	img, err := mat.ToImage()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.Quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeToMat turns encoded image bytes into a gocv.Mat.
func decodeToMat(imageData []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if !mat.Empty() {
		mat.Close()
	}
	return gocv.NewMat(), errors.New("failed to decode image")
}

func (p *Preparer) checkImageQuality(mat gocv.Mat) error {
	if mat.Empty() {
		return errors.New("quality gate failed: empty image")
	}

	if mat.Cols() < p.MinImageSide || mat.Rows() < p.MinImageSide {
		return fmt.Errorf("quality gate failed: image is too small (%dx%d)", mat.Cols(), mat.Rows())
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, 80, 160)
	if r := ratioOfMask(edges); r < p.MinSharpnessEdgeRatio {
		return fmt.Errorf("quality gate failed: image is blurry (edge_ratio=%.4f)", r)
	}

	bright := gocv.NewMat()
	defer bright.Close()
	gocv.Threshold(gray, &bright, 250, 255, gocv.ThresholdBinary)
	if r := ratioOfMask(bright); r > p.MaxOverexposedRatio {
		return fmt.Errorf("quality gate failed: overexposed image (ratio=%.4f)", r)
	}

	dark := gocv.NewMat()
	defer dark.Close()
	gocv.Threshold(gray, &dark, 20, 255, gocv.ThresholdBinaryInv)
	if r := ratioOfMask(dark); r > p.MaxUnderexposedRatio {
		return fmt.Errorf("quality gate failed: underexposed image (ratio=%.4f)", r)
	}

	// glare on glossy nails: bright and unsaturated pixels
	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(mat, &hsv, gocv.ColorBGRToHSV)
	channels := gocv.Split(hsv)
	for i := range channels {
		defer channels[i].Close()
	}
	if len(channels) < 3 {
		return errors.New("quality gate failed: invalid hsv channels")
	}

	lowSat := gocv.NewMat()
	defer lowSat.Close()
	gocv.Threshold(channels[1], &lowSat, 40, 255, gocv.ThresholdBinaryInv)

	highVal := gocv.NewMat()
	defer highVal.Close()
	gocv.Threshold(channels[2], &highVal, 245, 255, gocv.ThresholdBinary)

	glare := gocv.NewMat()
	defer glare.Close()
	gocv.BitwiseAnd(lowSat, highVal, &glare)
	if r := ratioOfMask(glare); r > p.MaxGlareRatio {
		return fmt.Errorf("quality gate failed: too much glare (ratio=%.4f)", r)
	}

	return nil
}

func ratioOfMask(mask gocv.Mat) float64 {
	total := mask.Cols() * mask.Rows()
	if total <= 0 {
		return 0
	}
	return float64(gocv.CountNonZero(mask)) / float64(total)
}
