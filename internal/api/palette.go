package telegram

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"
	"strings"
)

const (
	swatchSize = 160
	swatchGap  = 16
)

var paperColor = color.RGBA{R: 0xFA, G: 0xF9, B: 0xF6, A: 0xFF}

// renderPalette draws one square swatch per color. Unparseable codes are skipped.
func renderPalette(codes []string) ([]byte, error) {
	colors := make([]color.RGBA, 0, len(codes))
	for _, code := range codes {
		c, err := parseHexColor(code)
		if err != nil {
			continue
		}
		colors = append(colors, c)
	}
	if len(colors) == 0 {
		return nil, fmt.Errorf("no valid colors in palette")
	}

	width := len(colors)*(swatchSize+swatchGap) + swatchGap
	height := swatchSize + 2*swatchGap
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: paperColor}, image.Point{}, draw.Src)

	for i, c := range colors {
		x := swatchGap + i*(swatchSize+swatchGap)
		rect := image.Rect(x, swatchGap, x+swatchSize, swatchGap+swatchSize)
		draw.Draw(img, rect, &image.Uniform{C: c}, image.Point{}, draw.Src)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// parseHexColor accepts #RGB and #RRGGBB, with or without the hash.
func parseHexColor(code string) (color.RGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(code), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", code)
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", code, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, nil
}
