package io

import (
	"fmt"
	"image"
	"image/png"
	stdio "io"

	"github.com/nfnt/resize"

	"sunspot-imaging/internal/core"
)

// EncodePNG writes a single-channel matrix as an 8-bit grayscale PNG.
func EncodePNG(w stdio.Writer, g *core.GrayMatrix) error {
	if err := png.Encode(w, g.Image()); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Upscale enlarges a matrix by an integer factor with nearest-neighbour
// sampling, for inspecting thumbnails at a readable size.
func Upscale(g *core.GrayMatrix, factor int) image.Image {
	if factor <= 1 {
		return g.Image()
	}
	return resize.Resize(uint(g.Width()*factor), uint(g.Height()*factor), g.Image(), resize.NearestNeighbor)
}

// EncodePreviewPNG writes an upscaled preview of g.
func EncodePreviewPNG(w stdio.Writer, g *core.GrayMatrix, factor int) error {
	if err := png.Encode(w, Upscale(g, factor)); err != nil {
		return fmt.Errorf("encode preview png: %w", err)
	}
	return nil
}
