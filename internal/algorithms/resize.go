package algorithms

import (
	"image"

	"gocv.io/x/gocv"

	"sunspot-imaging/internal/core"
)

// ResizeNearest resamples a mask to width x height, taking for every output
// cell the source cell at floor(x * src/dst).
func ResizeNearest(m *core.Mask, width, height int) *core.Mask {
	src := maskMat(m)
	defer src.Close()
	dst := gocv.NewMat()
	defer dst.Close()
	gocv.Resize(src, &dst, image.Pt(width, height), 0, 0, gocv.InterpolationNearestNeighbor)
	return matMask(dst)
}
