package algorithms

import (
	"gocv.io/x/gocv"

	"sunspot-imaging/internal/core"
)

// Luminance reduces a colour matrix to single-channel intensity with OpenCV's
// fixed-point BGR to gray conversion.
func Luminance(c *core.ColorMatrix) *core.GrayMatrix {
	src := colorMat(c)
	defer src.Close()
	dst := gocv.NewMat()
	defer dst.Close()
	gocv.CvtColor(src, &dst, gocv.ColorBGRToGray)
	return matGray(dst)
}

// Threshold marks every sample at or below t as dark and everything above as
// light.
func Threshold(g *core.GrayMatrix, t uint8) *core.Mask {
	src := grayMat(g)
	defer src.Close()
	dst := gocv.NewMat()
	defer dst.Close()
	gocv.Threshold(src, &dst, float32(t), float32(core.LightValue), gocv.ThresholdBinary)
	return matMask(dst)
}
