// OpenCV Mat conversions for masks and pixel matrices
package algorithms

import (
	"fmt"

	"gocv.io/x/gocv"

	"sunspot-imaging/internal/core"
)

// must panics on failures that can only come from a broken Mat invariant.
func must(op string, err error) {
	if err != nil {
		panic(fmt.Errorf("%s: %w", op, err))
	}
}

func grayMat(g *core.GrayMatrix) gocv.Mat {
	mat, err := gocv.NewMatFromBytes(g.Height(), g.Width(), gocv.MatTypeCV8U, g.Bytes())
	must("gray mat", err)
	return mat
}

func colorMat(c *core.ColorMatrix) gocv.Mat {
	mat, err := gocv.NewMatFromBytes(c.Height(), c.Width(), gocv.MatTypeCV8UC3, c.BGR())
	must("color mat", err)
	return mat
}

func maskMat(m *core.Mask) gocv.Mat {
	return grayMat(m.Gray())
}

func matGray(mat gocv.Mat) *core.GrayMatrix {
	if mat.Empty() {
		panic("opencv returned an empty result")
	}
	g, err := core.NewGrayMatrix(mat.Cols(), mat.Rows(), mat.ToBytes())
	must("gray matrix", err)
	return g
}

func matMask(mat gocv.Mat) *core.Mask {
	m, err := core.MaskFromGray(matGray(mat))
	must("mask", err)
	return m
}

func sameSize(a, b *core.Mask) {
	if a.Width() != b.Width() || a.Height() != b.Height() {
		panic(fmt.Sprintf("mask size mismatch: %dx%d vs %dx%d", a.Width(), a.Height(), b.Width(), b.Height()))
	}
}

// binary applies an OpenCV two-input operation to masks of equal size.
func binary(a, b *core.Mask, op func(x, y gocv.Mat, dst *gocv.Mat)) *core.Mask {
	sameSize(a, b)
	x, y := maskMat(a), maskMat(b)
	defer x.Close()
	defer y.Close()
	dst := gocv.NewMat()
	defer dst.Close()
	op(x, y, &dst)
	return matMask(dst)
}

// Min returns the cell-wise minimum: dark wherever either mask is dark.
func Min(a, b *core.Mask) *core.Mask {
	return binary(a, b, func(x, y gocv.Mat, dst *gocv.Mat) { gocv.Min(x, y, dst) })
}

// Max returns the cell-wise maximum: dark only where both masks are dark.
func Max(a, b *core.Mask) *core.Mask {
	return binary(a, b, func(x, y gocv.Mat, dst *gocv.Mat) { gocv.Max(x, y, dst) })
}

// Invert swaps dark and light.
func Invert(m *core.Mask) *core.Mask {
	src := maskMat(m)
	defer src.Close()
	dst := gocv.NewMat()
	defer dst.Close()
	gocv.BitwiseNot(src, &dst)
	return matMask(dst)
}
