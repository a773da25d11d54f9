// Binary morphology over elliptical structuring elements
package algorithms

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"sunspot-imaging/internal/core"
)

// StructuringElement is an OpenCV MORPH_ELLIPSE neighbourhood of odd
// diameter, anchored at its centre.
type StructuringElement struct {
	size  int
	cells []bool
}

// Ellipse returns the elliptical element that fits a size x size box.
func Ellipse(size int) StructuringElement {
	if size < 1 || size%2 == 0 {
		panic(fmt.Sprintf("structuring element size must be odd and positive, got %d", size))
	}

	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(size, size))
	defer kernel.Close()

	cells := make([]bool, size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			cells[y*size+x] = kernel.GetUCharAt(y, x) != 0
		}
	}
	return StructuringElement{size: size, cells: cells}
}

// Size returns the diameter of the element.
func (se StructuringElement) Size() int {
	return se.size
}

// Contains reports whether the offset (dx, dy) from the anchor is covered.
func (se StructuringElement) Contains(dx, dy int) bool {
	r := se.size / 2
	if dx < -r || dx > r || dy < -r || dy > r {
		return false
	}
	return se.cells[(dy+r)*se.size+dx+r]
}

func (se StructuringElement) kernel() gocv.Mat {
	return gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(se.size, se.size))
}

// Erode computes the neighbourhood minimum: a cell turns dark when any
// covered neighbour is dark. Cells outside the mask are ignored.
func Erode(m *core.Mask, se StructuringElement) *core.Mask {
	return ErodeN(m, se, 1)
}

// Dilate computes the neighbourhood maximum: a cell stays dark only when every
// covered neighbour inside the mask is dark.
func Dilate(m *core.Mask, se StructuringElement) *core.Mask {
	return morph(m, se, 1, func(src gocv.Mat, dst *gocv.Mat, k gocv.Mat) { gocv.Dilate(src, dst, k) })
}

// ErodeN applies Erode n times.
func ErodeN(m *core.Mask, se StructuringElement, n int) *core.Mask {
	return morph(m, se, n, func(src gocv.Mat, dst *gocv.Mat, k gocv.Mat) { gocv.Erode(src, dst, k) })
}

func morph(m *core.Mask, se StructuringElement, n int, op func(src gocv.Mat, dst *gocv.Mat, k gocv.Mat)) *core.Mask {
	if n <= 0 {
		return m.Clone()
	}

	k := se.kernel()
	defer k.Close()

	cur := maskMat(m)
	defer func() { cur.Close() }()
	for i := 0; i < n; i++ {
		next := gocv.NewMat()
		op(cur, &next, k)
		cur.Close()
		cur = next
	}
	return matMask(cur)
}
