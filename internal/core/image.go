// Core pixel matrix types shared by every processing stage
package core

import (
	"fmt"
	"image"
)

// maxDimension bounds decoded images to keep a single run within memory limits.
const maxDimension = 16384

// ColorMatrix is an immutable 3-channel pixel matrix, stored in OpenCV's
// B, G, R channel order.
type ColorMatrix struct {
	width  int
	height int
	bgr    []uint8
}

// NewColorMatrix wraps interleaved RGB samples. The slice is copied.
func NewColorMatrix(width, height int, rgb []uint8) (*ColorMatrix, error) {
	m, err := NewColorMatrixBGR(width, height, rgb)
	if err != nil {
		return nil, err
	}
	for i := 0; i < len(m.bgr); i += 3 {
		m.bgr[i], m.bgr[i+2] = m.bgr[i+2], m.bgr[i]
	}
	return m, nil
}

// NewColorMatrixBGR wraps interleaved BGR samples. The slice is copied.
func NewColorMatrixBGR(width, height int, bgr []uint8) (*ColorMatrix, error) {
	if err := ValidateDimensions(width, height); err != nil {
		return nil, err
	}
	if len(bgr) != width*height*3 {
		return nil, fmt.Errorf("color buffer has %d bytes, want %d", len(bgr), width*height*3)
	}
	pix := make([]uint8, len(bgr))
	copy(pix, bgr)
	return &ColorMatrix{width: width, height: height, bgr: pix}, nil
}

func (m *ColorMatrix) Width() int  { return m.width }
func (m *ColorMatrix) Height() int { return m.height }

// RGB returns the samples at (x, y).
func (m *ColorMatrix) RGB(x, y int) (r, g, b uint8) {
	i := (y*m.width + x) * 3
	return m.bgr[i+2], m.bgr[i+1], m.bgr[i]
}

// BGR returns a copy of the interleaved samples in B, G, R order.
func (m *ColorMatrix) BGR() []uint8 {
	cp := make([]uint8, len(m.bgr))
	copy(cp, m.bgr)
	return cp
}

// GrayMatrix is an immutable single-channel pixel matrix.
type GrayMatrix struct {
	width  int
	height int
	pix    []uint8
}

// NewGrayMatrix wraps row-major samples. The slice is copied.
func NewGrayMatrix(width, height int, pix []uint8) (*GrayMatrix, error) {
	if err := ValidateDimensions(width, height); err != nil {
		return nil, err
	}
	if len(pix) != width*height {
		return nil, fmt.Errorf("gray buffer has %d bytes, want %d", len(pix), width*height)
	}
	cp := make([]uint8, len(pix))
	copy(cp, pix)
	return &GrayMatrix{width: width, height: height, pix: cp}, nil
}

// GrayFromImage copies an *image.Gray into a matrix anchored at the origin.
func GrayFromImage(img *image.Gray) (*GrayMatrix, error) {
	b := img.Bounds()
	pix := make([]uint8, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		pix = append(pix, img.Pix[off:off+b.Dx()]...)
	}
	return NewGrayMatrix(b.Dx(), b.Dy(), pix)
}

func (m *GrayMatrix) Width() int  { return m.width }
func (m *GrayMatrix) Height() int { return m.height }

// At returns the sample at (x, y).
func (m *GrayMatrix) At(x, y int) uint8 {
	return m.pix[y*m.width+x]
}

// Bytes returns a copy of the row-major samples.
func (m *GrayMatrix) Bytes() []uint8 {
	cp := make([]uint8, len(m.pix))
	copy(cp, m.pix)
	return cp
}

// Image converts the matrix to a standard library gray image.
func (m *GrayMatrix) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.width, m.height))
	copy(img.Pix, m.pix)
	return img
}

// Equal reports whether both matrices have the same size and samples.
func (m *GrayMatrix) Equal(other *GrayMatrix) bool {
	if m.width != other.width || m.height != other.height {
		return false
	}
	for i := range m.pix {
		if m.pix[i] != other.pix[i] {
			return false
		}
	}
	return true
}

// ValidateDimensions checks matrix dimensions for basic requirements.
func ValidateDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid dimensions: %dx%d", width, height)
	}
	if width > maxDimension || height > maxDimension {
		return fmt.Errorf("image too large: %dx%d (max: %d)", width, height, maxDimension)
	}
	return nil
}

// GrayFunc builds a gray matrix by evaluating v for every cell in row-major
// order. Dimensions are expected to come from an already validated matrix.
func GrayFunc(width, height int, v func(x, y int) uint8) *GrayMatrix {
	pix := make([]uint8, width*height)
	i := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pix[i] = v(x, y)
			i++
		}
	}
	return &GrayMatrix{width: width, height: height, pix: pix}
}
