package core

import "fmt"

// Raw sample values of a binary mask at the matrix boundary.
const (
	DarkValue  uint8 = 0
	LightValue uint8 = 255
)

// Mask is an immutable binary matrix. A true cell is dark (active), a false
// cell is light (inactive). Conversion to 0/255 samples happens only through
// Gray and MaskFromGray.
type Mask struct {
	width  int
	height int
	dark   []bool
}

// NewMask returns an all-light mask.
func NewMask(width, height int) *Mask {
	return &Mask{width: width, height: height, dark: make([]bool, width*height)}
}

// MaskFunc builds a mask by evaluating dark for every cell in row-major order.
func MaskFunc(width, height int, dark func(x, y int) bool) *Mask {
	m := NewMask(width, height)
	i := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			m.dark[i] = dark(x, y)
			i++
		}
	}
	return m
}

// MaskFromGray converts a strictly binary gray matrix. Any sample other than
// 0 or 255 is rejected.
func MaskFromGray(g *GrayMatrix) (*Mask, error) {
	m := NewMask(g.width, g.height)
	for i, v := range g.pix {
		switch v {
		case DarkValue:
			m.dark[i] = true
		case LightValue:
		default:
			return nil, fmt.Errorf("sample %d at (%d,%d) is not binary", v, i%g.width, i/g.width)
		}
	}
	return m, nil
}

func (m *Mask) Width() int  { return m.width }
func (m *Mask) Height() int { return m.height }

// Dark reports whether (x, y) is dark.
func (m *Mask) Dark(x, y int) bool {
	return m.dark[y*m.width+x]
}

// Count returns the number of dark cells.
func (m *Mask) Count() int {
	n := 0
	for _, d := range m.dark {
		if d {
			n++
		}
	}
	return n
}

// Clone returns an independent copy.
func (m *Mask) Clone() *Mask {
	c := NewMask(m.width, m.height)
	copy(c.dark, m.dark)
	return c
}

// Equal reports whether both masks have the same size and cells.
func (m *Mask) Equal(other *Mask) bool {
	if m.width != other.width || m.height != other.height {
		return false
	}
	for i := range m.dark {
		if m.dark[i] != other.dark[i] {
			return false
		}
	}
	return true
}

// Gray converts the mask to 0/255 samples.
func (m *Mask) Gray() *GrayMatrix {
	pix := make([]uint8, len(m.dark))
	for i, d := range m.dark {
		if d {
			pix[i] = DarkValue
		} else {
			pix[i] = LightValue
		}
	}
	return &GrayMatrix{width: m.width, height: m.height, pix: pix}
}
