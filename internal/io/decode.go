// Raster decoding at the encoded-bytes boundary
package io

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"gocv.io/x/gocv"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"sunspot-imaging/internal/core"
)

// ErrEmptyInput is the cause of a DecodeError for a zero-length buffer.
var ErrEmptyInput = errors.New("empty input buffer")

// DecodeError reports a buffer that could not be parsed as a raster image.
type DecodeError struct {
	Size   int    // length of the rejected buffer
	Format string // detected format, empty when unknown
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Format != "" {
		return fmt.Sprintf("decode %s image (%d bytes): %v", e.Format, e.Size, e.Err)
	}
	return fmt.Sprintf("decode image (%d bytes): %v", e.Size, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ErrUnrecognised is the cause of a DecodeError when OpenCV finds no usable
// raster in the buffer.
var ErrUnrecognised = errors.New("unrecognised or corrupt image data")

// Decode parses an encoded raster buffer with OpenCV into a 3-channel matrix
// of the source's native size. Alpha is discarded without compositing, EXIF
// orientation is applied and 16-bit samples are reduced to 8 bits.
//
// When the Go registry also knows the format, the header is read first so an
// oversized image is rejected before OpenCV allocates it.
func Decode(data []byte) (*core.ColorMatrix, error) {
	if len(data) == 0 {
		return nil, &DecodeError{Err: ErrEmptyInput}
	}

	cfg, format, cfgErr := image.DecodeConfig(bytes.NewReader(data))
	if cfgErr == nil {
		if err := core.ValidateDimensions(cfg.Width, cfg.Height); err != nil {
			return nil, &DecodeError{Size: len(data), Format: format, Err: err}
		}
	}

	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return nil, &DecodeError{Size: len(data), Format: format, Err: err}
	}
	defer mat.Close()
	if mat.Empty() {
		cause := ErrUnrecognised
		if cfgErr != nil {
			cause = fmt.Errorf("%w: %v", ErrUnrecognised, cfgErr)
		}
		return nil, &DecodeError{Size: len(data), Format: format, Err: cause}
	}
	if mat.Type() != gocv.MatTypeCV8UC3 {
		return nil, &DecodeError{Size: len(data), Format: format, Err: fmt.Errorf("unexpected decoded mat type %v", mat.Type())}
	}

	m, err := core.NewColorMatrixBGR(mat.Cols(), mat.Rows(), mat.ToBytes())
	if err != nil {
		return nil, &DecodeError{Size: len(data), Format: format, Err: err}
	}
	return m, nil
}
