// Image file loading and saving
package io

import (
	"bytes"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"sunspot-imaging/internal/core"
)

var supportedExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".tiff", ".tif", ".bmp", ".webp"}

// ImageLoader handles image file operations
type ImageLoader struct {
	logger *slog.Logger
}

func NewImageLoader(logger *slog.Logger) *ImageLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImageLoader{
		logger: logger,
	}
}

// ReadEncoded returns the raw bytes of an image file without decoding it.
func (il *ImageLoader) ReadEncoded(path string) ([]byte, error) {
	il.logger.Debug("Reading image", "filepath", path)

	if !il.IsSupportedImageFormat(path) {
		return nil, fmt.Errorf("unsupported image format: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image %s: %w", path, err)
	}
	return data, nil
}

func (il *ImageLoader) LoadImage(path string) (*core.ColorMatrix, error) {
	data, err := il.ReadEncoded(path)
	if err != nil {
		return nil, err
	}

	m, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("load image %s: %w", path, err)
	}

	il.logger.Info("Image loaded successfully",
		"filepath", path,
		"width", m.Width(),
		"height", m.Height())

	return m, nil
}

// SaveImage writes g as PNG. With factor > 1 an upscaled preview is written
// instead of the native-size matrix.
func (il *ImageLoader) SaveImage(g *core.GrayMatrix, path string, factor int) error {
	il.logger.Debug("Saving image", "filepath", path)

	if strings.ToLower(filepath.Ext(path)) != ".png" {
		return fmt.Errorf("unsupported output format: %s", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if factor > 1 {
		err = EncodePreviewPNG(f, g, factor)
	} else {
		err = EncodePNG(f, g)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		if rerr := os.Remove(path); rerr != nil {
			il.logger.Warn("Failed to remove partial output", "filepath", path, "error", rerr)
		}
		return fmt.Errorf("save image %s: %w", path, err)
	}

	il.logger.Info("Image saved successfully",
		"filepath", path,
		"width", g.Width()*max(factor, 1),
		"height", g.Height()*max(factor, 1))

	return nil
}

// IsSupportedImageFormat checks the file extension against the registered decoders.
func (il *ImageLoader) IsSupportedImageFormat(path string) bool {
	return slices.Contains(supportedExtensions, strings.ToLower(filepath.Ext(path)))
}

func (il *ImageLoader) GetSupportedFormats() []string {
	return []string{"JPEG", "PNG", "GIF", "TIFF", "BMP", "WEBP"}
}

// ValidateImageFile checks that a file parses as a raster image of acceptable
// size without decoding its pixels.
func (il *ImageLoader) ValidateImageFile(path string) error {
	data, err := il.ReadEncoded(path)
	if err != nil {
		return err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return &DecodeError{Size: len(data), Err: err}
	}
	return core.ValidateDimensions(cfg.Width, cfg.Height)
}
