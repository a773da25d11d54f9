package job

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	imageio "sunspot-imaging/internal/io"
	"sunspot-imaging/internal/sunspot"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.DebugLevel)
	return logger
}

func writeDisk(t *testing.T, dir, name string, size int) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, size, size))
	c, r := size/2, size*2/5
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x-c)*(x-c)+(y-c)*(y-c) <= r*r {
				img.SetGray(x, y, color.Gray{Y: 220})
			}
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func pngSize(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func TestRunWritesThumbnails(t *testing.T) {
	in, out := t.TempDir(), filepath.Join(t.TempDir(), "out")
	inputs := []string{writeDisk(t, in, "a.png", 200), writeDisk(t, in, "b.png", 150)}

	r := NewRunner(Options{OutputDir: out, PreviewScale: 4, DumpStages: true, Workers: 2}, quietLogger())
	outcomes, err := r.Run(context.Background(), inputs)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	for i, o := range outcomes {
		assert.Equal(t, inputs[i], o.Input)
		require.NoError(t, o.Err)

		w, h := pngSize(t, o.Output)
		assert.Equal(t, sunspot.OutputSize, w)
		assert.Equal(t, sunspot.OutputSize, h)
		assert.Contains(t, o.Metrics, "f_measure")
	}

	w, _ := pngSize(t, filepath.Join(out, "a.preview.png"))
	assert.Equal(t, sunspot.OutputSize*4, w)

	w, _ = pngSize(t, filepath.Join(out, "a.background.png"))
	assert.Equal(t, 200, w)
	for _, stage := range []string{"binarize", "embiggen", "composite", "shrink"} {
		assert.FileExists(t, filepath.Join(out, "b."+stage+".png"))
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	good := writeDisk(t, in, "good.png", 120)
	bad := filepath.Join(in, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not a png"), 0o644))

	outcomes, err := NewRunner(Options{OutputDir: out, Workers: 2}, quietLogger()).Run(context.Background(), []string{bad, good})
	require.Error(t, err)

	var de *imageio.DecodeError
	assert.True(t, errors.As(err, &de))

	assert.Error(t, outcomes[0].Err)
	assert.NoError(t, outcomes[1].Err)
	assert.FileExists(t, filepath.Join(out, "good.png"))
	assert.NoFileExists(t, filepath.Join(out, "bad.png"))
}

func TestRunCancelled(t *testing.T) {
	in := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes, err := NewRunner(Options{OutputDir: t.TempDir()}, quietLogger()).Run(ctx, []string{writeDisk(t, in, "x.png", 64)})
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, outcomes[0].Err, context.Canceled)
}

func TestRunRejectsCollidingOutputs(t *testing.T) {
	_, err := NewRunner(Options{OutputDir: t.TempDir()}, quietLogger()).Run(context.Background(), []string{"a/sun.png", "b/sun.jpg"})
	assert.Error(t, err)
}

func TestDebugPipelineRecordsStages(t *testing.T) {
	in := t.TempDir()
	data, err := os.ReadFile(writeDisk(t, in, "d.png", 100))
	require.NoError(t, err)

	debug := NewDebugPipeline(logrus.NewEntry(quietLogger()))
	_, err = sunspot.New(sunspot.WithStageHook(debug.Hook())).Enhance(data)
	require.NoError(t, err)

	ops := debug.Operations()
	require.Len(t, ops, 6)
	assert.Equal(t, sunspot.StageDecode, ops[0].Stage)
	assert.Equal(t, sunspot.OutputSize, ops[5].Width)
	assert.Greater(t, ops[1].Dark, 0)
	assert.GreaterOrEqual(t, debug.Total(), ops[1].Duration)
}
