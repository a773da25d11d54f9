package sunspot

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sunspot-imaging/internal/core"
	imageio "sunspot-imaging/internal/io"
)

var (
	space    = color.RGBA{A: 255}
	photo    = color.RGBA{R: 250, G: 190, B: 90, A: 255}
	umbra    = color.RGBA{R: 90, G: 40, B: 10, A: 255}
	penumbra = color.RGBA{R: 170, G: 130, B: 60, A: 255}
)

// solarPNG draws a disk filling most of a w x h frame with two spots.
func solarPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	cx, cy := w/2, h/2
	radius := min(w, h) * 9 / 20
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := x-cx, y-cy
			c := space
			if dx*dx+dy*dy <= radius*radius {
				c = photo
			}
			img.SetRGBA(x, y, c)
		}
	}
	spot := func(sx, sy, r int, c color.RGBA) {
		for y := sy - r; y <= sy+r; y++ {
			for x := sx - r; x <= sx+r; x++ {
				if (x-sx)*(x-sx)+(y-sy)*(y-sy) <= r*r {
					img.SetRGBA(x, y, c)
				}
			}
		}
	}
	spot(cx-radius/3, cy, max(radius/12, 2), penumbra)
	spot(cx-radius/3, cy, max(radius/24, 1), umbra)
	spot(cx+radius/4, cy-radius/4, max(radius/40, 1), umbra)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestEnhanceOutputSize(t *testing.T) {
	for _, size := range [][2]int{{512, 512}, {300, 200}, {150, 420}, {72, 72}, {40, 40}} {
		out, err := Enhance(solarPNG(t, size[0], size[1]))
		require.NoError(t, err, "size %v", size)
		assert.Equal(t, OutputSize, out.Width())
		assert.Equal(t, OutputSize, out.Height())

		for _, v := range out.Bytes() {
			require.True(t, v == core.DarkValue || v == core.LightValue, "non-binary sample %d", v)
		}
	}
}

func TestEnhanceMalformedInput(t *testing.T) {
	for _, data := range [][]byte{nil, {}, []byte("GIF89a"), solarPNG(t, 64, 64)[:40]} {
		out, err := Enhance(data)
		assert.Nil(t, out)

		var de *imageio.DecodeError
		assert.ErrorAs(t, err, &de)
	}
}

func TestEnhanceDeterministic(t *testing.T) {
	data := solarPNG(t, 256, 256)
	a, err := Enhance(data)
	require.NoError(t, err)
	b, err := Enhance(data)
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}

func TestEnhanceShowsSpotsAndRing(t *testing.T) {
	out, err := Enhance(solarPNG(t, 360, 360))
	require.NoError(t, err)

	// 360 -> 72 is an exact factor of five.
	assert.Equal(t, core.LightValue, out.At(0, 0), "space outside the ring")
	assert.Equal(t, core.LightValue, out.At(36, 60), "photosphere")
	assert.Equal(t, core.DarkValue, out.At(36, 3), "rim ring")

	// The large spot is centred near x=25. Embiggen grows it into a dark
	// annulus, while the background mask keeps a light core where the spot
	// was wide enough to survive the 13/25 open.
	assert.Equal(t, core.DarkValue, out.At(21, 36), "large spot, left annulus")
	assert.Equal(t, core.DarkValue, out.At(29, 36), "large spot, right annulus")
	assert.Equal(t, core.LightValue, out.At(25, 36), "large spot, light core")
}

func TestProcessIntermediates(t *testing.T) {
	res, err := New().Process(solarPNG(t, 200, 160))
	require.NoError(t, err)

	assert.Equal(t, 200, res.Binary.Width())
	assert.Equal(t, 160, res.Background.Height())
	assert.Equal(t, OutputSize, res.Thumbnail.Width())

	stages := res.Stages()
	require.Len(t, stages, 5)
	assert.Equal(t, StageBinarize, stages[0].Stage)
	assert.Equal(t, StageShrink, stages[4].Stage)
	assert.True(t, res.Output().Equal(res.Thumbnail.Gray()))
}

func TestStageHookOrder(t *testing.T) {
	var seen []Stage
	p := New(WithStageHook(func(stage Stage, elapsed time.Duration, out *core.Mask) {
		assert.GreaterOrEqual(t, elapsed, time.Duration(0))
		if stage == StageDecode {
			assert.Nil(t, out)
		} else {
			assert.NotNil(t, out)
		}
		seen = append(seen, stage)
	}))

	_, err := p.Enhance(solarPNG(t, 120, 120))
	require.NoError(t, err)
	assert.Equal(t, []Stage{StageDecode, StageBinarize, StageBackground, StageEmbiggen, StageComposite, StageShrink}, seen)

	seen = nil
	_, err = p.Enhance(nil)
	assert.Error(t, err)
	assert.Empty(t, seen, "no stage completes on decode failure")
}

func TestEnhanceConcurrent(t *testing.T) {
	inputs := [][]byte{solarPNG(t, 128, 128), solarPNG(t, 200, 150), solarPNG(t, 96, 160)}
	want := make([]*core.GrayMatrix, len(inputs))
	for i, data := range inputs {
		out, err := Enhance(data)
		require.NoError(t, err)
		want[i] = out
	}

	p := New()
	var wg sync.WaitGroup
	for n := 0; n < 4; n++ {
		for i, data := range inputs {
			wg.Add(1)
			go func() {
				defer wg.Done()
				out, err := p.Enhance(data)
				if assert.NoError(t, err) {
					assert.True(t, want[i].Equal(out), "input %d", i)
				}
			}()
		}
	}
	wg.Wait()
}

func TestProcessRecoversPanic(t *testing.T) {
	p := New()
	p.decode = func([]byte) (*core.ColorMatrix, error) {
		panic("opencv exploded")
	}

	res, err := p.Process([]byte{1})
	assert.Nil(t, res)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opencv exploded")
}
