package sunspot

import (
	"sunspot-imaging/internal/algorithms"
	"sunspot-imaging/internal/core"
)

// Protocol constants. These values are tuned against the source imagery and
// must not be derived or parameterised.
const (
	// Threshold is the highest intensity still classified as dark.
	Threshold uint8 = 140
	// OutputSize is the width and height of the thumbnail.
	OutputSize = 72

	captionKernelSize = 13
	outlineKernelSize = 25
	ratchetKernelSize = 3
	growthKernelSize  = 15

	embiggenRounds = 3
)

// Binarize reduces a decoded image to intensity and thresholds it.
func Binarize(c *core.ColorMatrix) *core.Mask {
	return algorithms.Threshold(algorithms.Luminance(c), Threshold)
}

// BackgroundMask returns the inverted disk silhouette: dark over the disk and
// a few pixels beyond its rim, light elsewhere. Light marks narrower than the
// 13px element (captions, labels) are erased before the 25px element grows
// the disk back past its original edge.
func BackgroundMask(binary *core.Mask) *core.Mask {
	eroded := algorithms.Erode(binary, algorithms.Ellipse(captionKernelSize))
	dilated := algorithms.Dilate(eroded, algorithms.Ellipse(outlineKernelSize))
	return algorithms.Invert(dilated)
}

// Embiggen enlarges dark regions by an amount that grows with their size.
func Embiggen(binary *core.Mask) *core.Mask {
	return embiggen(binary, nil)
}

// roundFunc observes the state after each embiggening round.
type roundFunc func(round int, candidate, cache *core.Mask)

func embiggen(binary *core.Mask, observe roundFunc) *core.Mask {
	ratchet := algorithms.Ellipse(ratchetKernelSize)
	growth := algorithms.Ellipse(growthKernelSize)

	combined := binary.Clone()
	cache := binary.Clone()

	// Round i erodes the cache 1 + (i-1) times: 1, 2 then 3 erosions. The
	// cache is dilated after every round, so by the time the heavier rounds
	// run only spots that survived the ratchet are still there to grow.
	for round := 1; round <= embiggenRounds; round++ {
		candidate := algorithms.Erode(cache, growth)
		candidate = algorithms.ErodeN(candidate, growth, round-1)

		combined = algorithms.Min(combined, candidate)
		cache = algorithms.Dilate(cache, ratchet)

		if observe != nil {
			observe(round, candidate, cache)
		}
	}
	return combined
}

// Composite lets the background outline show through the embiggened mask:
// outside the grown disk everything turns light, leaving a dark rim ring.
func Composite(combined, background *core.Mask) *core.Mask {
	return algorithms.Max(combined, background)
}

// Shrink downsamples a composite to the thumbnail size.
func Shrink(composite *core.Mask) *core.Mask {
	return algorithms.ResizeNearest(composite, OutputSize, OutputSize)
}
