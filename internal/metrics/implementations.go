package metrics

import (
	"math"

	"sunspot-imaging/internal/core"
)

// darkCutoff splits gray samples into dark (below) and light.
const darkCutoff = 128

// MSE is the mean squared sample difference.
type MSE struct{}

func NewMSE() *MSE {
	return &MSE{}
}

func (m *MSE) Calculate(original, processed *core.GrayMatrix) (float64, error) {
	if err := sameSize(original, processed); err != nil {
		return 0, err
	}
	return meanSquaredError(original, processed), nil
}

func (m *MSE) GetName() string        { return "MSE" }
func (m *MSE) GetDescription() string { return "Mean squared error between samples" }
func (m *MSE) GetRange() (float64, float64) {
	return 0, 255 * 255
}
func (m *MSE) IsHigherBetter() bool { return false }

func meanSquaredError(a, b *core.GrayMatrix) float64 {
	pa, pb := a.Bytes(), b.Bytes()
	var sum float64
	for i := range pa {
		d := float64(pa[i]) - float64(pb[i])
		sum += d * d
	}
	return sum / float64(len(pa))
}

// PSNR is the peak signal-to-noise ratio in dB, capped at 100 for identical inputs.
type PSNR struct{}

func NewPSNR() *PSNR {
	return &PSNR{}
}

func (p *PSNR) Calculate(original, processed *core.GrayMatrix) (float64, error) {
	if err := sameSize(original, processed); err != nil {
		return 0, err
	}

	mse := meanSquaredError(original, processed)
	if mse < 1e-10 {
		return 100.0, nil
	}

	psnr := 20*math.Log10(255) - 10*math.Log10(mse)
	return math.Max(0, math.Min(100, psnr)), nil
}

func (p *PSNR) GetName() string        { return "PSNR" }
func (p *PSNR) GetDescription() string { return "Peak signal-to-noise ratio (dB)" }
func (p *PSNR) GetRange() (float64, float64) {
	return 0, 100
}
func (p *PSNR) IsHigherBetter() bool { return true }

// FMeasure compares dark regions, treating original as ground truth.
type FMeasure struct{}

func NewFMeasure() *FMeasure {
	return &FMeasure{}
}

func (f *FMeasure) Calculate(original, processed *core.GrayMatrix) (float64, error) {
	if err := sameSize(original, processed); err != nil {
		return 0, err
	}

	var tp, fp, fn float64
	po, pp := original.Bytes(), processed.Bytes()
	for i := range po {
		truth, got := po[i] < darkCutoff, pp[i] < darkCutoff
		switch {
		case truth && got:
			tp++
		case got:
			fp++
		case truth:
			fn++
		}
	}

	// Two empty masks agree completely.
	if tp+fp+fn == 0 {
		return 1, nil
	}

	precision := 0.0
	if tp+fp > 0 {
		precision = tp / (tp + fp)
	}
	recall := 0.0
	if tp+fn > 0 {
		recall = tp / (tp + fn)
	}
	if precision+recall == 0 {
		return 0, nil
	}
	return 2 * (precision * recall) / (precision + recall), nil
}

func (f *FMeasure) GetName() string        { return "F-Measure" }
func (f *FMeasure) GetDescription() string { return "Harmonic mean of precision and recall of dark cells" }
func (f *FMeasure) GetRange() (float64, float64) {
	return 0, 1
}
func (f *FMeasure) IsHigherBetter() bool { return true }

// DarkCoverage is the fraction of dark samples in processed. original only
// has to match in size.
type DarkCoverage struct{}

func NewDarkCoverage() *DarkCoverage {
	return &DarkCoverage{}
}

func (d *DarkCoverage) Calculate(original, processed *core.GrayMatrix) (float64, error) {
	if err := sameSize(original, processed); err != nil {
		return 0, err
	}
	return Coverage(processed), nil
}

func (d *DarkCoverage) GetName() string        { return "Dark Coverage" }
func (d *DarkCoverage) GetDescription() string { return "Fraction of dark samples" }
func (d *DarkCoverage) GetRange() (float64, float64) {
	return 0, 1
}
func (d *DarkCoverage) IsHigherBetter() bool { return false }

// Coverage returns the fraction of samples below the dark cutoff.
func Coverage(g *core.GrayMatrix) float64 {
	pix := g.Bytes()
	n := 0
	for _, v := range pix {
		if v < darkCutoff {
			n++
		}
	}
	return float64(n) / float64(len(pix))
}
