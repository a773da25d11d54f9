package sunspot

import (
	"fmt"
	"time"

	"sunspot-imaging/internal/core"
	imageio "sunspot-imaging/internal/io"
)

// Stage names reported to a StageHook.
type Stage string

const (
	StageDecode     Stage = "decode"
	StageBinarize   Stage = "binarize"
	StageBackground Stage = "background"
	StageEmbiggen   Stage = "embiggen"
	StageComposite  Stage = "composite"
	StageShrink     Stage = "shrink"
)

// StageHook is called after each stage with its duration and output. The
// decode stage reports a nil mask.
type StageHook func(stage Stage, elapsed time.Duration, out *core.Mask)

// Result holds every intermediate mask of one run.
type Result struct {
	Binary     *core.Mask
	Background *core.Mask
	Combined   *core.Mask
	Composite  *core.Mask
	Thumbnail  *core.Mask
}

// Output returns the thumbnail as 0/255 samples.
func (r *Result) Output() *core.GrayMatrix {
	return r.Thumbnail.Gray()
}

// Stages returns the intermediates in processing order, keyed by stage.
func (r *Result) Stages() []StageMask {
	return []StageMask{
		{StageBinarize, r.Binary},
		{StageBackground, r.Background},
		{StageEmbiggen, r.Combined},
		{StageComposite, r.Composite},
		{StageShrink, r.Thumbnail},
	}
}

// StageMask pairs a stage with the mask it produced.
type StageMask struct {
	Stage Stage
	Mask  *core.Mask
}

// Pipeline runs the enhancement. The zero value is not usable; call New.
type Pipeline struct {
	hook   StageHook
	decode func([]byte) (*core.ColorMatrix, error)
}

type Option func(*Pipeline)

// WithStageHook installs a per-stage observer.
func WithStageHook(hook StageHook) Option {
	return func(p *Pipeline) {
		p.hook = hook
	}
}

func New(opts ...Option) *Pipeline {
	p := &Pipeline{decode: imageio.Decode}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process decodes data and runs every stage. Undecodable input yields a
// *io.DecodeError; a failure inside OpenCV is recovered and returned as an
// error.
func (p *Pipeline) Process(data []byte) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("panic in sunspot pipeline: %v", r)
		}
	}()

	start := time.Now()
	img, err := p.decode(data)
	if err != nil {
		return nil, err
	}
	p.report(StageDecode, start, nil)

	res = &Result{}
	res.Binary = p.step(StageBinarize, func() *core.Mask { return Binarize(img) })
	res.Background = p.step(StageBackground, func() *core.Mask { return BackgroundMask(res.Binary) })
	res.Combined = p.step(StageEmbiggen, func() *core.Mask { return Embiggen(res.Binary) })
	res.Composite = p.step(StageComposite, func() *core.Mask { return Composite(res.Combined, res.Background) })
	res.Thumbnail = p.step(StageShrink, func() *core.Mask { return Shrink(res.Composite) })
	return res, nil
}

// Enhance returns only the 72x72 thumbnail.
func (p *Pipeline) Enhance(data []byte) (*core.GrayMatrix, error) {
	res, err := p.Process(data)
	if err != nil {
		return nil, err
	}
	return res.Output(), nil
}

// Enhance runs a default pipeline over data.
func Enhance(data []byte) (*core.GrayMatrix, error) {
	return New().Enhance(data)
}

func (p *Pipeline) step(stage Stage, fn func() *core.Mask) *core.Mask {
	start := time.Now()
	out := fn()
	p.report(stage, start, out)
	return out
}

func (p *Pipeline) report(stage Stage, start time.Time, out *core.Mask) {
	if p.hook != nil {
		p.hook(stage, time.Since(start), out)
	}
}
