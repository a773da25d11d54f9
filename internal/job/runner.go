// Package job runs the sunspot enhancement over a batch of image files.
package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	imageio "sunspot-imaging/internal/io"
	"sunspot-imaging/internal/metrics"
	"sunspot-imaging/internal/sunspot"
)

// Options controls where and what a Runner writes.
type Options struct {
	OutputDir    string
	PreviewScale int
	DumpStages   bool
	Workers      int
}

// Outcome is the result of one input.
type Outcome struct {
	Input    string
	Output   string
	Duration time.Duration
	Metrics  map[string]float64
	Err      error
}

// Runner processes inputs independently; a failure on one input never
// affects the others.
type Runner struct {
	opts      Options
	logger    *logrus.Logger
	loader    *imageio.ImageLoader
	evaluator *metrics.Evaluator
}

func NewRunner(opts Options, logger *logrus.Logger) *Runner {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}

	level := slog.LevelInfo
	if logger.IsLevelEnabled(logrus.DebugLevel) {
		level = slog.LevelDebug
	}
	loaderLog := slog.New(slog.NewTextHandler(logger.Out, &slog.HandlerOptions{Level: level}))

	return &Runner{
		opts:      opts,
		logger:    logger,
		loader:    imageio.NewImageLoader(loaderLog),
		evaluator: metrics.NewEvaluator(),
	}
}

// Run processes every input with at most Options.Workers in flight. Outcomes
// are returned in input order. The error joins every per-input failure.
func (r *Runner) Run(ctx context.Context, inputs []string) ([]Outcome, error) {
	if err := checkOutputNames(inputs); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(r.opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	outcomes := make([]Outcome, len(inputs))
	var g errgroup.Group
	g.SetLimit(r.opts.Workers)

	for i, input := range inputs {
		g.Go(func() error {
			outcomes[i] = r.processOne(ctx, input)
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, o := range outcomes {
		if o.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", o.Input, o.Err))
		}
	}

	r.logger.WithFields(logrus.Fields{
		"inputs": len(inputs),
		"failed": len(errs),
	}).Info("Batch finished")

	return outcomes, errors.Join(errs...)
}

func (r *Runner) processOne(ctx context.Context, input string) Outcome {
	out := Outcome{Input: input}
	entry := r.logger.WithField("input", input)

	if err := ctx.Err(); err != nil {
		out.Err = err
		return out
	}

	start := time.Now()
	data, err := r.loader.ReadEncoded(input)
	if err != nil {
		out.Err = err
		entry.WithError(err).Error("Failed to read input")
		return out
	}

	debug := NewDebugPipeline(entry)
	res, err := sunspot.New(sunspot.WithStageHook(debug.Hook())).Process(data)
	if err != nil {
		out.Err = err
		entry.WithError(err).Error("Failed to enhance image")
		return out
	}

	base := filepath.Join(r.opts.OutputDir, stem(input))
	thumb := res.Output()
	out.Output = base + ".png"
	if err := r.loader.SaveImage(thumb, out.Output, 1); err != nil {
		out.Err = err
		return out
	}

	if r.opts.PreviewScale > 1 {
		if err := r.loader.SaveImage(thumb, base+".preview.png", r.opts.PreviewScale); err != nil {
			out.Err = err
			return out
		}
	}

	if r.opts.DumpStages {
		for _, s := range res.Stages() {
			if err := r.loader.SaveImage(s.Mask.Gray(), base+"."+string(s.Stage)+".png", 1); err != nil {
				out.Err = err
				return out
			}
		}
	}

	// Compare against a plain downsample of the binarized input to show how
	// much the embiggening and ring changed.
	plain := sunspot.Shrink(res.Binary).Gray()
	out.Metrics = r.evaluator.CalculateAll(plain, thumb)
	out.Duration = time.Since(start)

	entry.WithFields(logrus.Fields{
		"output":        out.Output,
		"width":         res.Binary.Width(),
		"height":        res.Binary.Height(),
		"duration":      out.Duration,
		"pipeline":      debug.Total(),
		"dark_coverage": out.Metrics["dark_coverage"],
		"f_measure":     out.Metrics["f_measure"],
	}).Info("Image enhanced")

	return out
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func checkOutputNames(inputs []string) error {
	seen := make(map[string]string, len(inputs))
	for _, in := range inputs {
		s := stem(in)
		if prev, ok := seen[s]; ok {
			return fmt.Errorf("inputs %s and %s would write the same output %s.png", prev, in, s)
		}
		seen[s] = in
	}
	return nil
}
