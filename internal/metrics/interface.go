// Quality metrics over single-channel matrices
package metrics

import (
	"fmt"
	"sort"

	"sunspot-imaging/internal/core"
)

// Metric defines the interface for quality metrics
type Metric interface {
	// Calculate computes the metric value
	Calculate(original, processed *core.GrayMatrix) (float64, error)

	// GetName returns the metric name
	GetName() string

	// GetDescription returns the metric description
	GetDescription() string

	// GetRange returns the value range (min, max)
	GetRange() (float64, float64)

	// IsHigherBetter returns true if higher values indicate better quality
	IsHigherBetter() bool
}

// MetricInfo describes a registered metric
type MetricInfo struct {
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Min            float64 `json:"min"`
	Max            float64 `json:"max"`
	IsHigherBetter bool    `json:"is_higher_better"`
}

// Evaluator manages and calculates multiple metrics
type Evaluator struct {
	metrics map[string]Metric
}

// NewEvaluator creates a new metrics evaluator
func NewEvaluator() *Evaluator {
	e := &Evaluator{
		metrics: make(map[string]Metric),
	}

	e.RegisterDefaultMetrics()

	return e
}

// RegisterDefaultMetrics registers all default metrics
func (e *Evaluator) RegisterDefaultMetrics() {
	e.Register("mse", NewMSE())
	e.Register("psnr", NewPSNR())
	e.Register("f_measure", NewFMeasure())
	e.Register("dark_coverage", NewDarkCoverage())
}

// Register registers a metric
func (e *Evaluator) Register(name string, metric Metric) {
	e.metrics[name] = metric
}

// Names returns the registered metric names in sorted order
func (e *Evaluator) Names() []string {
	names := make([]string, 0, len(e.metrics))
	for name := range e.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Calculate calculates a specific metric
func (e *Evaluator) Calculate(name string, original, processed *core.GrayMatrix) (float64, error) {
	metric, exists := e.metrics[name]
	if !exists {
		return 0, fmt.Errorf("metric not found: %s", name)
	}

	return metric.Calculate(original, processed)
}

// CalculateAll calculates all registered metrics, skipping those that fail
func (e *Evaluator) CalculateAll(original, processed *core.GrayMatrix) map[string]float64 {
	results := make(map[string]float64)

	for name, metric := range e.metrics {
		if value, err := metric.Calculate(original, processed); err == nil {
			results[name] = value
		}
	}

	return results
}

// GetMetricInfo returns information about all metrics
func (e *Evaluator) GetMetricInfo() map[string]MetricInfo {
	info := make(map[string]MetricInfo)

	for name, metric := range e.metrics {
		min, max := metric.GetRange()
		info[name] = MetricInfo{
			Name:           metric.GetName(),
			Description:    metric.GetDescription(),
			Min:            min,
			Max:            max,
			IsHigherBetter: metric.IsHigherBetter(),
		}
	}

	return info
}

func sameSize(original, processed *core.GrayMatrix) error {
	if original == nil || processed == nil {
		return fmt.Errorf("empty images")
	}
	if original.Width() != processed.Width() || original.Height() != processed.Height() {
		return fmt.Errorf("image dimensions mismatch: %dx%d vs %dx%d",
			original.Width(), original.Height(), processed.Width(), processed.Height())
	}
	return nil
}
