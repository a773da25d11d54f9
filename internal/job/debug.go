package job

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"sunspot-imaging/internal/core"
	"sunspot-imaging/internal/sunspot"
)

// OperationLog records one completed pipeline stage.
type OperationLog struct {
	Stage    sunspot.Stage
	Duration time.Duration
	Width    int
	Height   int
	Dark     int
}

// DebugPipeline collects stage timings for a single input and logs them at
// debug level.
type DebugPipeline struct {
	entry *logrus.Entry

	mu         sync.Mutex
	operations []OperationLog
}

func NewDebugPipeline(entry *logrus.Entry) *DebugPipeline {
	return &DebugPipeline{entry: entry}
}

// Hook returns the stage observer to install on a sunspot.Pipeline.
func (d *DebugPipeline) Hook() sunspot.StageHook {
	return func(stage sunspot.Stage, elapsed time.Duration, out *core.Mask) {
		op := OperationLog{Stage: stage, Duration: elapsed}
		if out != nil {
			op.Width, op.Height, op.Dark = out.Width(), out.Height(), out.Count()
		}

		d.mu.Lock()
		d.operations = append(d.operations, op)
		d.mu.Unlock()

		d.entry.WithFields(logrus.Fields{
			"stage":    string(stage),
			"duration": elapsed,
			"width":    op.Width,
			"height":   op.Height,
			"dark":     op.Dark,
		}).Debug("Stage completed")
	}
}

// Operations returns the stages recorded so far.
func (d *DebugPipeline) Operations() []OperationLog {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]OperationLog(nil), d.operations...)
}

// Total sums the recorded stage durations.
func (d *DebugPipeline) Total() time.Duration {
	var total time.Duration
	for _, op := range d.Operations() {
		total += op.Duration
	}
	return total
}
