// Package metrics provides shared helpers for emitting workflow lifecycle
// metrics.
package metrics

import (
	"time"

	obserrors "github.com/hmodding/website-jobs/internal/observability/errors"
	"github.com/hmodding/website-jobs/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultNoop    = "noop"
)

// ScanMetric captures details about a scan workflow step for metric emission.
type ScanMetric struct {
	Step   string // submit, poll, resume
	Result string
	Err    error
}

// EmitScanStep emits standardised scan workflow metrics.
func EmitScanStep(sink statsd.Sink, in ScanMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"step":   in.Step,
		"result": in.Result,
	}
	if in.Err != nil && in.Result == ResultError {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("scan.step", 1, tags)
}

// SweepMetric captures details about one sweep execution.
type SweepMetric struct {
	Sweep     string // deletion, download_gc
	Processed int64
	Elapsed   time.Duration
	Err       error
}

// EmitSweep emits standardised sweep metrics.
func EmitSweep(sink statsd.Sink, in SweepMetric) {
	if sink == nil {
		return
	}

	result := ResultSuccess
	switch {
	case in.Err != nil:
		result = ResultError
	case in.Processed == 0:
		result = ResultNoop
	}

	tags := map[string]string{
		"sweep":  in.Sweep,
		"result": result,
	}
	if in.Err != nil {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("sweep.run", 1, tags)
	if in.Processed > 0 {
		sink.Count("sweep.processed", in.Processed, CloneTags(tags))
	}
	if in.Elapsed > 0 {
		sink.Timing("sweep.duration", in.Elapsed, CloneTags(tags))
	}
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
