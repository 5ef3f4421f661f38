// Package metrics emits the application's StatsD metrics with consistent tags.
package metrics

import (
	"time"

	obserrors "github.com/medexjob/medexjob-api/internal/observability/errors"
	"github.com/medexjob/medexjob-api/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultNoop    = "noop"
)

// Operation captures one unit of work (a reaper step, a KYC submission,
// an application transition) for metric emission.
type Operation struct {
	Name     string
	Result   string // defaults to success, or error when Err is set
	Affected int64  // rows or items touched; emitted when positive
	Duration time.Duration
	Err      error
	Tags     map[string]string
}

// EmitOperation emits "<name>.count" once per call, plus "<name>.affected"
// and "<name>.duration" when those are set. Errors are tagged with their class.
func EmitOperation(sink statsd.Sink, in Operation) {
	if sink == nil || in.Name == "" {
		return
	}

	tags := CloneTags(in.Tags)
	if tags == nil {
		tags = make(map[string]string, 2)
	}
	result := in.Result
	if result == "" {
		result = ResultSuccess
		if in.Err != nil {
			result = ResultError
		}
	}
	tags["result"] = result
	if in.Err != nil {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count(in.Name+".count", 1, tags)

	if in.Affected > 0 {
		sink.Count(in.Name+".affected", in.Affected, CloneTags(tags))
	}
	if in.Duration > 0 {
		sink.Timing(in.Name+".duration", in.Duration, CloneTags(tags))
	}
}

// ResultOf picks error, noop (nothing affected) or success.
func ResultOf(err error, affected int64) string {
	switch {
	case err != nil:
		return ResultError
	case affected == 0:
		return ResultNoop
	default:
		return ResultSuccess
	}
}

// CloneTags creates a shallow copy of a tag map, filtering out empty keys.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		if k == "" {
			continue
		}
		out[k] = v
	}
	return out
}
