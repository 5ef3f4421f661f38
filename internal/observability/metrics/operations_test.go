package metrics

import (
	"errors"
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedMetric struct {
	kind  string
	name  string
	value int64
	tags  map[string]string
}

type recordingSink struct {
	metrics []recordedMetric
}

func (s *recordingSink) Count(name string, value int64, tags map[string]string) {
	s.metrics = append(s.metrics, recordedMetric{kind: "count", name: name, value: value, tags: tags})
}

func (s *recordingSink) Gauge(name string, value float64, tags map[string]string) {
	s.metrics = append(s.metrics, recordedMetric{kind: "gauge", name: name, value: int64(value), tags: tags})
}

func (s *recordingSink) Timing(name string, value time.Duration, tags map[string]string) {
	s.metrics = append(s.metrics, recordedMetric{kind: "timing", name: name, value: value.Milliseconds(), tags: tags})
}

func TestEmitOperation_Success(t *testing.T) {
	sink := &recordingSink{}
	EmitOperation(sink, Operation{
		Name:     "reaper.close_expired_jobs",
		Result:   ResultOf(nil, 3),
		Affected: 3,
		Duration: 20 * time.Millisecond,
		Tags:     map[string]string{"step": "jobs"},
	})

	require.Len(t, sink.metrics, 3)
	assert.Equal(t, "reaper.close_expired_jobs.count", sink.metrics[0].name)
	assert.Equal(t, int64(1), sink.metrics[0].value)
	assert.Equal(t, ResultSuccess, sink.metrics[0].tags["result"])
	assert.Equal(t, "jobs", sink.metrics[0].tags["step"])
	assert.Equal(t, "reaper.close_expired_jobs.affected", sink.metrics[1].name)
	assert.Equal(t, int64(3), sink.metrics[1].value)
	assert.Equal(t, "timing", sink.metrics[2].kind)
	assert.Equal(t, int64(20), sink.metrics[2].value)
}

func TestEmitOperation_ErrorClass(t *testing.T) {
	sink := &recordingSink{}
	err := &fs.PathError{Op: "open", Path: "x", Err: errors.New("denied")}
	EmitOperation(sink, Operation{Name: "uploads.save", Err: err})

	require.Len(t, sink.metrics, 1)
	assert.Equal(t, ResultError, sink.metrics[0].tags["result"])
	assert.NotEmpty(t, sink.metrics[0].tags["error_class"])
}

func TestEmitOperation_NilSinkOrName(t *testing.T) {
	EmitOperation(nil, Operation{Name: "x"})
	sink := &recordingSink{}
	EmitOperation(sink, Operation{})
	assert.Empty(t, sink.metrics)
}

func TestResultOf(t *testing.T) {
	assert.Equal(t, ResultError, ResultOf(errors.New("x"), 5))
	assert.Equal(t, ResultNoop, ResultOf(nil, 0))
	assert.Equal(t, ResultSuccess, ResultOf(nil, 1))
}

func TestCloneTags(t *testing.T) {
	assert.Nil(t, CloneTags(nil))
	src := map[string]string{"a": "1", "": "dropped"}
	out := CloneTags(src)
	assert.Equal(t, map[string]string{"a": "1"}, out)
	out["a"] = "2"
	assert.Equal(t, "1", src["a"])
}
