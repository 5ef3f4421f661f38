package statsd

import (
	"sync"
	"time"
)

// Recorder is an in-memory Sink for tests and local debugging.
type Recorder struct {
	mu      sync.Mutex
	counts  map[string]int64
	gauges  map[string]float64
	timings map[string]int
	tags    map[string][]map[string]string
}

var _ Sink = (*Recorder)(nil)

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		counts:  make(map[string]int64),
		gauges:  make(map[string]float64),
		timings: make(map[string]int),
		tags:    make(map[string][]map[string]string),
	}
}

func (r *Recorder) Count(name string, value int64, tags map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[name] += value
	r.tags[name] = append(r.tags[name], copyTags(tags))
}

func (r *Recorder) Gauge(name string, value float64, tags map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gauges[name] = value
	r.tags[name] = append(r.tags[name], copyTags(tags))
}

func (r *Recorder) Timing(name string, _ time.Duration, tags map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timings[name]++
	r.tags[name] = append(r.tags[name], copyTags(tags))
}

// CountOf returns the summed counter value for name.
func (r *Recorder) CountOf(name string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[name]
}

// TimingsOf returns how many timings were recorded for name.
func (r *Recorder) TimingsOf(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.timings[name]
}

// LastTags returns the tags of the most recent emission of name.
func (r *Recorder) LastTags(name string) map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.tags[name]
	if len(all) == 0 {
		return nil
	}
	return all[len(all)-1]
}
