package auth

import (
	"context"
	"sync"

	"github.com/medexjob/medexjob-api/internal/ports"
)

// RecordingPublisher appends every event to Events and returns Err.
type RecordingPublisher struct {
	mu     sync.Mutex
	Events []ports.Event
	Err    error
}

func (p *RecordingPublisher) Publish(_ context.Context, evt ports.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, evt)
	return p.Err
}

// Topics lists published topics in order.
func (p *RecordingPublisher) Topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	topics := make([]string, len(p.Events))
	for i, e := range p.Events {
		topics[i] = e.Topic()
	}
	return topics
}

// RecordingAlerter appends every admin alert to Alerts.
type RecordingAlerter struct {
	mu     sync.Mutex
	Alerts []ports.AdminAlert
}

func (a *RecordingAlerter) SendAdminAlert(_ context.Context, alert ports.AdminAlert) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Alerts = append(a.Alerts, alert)
	return nil
}

func (a *RecordingAlerter) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.Alerts)
}
