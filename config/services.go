package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// ServiceMode names one long-running component of the server process.
type ServiceMode string

const (
	ServiceModeHTTP ServiceMode = "http"
	// ServiceModeReaper expires jobs and prunes notifications and uploads.
	ServiceModeReaper ServiceMode = "reaper"
)

var knownModes = []ServiceMode{ServiceModeHTTP, ServiceModeReaper}

// ServiceSet is the sorted, duplicate-free list of modes this process runs.
// It decodes from a comma-separated SERVICES value.
type ServiceSet []ServiceMode

// ParseServices accepts names like " http , reaper ". Blank entries are
// skipped; unknown names and an empty result are errors.
func ParseServices(raw string) (ServiceSet, error) {
	var set ServiceSet
	for _, name := range strings.Split(raw, ",") {
		mode := ServiceMode(strings.ToLower(strings.TrimSpace(name)))
		if mode == "" {
			continue
		}
		if !slices.Contains(knownModes, mode) {
			return nil, fmt.Errorf("invalid service name %q (valid options: %s)", name, ServiceSet(knownModes))
		}
		if !slices.Contains(set, mode) {
			set = append(set, mode)
		}
	}
	if len(set) == 0 {
		return nil, errors.New("at least one service must be specified")
	}
	slices.Sort(set)
	return set, nil
}

func (s *ServiceSet) UnmarshalText(text []byte) error {
	set, err := ParseServices(string(text))
	if err != nil {
		return err
	}
	*s = set
	return nil
}

func (s ServiceSet) Has(mode ServiceMode) bool { return slices.Contains(s, mode) }

func (s ServiceSet) String() string {
	names := make([]string, len(s))
	for i, m := range s {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

// JobsConfig contains job posting rules.
type JobsConfig struct {
	// FreePostLimit caps open jobs for employers without an active plan.
	FreePostLimit int `env:"FREE_POST_LIMIT" envDefault:"2"`

	// AlertBatchSize is how many job alerts are loaded per page when a job opens.
	AlertBatchSize int `env:"ALERT_BATCH_SIZE" envDefault:"500"`
}

// Sanitize applies guardrails to job configuration values.
func (j *JobsConfig) Sanitize() {
	if j.FreePostLimit < 0 {
		j.FreePostLimit = 0
	}
	if j.AlertBatchSize < 1 {
		j.AlertBatchSize = 1
	}
	if j.AlertBatchSize > 5000 {
		j.AlertBatchSize = 5000
	}
}

// ReaperConfig contains maintenance service configuration.
type ReaperConfig struct {
	// Interval is the reaper tick interval.
	Interval time.Duration `env:"REAPER_INTERVAL" envDefault:"15m"`

	// NotificationMaxAge is how long read notifications are kept.
	NotificationMaxAge time.Duration `env:"REAPER_NOTIFICATION_MAX_AGE" envDefault:"2160h"` // 90 days

	// UploadGrace is how long an unreferenced upload survives before deletion.
	UploadGrace time.Duration `env:"REAPER_UPLOAD_GRACE" envDefault:"24h"`

	// BatchSize is the maximum number of rows to process per operation.
	// Batching prevents long locks and I/O spikes on large tables.
	BatchSize int `env:"REAPER_BATCH_SIZE" envDefault:"1000"`
}

// Sanitize applies guardrails to reaper configuration values.
func (r *ReaperConfig) Sanitize() {
	// Enforce minimum intervals to prevent excessive database load
	if r.Interval < 1*time.Minute {
		r.Interval = 1 * time.Minute
	}
	if r.NotificationMaxAge < 24*time.Hour {
		r.NotificationMaxAge = 24 * time.Hour
	}
	if r.UploadGrace < 1*time.Hour {
		r.UploadGrace = 1 * time.Hour
	}

	// Enforce batch size bounds to prevent excessive locks or inefficiency
	if r.BatchSize < 1 {
		r.BatchSize = 1
	}
	if r.BatchSize > 10000 {
		r.BatchSize = 10000
	}
}
