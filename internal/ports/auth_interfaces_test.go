package ports_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medexjob/medexjob-api/internal/ports"
)

func TestEventTopic(t *testing.T) {
	assert.Equal(t, "application.submitted", ports.Event{Entity: "application", Action: "submitted"}.Topic())
	assert.Equal(t, "employer.verification_changed", ports.Event{Entity: "employer", Action: "verification_changed"}.Topic())
}
