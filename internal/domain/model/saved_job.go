package model

import "time"

// SavedJob is a bookmarked job with the time it was saved.
type SavedJob struct {
	Job
	SavedAt time.Time `json:"saved_at" db:"saved_at"`
}
