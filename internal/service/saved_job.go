package service

import (
	"context"
	"fmt"

	"github.com/medexjob/medexjob-api/internal/core"
	"github.com/medexjob/medexjob-api/internal/domain/model"
)

// SavedJobService manages a candidate's bookmarked jobs. Saving and
// removing are idempotent.
type SavedJobService struct {
	repo core.SavedJobRepository
}

// NewSavedJobService constructs a new SavedJobService.
func NewSavedJobService(repo core.SavedJobRepository) *SavedJobService {
	if repo == nil {
		panic("SavedJobRepository is required")
	}
	return &SavedJobService{repo: repo}
}

// List returns saved jobs with their saved_at time, newest first.
func (s *SavedJobService) List(ctx context.Context, userID string, opts model.ListOptions) ([]*model.SavedJob, error) {
	out, err := s.repo.List(ctx, userID, normalizeListOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("list saved jobs: %w", err)
	}
	return out, nil
}

// IDs returns the IDs of every saved job.
func (s *SavedJobService) IDs(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.repo.ListIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list saved job ids: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// Save bookmarks a job.
func (s *SavedJobService) Save(ctx context.Context, userID, jobID string) error {
	if err := s.repo.Save(ctx, userID, jobID); err != nil {
		return fmt.Errorf("save job: %w", err)
	}
	return nil
}

// Remove drops a bookmark.
func (s *SavedJobService) Remove(ctx context.Context, userID, jobID string) error {
	if err := s.repo.Remove(ctx, userID, jobID); err != nil {
		return fmt.Errorf("remove saved job: %w", err)
	}
	return nil
}
