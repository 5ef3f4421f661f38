package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/medexjob/medexjob-api/internal/core"
	"github.com/medexjob/medexjob-api/internal/domain/model"
)

// CandidateServiceOptions groups dependencies for CandidateService.
type CandidateServiceOptions struct {
	Repo     core.CandidateRepository // Required
	FileURLs FileURLResolver
	Logger   *slog.Logger
}

// CandidateService manages candidate profiles.
type CandidateService struct {
	repo     core.CandidateRepository
	fileURLs FileURLResolver
	logger   *slog.Logger
}

// NewCandidateService constructs a new CandidateService.
func NewCandidateService(opts CandidateServiceOptions) *CandidateService {
	if opts.Repo == nil {
		panic("CandidateRepository is required")
	}
	return &CandidateService{
		repo:     opts.Repo,
		fileURLs: opts.FileURLs,
		logger:   componentLogger(opts.Logger, "candidate_service"),
	}
}

// GetProfile returns the caller's profile. A candidate who never saved one
// gets an empty profile rather than a 404.
func (s *CandidateService) GetProfile(ctx context.Context, userID string) (*model.CandidateProfile, error) {
	p, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get candidate profile: %w", err)
	}
	return s.fileURLs.candidate(p), nil
}

// UpdateProfile replaces the editable fields. Resume URLs pointing at our
// own /files endpoint are stored in their relative form.
func (s *CandidateService) UpdateProfile(
	ctx context.Context,
	userID string,
	req model.UpsertCandidateProfileRequest,
) (*model.CandidateProfile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req.ResumeURL = s.fileURLs.RefPtr(req.ResumeURL)
	p, err := s.repo.Upsert(ctx, userID, req)
	if err != nil {
		return nil, fmt.Errorf("upsert candidate profile: %w", err)
	}
	s.logger.DebugContext(ctx, "candidate profile saved", "user_id", userID)
	return s.fileURLs.candidate(p), nil
}

// SetResume points the profile at a freshly uploaded resume and stores its text.
func (s *CandidateService) SetResume(ctx context.Context, userID, ref string, text *string) error {
	if err := s.repo.SetResume(ctx, core.SetResumeParams{UserID: userID, ResumeURL: ref, Text: text}); err != nil {
		return fmt.Errorf("set resume: %w", err)
	}
	return nil
}
