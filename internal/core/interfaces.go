package core

import (
	"context"
	"time"

	"github.com/medexjob/medexjob-api/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// Services depend on these interfaces; internal/data provides the Postgres implementations.

// UserRepository defines the interface for user account data operations.
type UserRepository interface {
	Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, opts model.UsersListOptions) ([]*model.User, error)
	Update(ctx context.Context, id string, req model.UpdateUserRequest) (*model.User, error)
	UpdateProfile(ctx context.Context, id string, req model.UpdateProfileRequest) (*model.User, error)
	SetPasswordHash(ctx context.Context, id, hash string) error
	TouchLogin(ctx context.Context, id string, at time.Time) error
	// Delete removes the user; dependent rows are removed by FK cascades.
	Delete(ctx context.Context, id string) (bool, error)
}

// EmployerRepository defines the interface for employer and KYC data operations.
type EmployerRepository interface {
	Create(ctx context.Context, req model.CreateEmployerRequest) (*model.Employer, error)
	GetByID(ctx context.Context, id string) (*model.Employer, error)
	GetByUserID(ctx context.Context, userID string) (*model.Employer, error)
	List(ctx context.Context, opts model.EmployersListOptions) ([]*model.Employer, error)
	UpdateProfile(ctx context.Context, id string, req model.UpdateEmployerProfileRequest) (*model.Employer, error)
	// RecordKYC stores a submission and resets verification to pending.
	RecordKYC(ctx context.Context, req model.RecordKYCRequest) (*model.Employer, error)
	// SetVerification sets the status unconditionally.
	SetVerification(ctx context.Context, req model.SetVerificationRequest) (*model.Employer, error)
	SetSubscription(ctx context.Context, req model.SubscriptionRequest) (*model.Employer, error)
	// ExpireSubscriptions clears plans whose expiry is before now.
	ExpireSubscriptions(ctx context.Context, now time.Time, batchSize int) (int64, error)
}

// CandidateRepository defines the interface for candidate profile data operations.
type CandidateRepository interface {
	Get(ctx context.Context, userID string) (*model.CandidateProfile, error)
	Upsert(
		ctx context.Context,
		userID string,
		req model.UpsertCandidateProfileRequest,
	) (*model.CandidateProfile, error)
	SetResume(ctx context.Context, params SetResumeParams) error
}

// SetResumeParams groups parameters for CandidateRepository.SetResume.
type SetResumeParams struct {
	UserID    string
	ResumeURL string
	Text      *string
}

// JobRepository defines the interface for job posting data operations.
type JobRepository interface {
	Create(ctx context.Context, req *model.CreateJobRequest) (*model.Job, error)
	GetByID(ctx context.Context, id string) (*model.Job, error)
	// Search lists publicly visible jobs: open, approved employer, deadline not passed at now.
	Search(ctx context.Context, opts model.JobSearchOptions, now time.Time) ([]*model.Job, error)
	List(ctx context.Context, opts model.JobsListOptions) ([]*model.Job, error)
	Update(ctx context.Context, id string, req model.UpdateJobRequest) (*model.Job, error)
	SetStatus(ctx context.Context, id string, status model.JobStatus) (*model.Job, error)
	Delete(ctx context.Context, id string) (bool, error)
	IncrementViews(ctx context.Context, id string) error
	CountOpenByEmployer(ctx context.Context, employerID string) (int, error)
	// CloseExpired closes open jobs whose deadline day ended before now.
	CloseExpired(ctx context.Context, now time.Time, batchSize int) (int64, error)
}

// ApplicationRepository defines the interface for job application data operations.
type ApplicationRepository interface {
	Create(ctx context.Context, req model.CreateApplicationRequest) (*model.Application, error)
	GetByID(ctx context.Context, id string) (*model.Application, error)
	List(ctx context.Context, opts model.ApplicationsListOptions) ([]*model.Application, error)
	// UpdateStatus applies a transition only if the row is still in req.From.
	UpdateStatus(ctx context.Context, req model.UpdateApplicationStatusRequest) (*model.Application, error)
}

// NotificationRepository defines the interface for in-app notification data operations.
type NotificationRepository interface {
	Create(ctx context.Context, req model.CreateNotificationRequest) (*model.Notification, error)
	CreateMany(ctx context.Context, reqs []model.CreateNotificationRequest) (int64, error)
	Broadcast(ctx context.Context, req model.BroadcastRequest) (int64, error)
	List(ctx context.Context, opts model.NotificationsListOptions) ([]*model.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, params NotificationRef, at time.Time) (bool, error)
	MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error)
	Delete(ctx context.Context, params NotificationRef) (bool, error)
	DeleteReadBefore(ctx context.Context, before time.Time, batchSize int) (int64, error)
}

// NotificationRef identifies a notification owned by a user.
type NotificationRef struct {
	UserID string
	ID     string
}

// SavedJobRepository defines the interface for candidate bookmarks.
type SavedJobRepository interface {
	Save(ctx context.Context, userID, jobID string) error
	Remove(ctx context.Context, userID, jobID string) error
	List(ctx context.Context, userID string, opts model.ListOptions) ([]*model.SavedJob, error)
	ListIDs(ctx context.Context, userID string) ([]string, error)
}

// JobAlertRepository defines the interface for saved job-search alerts.
type JobAlertRepository interface {
	Create(ctx context.Context, req *model.CreateJobAlertRequest) (*model.JobAlert, error)
	GetByID(ctx context.Context, id string) (*model.JobAlert, error)
	ListByUser(ctx context.Context, userID string) ([]*model.JobAlert, error)
	Update(ctx context.Context, id string, req model.UpdateJobAlertRequest) (*model.JobAlert, error)
	Delete(ctx context.Context, id string) (bool, error)
	// ListActive pages through active alerts of active users in id order.
	ListActive(ctx context.Context, afterID string, limit int) ([]*model.JobAlert, error)
}

// PlanRepository defines the interface for subscription plan data operations.
type PlanRepository interface {
	Create(ctx context.Context, req *model.CreatePlanRequest) (*model.SubscriptionPlan, error)
	GetByID(ctx context.Context, id string) (*model.SubscriptionPlan, error)
	GetByCode(ctx context.Context, code string) (*model.SubscriptionPlan, error)
	List(ctx context.Context, activeOnly bool) ([]*model.SubscriptionPlan, error)
	Update(ctx context.Context, id string, req model.UpdatePlanRequest) (*model.SubscriptionPlan, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// UploadRepository defines the interface for uploaded file records.
type UploadRepository interface {
	Create(ctx context.Context, req model.CreateUploadRequest) (*model.Upload, error)
	GetByID(ctx context.Context, id string) (*model.Upload, error)
	// ListOrphaned returns uploads created before the cutoff that nothing references.
	ListOrphaned(ctx context.Context, before time.Time, limit int) ([]*model.Upload, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// StatsRepository defines aggregate counts for dashboards.
type StatsRepository interface {
	UsersByRole(ctx context.Context) ([]model.StatusCount, error)
	EmployersByStatus(ctx context.Context) ([]model.StatusCount, error)
	JobsByStatus(ctx context.Context, employerID *string) ([]model.StatusCount, error)
	ApplicationsByStatus(ctx context.Context, filter ApplicationCountFilter) ([]model.StatusCount, error)
	UnreadNotifications(ctx context.Context, userID *string) (int64, error)
	SavedJobs(ctx context.Context, userID string) (int64, error)
}

// ApplicationCountFilter scopes ApplicationsByStatus. Both empty counts everything.
type ApplicationCountFilter struct {
	CandidateID *string
	EmployerID  *string
}
