// Package mocks provides gomock implementations of the core repository ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	jobs := mocks.NewMockJobRepository(ctrl)
//	jobs.EXPECT().GetByID(gomock.Any(), "job-1").Return(job, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_repository_mock.go github.com/medexjob/medexjob-api/internal/core UserRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=employer_repository_mock.go github.com/medexjob/medexjob-api/internal/core EmployerRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=candidate_repository_mock.go github.com/medexjob/medexjob-api/internal/core CandidateRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=job_repository_mock.go github.com/medexjob/medexjob-api/internal/core JobRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=application_repository_mock.go github.com/medexjob/medexjob-api/internal/core ApplicationRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=notification_repository_mock.go github.com/medexjob/medexjob-api/internal/core NotificationRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=saved_job_repository_mock.go github.com/medexjob/medexjob-api/internal/core SavedJobRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=job_alert_repository_mock.go github.com/medexjob/medexjob-api/internal/core JobAlertRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=plan_repository_mock.go github.com/medexjob/medexjob-api/internal/core PlanRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=upload_repository_mock.go github.com/medexjob/medexjob-api/internal/core UploadRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=stats_repository_mock.go github.com/medexjob/medexjob-api/internal/core StatsRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=cache_repository_mock.go github.com/medexjob/medexjob-api/internal/core CacheRepository
