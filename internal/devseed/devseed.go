// Package devseed populates a development database with demo accounts and jobs.
package devseed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/medexjob/medexjob-api/internal/data"
	domainauth "github.com/medexjob/medexjob-api/internal/domain/auth"
	"github.com/medexjob/medexjob-api/internal/domain/model"
)

// DefaultPassword is the password given to every seeded account.
const DefaultPassword = "medexjob-dev"

// Hasher hashes seeded account passwords.
type Hasher interface {
	Hash(password string) (string, error)
}

// Services bundles the dependencies needed for development seeding.
type Services struct {
	users     *data.UserRepo
	employers *data.EmployerRepo
	jobs      *data.JobRepo
	hasher    Hasher
	now       func() time.Time
}

// NewServices constructs the repositories required for seeding using the provided DB.
func NewServices(db *sql.DB, hasher Hasher) Services {
	return Services{
		users:     data.NewUserRepo(db),
		employers: data.NewEmployerRepo(db),
		jobs:      data.NewJobRepo(db),
		hasher:    hasher,
		now:       time.Now,
	}
}

// Account is a seeded login.
type Account struct {
	Email       string
	FirstName   string
	LastName    string
	Role        domainauth.Role
	CompanyName string
}

// DefaultAccounts returns one account per role.
func DefaultAccounts() []Account {
	return []Account{
		{Email: "admin@medexjob.test", FirstName: "Asha", LastName: "Rao", Role: domainauth.RoleAdmin},
		{
			Email:       "hr@citycare.test",
			FirstName:   "Vikram",
			LastName:    "Menon",
			Role:        domainauth.RoleEmployer,
			CompanyName: "CityCare Hospitals",
		},
		{Email: "nurse@medexjob.test", FirstName: "Priya", LastName: "Nair", Role: domainauth.RoleCandidate},
	}
}

// Run executes the full development seeding workflow.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	failures := 0
	var employerUser *model.User
	for _, acct := range DefaultAccounts() {
		u, created, err := svcs.ensureUser(ctx, acct)
		if err != nil {
			logger.ErrorContext(ctx, "failed to seed account", "email", acct.Email, "error", err)
			failures++
			continue
		}
		msg := "account already exists"
		if created {
			msg = "created account"
		}
		logger.InfoContext(ctx, msg, "email", acct.Email, "role", acct.Role)
		if acct.Role == domainauth.RoleEmployer {
			employerUser = u
		}
	}

	if employerUser != nil {
		if err := svcs.seedJobs(ctx, employerUser.ID, logger); err != nil {
			logger.ErrorContext(ctx, "failed to seed jobs", "error", err)
			failures++
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d seed errors; check logs", failures)
	}
	return nil
}

func (s Services) ensureUser(ctx context.Context, acct Account) (*model.User, bool, error) {
	hash, err := s.hasher.Hash(DefaultPassword)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}
	req := &model.CreateUserRequest{
		Email:        acct.Email,
		PasswordHash: &hash,
		FirstName:    acct.FirstName,
		LastName:     acct.LastName,
		Role:         acct.Role,
	}
	if acct.CompanyName != "" {
		req.CompanyName = &acct.CompanyName
	}

	u, err := s.users.Create(ctx, req)
	if errors.Is(err, data.ErrEmailExists) {
		existing, getErr := s.users.GetByEmail(ctx, acct.Email)
		return existing, false, getErr
	}
	if err != nil {
		return nil, false, err
	}
	return u, true, nil
}

// seedJobs approves the demo employer and posts sample openings once.
func (s Services) seedJobs(ctx context.Context, userID string, logger *slog.Logger) error {
	employer, err := s.employers.GetByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load employer: %w", err)
	}
	if !employer.CanPostJobs() {
		reason := "seeded"
		if _, err = s.employers.SetVerification(ctx, model.SetVerificationRequest{
			EmployerID: employer.ID,
			Status:     model.VerificationApproved,
			Reason:     &reason,
			ReviewedAt: s.now().UTC(),
		}); err != nil {
			return fmt.Errorf("approve employer: %w", err)
		}
	}

	open, err := s.jobs.CountOpenByEmployer(ctx, employer.ID)
	if err != nil {
		return fmt.Errorf("count jobs: %w", err)
	}
	if open > 0 {
		logger.InfoContext(ctx, "jobs already seeded", "employer_id", employer.ID, "open", open)
		return nil
	}

	for _, req := range defaultJobs(employer.ID, s.now()) {
		j, err := s.jobs.Create(ctx, req)
		if err != nil {
			return fmt.Errorf("create job %q: %w", req.Title, err)
		}
		logger.InfoContext(ctx, "created job", "id", j.ID, "title", j.Title)
	}
	return nil
}

func defaultJobs(employerID string, now time.Time) []*model.CreateJobRequest {
	deadline := model.NewDate(now.AddDate(0, 1, 0))
	icu, cardio := "Critical Care", "Cardiology"
	salaryMin, salaryMax := int64(45000), int64(70000)
	expMax := 5
	return []*model.CreateJobRequest{
		{
			EmployerID:     employerID,
			Title:          "ICU Staff Nurse",
			Description:    "Provide bedside care in a 24-bed medical ICU. Rotating shifts.",
			Specialization: &icu,
			Location:       "Bengaluru",
			EmploymentType: model.EmploymentFullTime,
			ExperienceMin:  2,
			ExperienceMax:  &expMax,
			SalaryMin:      &salaryMin,
			SalaryMax:      &salaryMax,
			Skills:         []string{"BLS", "ACLS", "ventilator care"},
			Openings:       4,
			Status:         model.JobStatusOpen,
			Deadline:       &deadline,
		},
		{
			EmployerID:     employerID,
			Title:          "Cardiology Resident (Locum)",
			Description:    "Weekend locum cover for the cardiology OPD and cath lab.",
			Specialization: &cardio,
			Location:       "Mysuru",
			EmploymentType: model.EmploymentLocum,
			ExperienceMin:  1,
			Skills:         []string{"ECG", "echocardiography"},
			Openings:       1,
			Status:         model.JobStatusOpen,
		},
	}
}
