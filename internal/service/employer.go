package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/medexjob/medexjob-api/internal/core"
	"github.com/medexjob/medexjob-api/internal/data"
	"github.com/medexjob/medexjob-api/internal/data/cryptoutil"
	"github.com/medexjob/medexjob-api/internal/domain/model"
	apperrors "github.com/medexjob/medexjob-api/internal/errors"
	"github.com/medexjob/medexjob-api/internal/observability/metrics"
	"github.com/medexjob/medexjob-api/internal/observability/notify"
	"github.com/medexjob/medexjob-api/internal/observability/statsd"
	"github.com/medexjob/medexjob-api/internal/ports"
)

// Associated-data labels for the encrypted KYC columns.
const (
	kycFieldAadhaar = "employers.aadhaar"
	kycFieldPAN     = "employers.pan"
)

// EmployerRepos groups the repositories EmployerService reads and writes.
type EmployerRepos struct {
	Employers     core.EmployerRepository     // Required
	Users         core.UserRepository         // Required: owner details for admin review
	Notifications core.NotificationRepository // Optional
}

// EmployerOutputs groups the side channels fed after KYC changes. All optional.
type EmployerOutputs struct {
	Alerts  ports.AdminAlerter
	Events  ports.EventPublisher
	Metrics statsd.Sink
}

// EmployerSettings holds the cipher, URL resolver, clock and logger.
type EmployerSettings struct {
	Encryptor cryptoutil.Encryptor // Required
	FileURLs  FileURLResolver
	Now       func() time.Time
	Logger    *slog.Logger
}

// EmployerServiceOptions groups dependencies for EmployerService.
type EmployerServiceOptions struct {
	Repos    EmployerRepos
	Outputs  EmployerOutputs
	Settings EmployerSettings
}

// EmployerService manages employer profiles and the KYC review workflow.
type EmployerService struct {
	employers core.EmployerRepository
	users     core.UserRepository
	enc       cryptoutil.Encryptor
	alerts    ports.AdminAlerter
	metrics   statsd.Sink
	events    eventEmitter
	notifier  notifier
	urls      FileURLResolver
	now       func() time.Time
	logger    *slog.Logger
}

// NewEmployerService constructs a new EmployerService.
func NewEmployerService(opts EmployerServiceOptions) *EmployerService {
	if opts.Repos.Employers == nil || opts.Repos.Users == nil {
		panic("EmployerRepository and UserRepository are required")
	}
	if opts.Settings.Encryptor == nil {
		panic("Encryptor is required")
	}
	logger := componentLogger(opts.Settings.Logger, "employer_service")
	now := clockOrDefault(opts.Settings.Now)
	return &EmployerService{
		employers: opts.Repos.Employers,
		users:     opts.Repos.Users,
		enc:       opts.Settings.Encryptor,
		alerts:    opts.Outputs.Alerts,
		metrics:   opts.Outputs.Metrics,
		events:    eventEmitter{publisher: opts.Outputs.Events, logger: logger, now: now},
		notifier:  notifier{repo: opts.Repos.Notifications, logger: logger},
		urls:      opts.Settings.FileURLs,
		now:       now,
		logger:    logger,
	}
}

// GetProfile returns the employer owned by userID.
func (s *EmployerService) GetProfile(ctx context.Context, userID string) (*model.Employer, error) {
	e, err := s.employers.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get employer: %w", err)
	}
	return s.urls.employer(e), nil
}

// UpdateProfile applies a partial edit. The company domain follows the website.
func (s *EmployerService) UpdateProfile(
	ctx context.Context,
	userID string,
	req model.UpdateEmployerProfileRequest,
) (*model.Employer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.CompanyWebsite != nil {
		domain, err := CompanyDomain(*req.CompanyWebsite)
		if err != nil {
			return nil, apperrors.ValidationField("company_website", err.Error())
		}
		req.CompanyDomain = &domain
	}
	req.LogoURL = s.urls.RefPtr(req.LogoURL)
	current, err := s.employers.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get employer: %w", err)
	}
	e, err := s.employers.UpdateProfile(ctx, current.ID, req)
	if err != nil {
		return nil, fmt.Errorf("update employer: %w", err)
	}
	return s.urls.employer(e), nil
}

// CompanyDomain returns the registrable domain (eTLD+1) of a website URL.
// An empty website yields an empty domain.
func CompanyDomain(website string) (string, error) {
	website = strings.TrimSpace(website)
	if website == "" {
		return "", nil
	}
	if !strings.Contains(website, "://") {
		website = "https://" + website
	}
	u, err := url.Parse(website)
	if err != nil || u.Hostname() == "" {
		return "", errors.New("company_website must be a valid URL")
	}
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if net.ParseIP(host) != nil {
		return "", errors.New("company_website must use a domain name")
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return "", errors.New("company_website must use a registrable domain")
	}
	return domain, nil
}

// SubmitKYC stores an Aadhaar/PAN submission. Every submission resets the
// status to pending and clears any rejection reason.
func (s *EmployerService) SubmitKYC(
	ctx context.Context,
	userID string,
	sub model.KYCSubmission,
) (*model.KYCStatus, error) {
	start := s.now()
	status, err := s.submitKYC(ctx, userID, sub)
	op := clientOperation("kyc.submitted", err)
	op.Duration = s.now().Sub(start)
	metrics.EmitOperation(s.metrics, op)
	return status, err
}

func (s *EmployerService) submitKYC(
	ctx context.Context,
	userID string,
	sub model.KYCSubmission,
) (*model.KYCStatus, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}
	current, err := s.employers.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get employer: %w", err)
	}
	aadhaar, err := s.enc.Encrypt(kycFieldAadhaar, sub.AadhaarNumber)
	if err != nil {
		return nil, fmt.Errorf("encrypt aadhaar: %w", err)
	}
	pan, err := s.enc.Encrypt(kycFieldPAN, sub.PANNumber)
	if err != nil {
		return nil, fmt.Errorf("encrypt pan: %w", err)
	}
	e, err := s.employers.RecordKYC(ctx, model.RecordKYCRequest{
		EmployerID:       current.ID,
		AadhaarEncrypted: aadhaar,
		PANEncrypted:     pan,
		AadhaarLast4:     model.MaskAadhaar(sub.AadhaarNumber),
		PANMasked:        model.MaskPAN(sub.PANNumber),
		DocumentURL:      s.urls.RefPtr(sub.DocumentURL),
		SubmittedAt:      s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("record kyc: %w", err)
	}

	s.logger.InfoContext(ctx, "kyc submitted",
		"employer_id", e.ID,
		"previous_status", current.VerificationStatus,
	)
	s.alertKYCSubmitted(ctx, e, current)
	s.events.emit(ctx, ports.Event{
		Entity:     "employer",
		Action:     "kyc_submitted",
		ResourceID: e.ID,
		Metadata:   map[string]string{"previous_status": string(current.VerificationStatus)},
		Data:       model.KYCStatusOf(*e),
	})

	status := model.KYCStatusOf(*s.urls.employer(e))
	return &status, nil
}

func (s *EmployerService) alertKYCSubmitted(ctx context.Context, e, previous *model.Employer) {
	if s.alerts == nil {
		return
	}
	title := "New KYC submission"
	if previous.KYCSubmittedAt != nil {
		title = "KYC resubmitted"
	}
	fields := map[string]string{
		"Company":         e.CompanyName,
		"Employer ID":     e.ID,
		"Previous status": string(previous.VerificationStatus),
		"Aadhaar":         "XXXX-XXXX-" + derefOr(e.AadhaarLast4, "????"),
		"PAN":             derefOr(e.PANMasked, "-"),
	}
	if e.CompanyDomain != nil {
		fields["Domain"] = *e.CompanyDomain
	}
	err := s.alerts.SendAdminAlert(ctx, ports.AdminAlert{
		Title:      title,
		Severity:   notify.SeverityInfo,
		Fields:     fields,
		LinkPath:   "/admin/employers/" + e.ID,
		OccurredAt: s.now().UTC(),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "kyc admin alert failed", "employer_id", e.ID, "error", err)
	}
}

// KYCStatus returns what the employer sees about their verification.
func (s *EmployerService) KYCStatus(ctx context.Context, userID string) (*model.KYCStatus, error) {
	e, err := s.employers.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get employer: %w", err)
	}
	status := model.KYCStatusOf(*s.urls.employer(e))
	return &status, nil
}

// List returns employers for the admin moderation table.
func (s *EmployerService) List(ctx context.Context, opts model.EmployersListOptions) ([]*model.Employer, error) {
	opts.ListOptions = normalizeListOptions(opts.ListOptions)
	out, err := s.employers.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list employers: %w", err)
	}
	return s.urls.employers(out), nil
}

// Review returns an employer with decrypted KYC numbers for an admin.
func (s *EmployerService) Review(ctx context.Context, employerID string) (*model.EmployerReview, error) {
	e, err := s.employers.GetByID(ctx, employerID)
	if err != nil {
		return nil, fmt.Errorf("get employer: %w", err)
	}
	owner, err := s.users.GetByID(ctx, e.UserID)
	if err != nil {
		return nil, fmt.Errorf("get employer owner: %w", err)
	}
	review := &model.EmployerReview{
		Employer:   *s.urls.employer(e),
		OwnerEmail: owner.Email,
		OwnerName:  owner.FullName(),
	}
	if review.AadhaarNumber, err = s.decrypt(kycFieldAadhaar, e.AadhaarEncrypted); err != nil {
		return nil, fmt.Errorf("decrypt aadhaar: %w", err)
	}
	if review.PANNumber, err = s.decrypt(kycFieldPAN, e.PANEncrypted); err != nil {
		return nil, fmt.Errorf("decrypt pan: %w", err)
	}
	return review, nil
}

func (s *EmployerService) decrypt(field string, ciphertext *string) (*string, error) {
	if ciphertext == nil || *ciphertext == "" {
		return nil, nil
	}
	plain, err := s.enc.Decrypt(field, *ciphertext)
	if err != nil {
		return nil, err
	}
	return &plain, nil
}

// Approve marks an employer approved. The last admin call wins.
func (s *EmployerService) Approve(ctx context.Context, employerID, reviewerID string) (*model.Employer, error) {
	return s.setVerification(ctx, employerID, reviewerID, model.VerificationApproved, model.ReviewRequest{})
}

// Reject marks an employer rejected with an optional reason. The last admin call wins.
func (s *EmployerService) Reject(
	ctx context.Context,
	employerID, reviewerID string,
	req model.ReviewRequest,
) (*model.Employer, error) {
	return s.setVerification(ctx, employerID, reviewerID, model.VerificationRejected, req)
}

// SetVerification sets any status directly. The admin CLI uses it.
func (s *EmployerService) SetVerification(
	ctx context.Context,
	employerID string,
	status model.VerificationStatus,
	req model.ReviewRequest,
) (*model.Employer, error) {
	if !status.Valid() {
		return nil, apperrors.ValidationField("status", "status must be one of: pending, approved, rejected")
	}
	return s.setVerification(ctx, employerID, "", status, req)
}

func (s *EmployerService) setVerification(
	ctx context.Context,
	employerID, reviewerID string,
	status model.VerificationStatus,
	req model.ReviewRequest,
) (*model.Employer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var reviewer *string
	if reviewerID != "" {
		reviewer = &reviewerID
	}
	e, err := s.employers.SetVerification(ctx, model.SetVerificationRequest{
		EmployerID: employerID,
		Status:     status,
		ReviewerID: reviewer,
		Reason:     req.Reason,
		ReviewedAt: s.now(),
	})
	metrics.EmitOperation(s.metrics, metrics.Operation{
		Name: "kyc.reviewed",
		Err:  err,
		Tags: map[string]string{"status": string(status)},
	})
	if err != nil {
		return nil, fmt.Errorf("set verification: %w", err)
	}

	s.logger.InfoContext(ctx, "employer verification set",
		"employer_id", e.ID,
		"status", status,
		"reviewer_id", reviewerID,
	)
	s.notifier.notify(ctx, verificationNotification(e))
	s.events.emit(ctx, ports.Event{
		Entity:     "employer",
		Action:     "verification_changed",
		ResourceID: e.ID,
		Metadata:   map[string]string{"status": string(status), "reviewer_id": reviewerID},
		Data:       model.KYCStatusOf(*e),
	})
	return s.urls.employer(e), nil
}

func verificationNotification(e *model.Employer) model.CreateNotificationRequest {
	req := model.CreateNotificationRequest{
		UserID: e.UserID,
		Type:   model.NotificationVerificationStatus,
		Link:   strPtr("/employer/kyc"),
	}
	switch e.VerificationStatus {
	case model.VerificationApproved:
		req.Title = "Your company is verified"
		req.Message = e.CompanyName + " has been approved. You can now post jobs."
	case model.VerificationRejected:
		req.Title = "Verification rejected"
		req.Message = "Your KYC submission was rejected."
		if e.RejectionReason != nil && *e.RejectionReason != "" {
			req.Message += " Reason: " + *e.RejectionReason
		}
	default:
		req.Title = "Verification pending"
		req.Message = "Your KYC submission is awaiting review."
	}
	return req
}

// employerForUser loads the caller's employer record for other services.
func employerForUser(ctx context.Context, repo core.EmployerRepository, userID string) (*model.Employer, error) {
	e, err := repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, data.ErrEmployerNotFound) {
			return nil, apperrors.Forbidden("an employer profile is required").WithReason("employer_required")
		}
		return nil, fmt.Errorf("get employer: %w", err)
	}
	return e, nil
}

// clientOperation builds a metric operation where rejected client input
// counts as a noop rather than an error.
func clientOperation(name string, err error) metrics.Operation {
	op := metrics.Operation{Name: name, Err: err}
	if apperrors.IsValidation(err) || apperrors.IsForbidden(err) || apperrors.IsConflict(err) {
		op.Err = nil
		op.Result = metrics.ResultNoop
	}
	return op
}
