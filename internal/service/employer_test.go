package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/medexjob/medexjob-api/internal/data"
	"github.com/medexjob/medexjob-api/internal/data/cryptoutil"
	"github.com/medexjob/medexjob-api/internal/domain/model"
	apperrors "github.com/medexjob/medexjob-api/internal/errors"
	"github.com/medexjob/medexjob-api/internal/mocks"
	authmocks "github.com/medexjob/medexjob-api/internal/mocks/auth"
	"github.com/medexjob/medexjob-api/internal/observability/statsd"
)

var employerNow = time.Date(2026, 5, 2, 14, 30, 0, 0, time.UTC)

type employerFixture struct {
	svc           *EmployerService
	employers     *mocks.MockEmployerRepository
	users         *mocks.MockUserRepository
	notifications *mocks.MockNotificationRepository
	enc           *cryptoutil.GCMEncryptor
	alerts        *authmocks.RecordingAlerter
	events        *authmocks.RecordingPublisher
	metrics       *statsd.Recorder
}

func newEmployerFixture(t *testing.T) *employerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	enc, err := cryptoutil.NewGCMEncryptor(bytes.Repeat([]byte{7}, 32))
	require.NoError(t, err)
	f := &employerFixture{
		employers:     mocks.NewMockEmployerRepository(ctrl),
		users:         mocks.NewMockUserRepository(ctrl),
		notifications: mocks.NewMockNotificationRepository(ctrl),
		enc:           enc,
		alerts:        &authmocks.RecordingAlerter{},
		events:        &authmocks.RecordingPublisher{},
		metrics:       statsd.NewRecorder(),
	}
	f.svc = NewEmployerService(EmployerServiceOptions{
		Repos: EmployerRepos{Employers: f.employers, Users: f.users, Notifications: f.notifications},
		Outputs: EmployerOutputs{
			Alerts:  f.alerts,
			Events:  f.events,
			Metrics: f.metrics,
		},
		Settings: EmployerSettings{
			Encryptor: enc,
			FileURLs:  NewFileURLResolver("https://api.medexjob.com"),
			Now:       func() time.Time { return employerNow },
		},
	})
	return f
}

func TestCompanyDomain(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: ""},
		{in: "https://careers.apollohospitals.com/jobs", want: "apollohospitals.com"},
		{in: "www.fortis.co.in", want: "fortis.co.in"},
		{in: "HTTP://Clinic.Example.ORG.", want: "example.org"},
		{in: "https://192.168.1.10", wantErr: true},
		{in: "https://co.uk", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := CompanyDomain(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEmployerService_UpdateProfile_DerivesDomain(t *testing.T) {
	f := newEmployerFixture(t)
	site := "https://www.medanta.org/careers"
	logo := "/files/logo-1"

	f.employers.EXPECT().GetByUserID(gomock.Any(), "u-emp").Return(&model.Employer{ID: "e-1"}, nil)
	f.employers.EXPECT().
		UpdateProfile(gomock.Any(), "e-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, req model.UpdateEmployerProfileRequest) (*model.Employer, error) {
			require.NotNil(t, req.CompanyDomain)
			assert.Equal(t, "medanta.org", *req.CompanyDomain)
			return &model.Employer{ID: "e-1", CompanyDomain: req.CompanyDomain, LogoURL: req.LogoURL}, nil
		})

	e, err := f.svc.UpdateProfile(context.Background(), "u-emp", model.UpdateEmployerProfileRequest{
		CompanyWebsite: &site,
		LogoURL:        &logo,
	})

	require.NoError(t, err)
	assert.Equal(t, "https://api.medexjob.com/files/logo-1", *e.LogoURL)
}

func TestEmployerService_UpdateProfile_BadWebsite(t *testing.T) {
	f := newEmployerFixture(t)
	site := "http://10.0.0.1"

	_, err := f.svc.UpdateProfile(context.Background(), "u-emp", model.UpdateEmployerProfileRequest{CompanyWebsite: &site})

	assert.True(t, apperrors.IsValidation(err))
}

func TestEmployerService_SubmitKYC(t *testing.T) {
	f := newEmployerFixture(t)
	reason := "blurry document"
	submitted := employerNow.Add(-48 * time.Hour)
	current := &model.Employer{
		ID:                 "e-1",
		UserID:             "u-emp",
		CompanyName:        "Sunrise Clinic",
		VerificationStatus: model.VerificationRejected,
		RejectionReason:    &reason,
		KYCSubmittedAt:     &submitted,
	}
	f.employers.EXPECT().GetByUserID(gomock.Any(), "u-emp").Return(current, nil)
	f.employers.EXPECT().
		RecordKYC(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req model.RecordKYCRequest) (*model.Employer, error) {
			assert.Equal(t, "e-1", req.EmployerID)
			assert.Equal(t, "9012", req.AadhaarLast4)
			assert.Equal(t, "AB******4F", req.PANMasked)
			assert.NotContains(t, req.AadhaarEncrypted, "234567789012")
			plain, err := f.enc.Decrypt(kycFieldAadhaar, req.AadhaarEncrypted)
			require.NoError(t, err)
			assert.Equal(t, "234567789012", plain)
			assert.Equal(t, employerNow, req.SubmittedAt)
			return &model.Employer{
				ID:                 "e-1",
				UserID:             "u-emp",
				CompanyName:        "Sunrise Clinic",
				VerificationStatus: model.VerificationPending,
				AadhaarLast4:       &req.AadhaarLast4,
				PANMasked:          &req.PANMasked,
				KYCSubmittedAt:     &req.SubmittedAt,
			}, nil
		})

	status, err := f.svc.SubmitKYC(context.Background(), "u-emp", model.KYCSubmission{
		AadhaarNumber: "2345 6778-9012",
		PANNumber:     "abcde1234f",
	})

	require.NoError(t, err)
	assert.Equal(t, model.VerificationPending, status.VerificationStatus)
	assert.Nil(t, status.RejectionReason)
	assert.False(t, status.CanPostJobs)

	require.Equal(t, 1, f.alerts.Count())
	alert := f.alerts.Alerts[0]
	assert.Equal(t, "KYC resubmitted", alert.Title)
	assert.Equal(t, "/admin/employers/e-1", alert.LinkPath)
	assert.Equal(t, "rejected", alert.Fields["Previous status"])
	assert.Equal(t, []string{"employer.kyc_submitted"}, f.events.Topics())
	assert.Equal(t, int64(1), f.metrics.CountOf("kyc.submitted.count"))
}

func TestEmployerService_SubmitKYC_Invalid(t *testing.T) {
	f := newEmployerFixture(t)

	_, err := f.svc.SubmitKYC(context.Background(), "u-emp", model.KYCSubmission{
		AadhaarNumber: "123456789012",
		PANNumber:     "ABCDE1234F",
	})

	require.Error(t, err)
	assert.Equal(t, "aadhaar_number", apperrors.GetField(err))
	assert.Zero(t, f.alerts.Count())
	assert.Equal(t, "noop", f.metrics.LastTags("kyc.submitted.count")["result"])
}

func TestEmployerService_Review_DecryptsNumbers(t *testing.T) {
	f := newEmployerFixture(t)
	aadhaar, err := f.enc.Encrypt(kycFieldAadhaar, "234567789012")
	require.NoError(t, err)
	pan, err := f.enc.Encrypt(kycFieldPAN, "ABCDE1234F")
	require.NoError(t, err)

	f.employers.EXPECT().GetByID(gomock.Any(), "e-1").Return(&model.Employer{
		ID: "e-1", UserID: "u-emp", AadhaarEncrypted: &aadhaar, PANEncrypted: &pan,
	}, nil)
	f.users.EXPECT().GetByID(gomock.Any(), "u-emp").Return(&model.User{
		ID: "u-emp", Email: "hr@sunrise.in", FirstName: "Priya", LastName: "Nair",
	}, nil)

	review, err := f.svc.Review(context.Background(), "e-1")

	require.NoError(t, err)
	require.NotNil(t, review.AadhaarNumber)
	assert.Equal(t, "234567789012", *review.AadhaarNumber)
	assert.Equal(t, "ABCDE1234F", *review.PANNumber)
	assert.Equal(t, "Priya Nair", review.OwnerName)
}

func TestEmployerService_Review_NoKYCYet(t *testing.T) {
	f := newEmployerFixture(t)
	f.employers.EXPECT().GetByID(gomock.Any(), "e-2").Return(&model.Employer{ID: "e-2", UserID: "u-2"}, nil)
	f.users.EXPECT().GetByID(gomock.Any(), "u-2").Return(&model.User{ID: "u-2"}, nil)

	review, err := f.svc.Review(context.Background(), "e-2")

	require.NoError(t, err)
	assert.Nil(t, review.AadhaarNumber)
	assert.Nil(t, review.PANNumber)
}

func TestEmployerService_ApproveAndReject_LastCallWins(t *testing.T) {
	f := newEmployerFixture(t)
	ctx := context.Background()
	reason := "PAN does not match company"

	gomock.InOrder(
		f.employers.EXPECT().
			SetVerification(gomock.Any(), model.SetVerificationRequest{
				EmployerID: "e-1",
				Status:     model.VerificationApproved,
				ReviewerID: strPtr("admin-1"),
				ReviewedAt: employerNow,
			}).
			Return(&model.Employer{
				ID: "e-1", UserID: "u-emp", CompanyName: "Sunrise", VerificationStatus: model.VerificationApproved,
			}, nil),
		f.employers.EXPECT().
			SetVerification(gomock.Any(), model.SetVerificationRequest{
				EmployerID: "e-1",
				Status:     model.VerificationRejected,
				ReviewerID: strPtr("admin-2"),
				Reason:     &reason,
				ReviewedAt: employerNow,
			}).
			Return(&model.Employer{
				ID: "e-1", UserID: "u-emp", VerificationStatus: model.VerificationRejected, RejectionReason: &reason,
			}, nil),
	)

	var titles []string
	f.notifications.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Times(2).
		DoAndReturn(func(_ context.Context, req model.CreateNotificationRequest) (*model.Notification, error) {
			assert.Equal(t, "u-emp", req.UserID)
			assert.Equal(t, model.NotificationVerificationStatus, req.Type)
			titles = append(titles, req.Title)
			return &model.Notification{ID: "n"}, nil
		})

	approved, err := f.svc.Approve(ctx, "e-1", "admin-1")
	require.NoError(t, err)
	assert.True(t, approved.CanPostJobs())

	rejected, err := f.svc.Reject(ctx, "e-1", "admin-2", model.ReviewRequest{Reason: &reason})
	require.NoError(t, err)
	assert.False(t, rejected.CanPostJobs())

	assert.Equal(t, []string{"Your company is verified", "Verification rejected"}, titles)
	assert.Equal(t, []string{"employer.verification_changed", "employer.verification_changed"}, f.events.Topics())
}

func TestEmployerService_SetVerification_NotFound(t *testing.T) {
	f := newEmployerFixture(t)
	f.employers.EXPECT().SetVerification(gomock.Any(), gomock.Any()).Return(nil, data.ErrEmployerNotFound)

	_, err := f.svc.SetVerification(context.Background(), "missing", model.VerificationApproved, model.ReviewRequest{})

	assert.ErrorIs(t, err, data.ErrEmployerNotFound)
	assert.Empty(t, f.events.Topics())
	assert.Equal(t, "error", f.metrics.LastTags("kyc.reviewed.count")["result"])

	_, err = f.svc.SetVerification(context.Background(), "e-1", "maybe", model.ReviewRequest{})
	assert.True(t, apperrors.IsValidation(err))
}

func TestEmployerForUser_MissingProfileIsForbidden(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockEmployerRepository(ctrl)
	repo.EXPECT().GetByUserID(gomock.Any(), "u-x").Return(nil, data.ErrEmployerNotFound)

	_, err := employerForUser(context.Background(), repo, "u-x")

	assert.True(t, apperrors.IsForbidden(err))
	assert.Equal(t, "employer_required", apperrors.GetReason(err))
}
