package data

import apperrors "github.com/medexjob/medexjob-api/internal/errors"

// Shared sentinel errors for data-layer repositories. They are AppErrors so the
// HTTP layer can map them directly; compare with errors.Is.
var (
	ErrUserNotFound = apperrors.NotFound("user not found").WithReason("user_not_found")
	ErrEmailExists  = apperrors.Conflict("an account with this email already exists").WithReason("email_taken")

	ErrEmployerNotFound = apperrors.NotFound("employer not found").WithReason("employer_not_found")
	ErrEmployerExists   = apperrors.Conflict("employer profile already exists").WithReason("employer_exists")

	ErrJobNotFound = apperrors.NotFound("job not found").WithReason("job_not_found")

	ErrApplicationNotFound       = apperrors.NotFound("application not found").WithReason("application_not_found")
	ErrApplicationExists         = apperrors.Conflict("you have already applied to this job").WithReason("already_applied")
	ErrApplicationStatusConflict = apperrors.Conflict("application status changed concurrently").
					WithReason("status_conflict")

	ErrNotificationNotFound = apperrors.NotFound("notification not found").WithReason("notification_not_found")

	ErrJobAlertNotFound = apperrors.NotFound("job alert not found").WithReason("job_alert_not_found")

	ErrPlanNotFound   = apperrors.NotFound("subscription plan not found").WithReason("plan_not_found")
	ErrPlanCodeExists = apperrors.Conflict("plan code already exists").WithReason("plan_code_taken")
	ErrPlanInUse      = apperrors.ForeignKey("plan has subscribed employers").WithReason("plan_in_use")

	ErrUploadNotFound = apperrors.NotFound("file not found").WithReason("file_not_found")
)
