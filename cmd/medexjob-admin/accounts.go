package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/medexjob/medexjob-api/internal/adapters/password"
	"github.com/medexjob/medexjob-api/internal/bootstrap"
	"github.com/medexjob/medexjob-api/internal/data"
	domainauth "github.com/medexjob/medexjob-api/internal/domain/auth"
	"github.com/medexjob/medexjob-api/internal/domain/model"
	"github.com/medexjob/medexjob-api/internal/service"
)

const (
	defaultCommandTimeout = 30 * time.Second
	defaultPendingLimit   = 50
)

type createAdminOptions struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type setVerificationOptions struct {
	EmployerID string
	Status     model.VerificationStatus
	Reason     string
}

type listPendingOptions struct {
	Limit  int
	Offset int
	JSON   bool
}

func runCreateAdmin(cmdCtx *commandContext, args []string) error {
	opts, err := parseCreateAdminFlags(args)
	if err != nil {
		return err
	}

	hash, err := password.NewBcryptHasher(cmdCtx.Config.Auth.BcryptCost).Hash(opts.Password)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, defaultCommandTimeout, func(ctx context.Context, db *sql.DB) error {
		u, createErr := data.NewUserRepo(db).Create(ctx, &model.CreateUserRequest{
			Email:        opts.Email,
			PasswordHash: &hash,
			FirstName:    opts.FirstName,
			LastName:     opts.LastName,
			Role:         domainauth.RoleAdmin,
		})
		if errors.Is(createErr, data.ErrEmailExists) {
			return fmt.Errorf("an account for %s already exists", opts.Email)
		}
		if createErr != nil {
			return createErr
		}
		cmdCtx.Logger.InfoContext(ctx, "admin account created", "id", u.ID, "email", u.Email)
		return writef(os.Stdout, "Created admin %s (%s)\n", u.Email, u.ID)
	})
}

func parseCreateAdminFlags(args []string) (createAdminOptions, error) {
	fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts createAdminOptions
	fs.StringVar(&opts.Email, "email", "", "Admin email address (required)")
	fs.StringVar(&opts.Password, "password", "", "Initial password, 8 to 72 characters (required)")
	fs.StringVar(&opts.FirstName, "first-name", "", "First name (required)")
	fs.StringVar(&opts.LastName, "last-name", "", "Last name")

	if err := fs.Parse(args); err != nil {
		return createAdminOptions{}, err
	}

	email, err := model.NormalizeEmail(opts.Email)
	if err != nil {
		return createAdminOptions{}, fmt.Errorf("--email: %w", err)
	}
	opts.Email = email
	if err := model.ValidatePassword(opts.Password); err != nil {
		return createAdminOptions{}, fmt.Errorf("--password: %w", err)
	}
	opts.FirstName = strings.TrimSpace(opts.FirstName)
	opts.LastName = strings.TrimSpace(opts.LastName)
	if opts.FirstName == "" {
		return createAdminOptions{}, errors.New("--first-name is required")
	}
	return opts, nil
}

func runSetVerification(cmdCtx *commandContext, args []string) error {
	opts, err := parseSetVerificationFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, defaultCommandTimeout, func(ctx context.Context, db *sql.DB) error {
		req := model.ReviewRequest{}
		if opts.Reason != "" {
			req.Reason = &opts.Reason
		}
		e, setErr := newEmployerService(cmdCtx, db).SetVerification(ctx, opts.EmployerID, opts.Status, req)
		if setErr != nil {
			return setErr
		}
		return writef(os.Stdout, "Employer %s (%s) is now %s\n", e.CompanyName, e.ID, e.VerificationStatus)
	})
}

func parseSetVerificationFlags(args []string) (setVerificationOptions, error) {
	fs := flag.NewFlagSet("set-verification", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var (
		opts   setVerificationOptions
		status string
	)
	fs.StringVar(&opts.EmployerID, "employer-id", "", "Employer ID (required)")
	fs.StringVar(&status, "status", "", "New status: pending, approved or rejected (required)")
	fs.StringVar(&opts.Reason, "reason", "", "Reason shown to the employer")

	if err := fs.Parse(args); err != nil {
		return setVerificationOptions{}, err
	}

	opts.EmployerID = strings.TrimSpace(opts.EmployerID)
	if opts.EmployerID == "" {
		return setVerificationOptions{}, errors.New("--employer-id is required")
	}
	opts.Status = model.VerificationStatus(strings.ToLower(strings.TrimSpace(status)))
	if !opts.Status.Valid() {
		return setVerificationOptions{}, fmt.Errorf("--status must be pending, approved or rejected, got %q", status)
	}
	opts.Reason = strings.TrimSpace(opts.Reason)
	return opts, nil
}

func runListPending(cmdCtx *commandContext, args []string) error {
	opts, err := parseListPendingFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, defaultCommandTimeout, func(ctx context.Context, db *sql.DB) error {
		pending := model.VerificationPending
		employers, listErr := newEmployerService(cmdCtx, db).List(ctx, model.EmployersListOptions{
			ListOptions: model.ListOptions{
				Limit:  opts.Limit,
				Offset: opts.Offset,
				Sort:   "kyc_submitted_at",
				Dir:    "asc",
			},
			Status: &pending,
		})
		if listErr != nil {
			return listErr
		}
		if opts.JSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(employers)
		}
		return renderPendingTable(os.Stdout, employers)
	})
}

func parseListPendingFlags(args []string) (listPendingOptions, error) {
	fs := flag.NewFlagSet("list-pending", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := listPendingOptions{Limit: defaultPendingLimit}
	fs.IntVar(&opts.Limit, "limit", defaultPendingLimit, "Maximum employers to list")
	fs.IntVar(&opts.Offset, "offset", 0, "Number of employers to skip")
	fs.BoolVar(&opts.JSON, "json", false, "Print JSON instead of a table")

	if err := fs.Parse(args); err != nil {
		return listPendingOptions{}, err
	}
	if opts.Limit <= 0 {
		return listPendingOptions{}, errors.New("--limit must be greater than zero")
	}
	if opts.Offset < 0 {
		return listPendingOptions{}, errors.New("--offset cannot be negative")
	}
	return opts, nil
}

func renderPendingTable(w io.Writer, employers []*model.Employer) error {
	if len(employers) == 0 {
		return writeln(w, "No employers awaiting review.")
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writeln(tw, "ID\tCOMPANY\tKYC SUBMITTED\tAADHAAR\tPAN"); err != nil {
		return fmt.Errorf("write pending header row: %w", err)
	}
	for _, e := range employers {
		submitted := "-"
		if e.KYCSubmittedAt != nil {
			submitted = e.KYCSubmittedAt.UTC().Format(time.RFC3339)
		}
		if err := writef(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.CompanyName, submitted, orDash(e.AadhaarLast4), orDash(e.PANMasked),
		); err != nil {
			return fmt.Errorf("write pending row: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush pending table: %w", err)
	}
	return nil
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

// newEmployerService builds the moderation service without alert or event
// outputs; the employer still receives an in-app notification.
func newEmployerService(cmdCtx *commandContext, db *sql.DB) *service.EmployerService {
	return service.NewEmployerService(service.EmployerServiceOptions{
		Repos: service.EmployerRepos{
			Employers:     data.NewEmployerRepo(db),
			Users:         data.NewUserRepo(db),
			Notifications: data.NewNotificationRepo(db),
		},
		Settings: service.EmployerSettings{
			Encryptor: bootstrap.CreateEncryptor(cmdCtx.Config.KYCEncryptionKey, cmdCtx.Logger),
			FileURLs:  service.NewFileURLResolver(cmdCtx.Config.Files.PublicBaseURL),
			Logger:    cmdCtx.Logger,
		},
	})
}
