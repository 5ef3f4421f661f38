package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/medexjob/medexjob-api/internal/data/database"
	"github.com/medexjob/medexjob-api/internal/data/pgxutil"
	domainauth "github.com/medexjob/medexjob-api/internal/domain/auth"
	"github.com/medexjob/medexjob-api/internal/domain/model"
)

// UserRepo provides database operations for user accounts.
type UserRepo struct {
	DB    *sql.DB
	clock Clock
}

// NewUserRepo creates a new UserRepo on the system clock.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db, clock: systemClock{}}
}

var (
	userColumnList = []string{
		"id", "email", "password_hash", "first_name", "last_name", "phone", "role", "is_active",
		"last_login_at", "created_at", "updated_at",
	}
	userColumns = strings.Join(userColumnList, ", ")
)

// Create inserts a user. For employers with a company name the employer row is
// created in the same transaction.
func (r *UserRepo) Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	if req == nil {
		return nil, errors.New("create user request is required")
	}
	var out model.User
	err := pgxutil.Tx(ctx, r.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			INSERT INTO users (email, password_hash, first_name, last_name, phone, role, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
			RETURNING `+userColumns,
			strings.ToLower(strings.TrimSpace(req.Email)),
			req.PasswordHash,
			req.FirstName,
			req.LastName,
			req.Phone,
			req.Role,
			r.clock.Now().UTC(),
		)
		if err != nil {
			return err
		}
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		if err != nil {
			return err
		}
		if req.Role != domainauth.RoleEmployer || req.CompanyName == nil {
			return nil
		}
		_, err = tx.Exec(ctx, `INSERT INTO employers (user_id, company_name) VALUES ($1, $2)`,
			out.ID, strings.TrimSpace(*req.CompanyName))
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getBy(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail retrieves a user by email (case-insensitive).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getBy(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)))
}

func (r *UserRepo) getBy(ctx context.Context, q string, arg any) (*model.User, error) {
	u, err := queryOne[model.User](ctx, r.DB, q, arg)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// List retrieves users with optional filters and sorting.
func (r *UserRepo) List(ctx context.Context, opts model.UsersListOptions) ([]*model.User, error) {
	limit, offset := pageBounds(opts.Limit, opts.Offset)
	sortCol, sortDir := validateSort(opts.Sort, opts.Dir, map[string]string{
		"created_at":    "created_at",
		"email":         "email",
		"last_login_at": "last_login_at",
	}, "created_at", sortDirDesc)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(userColumnList...),
		database.WithLimit(limit),
		database.WithOffset(offset),
		database.WithOrderBy(sortCol, sortDir),
	}
	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		queryOpts = append(queryOpts, database.WithCondition(database.WhereRawCond(
			`(email ILIKE $1 OR first_name ILIKE $1 OR last_name ILIKE $1)`, likePattern(*opts.Q))))
	}
	if opts.Role != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("role", database.Equal, string(*opts.Role))))
	}
	if opts.IsActive != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("is_active", database.Equal, *opts.IsActive)))
	}

	query, args := database.BuildListQuery(database.NewListQueryOptions("users", queryOpts...))
	out, err := queryAll[model.User](ctx, r.DB, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return out, nil
}

// Update applies the admin moderation patch.
func (r *UserRepo) Update(ctx context.Context, id string, req model.UpdateUserRequest) (*model.User, error) {
	var b setBuilder
	if req.IsActive != nil {
		b.add("is_active", *req.IsActive)
	}
	if req.Role != nil {
		b.add("role", string(*req.Role))
	}
	return r.applySet(ctx, id, &b)
}

// UpdateProfile applies the user's own name/phone edit.
func (r *UserRepo) UpdateProfile(ctx context.Context, id string, req model.UpdateProfileRequest) (*model.User, error) {
	var b setBuilder
	if req.FirstName != nil {
		b.add("first_name", *req.FirstName)
	}
	if req.LastName != nil {
		b.add("last_name", *req.LastName)
	}
	if req.Phone != nil {
		b.add("phone", nullIfBlank(req.Phone))
	}
	return r.applySet(ctx, id, &b)
}

func (r *UserRepo) applySet(ctx context.Context, id string, b *setBuilder) (*model.User, error) {
	if b.empty() {
		return r.GetByID(ctx, id)
	}
	set, idArg, args := b.build(id)
	u, err := queryOne[model.User](ctx, r.DB,
		`UPDATE users SET `+set+` WHERE id = `+idArg+` RETURNING `+userColumns, args...)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return u, nil
}

// SetPasswordHash replaces the stored password hash.
func (r *UserRepo) SetPasswordHash(ctx context.Context, id, hash string) error {
	n, err := execAffected(ctx, r.DB, `UPDATE users SET password_hash = $1 WHERE id = $2`, hash, id)
	if err != nil {
		if isNoRows(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to set password: %w", err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// TouchLogin records the last successful login time.
func (r *UserRepo) TouchLogin(ctx context.Context, id string, at time.Time) error {
	if _, err := execAffected(ctx, r.DB, `UPDATE users SET last_login_at = $1 WHERE id = $2`, at.UTC(), id); err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	return nil
}

// Delete deletes a user by ID. Employer, jobs, applications, notifications and
// saved jobs go with it through ON DELETE CASCADE.
func (r *UserRepo) Delete(ctx context.Context, id string) (bool, error) {
	n, err := execAffected(ctx, r.DB, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	return n > 0, nil
}
