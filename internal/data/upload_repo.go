package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/medexjob/medexjob-api/internal/domain/model"
)

// UploadRepo records stored files.
type UploadRepo struct {
	DB *sql.DB
}

// NewUploadRepo creates a new UploadRepo.
func NewUploadRepo(db *sql.DB) *UploadRepo {
	return &UploadRepo{DB: db}
}

const uploadColumns = `id, owner_id, kind, path, original_name, content_type, size_bytes, created_at`

// Create inserts an upload record.
func (r *UploadRepo) Create(ctx context.Context, req model.CreateUploadRequest) (*model.Upload, error) {
	u, err := queryOne[model.Upload](ctx, r.DB, `
		INSERT INTO uploads (id, owner_id, kind, path, original_name, content_type, size_bytes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+uploadColumns,
		req.ID, req.OwnerID, string(req.Kind), req.Path, req.OriginalName, req.ContentType, req.SizeBytes)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to record upload: %w", err)
	}
	return u, nil
}

// GetByID retrieves an upload by ID.
func (r *UploadRepo) GetByID(ctx context.Context, id string) (*model.Upload, error) {
	u, err := queryOne[model.Upload](ctx, r.DB, `SELECT `+uploadColumns+` FROM uploads WHERE id = $1`, id)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrUploadNotFound
		}
		return nil, fmt.Errorf("failed to get upload: %w", err)
	}
	return u, nil
}

// ListOrphaned returns uploads older than the cutoff that no profile, employer
// or application references. References end in "/files/<id>".
func (r *UploadRepo) ListOrphaned(ctx context.Context, before time.Time, limit int) ([]*model.Upload, error) {
	out, err := queryAll[model.Upload](ctx, r.DB, `
		SELECT `+uploadColumns+`
		FROM uploads u
		WHERE u.created_at < $1
		  AND NOT EXISTS (SELECT 1 FROM candidate_profiles c WHERE c.resume_url LIKE '%/files/' || u.id::text)
		  AND NOT EXISTS (SELECT 1 FROM applications a WHERE a.resume_url LIKE '%/files/' || u.id::text)
		  AND NOT EXISTS (
			SELECT 1 FROM employers e
			WHERE e.logo_url LIKE '%/files/' || u.id::text OR e.kyc_document_url LIKE '%/files/' || u.id::text
		  )
		ORDER BY u.created_at
		LIMIT $2`, before.UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list orphaned uploads: %w", err)
	}
	return out, nil
}

// Delete deletes an upload record.
func (r *UploadRepo) Delete(ctx context.Context, id string) (bool, error) {
	n, err := execAffected(ctx, r.DB, `DELETE FROM uploads WHERE id = $1`, id)
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete upload: %w", err)
	}
	return n > 0, nil
}
