package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/medexjob/medexjob-api/internal/core"
	"github.com/medexjob/medexjob-api/internal/data"
	domainauth "github.com/medexjob/medexjob-api/internal/domain/auth"
	"github.com/medexjob/medexjob-api/internal/domain/model"
	apperrors "github.com/medexjob/medexjob-api/internal/errors"
	"github.com/medexjob/medexjob-api/internal/ports"
)

// DefaultMaxUploadBytes caps a single upload at 5 MiB.
const DefaultMaxUploadBytes int64 = 5 << 20

const (
	sniffLen        = 512
	maxOriginalName = 255
)

// resumeSetter stores the resume reference and text on a candidate profile.
type resumeSetter interface {
	SetResume(ctx context.Context, userID, ref string, text *string) error
}

// UploadServiceOptions groups dependencies for UploadService.
type UploadServiceOptions struct {
	Repo      core.UploadRepository // Required
	Store     ports.FileStore       // Required
	Resumes   resumeSetter          // Optional: links resume uploads to the profile
	Extractor ports.TextExtractor   // Optional: resume text extraction
	FileURLs  FileURLResolver
	MaxBytes  int64
	NewID     func() string
	Logger    *slog.Logger
}

// UploadService stores uploaded files and enforces who may read them back.
type UploadService struct {
	repo      core.UploadRepository
	store     ports.FileStore
	resumes   resumeSetter
	extractor ports.TextExtractor
	urls      FileURLResolver
	maxBytes  int64
	newID     func() string
	logger    *slog.Logger
}

// NewUploadService constructs a new UploadService.
func NewUploadService(opts UploadServiceOptions) *UploadService {
	if opts.Repo == nil {
		panic("UploadRepository is required")
	}
	if opts.Store == nil {
		panic("FileStore is required")
	}
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	return &UploadService{
		repo:      opts.Repo,
		store:     opts.Store,
		resumes:   opts.Resumes,
		extractor: opts.Extractor,
		urls:      opts.FileURLs,
		maxBytes:  maxBytes,
		newID:     newID,
		logger:    componentLogger(opts.Logger, "upload_service"),
	}
}

// MaxBytes returns the configured upload size limit.
func (s *UploadService) MaxBytes() int64 { return s.maxBytes }

// UploadInput is one file posted by a user.
type UploadInput struct {
	Kind         model.UploadKind
	OriginalName string
	Body         io.Reader
}

// uploadRoles lists who may upload each kind. Admins may upload anything.
var uploadRoles = map[model.UploadKind]domainauth.Role{
	model.UploadResume: domainauth.RoleCandidate,
	model.UploadKYC:    domainauth.RoleEmployer,
	model.UploadLogo:   domainauth.RoleEmployer,
}

// Upload sniffs, stores and records a file. Resume uploads also become the
// candidate's profile resume, with their text extracted for search.
func (s *UploadService) Upload(
	ctx context.Context,
	sess domainauth.Session,
	in UploadInput,
) (*model.UploadResult, error) {
	if !sess.HasRole(uploadRoles[in.Kind]) {
		return nil, apperrors.Forbidden("you cannot upload files of kind " + string(in.Kind))
	}

	br := bufio.NewReaderSize(in.Body, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(head) == 0 {
		return nil, apperrors.ValidationField("file", "file is empty")
	}
	contentType := http.DetectContentType(head)
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	ext, ok := in.Kind.Extension(contentType)
	if !ok {
		return nil, apperrors.ValidationField("file",
			"file type "+contentType+" is not allowed for "+string(in.Kind)+" uploads")
	}

	id := s.newID()
	relPath := path.Join(string(in.Kind), id+ext)
	n, err := s.store.Save(ctx, relPath, io.LimitReader(br, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	if n > s.maxBytes {
		s.removeFile(ctx, relPath)
		return nil, apperrors.TooLarge("file",
			"file exceeds the "+strconv.FormatInt(s.maxBytes>>20, 10)+" MiB limit")
	}

	up, err := s.repo.Create(ctx, model.CreateUploadRequest{
		ID:           id,
		OwnerID:      sess.UserID,
		Kind:         in.Kind,
		Path:         relPath,
		OriginalName: cleanOriginalName(in.OriginalName),
		ContentType:  contentType,
		SizeBytes:    n,
	})
	if err != nil {
		s.removeFile(ctx, relPath)
		return nil, fmt.Errorf("record upload: %w", err)
	}
	s.logger.InfoContext(ctx, "file uploaded",
		"upload_id", up.ID,
		"kind", up.Kind,
		"size_bytes", up.SizeBytes,
		"owner_id", up.OwnerID,
	)

	ref := FileRef(up.ID)
	if up.Kind == model.UploadResume && sess.Role == domainauth.RoleCandidate {
		if err := s.attachResume(ctx, sess.UserID, ref, up.Path); err != nil {
			return nil, err
		}
	}
	return &model.UploadResult{ID: up.ID, Path: ref, URL: s.urls.Resolve(ref)}, nil
}

func (s *UploadService) attachResume(ctx context.Context, userID, ref, relPath string) error {
	if s.resumes == nil {
		return nil
	}
	var text *string
	if s.extractor != nil {
		extracted, err := s.extractor.ExtractText(ctx, relPath)
		if err != nil {
			s.logger.WarnContext(ctx, "resume text extraction failed", "path", relPath, "error", err)
		} else {
			text = &extracted
		}
	}
	if err := s.resumes.SetResume(ctx, userID, ref, text); err != nil {
		return fmt.Errorf("attach resume: %w", err)
	}
	return nil
}

// Open returns an upload and its body if sess may read it. Logos are
// public; resumes are readable by the owner, employers and admins; KYC
// documents only by the owner and admins. Denied files are reported as
// not found.
func (s *UploadService) Open(
	ctx context.Context,
	sess domainauth.Session,
	id string,
) (*model.Upload, io.ReadSeekCloser, error) {
	up, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("get upload: %w", err)
	}
	if !CanReadUpload(sess, up) {
		return nil, nil, data.ErrUploadNotFound
	}
	body, err := s.store.Open(ctx, up.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open upload: %w", err)
	}
	return up, body, nil
}

// CanReadUpload applies the download rules for each upload kind.
func CanReadUpload(sess domainauth.Session, up *model.Upload) bool {
	switch {
	case up.Kind.IsPublic():
		return true
	case sess.UserID == "":
		return false
	case sess.UserID == up.OwnerID, sess.IsAdmin():
		return true
	case up.Kind == model.UploadResume:
		return sess.Role == domainauth.RoleEmployer
	default:
		return false
	}
}

func (s *UploadService) removeFile(ctx context.Context, relPath string) {
	if err := s.store.Remove(ctx, relPath); err != nil {
		s.logger.WarnContext(ctx, "remove file failed", "path", relPath, "error", err)
	}
}

func cleanOriginalName(name string) string {
	name = strings.TrimSpace(path.Base(strings.ReplaceAll(name, "\\", "/")))
	if name == "." || name == "/" {
		return ""
	}
	if r := []rune(name); len(r) > maxOriginalName {
		name = string(r[:maxOriginalName])
	}
	return name
}
