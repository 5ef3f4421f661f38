package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/medexjob/medexjob-api/internal/adapters/filestore"
	"github.com/medexjob/medexjob-api/internal/data"
	domainauth "github.com/medexjob/medexjob-api/internal/domain/auth"
	"github.com/medexjob/medexjob-api/internal/domain/model"
	apperrors "github.com/medexjob/medexjob-api/internal/errors"
	"github.com/medexjob/medexjob-api/internal/mocks"
)

var (
	pdfBody = []byte("%PDF-1.4\n1 0 obj << /Type /Catalog >> endobj\ntrailer << /Root 1 0 R >>\n%%EOF\n")
	pngBody = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
)

type resumeRecorder struct {
	userID string
	ref    string
	text   *string
}

func (r *resumeRecorder) SetResume(_ context.Context, userID, ref string, text *string) error {
	r.userID, r.ref, r.text = userID, ref, text
	return nil
}

type stubExtractor struct {
	text string
	err  error
}

func (e stubExtractor) ExtractText(context.Context, string) (string, error) { return e.text, e.err }

type uploadFixture struct {
	svc     *UploadService
	repo    *mocks.MockUploadRepository
	dir     string
	resumes *resumeRecorder
}

func newUploadFixture(t *testing.T, extractor stubExtractor) *uploadFixture {
	t.Helper()
	dir := t.TempDir()
	store, err := filestore.NewLocal(dir)
	require.NoError(t, err)
	f := &uploadFixture{
		repo:    mocks.NewMockUploadRepository(gomock.NewController(t)),
		dir:     dir,
		resumes: &resumeRecorder{},
	}
	f.svc = NewUploadService(UploadServiceOptions{
		Repo:      f.repo,
		Store:     store,
		Resumes:   f.resumes,
		Extractor: extractor,
		FileURLs:  NewFileURLResolver("https://api.medexjob.com"),
		MaxBytes:  1 << 20,
		NewID:     func() string { return "0b8f1c1e-0000-4000-8000-000000000001" },
	})
	return f
}

func (f *uploadFixture) expectCreate(t *testing.T) {
	f.repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req model.CreateUploadRequest) (*model.Upload, error) {
			return &model.Upload{
				ID: req.ID, OwnerID: req.OwnerID, Kind: req.Kind, Path: req.Path,
				OriginalName: req.OriginalName, ContentType: req.ContentType, SizeBytes: req.SizeBytes,
			}, nil
		})
}

var candidateSession = domainauth.Session{UserID: "u-cand", Role: domainauth.RoleCandidate}

func TestUploadService_Upload_Resume(t *testing.T) {
	f := newUploadFixture(t, stubExtractor{text: "Registered nurse"})
	f.expectCreate(t)

	res, err := f.svc.Upload(context.Background(), candidateSession, UploadInput{
		Kind:         model.UploadResume,
		OriginalName: `C:\Users\anjali\My Resume.pdf`,
		Body:         bytes.NewReader(pdfBody),
	})

	require.NoError(t, err)
	id := "0b8f1c1e-0000-4000-8000-000000000001"
	assert.Equal(t, id, res.ID)
	assert.Equal(t, "/files/"+id, res.Path)
	assert.Equal(t, "https://api.medexjob.com/files/"+id, res.URL)

	stored, err := os.ReadFile(filepath.Join(f.dir, "resume", id+".pdf"))
	require.NoError(t, err)
	assert.Equal(t, pdfBody, stored)

	assert.Equal(t, "u-cand", f.resumes.userID)
	assert.Equal(t, "/files/"+id, f.resumes.ref)
	require.NotNil(t, f.resumes.text)
	assert.Equal(t, "Registered nurse", *f.resumes.text)
}

func TestUploadService_Upload_ResumeExtractionFailureKeepsUpload(t *testing.T) {
	f := newUploadFixture(t, stubExtractor{err: errors.New("malformed")})
	f.expectCreate(t)

	_, err := f.svc.Upload(context.Background(), candidateSession, UploadInput{
		Kind: model.UploadResume, Body: bytes.NewReader(pdfBody),
	})

	require.NoError(t, err)
	assert.Nil(t, f.resumes.text)
	assert.NotEmpty(t, f.resumes.ref)
}

func TestUploadService_Upload_Rejections(t *testing.T) {
	employer := domainauth.Session{UserID: "u-emp", Role: domainauth.RoleEmployer}
	tests := []struct {
		name      string
		sess      domainauth.Session
		kind      model.UploadKind
		body      []byte
		forbidden bool
	}{
		{name: "png resume", sess: candidateSession, kind: model.UploadResume, body: pngBody},
		{name: "pdf logo", sess: employer, kind: model.UploadLogo, body: pdfBody},
		{name: "text kyc", sess: employer, kind: model.UploadKYC, body: []byte("plain text, not a document")},
		{name: "empty file", sess: employer, kind: model.UploadKYC, body: nil},
		{name: "candidate uploading logo", sess: candidateSession, kind: model.UploadLogo, body: pngBody, forbidden: true},
		{name: "employer uploading resume", sess: employer, kind: model.UploadResume, body: pdfBody, forbidden: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newUploadFixture(t, stubExtractor{})

			_, err := f.svc.Upload(context.Background(), tt.sess, UploadInput{Kind: tt.kind, Body: bytes.NewReader(tt.body)})

			require.Error(t, err)
			if tt.forbidden {
				assert.True(t, apperrors.IsForbidden(err))
			} else {
				assert.Equal(t, "file", apperrors.GetField(err))
			}
		})
	}
}

func TestUploadService_Upload_TooLarge(t *testing.T) {
	f := newUploadFixture(t, stubExtractor{})
	body := append(append([]byte{}, pngBody...), bytes.Repeat([]byte{0}, 1<<20)...)

	_, err := f.svc.Upload(context.Background(), domainauth.Session{UserID: "u-emp", Role: domainauth.RoleEmployer},
		UploadInput{Kind: model.UploadLogo, Body: bytes.NewReader(body)})

	require.Error(t, err)
	assert.True(t, apperrors.IsTooLarge(err))
	assert.Equal(t, "file", apperrors.GetField(err))
	assert.Contains(t, err.Error(), "1 MiB")
	entries, readErr := os.ReadDir(filepath.Join(f.dir, "logo"))
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestUploadService_Open(t *testing.T) {
	f := newUploadFixture(t, stubExtractor{})
	require.NoError(t, os.MkdirAll(filepath.Join(f.dir, "kyc"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, "kyc", "k-1.pdf"), pdfBody, 0o600))
	up := &model.Upload{ID: "k-1", OwnerID: "u-emp", Kind: model.UploadKYC, Path: "kyc/k-1.pdf"}
	f.repo.EXPECT().GetByID(gomock.Any(), "k-1").Return(up, nil).Times(2)

	got, body, err := f.svc.Open(context.Background(), domainauth.Session{UserID: "u-admin", Role: domainauth.RoleAdmin}, "k-1")
	require.NoError(t, err)
	defer body.Close()
	content, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, pdfBody, content)
	assert.Equal(t, "k-1", got.ID)

	_, _, err = f.svc.Open(context.Background(), domainauth.Session{UserID: "u-other", Role: domainauth.RoleEmployer}, "k-1")
	assert.ErrorIs(t, err, data.ErrUploadNotFound)
}

func TestCanReadUpload(t *testing.T) {
	guest := domainauth.Session{Role: domainauth.RoleGuest}
	owner := domainauth.Session{UserID: "u-1", Role: domainauth.RoleCandidate}
	otherCandidate := domainauth.Session{UserID: "u-2", Role: domainauth.RoleCandidate}
	employer := domainauth.Session{UserID: "u-3", Role: domainauth.RoleEmployer}
	admin := domainauth.Session{UserID: "u-4", Role: domainauth.RoleAdmin}

	resume := &model.Upload{OwnerID: "u-1", Kind: model.UploadResume}
	kyc := &model.Upload{OwnerID: "u-1", Kind: model.UploadKYC}
	logo := &model.Upload{OwnerID: "u-1", Kind: model.UploadLogo}

	assert.True(t, CanReadUpload(guest, logo))
	assert.False(t, CanReadUpload(guest, resume))
	assert.True(t, CanReadUpload(owner, resume))
	assert.False(t, CanReadUpload(otherCandidate, resume))
	assert.True(t, CanReadUpload(employer, resume))
	assert.True(t, CanReadUpload(admin, resume))
	assert.True(t, CanReadUpload(owner, kyc))
	assert.False(t, CanReadUpload(employer, kyc))
	assert.True(t, CanReadUpload(admin, kyc))
}

func TestCleanOriginalName(t *testing.T) {
	assert.Equal(t, "cv.pdf", cleanOriginalName("../../etc/cv.pdf"))
	assert.Equal(t, "My Resume.pdf", cleanOriginalName(`C:\Users\x\My Resume.pdf`))
	assert.Equal(t, "", cleanOriginalName(""))
	assert.Len(t, []rune(cleanOriginalName(strings.Repeat("é", 300))), maxOriginalName)
}
