package httpx

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	domainauth "github.com/medexjob/medexjob-api/internal/domain/auth"
	"github.com/medexjob/medexjob-api/internal/domain/model"
	"github.com/medexjob/medexjob-api/internal/service"
)

// multipartOverhead is the slack allowed on top of the file size for
// multipart boundaries and part headers.
const multipartOverhead = 64 << 10

// UploadsService defines the file storage operations.
type UploadsService interface {
	Upload(ctx context.Context, sess domainauth.Session, in service.UploadInput) (*model.UploadResult, error)
	Open(ctx context.Context, sess domainauth.Session, id string) (*model.Upload, io.ReadSeekCloser, error)
	MaxBytes() int64
}

// UploadHandlers provides HTTP handlers for uploading and serving files.
type UploadHandlers struct {
	Svc UploadsService
}

// Upload stores the multipart "file" part.
// POST /api/uploads?kind=resume|kyc|logo.
func (h *UploadHandlers) Upload(w http.ResponseWriter, r *http.Request) {
	kind, ok := model.ParseUploadKind(r.URL.Query().Get("kind"))
	if !ok {
		writeBadRequest(w, "kind", "kind must be one of: resume, kyc, logo")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.Svc.MaxBytes()+multipartOverhead)
	mr, err := r.MultipartReader()
	if err != nil {
		writeBadRequest(w, "file", "request must be multipart/form-data")
		return
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			writeBadRequest(w, "file", "file is required")
			return
		}
		if err != nil {
			h.writeReadError(w, err)
			return
		}
		if part.FormName() != "file" {
			_ = part.Close()
			continue
		}

		res, err := h.Svc.Upload(r.Context(), sessionOf(r), service.UploadInput{
			Kind:         kind,
			OriginalName: part.FileName(),
			Body:         part,
		})
		_ = part.Close()
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				h.writeTooLarge(w)
				return
			}
			WriteAppError(w, "upload", err)
			return
		}
		WriteJSON(w, http.StatusCreated, res)
		return
	}
}

// Serve streams a stored file if the caller may read it.
// GET /files/{id}.
func (h *UploadHandlers) Serve(w http.ResponseWriter, r *http.Request) {
	up, body, err := h.Svc.Open(r.Context(), sessionOf(r), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, "open", err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", up.ContentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if up.OriginalName != "" {
		w.Header().Set("Content-Disposition",
			mime.FormatMediaType("inline", map[string]string{"filename": up.OriginalName}))
	}
	if up.Kind.IsPublic() {
		w.Header().Set("Cache-Control", "public, max-age=86400")
	} else {
		w.Header().Set("Cache-Control", "private, no-store")
	}
	http.ServeContent(w, r, "", up.CreatedAt, body)
}

func (h *UploadHandlers) writeReadError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		h.writeTooLarge(w)
		return
	}
	writeBadRequest(w, "file", "malformed multipart body")
}

func (h *UploadHandlers) writeTooLarge(w http.ResponseWriter) {
	WriteJSON(w, http.StatusRequestEntityTooLarge, errorBody{
		Error:   "file_too_large",
		Message: "file exceeds the " + strconv.FormatInt(h.Svc.MaxBytes()>>20, 10) + " MiB limit",
		Field:   "file",
	})
}
