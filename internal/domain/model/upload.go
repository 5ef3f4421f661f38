package model

import (
	"strings"
	"time"
)

// UploadKind is the purpose of an uploaded file. It decides the
// allowed content types and who may download it.
type UploadKind string

const (
	UploadResume UploadKind = "resume"
	UploadKYC    UploadKind = "kyc"
	UploadLogo   UploadKind = "logo"
)

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
)

var uploadTypes = map[UploadKind]map[string]string{
	UploadResume: {ContentTypePDF: ".pdf"},
	UploadKYC:    {ContentTypePDF: ".pdf", ContentTypeJPEG: ".jpg", ContentTypePNG: ".png"},
	UploadLogo:   {ContentTypeJPEG: ".jpg", ContentTypePNG: ".png"},
}

// ParseUploadKind normalizes a kind string and reports whether it is supported.
func ParseUploadKind(value string) (UploadKind, bool) {
	k := UploadKind(strings.ToLower(strings.TrimSpace(value)))
	_, ok := uploadTypes[k]
	return k, ok
}

// Extension returns the file extension for contentType, and false when
// the type is not allowed for the kind.
func (k UploadKind) Extension(contentType string) (string, bool) {
	ext, ok := uploadTypes[k][contentType]
	return ext, ok
}

// IsPublic reports whether anyone may download files of this kind.
func (k UploadKind) IsPublic() bool {
	return k == UploadLogo
}

// Upload records a stored file. Path is relative to the files directory.
type Upload struct {
	ID           string     `json:"id"            db:"id"`
	OwnerID      string     `json:"owner_id"      db:"owner_id"`
	Kind         UploadKind `json:"kind"          db:"kind"`
	Path         string     `json:"path"          db:"path"`
	OriginalName string     `json:"original_name" db:"original_name"`
	ContentType  string     `json:"content_type"  db:"content_type"`
	SizeBytes    int64      `json:"size_bytes"    db:"size_bytes"`
	CreatedAt    time.Time  `json:"created_at"    db:"created_at"`
}

// CreateUploadRequest is the repository insert for an upload.
type CreateUploadRequest struct {
	ID           string
	OwnerID      string
	Kind         UploadKind
	Path         string
	OriginalName string
	ContentType  string
	SizeBytes    int64
}

// UploadResult is returned to the client after a successful upload.
type UploadResult struct {
	ID   string `json:"id"`
	Path string `json:"path"`
	URL  string `json:"url"`
}
