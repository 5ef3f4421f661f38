package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medexjob/medexjob-api/internal/domain/model"
)

func TestFileURLResolver_Resolve(t *testing.T) {
	r := NewFileURLResolver("https://cdn.medexjob.com/")

	tests := []struct {
		name string
		ref  string
		want string
	}{
		{name: "empty stays empty", ref: "", want: ""},
		{name: "blank stays empty", ref: "   ", want: ""},
		{name: "https unchanged", ref: "https://s3.example.com/a.pdf", want: "https://s3.example.com/a.pdf"},
		{name: "http unchanged", ref: "http://old.example.com/a.pdf", want: "http://old.example.com/a.pdf"},
		{name: "scheme is case-insensitive", ref: "HTTPS://X.example.com/a", want: "HTTPS://X.example.com/a"},
		{name: "leading slash", ref: "/files/abc", want: "https://cdn.medexjob.com/files/abc"},
		{name: "no leading slash", ref: "files/abc", want: "https://cdn.medexjob.com/files/abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.ref))
		})
	}
}

func TestFileURLResolver_EmptyBase(t *testing.T) {
	r := NewFileURLResolver("")
	assert.Equal(t, "/files/abc", r.Resolve("files/abc"))
	assert.Nil(t, r.ResolvePtr(nil))
}

func TestFileURLResolver_DTOsAreCopied(t *testing.T) {
	r := NewFileURLResolver("https://api.medexjob.com")
	logo := "/files/logo-1"
	e := &model.Employer{ID: "e1", LogoURL: &logo}

	got := r.employer(e)

	assert.Equal(t, "https://api.medexjob.com/files/logo-1", *got.LogoURL)
	assert.Equal(t, "/files/logo-1", *e.LogoURL, "input must not be mutated")
	assert.Nil(t, got.KYCDocumentURL)
	assert.Equal(t, "/files/u-9", FileRef("u-9"))
}

func TestFileURLResolver_Ref(t *testing.T) {
	r := NewFileURLResolver("https://api.medexjob.com")

	assert.Equal(t, "/files/abc", r.Ref("https://api.medexjob.com/files/abc"))
	assert.Equal(t, "/files/abc", r.Ref("/files/abc"))
	assert.Equal(t, "https://other.example.com/files/abc", r.Ref("https://other.example.com/files/abc"))
	assert.Equal(t, "https://api.medexjob.comfoo/x", r.Ref("https://api.medexjob.comfoo/x"))
	assert.Nil(t, r.RefPtr(nil))
}
