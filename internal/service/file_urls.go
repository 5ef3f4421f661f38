package service

import (
	"strings"

	"github.com/medexjob/medexjob-api/internal/domain/model"
)

// FileURLResolver turns stored file references into absolute URLs.
//
//   - "" stays "".
//   - http:// and https:// URLs are returned unchanged.
//   - Anything else is joined onto the public base URL, with or without a leading "/".
type FileURLResolver struct {
	base string
}

// NewFileURLResolver creates a resolver. An empty base leaves relative references untouched.
func NewFileURLResolver(publicBaseURL string) FileURLResolver {
	return FileURLResolver{base: strings.TrimRight(strings.TrimSpace(publicBaseURL), "/")}
}

// Resolve returns the absolute URL for ref.
func (r FileURLResolver) Resolve(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	lower := strings.ToLower(ref)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return ref
	}
	if !strings.HasPrefix(ref, "/") {
		ref = "/" + ref
	}
	return r.base + ref
}

// ResolvePtr resolves *p, keeping nil as nil.
func (r FileURLResolver) ResolvePtr(p *string) *string {
	if p == nil {
		return nil
	}
	out := r.Resolve(*p)
	return &out
}

// Ref strips the public base URL from a previously resolved URL so the
// stored value stays relative. Foreign URLs are returned unchanged.
func (r FileURLResolver) Ref(u string) string {
	u = strings.TrimSpace(u)
	if r.base != "" && strings.HasPrefix(u, r.base+"/") {
		return strings.TrimPrefix(u, r.base)
	}
	return u
}

// RefPtr applies Ref to *p, keeping nil as nil.
func (r FileURLResolver) RefPtr(p *string) *string {
	if p == nil {
		return nil
	}
	out := r.Ref(*p)
	return &out
}

// FileRef is the stored reference for an upload, served by GET /files/{id}.
func FileRef(uploadID string) string {
	return "/files/" + uploadID
}

func (r FileURLResolver) employer(e *model.Employer) *model.Employer {
	if e == nil {
		return nil
	}
	out := *e
	out.LogoURL = r.ResolvePtr(e.LogoURL)
	out.KYCDocumentURL = r.ResolvePtr(e.KYCDocumentURL)
	return &out
}

func (r FileURLResolver) employers(in []*model.Employer) []*model.Employer {
	out := make([]*model.Employer, 0, len(in))
	for _, e := range in {
		out = append(out, r.employer(e))
	}
	return out
}

func (r FileURLResolver) candidate(p *model.CandidateProfile) *model.CandidateProfile {
	if p == nil {
		return nil
	}
	out := *p
	out.ResumeURL = r.ResolvePtr(p.ResumeURL)
	return &out
}

func (r FileURLResolver) application(a *model.Application) *model.Application {
	if a == nil {
		return nil
	}
	out := *a
	out.ResumeURL = r.ResolvePtr(a.ResumeURL)
	return &out
}

func (r FileURLResolver) applications(in []*model.Application) []*model.Application {
	out := make([]*model.Application, 0, len(in))
	for _, a := range in {
		out = append(out, r.application(a))
	}
	return out
}
